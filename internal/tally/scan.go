package tally

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// maxLineSize bounds a single log line. tsc prints full type names on one
// line, which can exceed bufio's default limit.
const maxLineSize = 1 << 20

// PathFilter reports whether a diagnostic path should be left out.
type PathFilter func(path string) bool

// Option configures a scan.
type Option func(*scanner)

// WithLogger sets the logger used for scan statistics.
func WithLogger(l zerolog.Logger) Option {
	return func(s *scanner) {
		s.log = l
	}
}

// WithPathFilter drops matching lines whose path the filter reports as
// ignored. Dropped lines count as skipped, not matched.
func WithPathFilter(f PathFilter) Option {
	return func(s *scanner) {
		s.ignore = f
	}
}

type scanner struct {
	log    zerolog.Logger
	ignore PathFilter
}

// Result is the outcome of one scan. Tables line up with Mode.Tables.
type Result struct {
	Mode    Mode
	Tables  []*Table
	Lines   int // lines read
	Matched int // lines that matched the pattern and were not ignored
	Skipped int // matching lines dropped by the path filter
}

// ScanFile opens path and scans it with mode.
func ScanFile(path string, mode Mode, opts ...Option) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer f.Close()

	res, err := Scan(f, mode, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// Scan reads r to the end, counting every line that matches mode.Pattern
// into the mode's tables.
func Scan(r io.Reader, mode Mode, opts ...Option) (*Result, error) {
	s := scanner{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&s)
	}

	res := &Result{Mode: mode}
	for _, spec := range mode.Tables {
		res.Tables = append(res.Tables, NewTable(spec.Title, spec.Limit))
	}

	pathIdx := mode.Pattern.SubexpIndex("path")
	codeIdx := mode.Pattern.SubexpIndex("code")

	lines := bufio.NewScanner(r)
	lines.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for lines.Scan() {
		res.Lines++

		m := mode.Pattern.FindStringSubmatch(lines.Text())
		if m == nil {
			continue
		}

		rec := Record{Path: m[pathIdx]}
		if codeIdx >= 0 {
			rec.Code = m[codeIdx]
		}
		if s.ignore != nil && s.ignore(rec.Path) {
			res.Skipped++
			continue
		}
		res.Matched++

		for i, spec := range mode.Tables {
			if key, ok := spec.Project(rec); ok {
				res.Tables[i].Add(key)
			}
		}
	}
	if err := lines.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	s.log.Debug().
		Str("mode", mode.Name).
		Int("lines", res.Lines).
		Int("matched", res.Matched).
		Int("skipped", res.Skipped).
		Msg("scan complete")

	return res, nil
}
