package tally

import (
	"fmt"
	"regexp"
	"strings"
)

// RootBucket is the key used by the browser mode for files sitting directly
// in the browser root.
const RootBucket = "(root)"

// DefaultTopN caps the by-file report.
const DefaultTopN = 10

// Record holds the fields extracted from one matching diagnostic line.
type Record struct {
	Path string
	Code string // empty for modes whose pattern has no code group
}

// Projection maps a record to a group key. ok is false when the record
// has no key for this table (e.g. its path is too shallow).
type Projection func(r Record) (key string, ok bool)

// TableSpec describes one frequency table filled during a scan.
type TableSpec struct {
	Title   string
	Project Projection
	Limit   int // 0 means no cap
}

// Mode is one grouping strategy: the pattern lines must match and the
// tables their records are counted into.
type Mode struct {
	Name    string
	Pattern *regexp.Regexp
	Tables  []TableSpec
}

// ByErrorCode groups diagnostics under root by TS error code and by the
// first path segment after root.
func ByErrorCode(root string) (Mode, error) {
	root, depth, err := normalizeRoot(root)
	if err != nil {
		return Mode{}, err
	}
	return Mode{
		Name:    "codes",
		Pattern: diagnosticPattern(root),
		Tables: []TableSpec{
			{Title: "Errors by Code", Project: codeKey},
			{Title: "Errors by Subdirectory", Project: segmentAt(depth)},
		},
	}, nil
}

// ByBrowserSubdir groups diagnostics under root by the subdirectory right
// below it. Files directly inside root go to RootBucket.
func ByBrowserSubdir(root string) (Mode, error) {
	root, depth, err := normalizeRoot(root)
	if err != nil {
		return Mode{}, err
	}
	return Mode{
		Name:    "browser",
		Pattern: diagnosticPattern(root),
		Tables: []TableSpec{
			{Title: "Errors by Browser Subdirectory", Project: subdirOrRoot(depth)},
		},
	}, nil
}

// ByFile ranks the files under root with the most diagnostics, keeping the
// first limit entries.
func ByFile(root string, limit int) (Mode, error) {
	root, _, err := normalizeRoot(root)
	if err != nil {
		return Mode{}, err
	}
	if limit < 0 {
		return Mode{}, fmt.Errorf("%w: negative top-N %d", ErrInvalidMode, limit)
	}
	return Mode{
		Name:    "files",
		Pattern: regexp.MustCompile(`^(?P<path>` + regexp.QuoteMeta(root) + `/` + pathClass + `)\(\d+,\d+\): error`),
		Tables: []TableSpec{
			{Title: "Most Error-Prone Files", Project: pathKey, Limit: limit},
		},
	}, nil
}

// ModeNamed builds one of the built-in modes by name.
func ModeNamed(name, root, browserRoot string, top int) (Mode, error) {
	switch name {
	case "codes":
		return ByErrorCode(root)
	case "browser":
		return ByBrowserSubdir(browserRoot)
	case "files":
		return ByFile(root, top)
	}
	return Mode{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidMode, name)
}

// pathClass matches the rest of a diagnostic path after the root, spaces
// included. All modes share it.
const pathClass = `[^(:]*`

func diagnosticPattern(root string) *regexp.Regexp {
	return regexp.MustCompile(`^(?P<path>` + regexp.QuoteMeta(root) + `/` + pathClass + `)(?:\(\d+,\d+\))?: error (?P<code>TS\d+):`)
}

// normalizeRoot trims slashes and returns the root with its segment count.
func normalizeRoot(root string) (string, int, error) {
	root = strings.Trim(strings.TrimSpace(root), "/")
	if root == "" {
		return "", 0, fmt.Errorf("%w: empty root prefix", ErrInvalidMode)
	}
	return root, len(strings.Split(root, "/")), nil
}

func codeKey(r Record) (string, bool) {
	return r.Code, r.Code != ""
}

func pathKey(r Record) (string, bool) {
	return r.Path, true
}

// segmentAt keys a record by the path segment at index i.
func segmentAt(i int) Projection {
	return func(r Record) (string, bool) {
		parts := strings.Split(r.Path, "/")
		if len(parts) <= i {
			return "", false
		}
		return parts[i], true
	}
}

// subdirOrRoot keys a record by the segment at index i when the path goes
// deeper than a file directly in the root, and by RootBucket when it doesn't.
func subdirOrRoot(i int) Projection {
	return func(r Record) (string, bool) {
		parts := strings.Split(r.Path, "/")
		switch {
		case len(parts) == i+1:
			return RootBucket, true
		case len(parts) > i+1:
			return parts[i], true
		}
		return "", false
	}
}
