package tally

import (
	"fmt"
	"io"
	"strings"
)

// Render writes every table in res as a labeled section:
//
//	--- <Title> ---
//	<key>: <count>
//
// Sections are separated by a blank line.
func Render(w io.Writer, res *Result) error {
	var b strings.Builder
	for i, t := range res.Tables {
		if i > 0 {
			b.WriteString("\n")
		}
		writeSection(&b, t)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderSummary writes the scan statistics section.
func RenderSummary(w io.Writer, res *Result) error {
	var b strings.Builder
	b.WriteString("\n--- Summary ---\n")
	b.WriteString(fmt.Sprintf("Lines scanned: %d\n", res.Lines))
	b.WriteString(fmt.Sprintf("Lines matched: %d\n", res.Matched))
	if res.Skipped > 0 {
		b.WriteString(fmt.Sprintf("Lines ignored: %d\n", res.Skipped))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeSection(b *strings.Builder, t *Table) {
	b.WriteString(fmt.Sprintf("--- %s ---\n", t.Title))
	for key, count := range Report(t) {
		b.WriteString(fmt.Sprintf("%s: %d\n", key, count))
	}
}
