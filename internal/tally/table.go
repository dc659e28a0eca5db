package tally

import (
	"iter"
	"sort"
)

// Entry is one row of a report.
type Entry struct {
	Key   string
	Count int
}

// Table counts group keys. It remembers the order in which keys were first
// seen so that equal counts always report in input order.
type Table struct {
	Title string
	Limit int

	order  []string
	counts map[string]int
}

// NewTable returns an empty table.
func NewTable(title string, limit int) *Table {
	return &Table{
		Title:  title,
		Limit:  limit,
		counts: make(map[string]int),
	}
}

// Add increments the count for key.
func (t *Table) Add(key string) {
	if _, seen := t.counts[key]; !seen {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

// Count returns the count for key, 0 if it was never added.
func (t *Table) Count(key string) int {
	return t.counts[key]
}

// Len returns the number of distinct keys.
func (t *Table) Len() int {
	return len(t.order)
}

// Total returns the sum of all counts.
func (t *Table) Total() int {
	total := 0
	for _, c := range t.counts {
		total += c
	}
	return total
}

// Entries returns the table sorted by count descending, ties in
// first-seen order, truncated to limit when limit > 0.
func (t *Table) Entries(limit int) []Entry {
	entries := make([]Entry, 0, len(t.order))
	for _, key := range t.order {
		entries = append(entries, Entry{Key: key, Count: t.counts[key]})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Report yields the table's entries in report order, honoring its Limit.
// Sorting happens on the first pull, not when Report is called.
func Report(t *Table) iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		for _, e := range t.Entries(t.Limit) {
			if !yield(e.Key, e.Count) {
				return
			}
		}
	}
}
