// Package capdata holds the CAP to comune lookup table. A Table is built once
// at startup from CSV or Postgres and never mutated afterwards, so it is safe
// for any number of concurrent readers.
package capdata

import "strings"

// Pair is a single (cap, comune) row as found in the source data
type Pair struct {
	CAP    string
	Comune string
}

// Table maps a CAP to the lowercase comuni it serves. Iteration follows the
// order in which each CAP was first seen in the source.
type Table struct {
	order  []string
	comuni map[string][]string
}

func newTable() *Table {
	return &Table{comuni: make(map[string][]string)}
}

// FromPairs builds a table from in-memory rows, applying the same trimming
// and lowercasing as the CSV and Postgres loaders.
func FromPairs(pairs ...Pair) *Table {
	t := newTable()
	for _, p := range pairs {
		t.add(p.CAP, p.Comune)
	}
	return t
}

// Empty returns a table with no entries
func Empty() *Table {
	return newTable()
}

func (t *Table) add(code, comune string) {
	code = strings.TrimSpace(code)
	comune = strings.ToLower(strings.TrimSpace(comune))
	if code == "" || comune == "" {
		return
	}
	if _, seen := t.comuni[code]; !seen {
		t.order = append(t.order, code)
	}
	t.comuni[code] = append(t.comuni[code], comune)
}

// CitiesFor returns the comuni registered for code, or nil
func (t *Table) CitiesFor(code string) []string {
	list := t.comuni[code]
	if len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Has reports whether comune (already lowercase) is listed under code
func (t *Table) Has(code, comune string) bool {
	for _, c := range t.comuni[code] {
		if c == comune {
			return true
		}
	}
	return false
}

// Each calls fn for every CAP in insertion order until fn returns false
func (t *Table) Each(fn func(code string, comuni []string) bool) {
	for _, code := range t.order {
		if !fn(code, t.comuni[code]) {
			return
		}
	}
}

// Comuni returns every distinct comune in first-seen order
func (t *Table) Comuni() []string {
	seen := make(map[string]bool)
	var out []string
	t.Each(func(_ string, comuni []string) bool {
		for _, c := range comuni {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
		return true
	})
	return out
}

// Len is the number of distinct CAPs
func (t *Table) Len() int {
	return len(t.order)
}
