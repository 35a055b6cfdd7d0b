package symspell

import (
	"github.com/indirizzi-api/internal/capdata"
)

// BuildFromTable indexes every comune in table. A comune's frequency is the
// number of CAPs it appears under, so large cities win ties.
func BuildFromTable(table *capdata.Table, config *Config) *SymSpell {
	counts := make(map[string]int64)
	table.Each(func(_ string, comuni []string) bool {
		for _, c := range comuni {
			counts[c]++
		}
		return true
	})

	s := New(config)
	for _, c := range table.Comuni() {
		s.AddTerm(c, counts[c])
	}
	return s
}
