package symspell

import (
	"strings"

	"github.com/indirizzi-api/internal/capdata"
)

// CitySpeller suggests the closest known comune for a misspelt city
type CitySpeller struct {
	symspell    *SymSpell
	maxDistance int
}

// NewCitySpeller builds the comune dictionary from table
func NewCitySpeller(table *capdata.Table, config *Config) *CitySpeller {
	if config == nil {
		config = DefaultConfig()
	}
	return &CitySpeller{
		symspell:    BuildFromTable(table, config),
		maxDistance: config.MaxEditDistance,
	}
}

// Suggest returns the dictionary spelling closest to city. It returns false
// when nothing is within range or when city already is that spelling.
func (c *CitySpeller) Suggest(city string) (string, bool) {
	if c == nil || c.symspell == nil {
		return "", false
	}

	best := c.symspell.LookupBest(city, c.maxDistance)
	if best == nil {
		return "", false
	}
	if strings.EqualFold(best.Term, strings.TrimSpace(city)) {
		return "", false
	}
	return best.Term, true
}

// Stats exposes the underlying dictionary size
func (c *CitySpeller) Stats() DictionaryStats {
	return c.symspell.Stats()
}
