// Package validation cross-checks parsed address fields against the CAP
// lookup table.
package validation

import (
	"strings"

	"github.com/indirizzi-api/internal/capdata"
)

// PostcodeValidator checks CAP and comune consistency
type PostcodeValidator struct {
	table *capdata.Table
}

// NewPostcodeValidator wraps table. A nil table behaves as an empty one.
func NewPostcodeValidator(table *capdata.Table) *PostcodeValidator {
	if table == nil {
		table = capdata.Empty()
	}
	return &PostcodeValidator{table: table}
}

// Matches reports whether city is listed under postcode. Comparison is on the
// trimmed postcode and the trimmed, lowercased city. Empty inputs never match.
func (v *PostcodeValidator) Matches(postcode, city string) bool {
	postcode = strings.TrimSpace(postcode)
	city = normalizeCity(city)
	if postcode == "" || city == "" {
		return false
	}
	return v.table.Has(postcode, city)
}

// Suggest returns the first postcode, in table order, whose comuni include
// city. The result depends on the order rows were loaded in.
func (v *PostcodeValidator) Suggest(city string) (string, bool) {
	city = normalizeCity(city)
	if city == "" {
		return "", false
	}

	var found string
	v.table.Each(func(code string, comuni []string) bool {
		for _, c := range comuni {
			if c == city {
				found = code
				return false
			}
		}
		return true
	})
	return found, found != ""
}

// KnownCity reports whether city appears under any postcode
func (v *PostcodeValidator) KnownCity(city string) bool {
	_, ok := v.Suggest(city)
	return ok
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
