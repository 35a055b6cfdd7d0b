package parser

import (
	"regexp"
	"strings"
)

var (
	rePostcode    = regexp.MustCompile(`\b(\d{5})\b`)
	reProvince    = regexp.MustCompile(`\b([A-Za-z]{2})\b`)
	reHouseNumber = regexp.MustCompile(`(\d+[A-Za-z/]?(-\d+)?)$`)
)

// Fallback is the regex parser used when libpostal cannot be
type Fallback struct{}

// NewFallback creates the regex parser
func NewFallback() *Fallback {
	return &Fallback{}
}

// Parse extracts postcode, province, city, street and house number.
//
// The postcode is any standalone five digit token. The remaining text is
// split on commas: the last segment holds the city and an optional two
// letter province code, the first holds the street with a trailing house
// number. Parse never returns an error.
func (f *Fallback) Parse(address string) (Components, error) {
	out := Components{}
	s := strings.TrimSpace(address)

	if m := rePostcode.FindStringSubmatch(s); m != nil {
		out[LabelPostcode] = m[1]
		s = strings.ReplaceAll(s, m[1], "")
	}

	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return out, nil
	}

	city, province := splitCityProvince(parts[len(parts)-1])
	if province != "" {
		out[LabelProvince] = province
	}
	if city != "" {
		out[LabelCity] = titleCase(city)
	}

	street, house := splitStreetHouse(parts[0])
	if house != "" {
		out[LabelHouseNumber] = house
	}
	if street != "" {
		out[LabelStreet] = titleCase(street)
	}

	return out, nil
}

// splitCityProvince takes the first standalone two letter token of segment as
// the province code and returns the segment without that token as the city.
// A comune with a two letter word ("Reggio di Calabria RC") therefore yields
// that word as the province.
func splitCityProvince(segment string) (city, province string) {
	loc := reProvince.FindStringIndex(segment)
	if loc == nil {
		return segment, ""
	}
	province = strings.ToUpper(segment[loc[0]:loc[1]])
	rest := segment[:loc[0]] + " " + segment[loc[1]:]
	city = strings.Trim(strings.Join(strings.Fields(rest), " "), " -")
	return city, province
}

func splitStreetHouse(segment string) (street, house string) {
	loc := reHouseNumber.FindStringSubmatchIndex(segment)
	if loc == nil {
		return segment, ""
	}
	house = segment[loc[2]:loc[3]]
	street = strings.TrimSpace(segment[:loc[0]])
	return street, house
}
