package normalize

// Issue texts reported in corrections
const (
	IssuePostcodeMismatch = "postcode does not match city"
	IssueMissingPostcode  = "missing postcode"
	IssueStreetNotFound   = "street not found in OSM for given city"
	IssueCityNotFound     = "city not found"
)

// Correction describes one problem found in the input and, when possible,
// the value that would fix it
type Correction struct {
	Field     string  `json:"field"`
	Issue     string  `json:"issue"`
	Suggested *string `json:"suggested,omitempty"`
}

// Address is the normalized, validated form of a free-text address. Absent
// fields are nil and serialize as null.
type Address struct {
	Street      *string      `json:"street"`
	HouseNumber *string      `json:"house_number"`
	Postcode    *string      `json:"postcode"`
	City        *string      `json:"city"`
	Province    *string      `json:"province"`
	Valid       bool         `json:"valid"`
	Corrections []Correction `json:"corrections"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
