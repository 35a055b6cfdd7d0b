package parser

// Label names a component of a parsed address. The known labels are the ones
// libpostal emits plus the few the regex fallback produces; anything else is
// carried through untouched but never consulted by field resolution.
type Label string

const (
	LabelHouse         Label = "house"
	LabelHouseNumber   Label = "house_number"
	LabelRoad          Label = "road"
	LabelStreet        Label = "street"
	LabelStreetName    Label = "street_name"
	LabelUnit          Label = "unit"
	LabelLevel         Label = "level"
	LabelPostcode      Label = "postcode"
	LabelPostalCode    Label = "postalcode"
	LabelSuburb        Label = "suburb"
	LabelCityDistrict  Label = "city_district"
	LabelCity          Label = "city"
	LabelTown          Label = "town"
	LabelVillage       Label = "village"
	LabelStateDistrict Label = "state_district"
	LabelState         Label = "state"
	LabelProvince      Label = "province"
	LabelCountry       Label = "country"
)

var knownLabels = map[Label]bool{
	LabelHouse: true, LabelHouseNumber: true, LabelRoad: true, LabelStreet: true,
	LabelStreetName: true, LabelUnit: true, LabelLevel: true, LabelPostcode: true,
	LabelPostalCode: true, LabelSuburb: true, LabelCityDistrict: true, LabelCity: true,
	LabelTown: true, LabelVillage: true, LabelStateDistrict: true, LabelState: true,
	LabelProvince: true, LabelCountry: true,
}

// Known reports whether l is one of the labels above
func (l Label) Known() bool {
	return knownLabels[l]
}

// Components is the label to value mapping produced by a parser
type Components map[Label]string

// Field is one of the normalized output fields
type Field string

const (
	FieldStreet      Field = "street"
	FieldHouseNumber Field = "house_number"
	FieldPostcode    Field = "postcode"
	FieldCity        Field = "city"
	FieldProvince    Field = "province"
)

// Preference lists, in order, the labels a field may be taken from
type Preference struct {
	Field  Field
	Labels []Label
}

// Preferences is the field resolution policy. For each field the first label
// with a non-empty value wins.
var Preferences = []Preference{
	{Field: FieldStreet, Labels: []Label{LabelRoad, LabelStreet, LabelHouse, LabelStreetName}},
	{Field: FieldHouseNumber, Labels: []Label{LabelHouseNumber, LabelHouse}},
	{Field: FieldPostcode, Labels: []Label{LabelPostcode, LabelPostalCode}},
	{Field: FieldCity, Labels: []Label{LabelCity, LabelTown, LabelVillage, LabelSuburb, LabelStateDistrict}},
	{Field: FieldProvince, Labels: []Label{LabelState, LabelProvince}},
}

// Fields holds the resolved address fields. Empty means not extracted.
type Fields struct {
	Street      string
	HouseNumber string
	Postcode    string
	City        string
	Province    string
}

// Resolve applies Preferences to c
func Resolve(c Components) Fields {
	var f Fields
	for _, pref := range Preferences {
		value := pick(c, pref.Labels)
		switch pref.Field {
		case FieldStreet:
			f.Street = value
		case FieldHouseNumber:
			f.HouseNumber = value
		case FieldPostcode:
			f.Postcode = value
		case FieldCity:
			f.City = value
		case FieldProvince:
			f.Province = value
		}
	}
	return f
}

func pick(c Components, labels []Label) string {
	for _, l := range labels {
		if v := c[l]; v != "" {
			return v
		}
	}
	return ""
}
