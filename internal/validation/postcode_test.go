package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indirizzi-api/internal/capdata"
)

func testTable(t *testing.T) *capdata.Table {
	t.Helper()
	data := strings.Join([]string{
		"cap,comune",
		"24021,Albino",
		"24021,Abbazia",
		"20121,Milano",
		"20122,Milano",
		"00184,Roma",
		"47121,Forlì",
	}, "\n")
	table, err := capdata.ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	return table
}

func TestMatches(t *testing.T) {
	v := NewPostcodeValidator(testTable(t))

	tests := []struct {
		name     string
		postcode string
		city     string
		want     bool
	}{
		{name: "exact", postcode: "20121", city: "milano", want: true},
		{name: "title case city", postcode: "20121", city: "Milano", want: true},
		{name: "upper case city", postcode: "20122", city: "MILANO", want: true},
		{name: "padded inputs", postcode: " 20121 ", city: "  Milano ", want: true},
		{name: "second comune under same cap", postcode: "24021", city: "Abbazia", want: true},
		{name: "accented comune", postcode: "47121", city: "Forlì", want: true},
		{name: "wrong city for cap", postcode: "20121", city: "Roma", want: false},
		{name: "unknown cap", postcode: "99999", city: "Milano", want: false},
		{name: "empty postcode", postcode: "", city: "Milano", want: false},
		{name: "empty city", postcode: "20121", city: "", want: false},
		{name: "blank city", postcode: "20121", city: "   ", want: false},
		{name: "accent dropped", postcode: "47121", city: "Forli", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Matches(tt.postcode, tt.city)
			if got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.postcode, tt.city, got, tt.want)
			}
		})
	}
}

func TestMatchesEveryTableRow(t *testing.T) {
	table := testTable(t)
	v := NewPostcodeValidator(table)

	table.Each(func(code string, comuni []string) bool {
		for _, c := range comuni {
			assert.True(t, v.Matches(code, c), "%s/%s", code, c)
			assert.True(t, v.Matches(code, strings.ToUpper(c)), "%s/%s upper", code, c)
		}
		return true
	})
}

func TestSuggest(t *testing.T) {
	v := NewPostcodeValidator(testTable(t))

	tests := []struct {
		city   string
		want   string
		wantOK bool
	}{
		{city: "Milano", want: "20121", wantOK: true},
		{city: " roma ", want: "00184", wantOK: true},
		{city: "Abbazia", want: "24021", wantOK: true},
		{city: "Atlantide", want: "", wantOK: false},
		{city: "", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.city, func(t *testing.T) {
			got, ok := v.Suggest(tt.city)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggestFollowsLoadOrder(t *testing.T) {
	forward := NewPostcodeValidator(capdata.FromPairs(
		capdata.Pair{CAP: "20122", Comune: "Milano"},
		capdata.Pair{CAP: "20121", Comune: "Milano"},
	))
	reversed := NewPostcodeValidator(capdata.FromPairs(
		capdata.Pair{CAP: "20121", Comune: "Milano"},
		capdata.Pair{CAP: "20122", Comune: "Milano"},
	))

	got, _ := forward.Suggest("Milano")
	assert.Equal(t, "20122", got)
	got, _ = reversed.Suggest("Milano")
	assert.Equal(t, "20121", got)

	for i := 0; i < 20; i++ {
		again, _ := forward.Suggest("milano")
		assert.Equal(t, "20122", again)
	}
}

func TestEmptyTableFailsClosed(t *testing.T) {
	for _, v := range []*PostcodeValidator{NewPostcodeValidator(nil), NewPostcodeValidator(capdata.Empty())} {
		assert.False(t, v.Matches("20121", "Milano"))
		_, ok := v.Suggest("Milano")
		assert.False(t, ok)
		assert.False(t, v.KnownCity("Milano"))
	}
}
