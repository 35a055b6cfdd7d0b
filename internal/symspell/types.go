// Package symspell implements the Symmetric Delete spelling correction
// algorithm over comune names. All deletes within the maximum edit distance
// are precomputed so a lookup only touches candidate terms.
package symspell

// Config holds SymSpell parameters
type Config struct {
	// MaxEditDistance is the maximum Damerau-Levenshtein distance for a
	// suggestion. Values above 3 make the delete index very large.
	MaxEditDistance int

	// MinTermLength is the shortest input, in runes, worth correcting
	MinTermLength int
}

// DefaultConfig returns distance 2 and a minimum length of 3
func DefaultConfig() *Config {
	return &Config{
		MaxEditDistance: 2,
		MinTermLength:   3,
	}
}

// Suggestion is a dictionary term close to the input
type Suggestion struct {
	// Term is the dictionary spelling, accents included
	Term string

	Distance int

	// Frequency is how many CAPs list the comune; ties on distance prefer
	// the more frequent term
	Frequency int64
}

// DictionaryEntry is a term with its frequency
type DictionaryEntry struct {
	Term      string
	Frequency int64
}

// DictionaryStats describes a built dictionary
type DictionaryStats struct {
	TermCount   int
	DeleteCount int
}
