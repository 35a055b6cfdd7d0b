package symspell

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SymSpell is an immutable once built dictionary with its delete index.
// Terms are indexed by their folded form (lowercase, no accents) so that
// "forli" finds "forlì".
type SymSpell struct {
	// terms maps folded key to the display spelling
	terms map[string]string

	frequency map[string]int64

	// deletes maps a delete variant to the folded keys that produce it
	deletes map[string][]string

	config *Config
}

// New creates an empty dictionary
func New(config *Config) *SymSpell {
	if config == nil {
		config = DefaultConfig()
	}
	return &SymSpell{
		terms:     make(map[string]string),
		frequency: make(map[string]int64),
		deletes:   make(map[string][]string),
		config:    config,
	}
}

// BuildFromEntries builds a dictionary from entries
func BuildFromEntries(entries []DictionaryEntry, config *Config) *SymSpell {
	s := New(config)
	for _, e := range entries {
		s.AddTerm(e.Term, e.Frequency)
	}
	return s
}

// AddTerm indexes term. Adding the same folded term again accumulates its
// frequency and keeps the first spelling.
func (s *SymSpell) AddTerm(term string, frequency int64) {
	term = strings.TrimSpace(term)
	key := Fold(term)
	if key == "" {
		return
	}

	if _, ok := s.terms[key]; ok {
		s.frequency[key] += frequency
		return
	}
	s.terms[key] = term
	s.frequency[key] = frequency

	for _, del := range generateDeletes(key, s.config.MaxEditDistance) {
		s.deletes[del] = append(s.deletes[del], key)
	}
}

// Contains reports whether term is in the dictionary, ignoring case and accents
func (s *SymSpell) Contains(term string) bool {
	_, ok := s.terms[Fold(term)]
	return ok
}

// Lookup returns suggestions sorted by distance, then frequency descending,
// then term.
func (s *SymSpell) Lookup(input string, maxDistance int) []Suggestion {
	key := Fold(input)
	if key == "" {
		return nil
	}
	if maxDistance > s.config.MaxEditDistance {
		maxDistance = s.config.MaxEditDistance
	}

	if term, ok := s.terms[key]; ok {
		return []Suggestion{{Term: term, Distance: 0, Frequency: s.frequency[key]}}
	}
	if len([]rune(key)) < s.config.MinTermLength {
		return nil
	}

	seen := make(map[string]bool)
	var candidates []Suggestion
	consider := func(cand string) {
		if seen[cand] {
			return
		}
		seen[cand] = true
		if dist := editDistance(key, cand, maxDistance); dist >= 0 {
			candidates = append(candidates, Suggestion{
				Term:      s.terms[cand],
				Distance:  dist,
				Frequency: s.frequency[cand],
			})
		}
	}

	variants := append(generateDeletes(key, maxDistance), key)
	for _, del := range variants {
		for _, cand := range s.deletes[del] {
			consider(cand)
		}
		// the input may have extra characters
		if _, ok := s.terms[del]; ok {
			consider(del)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		if candidates[i].Frequency != candidates[j].Frequency {
			return candidates[i].Frequency > candidates[j].Frequency
		}
		return candidates[i].Term < candidates[j].Term
	})
	return candidates
}

// LookupBest returns the best suggestion, or nil
func (s *SymSpell) LookupBest(input string, maxDistance int) *Suggestion {
	suggestions := s.Lookup(input, maxDistance)
	if len(suggestions) == 0 {
		return nil
	}
	return &suggestions[0]
}

// Stats returns dictionary sizes
func (s *SymSpell) Stats() DictionaryStats {
	return DictionaryStats{TermCount: len(s.terms), DeleteCount: len(s.deletes)}
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases, strips accents and collapses whitespace
func Fold(s string) string {
	folded, _, err := transform.String(stripAccents, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	return strings.Join(strings.Fields(folded), " ")
}

// generateDeletes returns every string reachable from term by removing up to
// maxDistance runes
func generateDeletes(term string, maxDistance int) []string {
	if maxDistance <= 0 || term == "" {
		return nil
	}

	deletes := make(map[string]bool)
	generateDeletesRecursive([]rune(term), maxDistance, deletes)

	result := make([]string, 0, len(deletes))
	for del := range deletes {
		result = append(result, del)
	}
	return result
}

func generateDeletesRecursive(term []rune, distance int, deletes map[string]bool) {
	if distance <= 0 || len(term) <= 1 {
		return
	}
	for i := range term {
		del := make([]rune, 0, len(term)-1)
		del = append(del, term[:i]...)
		del = append(del, term[i+1:]...)
		key := string(del)
		if !deletes[key] {
			deletes[key] = true
			generateDeletesRecursive(del, distance-1, deletes)
		}
	}
}

// editDistance is the Damerau-Levenshtein (optimal string alignment)
// distance over runes, or -1 when it exceeds maxDistance.
func editDistance(a, b string, maxDistance int) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	lenA, lenB := len(ra), len(rb)

	if lenB-lenA > maxDistance {
		return -1
	}
	if lenA == 0 {
		return lenB
	}

	prevPrev := make([]int, lenA+1)
	prev := make([]int, lenA+1)
	curr := make([]int, lenA+1)
	for i := 0; i <= lenA; i++ {
		prev[i] = i
	}

	for j := 1; j <= lenB; j++ {
		curr[0] = j
		rowMin := j

		for i := 1; i <= lenA; i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)

			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				curr[i] = min(curr[i], prevPrev[i-2]+1)
			}
			if curr[i] < rowMin {
				rowMin = curr[i]
			}
		}

		if rowMin > maxDistance {
			return -1
		}
		prevPrev, prev, curr = prev, curr, prevPrev
	}

	if prev[lenA] > maxDistance {
		return -1
	}
	return prev[lenA]
}
