package osm

// Existence is the three-valued answer of a street lookup. Unknown means the
// service could not tell; it is never a synonym for NotFound.
type Existence int

const (
	Unknown Existence = iota
	Exists
	NotFound
)

func (e Existence) String() string {
	switch e {
	case Exists:
		return "exists"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
