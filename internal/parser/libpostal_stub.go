//go:build !libpostal

package parser

// Libpostal is unavailable without the libpostal build tag
type Libpostal struct{}

// NewLibpostal always fails in builds without libpostal
func NewLibpostal() (*Libpostal, error) {
	return nil, ErrUnavailable
}

// Parse always fails in builds without libpostal
func (l *Libpostal) Parse(address string) (Components, error) {
	return nil, ErrUnavailable
}
