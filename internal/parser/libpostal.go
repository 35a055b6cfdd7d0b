//go:build libpostal

package parser

import (
	postal "github.com/openvenues/gopostal/parser"
)

// Libpostal parses addresses with libpostal through gopostal. Build with
// -tags libpostal on a host where libpostal is installed.
type Libpostal struct{}

// NewLibpostal returns the libpostal parser
func NewLibpostal() (*Libpostal, error) {
	return &Libpostal{}, nil
}

// Parse title-cases every component. When libpostal emits a label twice the
// last value wins.
func (l *Libpostal) Parse(address string) (Components, error) {
	parsed := postal.ParseAddress(address)

	out := make(Components, len(parsed))
	for _, comp := range parsed {
		out[Label(comp.Label)] = titleCase(comp.Value)
	}
	return out, nil
}
