// Package parser turns free-text Italian addresses into labelled components.
// A Chain tries libpostal first and falls back to a deterministic regex
// parser whenever libpostal is unavailable or fails.
package parser

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnavailable is returned when libpostal is not compiled in
var ErrUnavailable = errors.New("parser: libpostal is not available in this build")

// Parser decomposes an address into components
type Parser interface {
	Parse(address string) (Components, error)
}

// Strategy identifies which parser produced a result
type Strategy string

const (
	StrategyLibpostal Strategy = "libpostal"
	StrategyFallback  Strategy = "regex_fallback"
)

// Result is the outcome of Chain.Parse
type Result struct {
	Components Components
	Strategy   Strategy
}

// Chain runs the primary parser and falls back on any error or panic
type Chain struct {
	primary  Parser
	fallback Parser
	logger   zerolog.Logger
}

// NewChain builds a chain. primary may be nil, in which case the fallback is
// always used.
func NewChain(primary Parser, logger zerolog.Logger) *Chain {
	return &Chain{
		primary:  primary,
		fallback: NewFallback(),
		logger:   logger,
	}
}

// Parse never fails: the regex fallback always yields a, possibly empty,
// mapping.
func (c *Chain) Parse(address string) Result {
	if c.primary != nil {
		components, err := safeParse(c.primary, address)
		if err == nil {
			return Result{Components: components, Strategy: StrategyLibpostal}
		}
		c.logger.Debug().Err(err).Msg("primary parser failed, using regex fallback")
	}

	components, _ := c.fallback.Parse(address)
	if components == nil {
		components = Components{}
	}
	return Result{Components: components, Strategy: StrategyFallback}
}

func safeParse(p Parser, address string) (components Components, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()
	return p.Parse(address)
}

// titleCase upper-cases the first letter of each word and lower-cases the rest
func titleCase(s string) string {
	return cases.Title(language.Italian).String(s)
}
