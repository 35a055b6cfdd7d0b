// Package normalize runs the address pipeline: parse, resolve fields, check
// the CAP against the comune, optionally suggest a comune spelling, check the
// street exists, and assemble the result.
package normalize

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/indirizzi-api/internal/osm"
	"github.com/indirizzi-api/internal/parser"
	"github.com/indirizzi-api/internal/telemetry"
)

// AddressParser never fails; see parser.Chain
type AddressParser interface {
	Parse(address string) parser.Result
}

// PostcodeChecker is satisfied by validation.PostcodeValidator
type PostcodeChecker interface {
	Matches(postcode, city string) bool
	Suggest(city string) (string, bool)
	KnownCity(city string) bool
}

// StreetChecker is satisfied by osm.Client
type StreetChecker interface {
	Exists(ctx context.Context, street, city, province string) osm.Existence
}

// CitySpeller is satisfied by symspell.CitySpeller
type CitySpeller interface {
	Suggest(city string) (string, bool)
}

// Service is safe for concurrent use as long as its collaborators are
type Service struct {
	parser    AddressParser
	postcodes PostcodeChecker
	streets   StreetChecker
	speller   CitySpeller
	metrics   *telemetry.BusinessMetrics
	logger    zerolog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithCitySpeller enables comune spelling suggestions
func WithCitySpeller(sp CitySpeller) Option {
	return func(s *Service) { s.speller = sp }
}

// WithMetrics records pipeline outcomes
func WithMetrics(m *telemetry.BusinessMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the service logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService wires the pipeline. streets may be nil, in which case every
// street check is unknown.
func NewService(p AddressParser, postcodes PostcodeChecker, streets StreetChecker, opts ...Option) *Service {
	s := &Service{
		parser:    p,
		postcodes: postcodes,
		streets:   streets,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Normalize never fails. Valid starts true and only a postcode mismatch or a
// street positively not found turn it false.
func (s *Service) Normalize(ctx context.Context, address string) Address {
	start := time.Now()
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		logger = &s.logger
	}

	parsed := s.parser.Parse(address)
	s.metrics.RecordParse(string(parsed.Strategy))
	fields := parser.Resolve(parsed.Components)

	valid := true
	corrections := []Correction{}
	add := func(c Correction) {
		corrections = append(corrections, c)
		s.metrics.RecordCorrection(c.Field, c.Issue)
	}

	switch {
	case fields.Postcode != "" && fields.City != "":
		if !s.postcodes.Matches(fields.Postcode, fields.City) {
			valid = false
			suggested, _ := s.postcodes.Suggest(fields.City)
			add(Correction{Field: string(parser.FieldPostcode), Issue: IssuePostcodeMismatch, Suggested: optional(suggested)})
		}
	case fields.Postcode == "" && fields.City != "":
		// Advisory only: a missing postcode does not make the address invalid
		if suggested, ok := s.postcodes.Suggest(fields.City); ok {
			add(Correction{Field: string(parser.FieldPostcode), Issue: IssueMissingPostcode, Suggested: optional(suggested)})
		}
	}

	if s.speller != nil && fields.City != "" && !s.postcodes.KnownCity(fields.City) {
		if suggested, ok := s.speller.Suggest(fields.City); ok {
			add(Correction{Field: string(parser.FieldCity), Issue: IssueCityNotFound, Suggested: optional(titleCase(suggested))})
		}
	}

	existence := s.checkStreet(ctx, fields)
	s.metrics.RecordStreetCheck(existence.String())
	if existence == osm.NotFound {
		valid = false
		add(Correction{Field: string(parser.FieldStreet), Issue: IssueStreetNotFound})
	}

	s.metrics.RecordNormalization(valid)
	logger.Debug().
		Str("strategy", string(parsed.Strategy)).
		Str("street_check", existence.String()).
		Bool("valid", valid).
		Int("corrections", len(corrections)).
		Dur("took", time.Since(start)).
		Msg("address normalized")

	return Address{
		Street:      optional(fields.Street),
		HouseNumber: optional(fields.HouseNumber),
		Postcode:    optional(fields.Postcode),
		City:        optional(fields.City),
		Province:    optional(fields.Province),
		Valid:       valid,
		Corrections: corrections,
	}
}

// checkStreet turns a missing checker, missing inputs or a panicking checker
// into Unknown
func (s *Service) checkStreet(ctx context.Context, f parser.Fields) (result osm.Existence) {
	if s.streets == nil || f.Street == "" || f.City == "" {
		return osm.Unknown
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("street checker panicked")
			result = osm.Unknown
		}
	}()
	return s.streets.Exists(ctx, f.Street, f.City, f.Province)
}

func titleCase(s string) string {
	return cases.Title(language.Italian).String(s)
}
