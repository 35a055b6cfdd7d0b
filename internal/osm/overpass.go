// Package osm checks street existence against an Overpass API endpoint
package osm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout bounds the whole HTTP exchange
	DefaultTimeout = 15 * time.Second

	// DefaultQueryTimeout is the server-side [timeout:N] in seconds
	DefaultQueryTimeout = 10
)

// Client queries Overpass. It never retries and never caches.
type Client struct {
	url          string
	httpClient   *http.Client
	timeout      time.Duration
	queryTimeout int
	logger       zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sends requests through a copy of hc. A nil client is
// ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			copied := *hc
			c.httpClient = &copied
		}
	}
}

// WithTimeout sets the client-side request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithQueryTimeout sets the server-side query timeout in seconds
func WithQueryTimeout(seconds int) Option {
	return func(c *Client) {
		if seconds > 0 {
			c.queryTimeout = seconds
		}
	}
}

// WithLogger sets the logger used to report failed lookups
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the interpreter at endpoint
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		url:          endpoint,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		queryTimeout: DefaultQueryTimeout,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		c.httpClient.Timeout = c.timeout
	}
	return c
}

// BuildQuery returns the Overpass QL asking for ways and nodes named street
// inside the administrative area named city. Both names match whole and case
// insensitively.
func BuildQuery(street, city string, queryTimeout int) string {
	return fmt.Sprintf(`[out:json][timeout:%d];area[name~"^%s$",i]->.a;(
  way["name"~"^%s$",i](area.a);
  node["name"~"^%s$",i](area.a);
);out center 1;`, queryTimeout, quoteName(city), quoteName(street), quoteName(street))
}

// quoteName makes s a literal inside a regex inside a QL string
func quoteName(s string) string {
	s = regexp.QuoteMeta(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// overpassResponse keeps elements as a pointer so a null value can be told
// apart from a missing key
type overpassResponse struct {
	Elements *[]json.RawMessage `json:"elements"`
}

// Exists reports whether street is mapped in city. Province is accepted for
// interface symmetry but not used in the query. Empty street or city, and
// any transport, status or decoding failure, yield Unknown.
func (c *Client) Exists(ctx context.Context, street, city, province string) Existence {
	if strings.TrimSpace(street) == "" || strings.TrimSpace(city) == "" {
		return Unknown
	}

	found, err := c.query(ctx, BuildQuery(street, city, c.queryTimeout))
	if err != nil {
		c.logger.Warn().Err(err).Str("street", street).Str("city", city).Msg("overpass lookup failed")
		return Unknown
	}
	if found {
		return Exists
	}
	return NotFound
}

func (c *Client) query(ctx context.Context, q string) (bool, error) {
	form := url.Values{"data": {q}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("overpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return false, fmt.Errorf("overpass returned HTTP %d", resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return false, fmt.Errorf("decode overpass response: %w", err)
	}
	if string(raw) == "null" {
		return false, fmt.Errorf("overpass response is null")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false, fmt.Errorf("decode overpass response: %w", err)
	}
	if _, ok := fields["elements"]; !ok {
		return false, nil
	}

	var body overpassResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return false, fmt.Errorf("decode overpass elements: %w", err)
	}
	if body.Elements == nil {
		return false, fmt.Errorf("overpass elements is null")
	}
	return len(*body.Elements) > 0, nil
}
