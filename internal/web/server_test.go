package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indirizzi-api/internal/capdata"
	"github.com/indirizzi-api/internal/normalize"
	"github.com/indirizzi-api/internal/osm"
	"github.com/indirizzi-api/internal/parser"
	"github.com/indirizzi-api/internal/validation"
)

type stubStreets struct{ result osm.Existence }

func (s stubStreets) Exists(context.Context, string, string, string) osm.Existence {
	return s.result
}

func newTestServer(t *testing.T, streets osm.Existence) *Server {
	t.Helper()
	table := capdata.FromPairs(
		capdata.Pair{CAP: "20121", Comune: "Milano"},
		capdata.Pair{CAP: "00184", Comune: "Roma"},
	)
	svc := normalize.NewService(
		parser.NewChain(nil, zerolog.Nop()),
		validation.NewPostcodeValidator(table),
		stubStreets{result: streets},
	)

	cfg := DefaultConfig()
	cfg.Auth.APIKey = "segreto"
	return NewServer(cfg, svc, WithMetrics(NewMetrics(prometheus.NewRegistry())))
}

func do(t *testing.T, s *Server, method, path, body, key string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if key != "" {
		req.Header.Set("x-api-key", key)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthNeedsNoKey(t *testing.T) {
	s := newTestServer(t, osm.Exists)

	rec := do(t, s, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestNormalizeAddressAuth(t *testing.T) {
	s := newTestServer(t, osm.Exists)
	body := `{"address": "Via Roma 12, 20121 Milano MI"}`

	assert.Equal(t, http.StatusUnauthorized, do(t, s, http.MethodPost, "/normalize-address", body, "").Code)
	assert.Equal(t, http.StatusForbidden, do(t, s, http.MethodPost, "/normalize-address", body, "wrong").Code)
}

func TestNormalizeAddressEndToEnd(t *testing.T) {
	tests := []struct {
		name    string
		address string
		streets osm.Existence
		want    string
	}{
		{
			name:    "valid address",
			address: "Via Roma 12, 20121 Milano MI",
			streets: osm.Exists,
			want: `{"street":"Via Roma","house_number":"12","postcode":"20121","city":"Milano",
				"province":"MI","valid":true,"corrections":[]}`,
		},
		{
			name:    "postcode belongs to another comune",
			address: "Via Roma 12, 00184 Milano MI",
			streets: osm.Unknown,
			want: `{"street":"Via Roma","house_number":"12","postcode":"00184","city":"Milano",
				"province":"MI","valid":false,
				"corrections":[{"field":"postcode","issue":"postcode does not match city","suggested":"20121"}]}`,
		},
		{
			name:    "street not found",
			address: "Via Inesistente 3, 20121 Milano",
			streets: osm.NotFound,
			want: `{"street":"Via Inesistente","house_number":"3","postcode":"20121","city":"Milano",
				"province":null,"valid":false,
				"corrections":[{"field":"street","issue":"street not found in OSM for given city"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.streets)

			rec := do(t, s, http.MethodPost, "/normalize-address", `{"address": "`+tt.address+`"}`, "segreto")

			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, osm.Exists)
	do(t, s, http.MethodGet, "/health", "", "")

	rec := do(t, s, http.MethodGet, "/metrics", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `indirizzi_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, osm.Exists)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/nope", "", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, s, http.MethodGet, "/normalize-address", "", "segreto").Code)
}
