package osm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu        sync.Mutex
	calls     int
	lastQuery string
}

func (r *recorder) snapshot() (int, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls, r.lastQuery
}

func overpassServer(t *testing.T, status int, body string) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		rec.mu.Lock()
		rec.calls++
		rec.lastQuery = r.PostForm.Get("data")
		rec.mu.Unlock()
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestExists(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Existence
	}{
		{name: "elements found", status: http.StatusOK, body: `{"elements":[{"type":"way","id":1}]}`, want: Exists},
		{name: "no elements", status: http.StatusOK, body: `{"elements":[]}`, want: NotFound},
		{name: "elements key missing", status: http.StatusOK, body: `{"version":0.6}`, want: NotFound},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`, want: Unknown},
		{name: "rate limited", status: http.StatusTooManyRequests, body: ``, want: Unknown},
		{name: "malformed body", status: http.StatusOK, body: `<html>`, want: Unknown},
		{name: "null body", status: http.StatusOK, body: `null`, want: Unknown},
		{name: "null elements", status: http.StatusOK, body: `{"elements":null}`, want: Unknown},
		{name: "elements not a list", status: http.StatusOK, body: `{"elements":"x"}`, want: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, rec := overpassServer(t, tt.status, tt.body)
			client := NewClient(srv.URL)

			got := client.Exists(context.Background(), "Via Roma", "Milano", "MI")

			assert.Equal(t, tt.want, got)
			calls, _ := rec.snapshot()
			assert.Equal(t, 1, calls, "exactly one request, no retry")
		})
	}
}

func TestExistsSkipsRequestWithoutStreetOrCity(t *testing.T) {
	srv, rec := overpassServer(t, http.StatusOK, `{"elements":[{}]}`)
	client := NewClient(srv.URL)

	assert.Equal(t, Unknown, client.Exists(context.Background(), "", "Milano", ""))
	assert.Equal(t, Unknown, client.Exists(context.Background(), "Via Roma", " ", ""))
	calls, _ := rec.snapshot()
	assert.Equal(t, 0, calls)
}

func TestExistsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithTimeout(50*time.Millisecond))

	assert.Equal(t, Unknown, client.Exists(context.Background(), "Via Roma", "Milano", ""))
}

func TestTimeoutDoesNotModifySharedClient(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	client := NewClient("http://overpass.invalid", WithHTTPClient(shared), WithTimeout(2*time.Second))

	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, 2*time.Second, client.httpClient.Timeout)
}

func TestNilHTTPClientIsIgnored(t *testing.T) {
	client := NewClient("http://overpass.invalid", WithHTTPClient(nil), WithTimeout(time.Second))

	assert.NotNil(t, client.httpClient)
	assert.Equal(t, time.Second, client.httpClient.Timeout)
}

func TestExistsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	assert.Equal(t, Unknown, NewClient(url).Exists(context.Background(), "Via Roma", "Milano", ""))
}

func TestExistsCancelledContext(t *testing.T) {
	srv, _ := overpassServer(t, http.StatusOK, `{"elements":[{}]}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, Unknown, NewClient(srv.URL).Exists(ctx, "Via Roma", "Milano", ""))
}

func TestExistsSendsQuery(t *testing.T) {
	srv, rec := overpassServer(t, http.StatusOK, `{"elements":[]}`)

	NewClient(srv.URL, WithQueryTimeout(7)).Exists(context.Background(), "Via Roma", "Milano", "MI")
	_, query := rec.snapshot()

	assert.True(t, strings.HasPrefix(query, "[out:json][timeout:7];"))
	assert.Contains(t, query, `area[name~"^Milano$",i]->.a;`)
	assert.Contains(t, query, `way["name"~"^Via Roma$",i](area.a);`)
	assert.Contains(t, query, `node["name"~"^Via Roma$",i](area.a);`)
}

func TestBuildQueryEscapesNames(t *testing.T) {
	q := BuildQuery(`Via S. Maria "Nuova"`, "L'Aquila", DefaultQueryTimeout)

	assert.Contains(t, q, `[timeout:10]`)
	assert.Contains(t, q, `area[name~"^L'Aquila$",i]`)
	assert.Contains(t, q, `way["name"~"^Via S\\. Maria \"Nuova\"$",i]`)
}

func TestExistenceString(t *testing.T) {
	assert.Equal(t, "exists", Exists.String())
	assert.Equal(t, "not_found", NotFound.String())
	assert.Equal(t, "unknown", Unknown.String())
}
