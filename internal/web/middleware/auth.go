package middleware

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyHeader carries the shared API key
const APIKeyHeader = "X-API-Key"

// APIKey rejects requests without the configured key: 401 when the header is
// absent, 403 when it is present but does not match, empty values included.
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.Header.Values(APIKeyHeader)) == 0 {
				writeDetail(w, http.StatusUnauthorized, "Missing API key")
				return
			}
			provided := r.Header.Get(APIKeyHeader)
			if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				GetLogger(r.Context()).Warn().Msg("rejected request with invalid API key")
				writeDetail(w, http.StatusForbidden, "Invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
