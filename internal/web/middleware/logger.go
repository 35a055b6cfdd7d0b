package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// RequestLogger attaches a request-scoped zerolog logger to the context and
// writes one access log line per request. Place it after RequestID.
func RequestLogger(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			lc := base.With().
				Str("method", r.Method).
				Str("path", r.URL.Path)
			if id := GetRequestID(r.Context()); id != "" {
				lc = lc.Str("request_id", id)
			}
			logger := lc.Logger()

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r.WithContext(logger.WithContext(r.Context())))

			event := logger.Info()
			if rec.status >= http.StatusInternalServerError {
				event = logger.Error()
			}
			event.
				Int("status", rec.status).
				Int("bytes", rec.bytes).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}

// GetLogger returns the request-scoped logger, or a disabled logger when the
// context carries none.
func GetLogger(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
