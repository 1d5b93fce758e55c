package logging

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diewo77/nexusmanager/httpx"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-ID"

// Middleware attaches a request-scoped logger to the context, reachable with
// zerolog.Ctx, and logs one line per request.
func Middleware(base zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		l := base.With().Str("request_id", id).Logger()
		rec := httpx.NewStatusRecorder(w)
		next.ServeHTTP(rec, r.WithContext(l.WithContext(r.Context())))

		ev := l.Info()
		if rec.Status >= http.StatusInternalServerError {
			ev = l.Error()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.Status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
