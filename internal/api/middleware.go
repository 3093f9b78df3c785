package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// requestLogFormatter writes one zerolog event per request
type requestLogFormatter struct{}

// requestLogEntry carries the request fields until the response is written
type requestLogEntry struct {
	logger zerolog.Logger
}

// NewLogEntry implements middleware.LogFormatter
func (requestLogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	logger := log.With().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("remote_addr", r.RemoteAddr).
		Logger()

	return &requestLogEntry{logger: logger}
}

// Write implements middleware.LogEntry
func (e *requestLogEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ any) {
	e.logger.Info().
		Int("status", status).
		Int("bytes", bytes).
		Dur("elapsed", elapsed).
		Msg("request complete")
}

// Panic implements middleware.LogEntry
func (e *requestLogEntry) Panic(v any, stack []byte) {
	e.logger.Error().
		Interface("panic", v).
		Bytes("stack", stack).
		Msg("request panicked")
}

// rateLimit rejects requests once the shared token bucket is empty.
// A non-positive limit disables limiting.
func rateLimit(limit float64, burst int) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	if burst <= 0 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Limit(limit), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, ErrRateLimited.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
