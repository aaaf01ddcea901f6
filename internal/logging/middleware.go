package logging

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type scopeKey struct{}

// requestScope holds the logger for one request. Middleware further down the
// chain may enrich it, and the completion line picks up whatever was added.
type requestScope struct {
	mu     sync.Mutex
	logger *Logger
}

func (s *requestScope) current() *Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logger
}

var defaultLogger = NewLogger(true)

// RequestLogger attaches a request-scoped logger to the context and writes one
// completion line per request, at a level derived from the response status.
func RequestLogger(logger *Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			scope := &requestScope{logger: logger.WithFields(map[string]any{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"remote_ip":  r.RemoteAddr,
			})}
			scope.logger.Debug("request started")

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), scopeKey{}, scope)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			scope.current().Log(r.Context(), levelFor(status), "request completed",
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Annotate adds fields to the request-scoped logger. Later calls to
// GetLoggerFromContext and the completion line both carry them. Outside
// RequestLogger it does nothing.
func Annotate(ctx context.Context, fields map[string]any) {
	scope, ok := ctx.Value(scopeKey{}).(*requestScope)
	if !ok {
		return
	}
	scope.mu.Lock()
	scope.logger = scope.logger.WithFields(fields)
	scope.mu.Unlock()
}

// GetLoggerFromContext returns the request-scoped logger, or a development
// logger when the request did not pass through RequestLogger.
func GetLoggerFromContext(ctx context.Context) *Logger {
	if scope, ok := ctx.Value(scopeKey{}).(*requestScope); ok {
		return scope.current()
	}
	return defaultLogger
}
