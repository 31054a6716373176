package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/railcheck/tc-api/internal/tc"
	"github.com/railcheck/tc-api/internal/train"
	"github.com/railcheck/tc-api/pkg/utilities"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware returns a middleware that logs requests at debug level
// using the provided sugared logger. Each request gets a snowflake id so
// log lines for one request can be correlated.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := utilities.NewRequestID()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			// ensure status is set
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP
// security headers. Conservative defaults that suit a JSON-only API.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			// HSTS only makes sense over TLS
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RegisterRoutes mounts HTTP handlers using the standard library's
// http.ServeMux. Registration and login are the only routes that operate
// without a credential; everything else sits behind the api-key gate.
func RegisterRoutes(logger *zap.SugaredLogger, db *sqlx.DB) http.Handler {
	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	tcHandler := tc.NewHandler(db, logger)
	mux.HandleFunc("POST /register", tcHandler.Register)
	mux.HandleFunc("POST /login", tcHandler.Login)

	gate := APIKeyGate(tcHandler.Auth(), logger)
	trainHandler := train.NewHandler(db, logger)
	mux.Handle("GET /trains", gate(http.HandlerFunc(trainHandler.List)))
	mux.Handle("POST /trains", gate(http.HandlerFunc(trainHandler.Create)))
	mux.Handle("GET /trains/{id}", gate(http.HandlerFunc(trainHandler.Get)))
	mux.Handle("PUT /trains/{id}", gate(http.HandlerFunc(trainHandler.Update)))
	mux.Handle("POST /trains/{id}/coaches", gate(http.HandlerFunc(trainHandler.CreateCoach)))

	// The coach listing lives at /{id}/coaches. Registering that pattern
	// directly would conflict with /trains/{id} in the mux, so it is
	// matched from the root fallback instead.
	coachList := gate(http.HandlerFunc(trainHandler.ListCoaches))
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) == 2 && parts[1] == "coaches" {
			r.SetPathValue("id", parts[0])
			coachList.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})

	// wrap with security headers middleware then logging middleware
	handler := LoggingMiddleware(logger)(SecurityHeadersMiddleware()(mux))
	return handler
}
