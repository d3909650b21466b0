package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/procifarmed/storefront-api/pkg/logger"
)

// Logging brackets each request with request.start and request.complete.
// Health probes log at debug; 5xx completions log at warn.
func Logging(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logg == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			probe := strings.HasPrefix(r.URL.Path, "/health/")
			ctx := logg.WithFields(r.Context(), map[string]any{
				"method": r.Method,
				"path":   r.URL.Path,
			})
			if probe {
				logg.Debug(ctx, "request.start")
			} else {
				logg.Info(ctx, "request.start")
			}

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r.WithContext(ctx))

			status := rec.code()
			ctx = logg.WithFields(ctx, map[string]any{
				"route":       matchedRoute(r),
				"status":      status,
				"bytes":       rec.bytes,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			switch {
			case status >= http.StatusInternalServerError:
				logg.Warn(ctx, "request.complete")
			case probe:
				logg.Debug(ctx, "request.complete")
			default:
				logg.Info(ctx, "request.complete")
			}
		})
	}
}
