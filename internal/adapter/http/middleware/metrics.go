package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/orderledger/internal/infrastructure/metrics"
)

// Metrics records request count, duration and in-flight requests.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			m.HTTPInFlight.Inc()
			defer m.HTTPInFlight.Dec()

			wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			path := routePattern(r)
			m.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// routePattern prefers the matched chi pattern and falls back to normalizePath.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return normalizePath(r.URL.Path)
}

const entriesPrefix = "/api/v1/entries/"

var entryCollectionRoutes = map[string]bool{
	"stores":      true,
	"export":      true,
	"import":      true,
	"backup":      true,
	"restore":     true,
	"bulk-update": true,
	"bulk-delete": true,
}

// normalizePath collapses entry IDs to keep label cardinality bounded.
// /api/v1/entries/01ABC123 -> /api/v1/entries/{id}
func normalizePath(path string) string {
	if !strings.HasPrefix(path, entriesPrefix) {
		return path
	}

	rest := strings.TrimPrefix(path, entriesPrefix)
	segment, suffix, _ := strings.Cut(rest, "/")
	if segment == "" || entryCollectionRoutes[segment] {
		return path
	}
	if suffix != "" {
		return entriesPrefix + "{id}/" + suffix
	}
	return entriesPrefix + "{id}"
}
