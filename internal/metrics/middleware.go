package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware collects HTTP request metrics. Paths are labelled with the
// matched chi route pattern, or UnmatchedPath when no route matched.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		path := UnmatchedPath
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				path = p
			}
		}

		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rw.statusCode)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// ObserveTool records one tool call.
func ObserveTool(tool string, started time.Time, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	ToolCallsTotal.WithLabelValues(tool, status).Inc()
	ToolCallDuration.WithLabelValues(tool).Observe(time.Since(started).Seconds())
}

// RecordCatalog records a catalog load and, on success, its size.
func RecordCatalog(source string, recipes, priceCategories int, err error) {
	if err != nil {
		CatalogLoadsTotal.WithLabelValues(source, StatusError).Inc()
		return
	}
	CatalogLoadsTotal.WithLabelValues(source, StatusOK).Inc()
	CatalogEntries.WithLabelValues("recipes").Set(float64(recipes))
	CatalogEntries.WithLabelValues("price_categories").Set(float64(priceCategories))
}
