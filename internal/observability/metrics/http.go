// Package metrics provides Prometheus instrumentation for verifactor.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Middleware returns HTTP middleware for request metrics.
func Middleware(next http.Handler) http.Handler {
	if !enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			duration := time.Since(start).Seconds()

			// Normalize path to avoid high cardinality from IDs
			path := normalizePath(r.URL.Path)

			httpRequestsTotal.WithLabelValues(
				r.Method,
				path,
				strconv.Itoa(rw.status),
			).Inc()

			httpDuration.WithLabelValues(
				r.Method,
				path,
			).Observe(duration)
		}()

		next.ServeHTTP(rw, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures status code.
func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

// normalizePath converts dynamic path segments to placeholders to avoid
// high cardinality metrics. For example:
//
//	/api/v1/verifications/7b4b9a1c-... -> /api/v1/verifications/{id}
func normalizePath(path string) string {
	// Operational endpoints - keep as-is
	switch path {
	case "/health", "/healthz", "/readyz", "/metrics":
		return path
	}

	const apiPrefix = "/api/v1/"
	if !strings.HasPrefix(path, apiPrefix) {
		return path
	}

	parts := strings.Split(path[len(apiPrefix):], "/")
	normalized := []string{"/api/v1", parts[0]}
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		if isLikelyID(part) {
			normalized = append(normalized, "{id}")
		} else {
			normalized = append(normalized, part)
		}
	}
	return strings.Join(normalized, "/")
}

// isLikelyID returns true if segment looks like an identifier
func isLikelyID(segment string) bool {
	// Contract addresses and tracking guids
	if strings.HasPrefix(segment, "0x") || len(segment) >= 32 {
		return true
	}
	// UUIDs with dashes
	if strings.Count(segment, "-") >= 4 {
		return true
	}
	// Pure numbers (could be chain IDs)
	if isNumeric(segment) {
		return true
	}
	return false
}

// isNumeric returns true if string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
