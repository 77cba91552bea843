package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"showcase/internal/backend"
	"showcase/internal/storage"
)

// syncCounter is implemented by backends that mirror records elsewhere.
type syncCounter interface {
	SyncCounts(ctx context.Context) (storage.SyncCounts, error)
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.started).String(),
	})
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)
	fail := func(name, reason string) {
		checks[name] = reason
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}

	if s.templates == nil {
		fail("templates", "failed: templates not loaded")
	} else {
		checks["templates"] = "ok"
	}

	switch b := s.backend.(type) {
	case nil:
		fail("backend", "not_configured")
	case backend.ReadinessChecker:
		if err := b.Ready(ctx); err != nil {
			fail("backend", fmt.Sprintf("failed: %v", err))
		} else {
			checks["backend"] = "ok"
		}
	default:
		// No dedicated probe; a list call is the cheapest round trip.
		if _, err := b.ListRecords(ctx); err != nil {
			fail("backend", fmt.Sprintf("failed: %v", err))
		} else {
			checks["backend"] = "ok"
		}
	}

	entries := 0
	if s.recordsCache != nil {
		entries = s.recordsCache.Size()
	}
	checks["cache"] = map[string]any{
		"enabled": s.recordsCache != nil,
		"entries": entries,
		"status":  "ok",
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	securityMetrics := s.securityDetector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()

	var hits, misses uint64
	entries := 0
	if s.recordsCache != nil {
		st := s.recordsCache.Stats()
		hits, misses, entries = st.Hits, st.Misses, st.Size
	}

	w.WriteHeader(http.StatusOK)

	metric := func(name, help, kind string, value any) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
		fmt.Fprintf(w, "%s %v\n\n", name, value)
	}

	metric("http_requests_total", "Total number of HTTP requests", "counter", traceMetrics.TotalRequests)
	metric("http_server_errors_total", "Responses with a 5xx status", "counter", traceMetrics.ServerErrors)
	metric("http_response_time_avg_microseconds", "Average response time", "gauge", traceMetrics.AverageResponseTime)
	metric("records_created_total", "Records created through the UI", "counter", s.appMetrics.created.Load())
	metric("records_deleted_total", "Records deleted through the UI", "counter", s.appMetrics.deleted.Load())
	metric("exports_total", "Workbooks exported", "counter", s.appMetrics.exports.Load())
	metric("cache_hits_total", "Total cache hits", "counter", hits)
	metric("cache_misses_total", "Total cache misses", "counter", misses)
	metric("cache_entries", "Current cache entries", "gauge", entries)
	metric("rate_limit_hits_total", "Total rate limit hits", "counter", rateLimitMetrics.TotalHits)
	metric("active_rate_limit_clients", "Currently tracked rate limit clients", "gauge", rateLimitMetrics.ClientCount)
	metric("suspicious_requests_total", "Total suspicious requests detected", "counter", securityMetrics.SuspiciousRequests)
	metric("invalid_ip_attempts_total", "Client addresses that failed to parse", "counter", securityMetrics.InvalidIPAttempts)

	if sc, ok := s.backend.(syncCounter); ok {
		if counts, err := sc.SyncCounts(r.Context()); err == nil {
			fmt.Fprintf(w, "# HELP sync_records Records by mirror sync state\n")
			fmt.Fprintf(w, "# TYPE sync_records gauge\n")
			fmt.Fprintf(w, "sync_records{state=\"pending\"} %d\n", counts.Pending)
			fmt.Fprintf(w, "sync_records{state=\"synced\"} %d\n", counts.Synced)
			fmt.Fprintf(w, "sync_records{state=\"error\"} %d\n\n", counts.Error)
		} else {
			s.logger.WarnContext(r.Context(), "Sync counts unavailable", "error", err)
		}
	}

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n\n", time.Since(s.appMetrics.started).Seconds())
}
