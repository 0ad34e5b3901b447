package http

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// handleHealth reports process liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports whether the server can answer questions, with
// per-subsystem checks.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if ds := s.datasets.Current(); ds != nil {
		fp := ds.Fingerprint()
		if len(fp) > 12 {
			fp = fp[:12]
		}
		checks["dataset"] = map[string]any{
			"status":      "ok",
			"months":      len(ds.Months()),
			"rows":        ds.RowCount(),
			"fingerprint": fp,
		}
	} else {
		checks["dataset"] = map[string]any{"status": "not_loaded"}
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}

	checks["cache"] = map[string]any{
		"status":         "ok",
		"answer_entries": s.answers.Size(),
	}
	checks["rate_limiter"] = map[string]any{
		"status":         "ok",
		"active_clients": s.limiter.activeClients(),
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	requests := atomic.LoadInt64(&s.app.requestsTotal)
	answered := atomic.LoadInt64(&s.app.questionsAnswered)
	cacheHits := atomic.LoadInt64(&s.app.cacheHits)
	cacheMisses := atomic.LoadInt64(&s.app.cacheMisses)
	rateLimitHits := atomic.LoadInt64(&s.secs.rateLimitHits)
	suspicious := atomic.LoadInt64(&s.secs.suspiciousRequests)
	uptime := time.Since(s.app.startedAt)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", requests)

	fmt.Fprintf(w, "# HELP questions_answered_total Questions answered by the analysis service\n")
	fmt.Fprintf(w, "# TYPE questions_answered_total counter\n")
	fmt.Fprintf(w, "questions_answered_total %d\n\n", answered)

	fmt.Fprintf(w, "# HELP answer_cache_hits_total Total answer cache hits\n")
	fmt.Fprintf(w, "# TYPE answer_cache_hits_total counter\n")
	fmt.Fprintf(w, "answer_cache_hits_total %d\n\n", cacheHits)

	fmt.Fprintf(w, "# HELP answer_cache_misses_total Total answer cache misses\n")
	fmt.Fprintf(w, "# TYPE answer_cache_misses_total counter\n")
	fmt.Fprintf(w, "answer_cache_misses_total %d\n\n", cacheMisses)

	fmt.Fprintf(w, "# HELP answer_cache_entries Current answer cache entries\n")
	fmt.Fprintf(w, "# TYPE answer_cache_entries gauge\n")
	fmt.Fprintf(w, "answer_cache_entries %d\n\n", s.answers.Size())

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total rate limit hits\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", rateLimitHits)

	fmt.Fprintf(w, "# HELP suspicious_requests_total Total suspicious requests detected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", suspicious)

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", s.limiter.activeClients())

	if ds := s.datasets.Current(); ds != nil {
		fmt.Fprintf(w, "# HELP dataset_months Months covered by the served dataset\n")
		fmt.Fprintf(w, "# TYPE dataset_months gauge\n")
		fmt.Fprintf(w, "dataset_months %d\n\n", len(ds.Months()))

		fmt.Fprintf(w, "# HELP dataset_rows Canonical rows in the served dataset\n")
		fmt.Fprintf(w, "# TYPE dataset_rows gauge\n")
		fmt.Fprintf(w, "dataset_rows %d\n\n", ds.RowCount())
	}

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", uptime.Seconds())
}
