package http

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

func TestRateLimiterAllowsBudget(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()
	metrics := &securityMetrics{}

	for i := 0; i < requestsPerMinute; i++ {
		if !rl.allow("198.51.100.1", metrics) {
			t.Fatalf("request %d denied inside budget", i+1)
		}
	}
	if rl.allow("198.51.100.1", metrics) {
		t.Error("request above budget should be denied")
	}
	if got := atomic.LoadInt64(&metrics.rateLimitHits); got != 1 {
		t.Errorf("rate limit hits = %d, want 1", got)
	}
}

func TestRateLimiterTracksClientsIndependently(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()
	metrics := &securityMetrics{}

	for i := 0; i < requestsPerMinute+1; i++ {
		rl.allow("198.51.100.1", metrics)
	}
	if !rl.allow("198.51.100.2", metrics) {
		t.Error("second client should not inherit first client's budget")
	}
	if got := rl.activeClients(); got != 2 {
		t.Errorf("active clients = %d, want 2", got)
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()
	metrics := &securityMetrics{}

	for i := 0; i < requestsPerMinute+1; i++ {
		rl.allow("198.51.100.1", metrics)
	}

	// Age the window past one minute.
	rl.mu.Lock()
	rl.clients["198.51.100.1"].lastRequest = time.Now().Add(-2 * time.Minute)
	rl.mu.Unlock()

	if !rl.allow("198.51.100.1", metrics) {
		t.Error("request after window reset should be allowed")
	}
}

func TestRateLimiterCleanupRemovesStaleClients(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()
	metrics := &securityMetrics{}

	for i := 0; i < 5; i++ {
		rl.allow(fmt.Sprintf("198.51.100.%d", i), metrics)
	}

	rl.mu.Lock()
	rl.clients["198.51.100.0"].lastRequest = time.Now().Add(-11 * time.Minute)
	rl.clients["198.51.100.1"].lastRequest = time.Now().Add(-11 * time.Minute)
	rl.mu.Unlock()

	rl.cleanupStaleEntries()

	if got := rl.activeClients(); got != 3 {
		t.Errorf("active clients after cleanup = %d, want 3", got)
	}
}

func TestRateLimiterStopIsIdempotent(t *testing.T) {
	rl := newRateLimiter()
	rl.stop()
	rl.stop() // second stop must not panic
}
