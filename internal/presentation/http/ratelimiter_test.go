package http

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsWithinBudget(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(3, 3, time.Minute)
	t.Cleanup(rl.Stop)

	current := time.Unix(0, 0)
	rl.now = func() time.Time {
		return current
	}

	key := "1.2.3.4"

	for i := 0; i < 3; i++ {
		if !rl.Allow(key) {
			t.Fatalf("expected request %d to be allowed", i+1)
		}
	}

	if rl.Allow(key) {
		t.Fatalf("expected fourth request to be denied")
	}

	current = current.Add(time.Second)

	if !rl.Allow(key) {
		t.Fatalf("expected request after refill to be allowed")
	}
}

func TestRateLimiterRetryAfterAndReset(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 0.2, time.Minute)
	t.Cleanup(rl.Stop)

	current := time.Unix(0, 0)
	rl.now = func() time.Time {
		return current
	}

	if !rl.Allow("client") {
		t.Fatalf("expected first attempt to be allowed")
	}
	if rl.Allow("client") {
		t.Fatalf("expected second attempt to be denied")
	}

	if wait := rl.RetryAfter("client"); wait != 5*time.Second {
		t.Fatalf("expected 5s retry after, got %s", wait)
	}

	rl.Reset("client")
	if !rl.Allow("client") {
		t.Fatalf("expected attempt after reset to be allowed")
	}

	if wait := rl.RetryAfter("other"); wait != 0 {
		t.Fatalf("expected no wait for a fresh client, got %s", wait)
	}
}

func TestRateLimiterPrunesIdleClients(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 1, time.Minute)
	t.Cleanup(rl.Stop)

	current := time.Unix(0, 0)
	rl.now = func() time.Time {
		return current
	}

	rl.Allow("idle")
	current = current.Add(2 * time.Minute)
	rl.pruneStale()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.clients["idle"]; ok {
		t.Fatalf("expected idle client to be pruned")
	}
}
