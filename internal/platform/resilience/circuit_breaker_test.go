package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(2, time.Minute, 1)

	if err := b.Allow(); err != nil {
		t.Fatalf("closed breaker must allow: %v", err)
	}
	b.RecordFailure()
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("state after 1 failure = %v", got)
	}

	b.RecordFailure()
	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("state after threshold = %v, want open", got)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("open breaker must reject, got %v", err)
	}
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(2, time.Minute, 1)

	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()

	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("non-consecutive failures must not open the circuit, state = %v", got)
	}
}

func TestCircuitBreakerHalfOpenProbeFlow(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(1, time.Minute, 2)
	current := time.Unix(1000, 0)
	b.now = func() time.Time { return current }

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("breaker must be open right after tripping, got %v", err)
	}

	current = current.Add(time.Minute)
	if got := b.State(); got != CircuitStateHalfOpen {
		t.Fatalf("state after open timeout = %v, want half_open", got)
	}

	// Probe budget is halfOpenMaxReq; the next request over it is rejected.
	if err := b.Allow(); err != nil {
		t.Fatalf("first probe rejected: %v", err)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("second probe rejected: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("probe budget exceeded must reject, got %v", err)
	}

	b.RecordSuccess()
	b.RecordSuccess()
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("state after probe successes = %v, want closed", got)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("closed breaker must allow again: %v", err)
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(1, time.Minute, 1)
	current := time.Unix(1000, 0)
	b.now = func() time.Time { return current }

	b.RecordFailure()
	current = current.Add(time.Minute)

	if err := b.Allow(); err != nil {
		t.Fatalf("probe rejected: %v", err)
	}
	b.RecordFailure()

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("failed probe must reopen the circuit, got %v", err)
	}
}

func TestNormalizeCircuitBreakerConfig(t *testing.T) {
	t.Parallel()

	got := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{Enabled: true})
	want := DefaultCircuitBreakerConfig()
	if got.FailureThreshold != want.FailureThreshold || got.OpenTimeout != want.OpenTimeout || got.HalfOpenMaxReq != want.HalfOpenMaxReq {
		t.Fatalf("normalized zero config = %+v, want defaults %+v", got, want)
	}

	custom := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 3,
		OpenTimeout:      time.Second,
		HalfOpenMaxReq:   7,
	})
	if custom.FailureThreshold != 3 || custom.OpenTimeout != time.Second || custom.HalfOpenMaxReq != 7 {
		t.Fatalf("normalize must keep valid values, got %+v", custom)
	}
}
