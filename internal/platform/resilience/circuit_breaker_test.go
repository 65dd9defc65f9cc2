package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(3, 10*time.Second, 1)

	for i := 0; i < 3; i++ {
		if err := b.Allow(); err != nil {
			t.Fatalf("allow before threshold failed: %v", err)
		}
		b.RecordFailure()
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen after threshold, got %v", err)
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	t.Parallel()

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := NewCircuitBreaker(1, 5*time.Second, 1)
	b.now = func() time.Time { return current }

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}

	current = current.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after half-open success, got %s", state)
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := NewCircuitBreaker(1, 5*time.Second, 1)
	b.now = func() time.Time { return current }

	b.RecordFailure()
	current = current.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit reopened after half-open failure, got %v", err)
	}
}

func TestNormalizeCircuitBreakerConfig_FillsDefaults(t *testing.T) {
	t.Parallel()

	cfg := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{Enabled: true})
	if cfg.FailureThreshold != 5 || cfg.OpenTimeout != 15*time.Second || cfg.HalfOpenMaxReq != 2 {
		t.Fatalf("unexpected normalized config: %+v", cfg)
	}
}
