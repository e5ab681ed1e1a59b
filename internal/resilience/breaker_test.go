package resilience

import (
	"errors"
	"testing"
	"time"
)

var errUpstream = errors.New("completion service unavailable")

// frozenBreaker returns a breaker with a controllable clock.
func frozenBreaker(maxFailures int, cooldown time.Duration) (*Breaker, *time.Time) {
	now := time.Now()
	b := NewBreaker(maxFailures, cooldown)
	b.now = func() time.Time { return now }
	return b, &now
}

func fail(b *Breaker) error { return b.Execute(func() error { return errUpstream }) }

func succeed(b *Breaker) error { return b.Execute(func() error { return nil }) }

func TestBreakerStartsClosed(t *testing.T) {
	b := NewBreaker(3, time.Second)

	if got := b.State(); got != StateClosed {
		t.Fatalf("expected closed, got %s", got)
	}
	if err := succeed(b); err != nil {
		t.Fatalf("expected call to pass through, got %v", err)
	}
}

func TestBreakerOpensAtThreshold(t *testing.T) {
	b := NewBreaker(3, time.Second)

	for i := 0; i < 2; i++ {
		if err := fail(b); !errors.Is(err, errUpstream) {
			t.Fatalf("failure %d: expected upstream error, got %v", i, err)
		}
	}
	if got := b.State(); got != StateClosed {
		t.Fatalf("below threshold: expected closed, got %s", got)
	}

	_ = fail(b)

	if got := b.State(); got != StateOpen {
		t.Fatalf("at threshold: expected open, got %s", got)
	}
	if err := succeed(b); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen while open, got %v", err)
	}
}

func TestBreakerProbeAfterCooldown(t *testing.T) {
	b, now := frozenBreaker(2, time.Second)
	_ = fail(b)
	_ = fail(b)

	if err := succeed(b); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected rejection before cooldown, got %v", err)
	}

	*now = now.Add(2 * time.Second)

	if got := b.State(); got != StateHalfOpen {
		t.Fatalf("after cooldown: expected half_open, got %s", got)
	}

	// A successful probe closes the circuit again.
	if err := succeed(b); err != nil {
		t.Fatalf("expected probe to pass, got %v", err)
	}
	if got := b.State(); got != StateClosed {
		t.Fatalf("after probe success: expected closed, got %s", got)
	}
}

func TestBreakerFailedProbeReopens(t *testing.T) {
	b, now := frozenBreaker(2, time.Second)
	_ = fail(b)
	_ = fail(b)
	*now = now.Add(2 * time.Second)

	if err := fail(b); !errors.Is(err, errUpstream) {
		t.Fatalf("expected probe to run and fail, got %v", err)
	}

	if got := b.State(); got != StateOpen {
		t.Fatalf("after probe failure: expected open, got %s", got)
	}
	if err := succeed(b); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected rejection after reopen, got %v", err)
	}
}

func TestBreakerSuccessClearsFailureStreak(t *testing.T) {
	b := NewBreaker(3, time.Second)

	_ = fail(b)
	_ = fail(b)
	_ = succeed(b)
	_ = fail(b)
	_ = fail(b)

	// The streak never reached 3 in a row.
	if got := b.State(); got != StateClosed {
		t.Fatalf("expected closed, got %s", got)
	}
	if err := succeed(b); err != nil {
		t.Fatalf("expected call to pass through, got %v", err)
	}
}
