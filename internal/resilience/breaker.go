// Package resilience provides reliability patterns for external service calls.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the circuit breaker is open and rejecting calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State names, exposed for health reporting.
const (
	StateClosed   = "closed"
	StateOpen     = "open"
	StateHalfOpen = "half_open"
)

// Breaker guards calls to the completion service. Consecutive failures open
// the circuit; while open, calls are rejected immediately so the chat path
// degrades to the keyword fallback instead of stalling on a dead upstream.
// After the cooldown one probe call is let through; its outcome decides
// whether the circuit closes again.
type Breaker struct {
	mu       sync.Mutex
	state    string
	failures int
	opened   time.Time

	maxFailures int
	cooldown    time.Duration
	now         func() time.Time // for testing
}

// NewBreaker creates a circuit breaker that opens after maxFailures
// consecutive failures and stays open for the given cooldown.
func NewBreaker(maxFailures int, cooldown time.Duration) *Breaker {
	return &Breaker{
		state:       StateClosed,
		maxFailures: maxFailures,
		cooldown:    cooldown,
		now:         time.Now,
	}
}

// Execute runs fn unless the circuit is open, in which case it returns
// ErrCircuitOpen without calling fn.
func (b *Breaker) Execute(fn func() error) error {
	if !b.allow() {
		return ErrCircuitOpen
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.recordFailure()
		return err
	}
	b.reset()
	return nil
}

// State reports the current circuit state, accounting for cooldown expiry.
func (b *Breaker) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && b.now().Sub(b.opened) >= b.cooldown {
		return StateHalfOpen
	}
	return b.state
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.opened) < b.cooldown {
			return false
		}
		b.state = StateHalfOpen
		return true
	default:
		return true
	}
}

// recordFailure must be called with b.mu held. A failed half-open probe
// reopens the circuit immediately.
func (b *Breaker) recordFailure() {
	b.failures++
	if b.state == StateHalfOpen || b.failures >= b.maxFailures {
		b.state = StateOpen
		b.opened = b.now()
	}
}

// reset must be called with b.mu held.
func (b *Breaker) reset() {
	b.failures = 0
	b.state = StateClosed
}
