package services

import (
	"sync"
	"time"
)

// CircuitBreaker tracks consecutive provider failures. Once more than
// threshold failures accumulate it short-circuits callers until window has
// passed with no new failure, at which point the counter resets and real
// calls are allowed again. Instances are injected, not shared globals, so
// tests can construct independent ones with their own clock.
type CircuitBreaker struct {
	mu          sync.Mutex
	threshold   int
	window      time.Duration
	consecutive int
	lastFailure time.Time
	now         func() time.Time
}

func NewCircuitBreaker(threshold int, window time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		threshold: threshold,
		window:    window,
		now:       time.Now,
	}
}

// NewCircuitBreakerWithClock is the test constructor.
func NewCircuitBreakerWithClock(threshold int, window time.Duration, now func() time.Time) *CircuitBreaker {
	return &CircuitBreaker{
		threshold: threshold,
		window:    window,
		now:       now,
	}
}

// Open reports whether callers should skip the provider right now.
func (b *CircuitBreaker) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.consecutive <= b.threshold {
		return false
	}
	if b.now().Sub(b.lastFailure) >= b.window {
		b.consecutive = 0
		return false
	}
	return true
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.now().Sub(b.lastFailure) >= b.window {
		b.consecutive = 0
	}
	b.consecutive++
	b.lastFailure = b.now()
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.consecutive = 0
}
