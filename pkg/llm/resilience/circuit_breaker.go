package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the breaker short-circuits a call.
// Callers surface a fixed "service unavailable" outcome instead of hanging.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type circuitState int

const (
	stateClosed circuitState = iota
	stateOpen
	stateHalfOpen
)

// CircuitBreaker protects the generation backend against cascading failures.
// After FailMax consecutive failures the breaker opens for ResetTimeout; the
// next call after the cooldown is a half-open probe.
type CircuitBreaker struct {
	mu           sync.Mutex
	state        circuitState
	failures     int
	failMax      int
	resetTimeout time.Duration
	openedAt     time.Time
}

func NewCircuitBreaker(failMax int, resetTimeout time.Duration) *CircuitBreaker {
	if failMax <= 0 {
		failMax = 5
	}
	if resetTimeout <= 0 {
		resetTimeout = 60 * time.Second
	}
	return &CircuitBreaker{
		failMax:      failMax,
		resetTimeout: resetTimeout,
	}
}

// Allow reports whether a call may proceed, transitioning open → half-open
// once the cooldown window has elapsed.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == stateOpen {
		if time.Since(cb.openedAt) < cb.resetTimeout {
			return false
		}
		cb.state = stateHalfOpen
	}
	return true
}

// RecordSuccess closes the breaker and clears the failure run.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = stateClosed
	cb.failures = 0
}

// RecordFailure counts a failure; a half-open probe failure re-opens
// immediately.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == stateHalfOpen {
		cb.state = stateOpen
		cb.openedAt = time.Now()
		return
	}

	cb.failures++
	if cb.failures >= cb.failMax {
		cb.state = stateOpen
		cb.openedAt = time.Now()
	}
}

// IsOpen reports whether the breaker is currently rejecting calls.
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state == stateOpen && time.Since(cb.openedAt) < cb.resetTimeout
}
