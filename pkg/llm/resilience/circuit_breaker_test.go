package resilience

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	assert.True(t, cb.Allow(), "still closed below the threshold")

	cb.RecordFailure()
	assert.False(t, cb.Allow())
	assert.True(t, cb.IsOpen())
}

func TestCircuitBreakerSuccessResetsFailureRun(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()
	cb.RecordFailure()

	assert.True(t, cb.Allow(), "non-consecutive failures never trip the breaker")
}

func TestCircuitBreakerHalfOpenAfterCooldown(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond)

	cb.RecordFailure()
	assert.False(t, cb.Allow())

	time.Sleep(15 * time.Millisecond)
	assert.True(t, cb.Allow(), "cooldown elapsed, probe allowed")
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond)

	cb.RecordFailure()
	time.Sleep(15 * time.Millisecond)
	assert.True(t, cb.Allow())

	// The probe failed: open again immediately, full cooldown.
	cb.RecordFailure()
	assert.False(t, cb.Allow())
}

func TestCircuitBreakerHalfOpenSuccessCloses(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond)

	cb.RecordFailure()
	time.Sleep(15 * time.Millisecond)
	assert.True(t, cb.Allow())

	cb.RecordSuccess()
	assert.True(t, cb.Allow())
	assert.False(t, cb.IsOpen())

	// Closed again: takes the full failure run to trip.
	cb.RecordFailure()
	assert.False(t, cb.Allow())
}
