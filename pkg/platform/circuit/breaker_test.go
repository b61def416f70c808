package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerStartsClosed(t *testing.T) {
	b := New("extraction")
	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "extraction", b.Name())
	assert.True(t, b.Allow())
}

func TestBreakerOpensAtFailureThreshold(t *testing.T) {
	b := New("extraction", WithFailureThreshold(3))

	for i := 0; i < 2; i++ {
		useFallback, change := b.RecordFailure()
		assert.False(t, useFallback)
		assert.False(t, change.Opened)
	}

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())
}

func TestBreakerClosesAtSuccessThreshold(t *testing.T) {
	b := New("extraction", WithFailureThreshold(1), WithSuccessThreshold(2))

	b.RecordFailure()
	assert.True(t, b.IsOpen())

	usePrimary, change := b.RecordSuccess()
	assert.False(t, usePrimary)
	assert.False(t, change.Closed)
	assert.True(t, b.IsOpen())

	usePrimary, change = b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestBreakerCountersReset(t *testing.T) {
	t.Run("success clears the failure streak", func(t *testing.T) {
		b := New("extraction", WithFailureThreshold(3))
		b.RecordFailure()
		b.RecordFailure()
		b.RecordSuccess()

		b.RecordFailure()
		b.RecordFailure()
		assert.False(t, b.IsOpen())
		b.RecordFailure()
		assert.True(t, b.IsOpen())
	})

	t.Run("failure clears the success streak", func(t *testing.T) {
		b := New("extraction", WithFailureThreshold(1), WithSuccessThreshold(3))
		b.RecordFailure()
		b.RecordSuccess()
		b.RecordSuccess()
		b.RecordFailure()

		b.RecordSuccess()
		b.RecordSuccess()
		assert.True(t, b.IsOpen())
		b.RecordSuccess()
		assert.False(t, b.IsOpen())
	})
}

func TestBreakerOpenStateIsSticky(t *testing.T) {
	b := New("extraction", WithFailureThreshold(1))
	b.RecordFailure()

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened)
}

func TestBreakerAllowProbesAfterCooldown(t *testing.T) {
	b := New("extraction", WithFailureThreshold(1), WithCooldown(10*time.Millisecond))
	b.RecordFailure()

	assert.False(t, b.Allow())
	time.Sleep(15 * time.Millisecond)
	assert.True(t, b.Allow())
	// The probe slot is consumed until the next cooldown elapses.
	assert.False(t, b.Allow())
}

func TestBreakerReset(t *testing.T) {
	b := New("extraction", WithFailureThreshold(1))
	b.RecordFailure()
	assert.True(t, b.IsOpen())

	b.Reset()
	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
}
