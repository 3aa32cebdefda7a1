package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func testConfig() Config {
	return Config{
		FailureThreshold:    3,
		SuccessThreshold:    2,
		Timeout:             20 * time.Millisecond,
		HalfOpenMaxRequests: 3,
	}
}

func fail() error    { return errBoom }
func succeed() error { return nil }

func TestExecute_PassesThroughWhenClosed(t *testing.T) {
	cb := NewCircuitBreaker(testConfig())

	require.NoError(t, cb.Execute(succeed))
	assert.Equal(t, StateClosed, cb.GetState())

	err := cb.Execute(fail)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestExecute_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker(testConfig())

	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}

	err := cb.Execute(succeed)
	assert.ErrorIs(t, err, ErrCircuitBreakerOpen)
	assert.Equal(t, StateOpen, cb.GetState())
}

func TestExecute_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(testConfig())

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	require.NoError(t, cb.Execute(succeed))

	// the streak restarted, so two more failures stay under the threshold
	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	assert.NoError(t, cb.Execute(succeed))
}

func TestExecute_HalfOpenClosesAfterSuccesses(t *testing.T) {
	cb := NewCircuitBreaker(testConfig())

	for i := 0; i < 4; i++ {
		_ = cb.Execute(fail)
	}
	require.Equal(t, StateOpen, cb.GetState())

	time.Sleep(25 * time.Millisecond)

	require.NoError(t, cb.Execute(succeed))
	assert.Equal(t, StateHalfOpen, cb.GetState())
	require.NoError(t, cb.Execute(succeed))

	// threshold reached; next call observes the closed state
	require.NoError(t, cb.Execute(succeed))
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestExecute_FailureWhileProbingReopens(t *testing.T) {
	cb := NewCircuitBreaker(testConfig())

	for i := 0; i < 4; i++ {
		_ = cb.Execute(fail)
	}
	time.Sleep(25 * time.Millisecond)

	err := cb.Execute(fail)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, StateOpen, cb.GetState())
}

func TestReset(t *testing.T) {
	cb := NewCircuitBreaker(testConfig())

	for i := 0; i < 4; i++ {
		_ = cb.Execute(fail)
	}
	require.Equal(t, StateOpen, cb.GetState())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.GetState())
	assert.NoError(t, cb.Execute(succeed))
}
