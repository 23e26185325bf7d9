package wait

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForSucceedsImmediately(t *testing.T) {
	calls := 0
	poller := PollerFunc(func(ctx context.Context) Result {
		calls++
		return Result{Ready: true, CheckedAt: time.Now()}
	})

	result, err := WaitFor(context.Background(), "immediate", poller, Config{Timeout: time.Second, Interval: 10 * time.Millisecond})
	require.NoError(t, err)
	assert.True(t, result.Ready)
	assert.Equal(t, 1, calls)
}

func TestWaitForRetriesThenSucceeds(t *testing.T) {
	calls := 0
	poller := PollerFunc(func(ctx context.Context) Result {
		calls++
		if calls < 3 {
			return Result{Ready: false, Message: "not yet"}
		}
		return Result{Ready: true}
	})

	result, err := WaitFor(context.Background(), "eventual", poller, Config{Timeout: time.Second, Interval: 5 * time.Millisecond})
	require.NoError(t, err)
	assert.True(t, result.Ready)
	assert.Equal(t, 3, calls)
}

func TestWaitForTimesOut(t *testing.T) {
	poller := PollerFunc(func(ctx context.Context) Result {
		return Result{Ready: false, Message: "still waiting"}
	})

	_, err := WaitFor(context.Background(), "slow-op", poller, Config{Timeout: 20 * time.Millisecond, Interval: 5 * time.Millisecond})
	require.Error(t, err)

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "slow-op", timeoutErr.Operation)
	assert.Contains(t, timeoutErr.Error(), "slow-op")
}

func TestWaitForRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	poller := PollerFunc(func(ctx context.Context) Result {
		return Result{Ready: false}
	})

	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	_, err := WaitFor(ctx, "cancellable", poller, Config{Timeout: time.Minute, Interval: time.Millisecond})
	require.Error(t, err)
}
