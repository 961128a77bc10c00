package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-georef/logger"
)

var errBoom = errors.New("boom")

// rejectionError stands in for a well-formed service rejection.
type rejectionError struct{ msg string }

func (e *rejectionError) Error() string   { return e.msg }
func (e *rejectionError) Retryable() bool { return false }

// fastConfig keeps test backoff waits negligible.
func fastConfig(maxAttempts int) Config {
	return Config{MaxAttempts: maxAttempts, Delay: time.Millisecond, Multiplier: 2.0}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	rec := logger.NewRecorder()
	calls := 0

	got, err := Do(context.Background(), rec, fastConfig(3), "op", func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, rec.CountAt("warn"))
}

func TestDoRecoversAfterTransientFailures(t *testing.T) {
	for _, k := range []int{2, 3} {
		rec := logger.NewRecorder()
		calls := 0

		got, err := Do(context.Background(), rec, fastConfig(3), "op", func(context.Context) (int, error) {
			calls++
			if calls < k {
				return 0, errBoom
			}
			return 42, nil
		})

		require.NoError(t, err, "success on attempt %d", k)
		assert.Equal(t, 42, got)
		assert.Equal(t, k, calls)
		assert.Equal(t, k-1, rec.CountAt("warn"), "one retry log per failed attempt")
	}
}

func TestDoExhaustsAttemptBudget(t *testing.T) {
	rec := logger.NewRecorder()
	calls := 0

	_, err := Do(context.Background(), rec, fastConfig(3), "op", func(context.Context) (int, error) {
		calls++
		return 0, errBoom
	})

	require.ErrorIs(t, err, errBoom, "the last transient error surfaces")
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, rec.CountAt("warn"), "the final failure is not a retry log")
}

func TestDoDoesNotRetryPermanentErrors(t *testing.T) {
	rec := logger.NewRecorder()
	rejection := &rejectionError{msg: "service said no"}
	calls := 0

	_, err := Do(context.Background(), rec, fastConfig(3), "op", func(context.Context) (int, error) {
		calls++
		return 0, rejection
	})

	require.Error(t, err)
	assert.Equal(t, rejection, err)
	assert.Equal(t, 1, calls, "a well-formed rejection wastes no attempts")
	assert.Equal(t, 0, rec.CountAt("warn"))
}

func TestDoSingleAttemptBudget(t *testing.T) {
	rec := logger.NewRecorder()
	calls := 0
	start := time.Now()

	_, err := Do(context.Background(), rec, Config{MaxAttempts: 1, Delay: time.Minute}, "op", func(context.Context) (int, error) {
		calls++
		return 0, errBoom
	})

	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), time.Second, "no backoff sleep on a single-attempt budget")
	assert.Equal(t, 0, rec.CountAt("warn"))
}

func TestDoDefaultsApplied(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultMaxAttempts, cfg.MaxAttempts)
	assert.Equal(t, DefaultDelay, cfg.Delay)
	assert.Equal(t, DefaultMultiplier, cfg.Multiplier)
}

func TestDoCancellationDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := logger.NewRecorder()
	calls := 0

	_, err := Do(ctx, rec, Config{MaxAttempts: 3, Delay: time.Minute}, "op", func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, errBoom
	})

	require.ErrorIs(t, err, context.Canceled, "cancellation aborts, it does not silently retry")
	assert.Equal(t, 1, calls, "no further attempt after cancellation")
}

func TestDoCancelledBeforeFirstAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Do(ctx, logger.NewNop(), fastConfig(3), "op", func(context.Context) (int, error) {
		calls++
		return 0, nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestDoRetryLogFields(t *testing.T) {
	rec := logger.NewRecorder()

	_, _ = Do(context.Background(), rec, fastConfig(2), "geocode.find", func(context.Context) (int, error) {
		return 0, errBoom
	})

	entries := rec.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "geocode.find", entries[0].Fields["operation"])
	assert.Equal(t, 1, entries[0].Fields["attempt"])
	assert.Equal(t, 2, entries[0].Fields["max_attempts"])
	assert.Equal(t, "boom", entries[0].Fields["error"])
}
