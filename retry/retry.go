package retry

import (
	"context"
	"errors"
	"time"

	"github.com/gaborage/go-georef/logger"
)

const (
	// DefaultMaxAttempts is the attempt budget used when Config leaves it zero
	DefaultMaxAttempts = 3

	// DefaultDelay is the wait before the first re-attempt
	DefaultDelay = 1 * time.Second

	// DefaultMultiplier is the exponential backoff factor
	DefaultMultiplier = 2.0
)

// Config controls the retry loop. The zero value means defaults.
type Config struct {
	MaxAttempts int
	Delay       time.Duration
	Multiplier  float64
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.Delay <= 0 {
		c.Delay = DefaultDelay
	}
	if c.Multiplier <= 0 {
		c.Multiplier = DefaultMultiplier
	}
	return c
}

// retryable is implemented by errors that know whether repeating the attempt
// can change the outcome.
type retryable interface {
	Retryable() bool
}

// IsPermanent reports whether err declares itself non-retryable. Errors that
// carry no classification are presumed transient.
func IsPermanent(err error) bool {
	var r retryable
	return errors.As(err, &r) && !r.Retryable()
}

// Do runs fn up to cfg.MaxAttempts times, waiting cfg.Delay*Multiplier^(n-1)
// after the n-th failure. Permanent errors and context cancellation abort the
// loop immediately. Failed attempts before the last emit a warn line tagged
// with label; the log never influences control flow.
func Do[T any](ctx context.Context, log logger.Logger, cfg Config, label string, fn func(context.Context) (T, error)) (T, error) {
	cfg = cfg.withDefaults()

	var zero T
	var lastErr error
	delay := cfg.Delay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if IsPermanent(err) {
			return zero, err
		}

		lastErr = err
		if attempt == cfg.MaxAttempts {
			break
		}

		log.Warn().
			Str("operation", label).
			Int("attempt", attempt).
			Int("max_attempts", cfg.MaxAttempts).
			Dur("backoff", delay).
			Err(err).
			Msg("attempt failed, retrying")

		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
		delay = time.Duration(float64(delay) * cfg.Multiplier)
	}

	return zero, lastErr
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
