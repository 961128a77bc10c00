package retry

import "context"

// Strategy is one way of obtaining a result. The bool reports presence: a
// strategy may complete without error and still have nothing to offer.
type Strategy[T any] func(ctx context.Context) (T, bool, error)

// First invokes the strategies in order and returns the first present result.
// A strategy error is recorded and the chain moves on; when every strategy is
// exhausted without a present result, the last recorded error is returned,
// or plain absence if none erred.
func First[T any](ctx context.Context, strategies ...Strategy[T]) (T, bool, error) {
	var zero T
	var lastErr error

	for _, strategy := range strategies {
		if err := ctx.Err(); err != nil {
			return zero, false, err
		}

		result, ok, err := strategy(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		if ok {
			return result, true, nil
		}
	}

	return zero, false, lastErr
}
