package pdf

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// errTimeout reports that a wrapped call did not finish in time
var errTimeout = errors.New("operation timed out")

// withTimeout runs fn on its own goroutine and waits for it, the context or
// the deadline, whichever comes first. fn cannot be interrupted: when the
// wait gives up its result is discarded.
func withTimeout[T any](ctx context.Context, d time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		v, err := fn()
		done <- outcome{value: v, err: err}
	}()

	select {
	case o := <-done:
		return o.value, o.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w after %s", errTimeout, d)
		}
		return zero, ctx.Err()
	}
}
