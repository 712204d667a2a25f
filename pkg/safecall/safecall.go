package safecall

import (
	"context"
	"errors"
	"log"
	"time"
)

// Budgets observed per operation class. Writes are cheapest to abandon,
// auth calls get the longest leash.
const (
	WriteBudget = 500 * time.Millisecond
	ReadBudget  = 800 * time.Millisecond
	SetupBudget = 3 * time.Second
	AuthBudget  = 5 * time.Second
)

// Do races op against the budget and returns fallback when the budget
// elapses first or op returns an error. Errors are logged, never propagated.
//
// The deadline is offered to op through its context, so transports that
// honor contexts stop work on timeout. That offer is not a guarantee: an op
// that ignores its context may still complete later and its side effect may
// still land even though the caller already received the fallback.
func Do[T any](ctx context.Context, name string, budget time.Duration, fallback T, op func(context.Context) (T, error)) T {
	value, err := Try(ctx, budget, op)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Printf("%s gave up after %s (using fallback)", name, budget)
		} else {
			log.Printf("%s failed: %v (using fallback)", name, err)
		}
		return fallback
	}
	return value
}

// Try races op against the budget and surfaces the outcome, letting callers
// branch on error classes before deciding on a fallback. A lapsed budget
// returns context.DeadlineExceeded.
func Try[T any](ctx context.Context, budget time.Duration, op func(context.Context) (T, error)) (T, error) {
	opCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		value, err := op(opCtx)
		done <- outcome{value: value, err: err}
	}()

	select {
	case result := <-done:
		return result.value, result.err
	case <-opCtx.Done():
		var zero T
		return zero, opCtx.Err()
	}
}
