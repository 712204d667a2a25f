package safecall

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoReturnsValueOnSuccess(t *testing.T) {
	got := Do(context.Background(), "test op", time.Second, -1, func(ctx context.Context) (int, error) {
		return 42, nil
	})
	if got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestDoReturnsFallbackOnError(t *testing.T) {
	got := Do(context.Background(), "test op", time.Second, "fallback", func(ctx context.Context) (string, error) {
		return "", errors.New("boom")
	})
	if got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestDoReturnsFallbackWhenBudgetElapses(t *testing.T) {
	start := time.Now()
	got := Do(context.Background(), "slow op", 20*time.Millisecond, "fallback", func(ctx context.Context) (string, error) {
		select {
		case <-time.After(5 * time.Second):
			return "too late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	if got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("fallback took too long: %s", elapsed)
	}
}

func TestDoFallbackEvenWhenOpIgnoresContext(t *testing.T) {
	done := make(chan struct{})
	got := Do(context.Background(), "stubborn op", 20*time.Millisecond, 7, func(ctx context.Context) (int, error) {
		<-done
		return 1, nil
	})
	close(done)
	if got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
}

func TestTrySurfacesErrors(t *testing.T) {
	want := errors.New("boom")
	_, err := Try(context.Background(), time.Second, func(ctx context.Context) (int, error) {
		return 0, want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected original error, got %v", err)
	}
}

func TestTryReportsDeadlineExceeded(t *testing.T) {
	_, err := Try(context.Background(), 10*time.Millisecond, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
