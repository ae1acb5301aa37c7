package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcherRunsTasks(t *testing.T) {
	d := New(2, 16, time.Second, testLogger())

	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		d.Go("count", func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
	}
	d.Close()

	if got := ran.Load(); got != 10 {
		t.Errorf("expected 10 tasks to run, got %d", got)
	}
}

func TestDispatcherSwallowsErrors(t *testing.T) {
	d := New(1, 4, time.Second, testLogger())

	var after atomic.Bool
	d.Go("fails", func(ctx context.Context) error {
		return errors.New("smtp down")
	})
	d.Go("still-runs", func(ctx context.Context) error {
		after.Store(true)
		return nil
	})
	d.Close()

	if !after.Load() {
		t.Error("a failing task blocked subsequent tasks")
	}
}

func TestDispatcherCloseIsIdempotent(t *testing.T) {
	d := New(1, 1, time.Second, testLogger())
	d.Close()
	d.Close()

	// Submitting after close must not panic.
	d.Go("late", func(ctx context.Context) error { return nil })
}
