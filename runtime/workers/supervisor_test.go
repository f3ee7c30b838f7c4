package workers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// FuncWorker adapts a function into a supervised worker.
type FuncWorker struct {
	fn func(ctx context.Context) error
}

func (w *FuncWorker) Run(ctx context.Context) error { return w.fn(ctx) }

func TestSupervisor_RestartOnPanic(t *testing.T) {
	req := require.New(t)
	log := slog.Default()

	var calls atomic.Int32
	worker := &FuncWorker{fn: func(ctx context.Context) error {
		calls.Add(1)
		panic("boom")
	}}

	sup := NewSupervisor(log, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	go sup.Add(worker).Run(ctx)

	// Waiting for panics and restarts
	time.Sleep(200 * time.Millisecond)

	req.GreaterOrEqual(calls.Load(), int32(2))
}

func TestSupervisor_StopOnSuccess(t *testing.T) {
	req := require.New(t)
	log := slog.Default()

	var calls atomic.Int32
	worker := &FuncWorker{fn: func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}}

	sup := NewSupervisor(log, 10*time.Millisecond)

	// Given a channel to notify when Run() terminated
	done := make(chan struct{})

	go func() {
		sup.Add(worker).Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
		// Then supervisor detected a success, returned nil and stopped
		req.Equal(int32(1), calls.Load())
	case <-time.After(500 * time.Millisecond):
		req.Fail("Supervisor should have stopped after worker success")
	}
}

func TestSupervisor_Stop_Cancels_All_Workers(t *testing.T) {
	req := require.New(t)
	log := slog.Default()

	worker := &FuncWorker{fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}

	sup := NewSupervisor(log, 10*time.Millisecond)
	done := make(chan struct{})

	go func() {
		sup.Add(worker, worker).Run(context.Background())
		close(done)
	}()

	// Give the workers a moment to start before stopping
	time.Sleep(50 * time.Millisecond)
	sup.Stop()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		req.Fail("Supervisor should have drained after Stop")
	}
}
