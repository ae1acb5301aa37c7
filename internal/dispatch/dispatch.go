// Package dispatch runs fire-and-forget side-channel work (emails, in-app
// notifications) on a bounded worker pool.
//
// Tasks are submitted after the primary transaction has committed and are
// never awaited by it: a task failure is logged and swallowed, and each
// task is attempted exactly once. Submitting related deliveries as separate
// tasks keeps one recipient's failure from aborting the rest of a batch.
package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is one unit of side-channel work.
type Task func(ctx context.Context) error

// Dispatcher owns the worker pool.
type Dispatcher struct {
	tasks   chan job
	wg      sync.WaitGroup
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
}

type job struct {
	name string
	run  Task
}

// New starts a dispatcher with the given number of workers and queue depth.
func New(workers, queueDepth int, taskTimeout time.Duration, logger *slog.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueDepth < 1 {
		queueDepth = 1
	}
	d := &Dispatcher{
		tasks:   make(chan job, queueDepth),
		timeout: taskTimeout,
		logger:  logger,
	}
	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.worker()
	}
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := j.run(ctx); err != nil {
			d.logger.Warn("dispatch task failed", "task", j.name, "error", err)
		}
		cancel()
	}
}

// Go queues a task. If the dispatcher is closed or the queue is full the
// task is dropped with a warning; callers never block on delivery.
func (d *Dispatcher) Go(name string, task Task) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.logger.Warn("dispatch task dropped, dispatcher closed", "task", name)
		return
	}
	select {
	case d.tasks <- job{name: name, run: task}:
	default:
		d.logger.Warn("dispatch task dropped, queue full", "task", name)
	}
}

// Close stops accepting tasks and waits for queued work to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.tasks)
	d.mu.Unlock()

	d.wg.Wait()
}
