// internal/worker/worker.go
package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-scanner/internal/device"
	"github.com/tamzrod/modbus-scanner/internal/executor"
)

// DefaultQueueSize bounds the pending jobs per device.
const DefaultQueueSize = 8

var (
	ErrQueueFull = errors.New("worker: queue full")
	ErrStopped   = errors.New("worker: stopped")
)

// Result is delivered to the completion callback.
type Result struct {
	DeviceID    string
	DeviceLabel string

	// Query is a copy taken right after execution; the live query may
	// already be running again.
	Query *device.Query

	executor.Result
}

// Runner executes one query. *executor.Executor satisfies it.
type Runner interface {
	Execute(ctx context.Context, d *device.Device, q *device.Query) executor.Result
}

type job struct {
	q    *device.Query
	done func(Result)
}

// Worker runs the queries of one device sequentially on its own goroutine.
// A submitted query belongs to the worker until its callback fires; the
// device's connection fields must not change while jobs are pending.
type Worker struct {
	dev  *device.Device
	run  Runner
	log  zerolog.Logger
	jobs chan job

	ctx  context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu       sync.Mutex
	inFlight context.CancelFunc
}

// New creates a worker; call Start before Submit.
func New(d *device.Device, run Runner, queueSize int, log zerolog.Logger) *Worker {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Worker{
		dev:  d,
		run:  run,
		log:  log.With().Str("device", d.Label).Logger(),
		jobs: make(chan job, queueSize),
	}
}

// Start launches the worker goroutine. It exits when ctx ends or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	w.ctx, w.stop = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.loop()
}

// Submit enqueues q without blocking. done runs on the worker goroutine.
func (w *Worker) Submit(q *device.Query, done func(Result)) error {
	select {
	case <-w.ctx.Done():
		return ErrStopped
	default:
	}

	select {
	case w.jobs <- job{q: q, done: done}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Cancel abandons the execution in progress, closing its connection.
// Queued jobs still run.
func (w *Worker) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight != nil {
		w.inFlight()
	}
}

// Stop cancels everything and waits for the goroutine to exit. Queued jobs
// are dropped without their callbacks.
func (w *Worker) Stop() {
	w.stop()
	w.wg.Wait()
}

// Pending is the number of queued jobs.
func (w *Worker) Pending() int { return len(w.jobs) }

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case j := <-w.jobs:
			w.do(j)
		}
	}
}

func (w *Worker) do(j job) {
	ctx, cancel := context.WithCancel(w.ctx)
	w.mu.Lock()
	w.inFlight = cancel
	w.mu.Unlock()

	res := w.run.Execute(ctx, w.dev, j.q)

	w.mu.Lock()
	w.inFlight = nil
	w.mu.Unlock()
	cancel()

	w.log.Debug().Str("query", j.q.Label).Bool("ok", res.OK()).Msg("job done")

	if j.done != nil {
		j.done(Result{
			DeviceID:    w.dev.ID,
			DeviceLabel: w.dev.Label,
			Query:       j.q.Clone(),
			Result:      res,
		})
	}
}
