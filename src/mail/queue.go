package mail

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/theleywin/Backend-Linkup/src/lib"
)

var (
	ErrQueueFull   = errors.New("mail queue is full")
	ErrQueueClosed = errors.New("mail queue is closed")
)

// Queue accepts jobs on the request path and delivers them in the background.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Start(ctx context.Context)
	Close()
}

// Deliverer renders a job and sends it with the retry policy.
type Deliverer struct {
	renderer    *Renderer
	sender      Sender
	maxAttempts uint
	newBackOff  func() backoff.BackOff
}

func NewDeliverer(renderer *Renderer, sender Sender, maxAttempts int) *Deliverer {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Deliverer{
		renderer:    renderer,
		sender:      sender,
		maxAttempts: uint(maxAttempts),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxInterval = 30 * time.Second
			return b
		},
	}
}

// Deliver returns the last error once attempts are exhausted or the sender
// reports a permanent failure.
func (d *Deliverer) Deliver(ctx context.Context, job Job) error {
	msg, err := d.renderer.Render(job)
	if err != nil {
		lib.MailJobs.WithLabelValues(string(job.Kind), "invalid").Inc()
		return err
	}

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, d.sender.Send(ctx, msg)
	},
		backoff.WithBackOff(d.newBackOff()),
		backoff.WithMaxTries(d.maxAttempts),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.Warn("mail delivery failed, retrying", "kind", job.Kind, "to", job.To, "retry_in", next, "error", err)
			lib.MailJobs.WithLabelValues(string(job.Kind), "retry").Inc()
		}),
	)
	if err != nil {
		slog.Error("mail delivery gave up", "kind", job.Kind, "to", job.To, "error", err)
		lib.MailJobs.WithLabelValues(string(job.Kind), "failed").Inc()
		return err
	}

	slog.Info("mail delivered", "kind", job.Kind, "to", job.To)
	lib.MailJobs.WithLabelValues(string(job.Kind), "sent").Inc()
	return nil
}

// WorkerQueue buffers jobs in memory and delivers them with a fixed pool of workers.
type WorkerQueue struct {
	deliverer *Deliverer
	workers   int
	jobs      chan Job

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewWorkerQueue(d *Deliverer, workers, buffer int) *WorkerQueue {
	if workers < 1 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &WorkerQueue{
		deliverer: d,
		workers:   workers,
		jobs:      make(chan Job, buffer),
	}
}

// Enqueue never blocks: a full buffer is reported as ErrQueueFull.
func (q *WorkerQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- job:
		lib.MailJobs.WithLabelValues(string(job.Kind), "queued").Inc()
		return nil
	default:
		lib.MailJobs.WithLabelValues(string(job.Kind), "dropped").Inc()
		return ErrQueueFull
	}
}

// Start launches the workers. They exit when ctx is cancelled or the queue is
// closed and drained.
func (q *WorkerQueue) Start(ctx context.Context) {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.work(ctx, i)
	}
	slog.Info("mail workers started", "workers", q.workers, "buffer", cap(q.jobs))
}

func (q *WorkerQueue) work(ctx context.Context, id int) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-q.jobs:
			if !ok {
				return
			}
			if err := q.deliverer.Deliver(ctx, job); err != nil {
				slog.Debug("mail job dropped", "worker", id, "kind", job.Kind)
			}
		}
	}
}

// Close stops accepting jobs and waits for the workers to drain the buffer.
func (q *WorkerQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
}

// NopQueue drops every job. Used when no mail provider is configured.
type NopQueue struct{}

func (NopQueue) Enqueue(ctx context.Context, job Job) error {
	slog.Debug("mail disabled, dropping job", "kind", job.Kind, "to", job.To)
	return nil
}

func (NopQueue) Start(ctx context.Context) {}

func (NopQueue) Close() {}
