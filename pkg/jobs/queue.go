package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrQueueFull is returned when the buffer cannot take another job.
	ErrQueueFull = errors.New("queue full")
	// ErrDuplicate is returned when a unique job of the same type is already pending.
	ErrDuplicate = errors.New("job of this type already pending")
)

// Job represents a queued background task.
type Job struct {
	ID       string
	Type     string
	Payload  interface{}
	Attempt  int
	Enqueued time.Time
	// Unique jobs are dropped while another job of the same Type is pending or running.
	Unique bool
}

// Handler processes a job.
type Handler func(context.Context, Job) error

// QueueConfig configures worker pool behaviour.
type QueueConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// Queue is an in-memory job dispatcher backed by goroutines.
type Queue struct {
	name    string
	handler Handler

	workers    int
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	jobs    chan Job
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	pending map[string]int
}

// NewQueue builds a new queue with the provided handler.
func NewQueue(name string, handler Handler, cfg QueueConfig) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 4
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Queue{
		name:       name,
		handler:    handler,
		workers:    cfg.Workers,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger.With(zap.String("queue", name)),
		jobs:       make(chan Job, cfg.BufferSize),
		pending:    make(map[string]int),
	}
}

// Start begins worker consumption. Safe to call once.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.started = true
	q.logger.Info("queue started", zap.Int("workers", q.workers))
}

// Stop cancels workers and waits for them and any tickers to exit.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.cancel()
	q.mu.Unlock()
	q.wg.Wait()
	q.logger.Info("queue stopped")
}

// Enqueue pushes a job onto the queue without blocking. Jobs without an ID get one.
func (q *Queue) Enqueue(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.started {
		return fmt.Errorf("queue %s not started", q.name)
	}
	if err := q.ctx.Err(); err != nil {
		return fmt.Errorf("queue %s stopped: %w", q.name, err)
	}
	if job.Unique && job.Attempt == 0 && q.pending[job.Type] > 0 {
		return ErrDuplicate
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Enqueued.IsZero() {
		job.Enqueued = time.Now().UTC()
	}

	select {
	case q.jobs <- job:
		if job.Attempt == 0 {
			q.pending[job.Type]++
		}
		return nil
	default:
		return ErrQueueFull
	}
}

// Every enqueues a copy of template immediately and then on each tick until the
// queue stops. Duplicate and full-queue rejections are logged and skipped.
func (q *Queue) Every(interval time.Duration, template Job) {
	q.mu.Lock()
	if !q.started || interval <= 0 || q.ctx.Err() != nil {
		q.mu.Unlock()
		return
	}
	ctx := q.ctx
	q.wg.Add(1)
	q.mu.Unlock()

	go func() {
		defer q.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			q.enqueueTick(template)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (q *Queue) enqueueTick(template Job) {
	job := template
	job.ID = ""
	job.Attempt = 0
	job.Enqueued = time.Time{}
	if err := q.Enqueue(job); err != nil && !errors.Is(err, ErrDuplicate) {
		q.logger.Warn("scheduled job skipped", zap.String("type", job.Type), zap.Error(err))
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.jobs:
			err := q.handler(q.ctx, job)
			if err == nil || !q.retry(job, err) {
				q.done(job)
			}
		}
	}
}

func (q *Queue) done(job Job) {
	q.mu.Lock()
	if q.pending[job.Type] > 0 {
		q.pending[job.Type]--
	}
	q.mu.Unlock()
}

// retry schedules another attempt and reports whether one was scheduled.
func (q *Queue) retry(job Job, err error) bool {
	job.Attempt++
	fields := []zap.Field{zap.String("job_id", job.ID), zap.String("type", job.Type), zap.Int("attempt", job.Attempt), zap.Error(err)}
	if job.Attempt > q.maxRetries {
		q.logger.Error("job exceeded retries", fields...)
		return false
	}
	q.logger.Warn("job failed, retrying", fields...)

	q.wg.Add(1)
	go func(j Job) {
		defer q.wg.Done()
		timer := time.NewTimer(q.retryDelay)
		defer timer.Stop()
		select {
		case <-q.ctx.Done():
			return
		case <-timer.C:
			if err := q.Enqueue(j); err != nil {
				q.logger.Error("failed to requeue job", zap.String("job_id", j.ID), zap.Error(err))
				q.done(j)
			}
		}
	}(job)
	return true
}

// Route dispatches jobs to the handler registered for their Type. Unregistered
// types return an error.
func Route(handlers map[string]Handler) Handler {
	return func(ctx context.Context, job Job) error {
		handler, ok := handlers[job.Type]
		if !ok {
			return fmt.Errorf("no handler for job type %q", job.Type)
		}
		return handler(ctx, job)
	}
}
