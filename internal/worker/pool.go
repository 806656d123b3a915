package worker

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/osse101/ItemVault_Go/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Name() string
	Process(ctx context.Context) error
}

type queuedJob struct {
	id  string
	job Job
}

// Pool runs jobs on a fixed number of goroutines. Each job runs with a
// context carrying its own id so its log lines can be correlated.
type Pool struct {
	workers  int
	jobQueue chan queuedJob
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
}

// NewPool creates a new worker pool
func NewPool(workers int, queueSize int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers:  workers,
		jobQueue: make(chan queuedJob, queueSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case q := <-p.jobQueue:
			p.run(q)
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Pool) run(q queuedJob) {
	ctx := logger.WithRequestID(p.ctx, q.id)
	log := logger.FromContext(ctx)
	log.Debug(LogMsgWorkerJobStarted, "job", q.job.Name())
	if err := q.job.Process(ctx); err != nil {
		log.Error(LogMsgWorkerJobFailed, "job", q.job.Name(), "error", err)
	}
}

// Enqueue queues a job, blocking while the queue is full. It returns the
// job id, or ErrPoolStopped once the pool is stopping.
func (p *Pool) Enqueue(job Job) (string, error) {
	q := queuedJob{id: uuid.NewString(), job: job}
	select {
	case p.jobQueue <- q:
		return q.id, nil
	case <-p.ctx.Done():
		return "", ErrPoolStopped
	}
}

// TryEnqueue queues a job without blocking. It returns false when the queue
// is full or the pool is stopping.
func (p *Pool) TryEnqueue(job Job) (string, bool) {
	if p.ctx.Err() != nil {
		return "", false
	}
	q := queuedJob{id: uuid.NewString(), job: job}
	select {
	case p.jobQueue <- q:
		return q.id, true
	default:
		logger.FromContext(p.ctx).Warn(LogMsgWorkerQueueFull, "job", job.Name())
		return "", false
	}
}

// Stop cancels running jobs, stops the workers and waits for them to finish.
// Queued jobs that have not started are dropped.
func (p *Pool) Stop() {
	p.stopOnce.Do(p.cancel)
	p.wg.Wait()
}
