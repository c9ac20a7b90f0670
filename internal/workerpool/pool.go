package workerpool

import (
	"context"
	"fmt"
	"sync"

	"github.com/bool64/ctxd"
	"golang.org/x/sync/semaphore"
)

// Task is a unit of work executed by the pool.
type Task func(ctx context.Context)

// Pool runs submitted tasks on at most size goroutines at a time.
//
// Tasks start in submission order. Submit never blocks, so a running task may submit more tasks.
//
//	p := workerpool.New(ctx, 3)
//	p.Submit(func(ctx context.Context) {
//		p.Submit(func(ctx context.Context) { ... })
//	})
//	p.Wait() // Returns after both tasks have finished.
type Pool struct {
	ctx context.Context
	log ctxd.Logger

	sem   *semaphore.Weighted
	queue []Task
	mu    sync.Mutex // Guards queue and the dispatching of tasks.
	wg    sync.WaitGroup
}

// Submit queues a task for execution.
func (p *Pool) Submit(task Task) {
	p.wg.Add(1)

	p.mu.Lock()
	p.queue = append(p.queue, task)
	p.mu.Unlock()

	p.dispatch()
}

// Wait blocks until every submitted task has finished, including the tasks submitted while waiting.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// dispatch starts queued tasks while there is free capacity.
func (p *Pool) dispatch() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.queue) > 0 && p.sem.TryAcquire(1) {
		task := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]

		go p.run(task)
	}
}

func (p *Pool) run(task Task) {
	defer p.wg.Done()
	defer p.dispatch()
	defer p.sem.Release(1)
	defer func() {
		if r := recover(); r != nil {
			p.log.Error(p.ctx, "recovered from panic in task", "error", fmt.Sprintf("%v", r))
		}
	}()

	task(p.ctx)
}

// New creates a pool that runs at most size tasks at a time. A size smaller than 1 is treated as 1.
func New(ctx context.Context, size int, opts ...Option) *Pool {
	if size < 1 {
		size = 1
	}

	p := &Pool{
		ctx: ctx,
		log: ctxd.NoOpLogger{},
		sem: semaphore.NewWeighted(int64(size)),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Option configures a Pool.
type Option func(p *Pool)

// WithLogger sets the logger used to report recovered panics.
func WithLogger(l ctxd.Logger) Option {
	return func(p *Pool) {
		p.log = l
	}
}
