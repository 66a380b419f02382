// Package scheduler is the cooperative execution backend for deferred
// work. Commands hand continuations to it; each continuation eventually
// re-enters a program's dispatch path, so the scheduler never touches
// application state itself.
package scheduler

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

// Go runs fn on a fresh goroutine. Panics are recovered and logged so a
// misbehaving continuation cannot take down the program loop. Go returns
// once the goroutine has started.
func Go(ctx context.Context, logger *zap.Logger, fn func(context.Context)) {
	ready := make(chan struct{})
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in spawned continuation", zap.Any("recovered", r))
			}
		}()
		close(ready)
		fn(ctx)
	}()
	<-ready
}

type job struct {
	ctx context.Context
	fn  func(context.Context)
}

// Pool runs continuations on a fixed set of worker goroutines, routing by
// partition key: continuations sharing a key land on the same worker and
// therefore run in submission order. Continuations with distinct keys may
// run concurrently.
type Pool struct {
	workers []chan job
	logger  *zap.Logger
	cancel  context.CancelFunc
	done    <-chan struct{}
	closed  bool
	mu      sync.Mutex
}

// NewPool starts numWorkers workers, each with a buffered submission
// channel. Close must be called when the pool is no longer needed.
func NewPool(ctx context.Context, numWorkers, bufferSize int, logger *zap.Logger) *Pool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	workers := make([]chan job, numWorkers)
	ready := sync.WaitGroup{}
	for i := 0; i < numWorkers; i++ {
		ch := make(chan job, bufferSize)
		ready.Add(1)
		go func(ch chan job) {
			ready.Done()
			for {
				select {
				case j := <-ch:
					run(j, logger)
				case <-ctx.Done():
					return
				}
			}
		}(ch)
		workers[i] = ch
	}
	ready.Wait()
	return &Pool{
		workers: workers,
		logger:  logger,
		cancel:  cancel,
		done:    ctx.Done(),
	}
}

// Spawn submits fn for execution. An empty key means no ordering
// requirement: the continuation gets a fresh goroutine. A non-empty key
// routes to the key's worker, preserving submission order for that key.
// Spawn never blocks on the continuation itself; it may block briefly
// when the key's worker queue is full. Submissions against a closed pool
// are dropped un-driven.
func (p *Pool) Spawn(ctx context.Context, key string, fn func(context.Context)) {
	if key == "" {
		Go(ctx, p.logger, fn)
		return
	}
	select {
	case <-ctx.Done():
	case <-p.done:
	case p.channelOf(key) <- job{ctx: ctx, fn: fn}:
	}
}

// Close stops the workers. Queued continuations that have not started are
// dropped un-driven.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.cancel()
		p.closed = true
	}
}

func (p *Pool) channelOf(key string) chan job {
	if len(p.workers) == 1 {
		return p.workers[0]
	}
	idx := xxhash.Sum64String(key) % uint64(len(p.workers))
	return p.workers[idx]
}

func run(j job, logger *zap.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic in pooled continuation", zap.Any("recovered", r))
		}
	}()
	select {
	case <-j.ctx.Done():
	default:
		j.fn(j.ctx)
	}
}
