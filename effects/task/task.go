// Package task provides the atomic unit of deferred work in updraft:
// a one-shot asynchronous computation that resolves to exactly one message.
package task

import (
	"context"
	"sync/atomic"
)

// Task wraps one asynchronous computation producing a single message of
// type M. A Task is one-shot: it resolves at most once, it is not a
// stream, and it is not restartable. A Task that is never driven simply
// never resolves; that is not an error.
//
// Tasks own only their captured computation, never UI state.
type Task[M any] struct {
	run   func(context.Context) (M, bool)
	ready bool
	key   string
	once  *atomic.Bool
}

// New wraps an asynchronous computation into a Task. The computation is
// not started until the task is resolved.
func New[M any](fn func(context.Context) M) *Task[M] {
	return &Task[M]{
		run: func(ctx context.Context) (M, bool) {
			return fn(ctx), true
		},
		once: &atomic.Bool{},
	}
}

// Resolved wraps an immediately-available message as an already-resolved
// Task. Resolving it never suspends.
func Resolved[M any](msg M) *Task[M] {
	return &Task[M]{
		run: func(context.Context) (M, bool) {
			return msg, true
		},
		ready: true,
		once:  &atomic.Bool{},
	}
}

// WithKey tags the task with a partition key. Tasks sharing a key are
// resolved in spawn order by the scheduler; unkeyed tasks may resolve in
// any order relative to each other. Returns the task for chaining.
func (t *Task[M]) WithKey(key string) *Task[M] {
	t.key = key
	return t
}

// Key returns the partition key, empty for unkeyed tasks.
func (t *Task[M]) Key() string {
	if t == nil {
		return ""
	}
	return t.key
}

// Ready reports whether the task resolves without suspension, i.e. it was
// built from an immediately-available value.
func (t *Task[M]) Ready() bool {
	return t != nil && t.ready
}

// Resolve drives the task to completion and consumes it. The second
// return is false when the task was already consumed or the context is
// done before the computation starts; the caller must then treat the task
// as never resolving and drop it silently.
func (t *Task[M]) Resolve(ctx context.Context) (M, bool) {
	var zero M
	if t == nil {
		return zero, false
	}
	if !t.once.CompareAndSwap(false, true) {
		return zero, false
	}
	select {
	case <-ctx.Done():
		return zero, false
	default:
	}
	return t.run(ctx)
}

// Map returns a new Task that, once driven, applies f to the original
// task's result. The underlying computation runs at most once and f is
// applied at most once per resolution; resolving the mapped task
// consumes the original, and the partition key carries over.
func Map[M, M2 any](t *Task[M], f func(M) M2) *Task[M2] {
	return &Task[M2]{
		run: func(ctx context.Context) (M2, bool) {
			var zero M2
			msg, ok := t.Resolve(ctx)
			if !ok {
				return zero, false
			}
			return f(msg), true
		},
		ready: t.Ready(),
		key:   t.Key(),
		once:  &atomic.Bool{},
	}
}
