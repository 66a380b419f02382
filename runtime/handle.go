package runtime

import (
	"context"

	"github.com/on-the-ground/updraft/command"
	"github.com/on-the-ground/updraft/effects"
	"github.com/on-the-ground/updraft/internal/scheduler"
)

// Handle addresses a running Program. It is a small value: copying it is
// the duplication operation, and every copy points at the same logical
// program. Any number of in-flight continuations may hold one.
//
// Dispatches against a stopped program are dropped silently, the same way
// an un-driven task never resolves.
type Handle[M any] struct {
	programID string
	mailbox   chan<- command.Envelope[M]
	pool      *scheduler.Pool
	done      <-chan struct{}
}

var _ command.Handle[Handle[struct{}], struct{}] = Handle[struct{}]{}

// ProgramID identifies the program this handle addresses.
func (h Handle[M]) ProgramID() string {
	return h.programID
}

// Dispatch injects one message with default execution hints.
func (h Handle[M]) Dispatch(ctx context.Context, msg M) {
	h.DispatchBatch(ctx, command.Envelope[M]{
		Msgs:     []M{msg},
		Modifier: effects.DefaultModifier(),
	})
}

// DispatchBatch injects a batch of messages to be applied in one update
// pass, followed by at most one render, per the envelope's modifier.
func (h Handle[M]) DispatchBatch(ctx context.Context, env command.Envelope[M]) {
	if len(env.Msgs) == 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-h.done:
	case h.mailbox <- env:
	}
}

// Fork duplicates the handle.
func (h Handle[M]) Fork() Handle[M] {
	return h
}

// Spawn hands a continuation to the program's scheduler pool.
func (h Handle[M]) Spawn(ctx context.Context, key string, fn func(context.Context)) {
	h.pool.Spawn(ctx, key, fn)
}
