// Package command is the executable half of updraft's effect system: it
// turns declarative effect bundles into queues of callbacks bound to a
// running program.
package command

import (
	"context"

	"github.com/on-the-ground/updraft/effects"
	"github.com/on-the-ground/updraft/effects/task"
)

// Envelope is one batch dispatch: the messages to apply plus the
// execution hints of the Command that produced them. The program applies
// the messages in one update pass and uses the modifier to decide whether
// a render follows and whether the round is measured.
type Envelope[M any] struct {
	Msgs     []M
	Modifier effects.Modifier
}

// Handle is the contract a running program exposes to commands. Handles
// are cheap to duplicate: every Fork addresses the same logical program,
// so any number of in-flight continuations can hold one and dispatch back
// without racing: all dispatches land on the program's single logical
// thread.
type Handle[P, M any] interface {
	// Dispatch injects one message with default execution hints.
	Dispatch(ctx context.Context, msg M)
	// DispatchBatch injects a batch of messages in one update pass,
	// honoring the envelope's hints.
	DispatchBatch(ctx context.Context, env Envelope[M])
	// Fork duplicates the handle.
	Fork() P
	// Spawn hands a continuation to the program's cooperative
	// scheduler. Continuations sharing a non-empty key run in
	// submission order; an empty key carries no ordering requirement.
	Spawn(ctx context.Context, key string, fn func(context.Context))
}

// Command is an ordered queue of callbacks bound to a program type P and
// a message type M, plus execution hints. By the time effects become a
// Command only local-equivalent work remains; external messages must
// already have been relayed upward.
//
// A Command is consumed exactly once by Emit; afterwards its queue is
// drained and the instance is inert.
type Command[P Handle[P, M], M any] struct {
	queue    []func(ctx context.Context, program P, mod effects.Modifier)
	modifier effects.Modifier
	emitted  bool
}

// New creates a Command from a single callback.
func New[P Handle[P, M], M any](f func(context.Context, P)) *Command[P, M] {
	return &Command[P, M]{
		queue: []func(context.Context, P, effects.Modifier){
			func(ctx context.Context, program P, _ effects.Modifier) {
				f(ctx, program)
			},
		},
		modifier: effects.DefaultModifier(),
	}
}

// None is the empty Command: no callbacks, default hints.
func None[P Handle[P, M], M any]() *Command[P, M] {
	return &Command[P, M]{modifier: effects.DefaultModifier()}
}

// FromTask builds a Command that hands the task to the scheduler and,
// upon resolution, dispatches the resolved message through a fork of the
// handle, carrying the Command's hints at emit time. The callback itself
// returns immediately; the continuation may run long after Emit has
// returned.
func FromTask[P Handle[P, M], M any](t *task.Task[M]) *Command[P, M] {
	c := None[P, M]()
	c.queue = append(c.queue, func(ctx context.Context, program P, mod effects.Modifier) {
		fork := program.Fork()
		program.Spawn(ctx, t.Key(), func(ctx context.Context) {
			msg, ok := t.Resolve(ctx)
			if !ok {
				return
			}
			fork.DispatchBatch(ctx, Envelope[M]{Msgs: []M{msg}, Modifier: mod})
		})
	})
	return c
}

// FromEffects converts a bundle whose external channel is empty by type
// (X = effects.Unit) into a Command with a single callback. The callback
// drives every local task to resolution in channel order and then
// performs exactly one batch dispatch with all resolved messages, so the
// program runs at most one update/render pass for the whole bundle.
//
// When every local task is already resolved the dispatch happens
// synchronously, before Emit returns. Otherwise the tasks are awaited
// sequentially inside one spawned continuation. If any task fails to
// resolve (context done or task already consumed) the whole batch is
// dropped un-dispatched.
func FromEffects[P Handle[P, M], M any](e *effects.Effects[M, effects.Unit]) *Command[P, M] {
	c := None[P, M]()
	c.modifier = e.Modifier()
	local := append([]*task.Task[M]{}, e.Local...)
	if len(local) == 0 {
		return c
	}
	allReady := true
	for _, t := range local {
		if !t.Ready() {
			allReady = false
			break
		}
	}
	c.queue = append(c.queue, func(ctx context.Context, program P, mod effects.Modifier) {
		if allReady {
			if msgs, ok := resolveAll(ctx, local); ok {
				program.DispatchBatch(ctx, Envelope[M]{Msgs: msgs, Modifier: mod})
			}
			return
		}
		fork := program.Fork()
		program.Spawn(ctx, "", func(ctx context.Context) {
			if msgs, ok := resolveAll(ctx, local); ok {
				fork.DispatchBatch(ctx, Envelope[M]{Msgs: msgs, Modifier: mod})
			}
		})
	})
	return c
}

// BatchEffects batches the bundles per effects.Batch, then converts the
// result via FromEffects.
func BatchEffects[P Handle[P, M], M any](bundles ...*effects.Effects[M, effects.Unit]) *Command[P, M] {
	return FromEffects[P, M](effects.Batch(bundles...))
}

// Batch merges the given Commands into a fresh one: queues concatenate in
// input order, modifiers coalesce monotonically.
func Batch[P Handle[P, M], M any](cmds ...*Command[P, M]) *Command[P, M] {
	merged := &Command[P, M]{}
	n := 0
	for _, c := range cmds {
		if c == nil {
			continue
		}
		merged.queue = append(merged.queue, c.queue...)
		merged.modifier.Coalesce(c.modifier)
		n++
	}
	if n == 0 {
		merged.modifier = effects.DefaultModifier()
	}
	return merged
}

// Push appends another Command's queue to this one, coalescing hints.
func (c *Command[P, M]) Push(other *Command[P, M]) {
	c.Append(other)
}

// Append extends this Command's queue with the given Commands' queues in
// order, coalescing hints.
func (c *Command[P, M]) Append(cmds ...*Command[P, M]) {
	for _, other := range cmds {
		if other == nil {
			continue
		}
		c.queue = append(c.queue, other.queue...)
		c.modifier.Coalesce(other.modifier)
	}
}

// ShouldUpdateView sets the render hint. Returns the Command for
// chaining.
func (c *Command[P, M]) ShouldUpdateView(should bool) *Command[P, M] {
	c.modifier.ShouldUpdateView = should
	return c
}

// NoRender suppresses the redraw that would otherwise follow this
// Command's dispatches. Returns the Command for chaining.
func (c *Command[P, M]) NoRender() *Command[P, M] {
	c.modifier.NoRender()
	return c
}

// Measure asks the program to record timing for the work this Command
// triggers. Returns the Command for chaining.
func (c *Command[P, M]) Measure() *Command[P, M] {
	c.modifier.Measure()
	return c
}

// MeasureWithName is Measure with a tag. Returns the Command for
// chaining.
func (c *Command[P, M]) MeasureWithName(name string) *Command[P, M] {
	c.modifier.MeasureWithName(name)
	return c
}

// Modifier returns the Command's execution hints.
func (c *Command[P, M]) Modifier() effects.Modifier {
	return c.modifier
}

// Emit consumes the Command: every queued callback is invoked once, in
// insertion order, each with its own fork of the handle. Emit is
// synchronous and non-blocking: callbacks that only spawn asynchronous
// work return immediately, while callbacks over already-resolved work
// dispatch before Emit returns. A second Emit is a no-op.
func (c *Command[P, M]) Emit(ctx context.Context, program P) {
	if c.emitted {
		return
	}
	c.emitted = true
	queue := c.queue
	c.queue = nil
	for _, cb := range queue {
		cb(ctx, program.Fork(), c.modifier)
	}
}

func resolveAll[M any](ctx context.Context, tasks []*task.Task[M]) ([]M, bool) {
	msgs := make([]M, 0, len(tasks))
	for _, t := range tasks {
		msg, ok := t.Resolve(ctx)
		if !ok {
			return nil, false
		}
		msgs = append(msgs, msg)
	}
	return msgs, true
}
