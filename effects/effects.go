package effects

import (
	"context"

	"github.com/on-the-ground/updraft/effects/task"
)

// Unit is the external message type of a component that never relays
// effects to a parent, typically the root application.
type Unit = struct{}

// Effects groups the deferred work an update function wants performed,
// split into two channels. Local tasks resolve inside the owning
// component and produce messages of its own type M. External tasks are
// relayed unresolved to the parent component that embeds this one and
// produce messages of the parent's type X. The two channels never mix;
// Localize is the only sanctioned way to fold external work into a local
// channel.
//
// An Effects value is created by an update function, combined with its
// siblings via Batch, and consumed by conversion into a Command. It has
// no identity beyond one update cycle.
type Effects[M, X any] struct {
	// Local holds tasks whose messages feed back into the owning
	// component on the next update loop.
	Local []*task.Task[M]
	// External holds tasks whose messages are destined for the parent
	// component.
	External []*task.Task[X]

	modifier Modifier
}

// New creates an Effects with immediately-available local and external
// messages.
func New[M, X any](local []M, external []X) *Effects[M, X] {
	return &Effects[M, X]{
		Local:    resolvedTasks(local),
		External: resolvedTasks(external),
		modifier: DefaultModifier(),
	}
}

// NewAsync creates an Effects with local and external asynchronous
// computations that resolve to M and X respectively.
func NewAsync[M, X any](local []func(context.Context) M, external []func(context.Context) X) *Effects[M, X] {
	return &Effects[M, X]{
		Local:    deferredTasks(local),
		External: deferredTasks(external),
		modifier: DefaultModifier(),
	}
}

// None creates an empty Effects: no work, default modifier.
func None[M, X any]() *Effects[M, X] {
	return &Effects[M, X]{modifier: DefaultModifier()}
}

// WithLocal creates an Effects whose local channel holds the given
// immediately-available messages.
func WithLocal[M, X any](local ...M) *Effects[M, X] {
	return &Effects[M, X]{
		Local:    resolvedTasks(local),
		modifier: DefaultModifier(),
	}
}

// WithLocalAsync creates an Effects whose local channel holds the given
// asynchronous computations.
func WithLocalAsync[M, X any](local ...func(context.Context) M) *Effects[M, X] {
	return &Effects[M, X]{
		Local:    deferredTasks(local),
		modifier: DefaultModifier(),
	}
}

// WithLocalTasks creates an Effects from already-built local tasks.
func WithLocalTasks[M, X any](local ...*task.Task[M]) *Effects[M, X] {
	return &Effects[M, X]{
		Local:    append([]*task.Task[M]{}, local...),
		modifier: DefaultModifier(),
	}
}

// WithExternal creates an Effects whose external channel holds the given
// immediately-available messages for the parent component.
func WithExternal[M, X any](external ...X) *Effects[M, X] {
	return &Effects[M, X]{
		External: resolvedTasks(external),
		modifier: DefaultModifier(),
	}
}

// WithExternalAsync creates an Effects whose external channel holds the
// given asynchronous computations.
func WithExternalAsync[M, X any](external ...func(context.Context) X) *Effects[M, X] {
	return &Effects[M, X]{
		External: deferredTasks(external),
		modifier: DefaultModifier(),
	}
}

// MapLocal rewrites the eventual output of every local task via f. The
// external channel and the modifier are untouched.
func MapLocal[M, M2, X any](e *Effects[M, X], f func(M) M2) *Effects[M2, X] {
	local := make([]*task.Task[M2], 0, len(e.Local))
	for _, t := range e.Local {
		local = append(local, task.Map(t, f))
	}
	return &Effects[M2, X]{
		Local:    local,
		External: e.External,
		modifier: e.modifier,
	}
}

// MapExternal rewrites the eventual output of every external task via f.
// The local channel and the modifier are untouched.
func MapExternal[M, X, X2 any](e *Effects[M, X], f func(X) X2) *Effects[M, X2] {
	external := make([]*task.Task[X2], 0, len(e.External))
	for _, t := range e.External {
		external = append(external, task.Map(t, f))
	}
	return &Effects[M, X2]{
		Local:    e.Local,
		External: external,
		modifier: e.modifier,
	}
}

// Localize folds the bundle into a single local channel a parent can
// consume uniformly: the original external tasks come first, unchanged,
// followed by the local tasks translated into the parent's vocabulary via
// f. The resulting external channel is empty; X2 is the vocabulary of the
// parent's own parent. The external-before-local ordering is load-bearing
// for deterministic dispatch order.
func Localize[M, X, X2 any](e *Effects[M, X], f func(M) X) *Effects[X, X2] {
	local := make([]*task.Task[X], 0, len(e.External)+len(e.Local))
	local = append(local, e.External...)
	for _, t := range e.Local {
		local = append(local, task.Map(t, f))
	}
	return &Effects[X, X2]{
		Local:    local,
		modifier: e.modifier,
	}
}

// Batch merges sibling bundles into one: local channels concatenate in
// input order, external channels concatenate in input order, and the
// modifiers coalesce pairwise under the monotonic rule.
func Batch[M, X any](bundles ...*Effects[M, X]) *Effects[M, X] {
	// The zero Modifier is the identity for Coalesce, so the merged
	// booleans hold iff some input holds them.
	merged := &Effects[M, X]{}
	n := 0
	for _, e := range bundles {
		if e == nil {
			continue
		}
		merged.Local = append(merged.Local, e.Local...)
		merged.External = append(merged.External, e.External...)
		merged.modifier.Coalesce(e.modifier)
		n++
	}
	if n == 0 {
		merged.modifier = DefaultModifier()
	}
	return merged
}

// AppendLocal appends immediately-available messages to the local
// channel. Returns the bundle for chaining.
func (e *Effects[M, X]) AppendLocal(local ...M) *Effects[M, X] {
	e.Local = append(e.Local, resolvedTasks(local)...)
	return e
}

// Extend appends immediately-available messages to both channels.
// Returns the bundle for chaining.
func (e *Effects[M, X]) Extend(local []M, external []X) *Effects[M, X] {
	e.Local = append(e.Local, resolvedTasks(local)...)
	e.External = append(e.External, resolvedTasks(external)...)
	return e
}

// NoRender suppresses the redraw that would otherwise follow this
// bundle's dispatch. Returns the bundle for chaining.
func (e *Effects[M, X]) NoRender() *Effects[M, X] {
	e.modifier.NoRender()
	return e
}

// Measure asks the program to record timing for the round of work this
// bundle triggers. Returns the bundle for chaining.
func (e *Effects[M, X]) Measure() *Effects[M, X] {
	e.modifier.Measure()
	return e
}

// MeasureWithName is Measure with a tag distinguishing this measurement.
// Returns the bundle for chaining.
func (e *Effects[M, X]) MeasureWithName(name string) *Effects[M, X] {
	e.modifier.MeasureWithName(name)
	return e
}

// Modifier returns the bundle's execution hints.
func (e *Effects[M, X]) Modifier() Modifier {
	return e.modifier
}

func resolvedTasks[M any](msgs []M) []*task.Task[M] {
	tasks := make([]*task.Task[M], 0, len(msgs))
	for _, m := range msgs {
		tasks = append(tasks, task.Resolved(m))
	}
	return tasks
}

func deferredTasks[M any](fns []func(context.Context) M) []*task.Task[M] {
	tasks := make([]*task.Task[M], 0, len(fns))
	for _, fn := range fns {
		tasks = append(tasks, task.New(fn))
	}
	return tasks
}
