// Package runtime is a reference program loop for updraft: a single
// goroutine that owns application state, drains dispatched messages,
// runs the update function, executes the resulting effects, and gates
// rendering and measurement on the effects' execution hints.
//
// All update and render work happens on the one loop goroutine.
// Asynchronous work spawned by commands resolves elsewhere and re-enters
// the loop through the program's mailbox, so state is never mutated
// concurrently.
//
// The redraw gate for a cycle comes from the envelope that triggered it.
// A bundle that carries no messages cannot suppress a redraw on its own;
// attach NoRender to the bundle whose messages it should gate.
package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/on-the-ground/updraft/command"
	"github.com/on-the-ground/updraft/effects"
	"github.com/on-the-ground/updraft/internal/scheduler"
)

// Application is the state-owning collaborator: a pure update function
// invoked by the program on each dispatched message, returning the
// effects to perform next. Root applications have no parent, so the
// external channel is typed effects.Unit. A nil bundle means no effects.
//
// Bundles whose local tasks are all already resolved dispatch back into
// the mailbox before the update pass finishes. One pass must therefore
// not fan out more ready messages than the mailbox can buffer (see
// Config.MailboxSize), or the loop blocks on itself. Wrap larger
// fan-outs in task.New so they re-enter asynchronously.
type Application[M any] interface {
	Update(ctx context.Context, msg M) *effects.Effects[M, effects.Unit]
}

// RenderFunc is the hook into the reconciliation collaborator. The
// program calls it after an update pass whenever the pass's modifier has
// ShouldUpdateView set.
type RenderFunc func(context.Context)

// Program owns one application and its update loop.
type Program[M any] struct {
	id     string
	app    Application[M]
	render RenderFunc
	logger *zap.Logger
	cfg    Config

	mailbox  chan command.Envelope[M]
	pool     *scheduler.Pool
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// Option configures a Program at construction.
type Option[M any] func(*Program[M])

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger[M any](logger *zap.Logger) Option[M] {
	return func(p *Program[M]) { p.logger = logger }
}

// WithRender sets the render hook. Without one, render hints are
// silently ignored.
func WithRender[M any](render RenderFunc) Option[M] {
	return func(p *Program[M]) { p.render = render }
}

// WithConfig sizes the program's mailbox and scheduler pool.
func WithConfig[M any](cfg Config) Option[M] {
	return func(p *Program[M]) { p.cfg = cfg }
}

// NewProgram starts a program for the given application and returns it
// together with its stop function. The stop function should be called
// when the program is no longer needed; pending work is then dropped
// un-driven.
func NewProgram[M any](ctx context.Context, app Application[M], opts ...Option[M]) (*Program[M], func()) {
	p := &Program[M]{
		id:     uuid.New().String(),
		app:    app,
		logger: zap.NewNop(),
		cfg:    NewConfig(0, 0, 0),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mailbox = make(chan command.Envelope[M], p.cfg.MailboxSize)
	p.pool = scheduler.NewPool(ctx, p.cfg.NumWorkers, p.cfg.BufferSize, p.logger)

	ready := make(chan struct{})
	go func() {
		close(ready)
		p.loop(ctx)
	}()
	<-ready

	p.logger.Debug("program started", zap.String("program_id", p.id))
	return p, p.stop
}

// ID identifies this program instance.
func (p *Program[M]) ID() string {
	return p.id
}

// Handle returns a dispatch handle for this program.
func (p *Program[M]) Handle() Handle[M] {
	return Handle[M]{
		programID: p.id,
		mailbox:   p.mailbox,
		pool:      p.pool,
		done:      p.done,
	}
}

func (p *Program[M]) stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		p.cancel()
		p.pool.Close()
		p.logger.Debug("program stopped", zap.String("program_id", p.id))
	})
}

func (p *Program[M]) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-p.mailbox:
			p.step(ctx, env)
		}
	}
}

// step is one dispatch cycle: apply every message of the envelope to the
// application, batch the returned bundles into one command, emit it, then
// render and measure per the envelope's hints. The emitted command's own
// hints travel with the dispatches it performs and gate the cycles those
// trigger.
func (p *Program[M]) step(ctx context.Context, env command.Envelope[M]) {
	start := time.Now()

	bundles := make([]*effects.Effects[M, effects.Unit], 0, len(env.Msgs))
	for _, msg := range env.Msgs {
		if eff := p.app.Update(ctx, msg); eff != nil {
			bundles = append(bundles, eff)
		}
	}
	cmd := command.BatchEffects[Handle[M], M](bundles...)
	cmd.Emit(ctx, p.Handle())

	if env.Modifier.ShouldUpdateView && p.render != nil {
		p.render(ctx)
	}
	if env.Modifier.LogMeasurements {
		p.logMeasurement(env.Modifier.MeasurementName, len(env.Msgs), spanSince(start))
	}
}

func (p *Program[M]) logMeasurement(name string, numMsgs int, span TimeSpan) {
	if name == "" {
		name = "dispatch"
	}
	p.logger.Info("measurement",
		zap.String("program_id", p.id),
		zap.String("measurement", name),
		zap.Int("num_msgs", numMsgs),
		zap.Time("start", span.Start()),
		zap.Duration("duration", span.Duration()),
	)
}
