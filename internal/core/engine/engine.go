// Package engine owns the system scheduler: the set of engine systems, their
// priority-ordered lifecycle, and the frame/fixed-timestep update loop.
package engine

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/rs-engine/engine/internal/core/clock"
	"github.com/rs-engine/engine/internal/core/event"
)

// record pairs a system with engine-side lifecycle state. Init success is
// tracked here, not in the system, so Shutdown after a partially failed
// Initialize only tears down what actually came up.
type record struct {
	sys         System
	initialized bool
}

// Engine drives all registered systems. It exclusively owns the system set;
// external code holds only non-owning references obtained via Lookup. Single
// threaded: all lifecycle calls must come from one goroutine.
type Engine struct {
	log *zap.Logger
	clk *clock.Clock
	bus *event.Bus

	systems  []*record
	baseline func(*Engine) []System

	initialized    bool
	running        bool
	closeRequested bool
}

// Option configures a new Engine.
type Option func(*Engine)

// WithClock substitutes the frame clock, letting tests drive time.
func WithClock(c *clock.Clock) Option {
	return func(e *Engine) { e.clk = c }
}

// WithBaseline sets the factory for the default system set injected by
// Initialize when no systems were added.
func WithBaseline(fn func(*Engine) []System) Option {
	return func(e *Engine) { e.baseline = fn }
}

func New(log *zap.Logger, opts ...Option) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		log: log,
		clk: clock.New(),
		bus: event.NewBus(),
	}
	for _, opt := range opts {
		opt(e)
	}
	event.Subscribe(e.bus, func(ev event.CloseRequested) {
		e.log.Info("close requested", zap.String("reason", ev.Reason))
		e.closeRequested = true
	})
	return e
}

// Add appends a system and re-sorts the owned set by ascending priority.
// Equal priorities keep insertion order. No uniqueness constraint: adding
// the same concrete type twice yields two independent instances. When the
// engine is already initialized the system is initialized immediately.
// Returns the added system for convenient chaining.
func (e *Engine) Add(sys System) System {
	rec := &record{sys: sys}
	e.systems = append(e.systems, rec)
	e.sortSystems()

	if e.initialized {
		if err := e.initSystem(rec); err != nil {
			e.log.Error("late system initialization failed",
				zap.String("system", sys.Name()), zap.Error(err))
		}
	}
	return sys
}

// Lookup returns the first owned system whose runtime type matches T, in
// priority order. O(n) first-match scan, not a registry by type.
func Lookup[T System](e *Engine) (T, bool) {
	for _, rec := range e.systems {
		if t, ok := rec.sys.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// Initialize sorts the systems and initializes each in priority order. With
// an empty system set it first injects the baseline set, if one was
// configured. Fails fast on the first system error: systems initialized
// before the failure stay initialized (Shutdown remains safe), and the error
// names the failing system. Calling Initialize on an already-initialized
// engine is a successful no-op.
func (e *Engine) Initialize() error {
	if e.initialized {
		e.log.Warn("engine already initialized")
		return nil
	}

	if len(e.systems) == 0 && e.baseline != nil {
		e.log.Info("no systems added, injecting baseline set")
		for _, sys := range e.baseline(e) {
			e.Add(sys)
		}
	}

	e.sortSystems()

	for _, rec := range e.systems {
		if err := e.initSystem(rec); err != nil {
			return err
		}
	}

	e.initialized = true
	e.log.Info("engine initialized", zap.Int("systems", len(e.systems)))
	return nil
}

func (e *Engine) initSystem(rec *record) error {
	if rec.initialized {
		return nil
	}
	e.log.Info("initializing system",
		zap.String("system", rec.sys.Name()),
		zap.Int("priority", rec.sys.Priority()))
	if err := rec.sys.Init(e); err != nil {
		e.log.Error("system initialization failed",
			zap.String("system", rec.sys.Name()), zap.Error(err))
		return fmt.Errorf("initialize system %s: %w", rec.sys.Name(), err)
	}
	rec.initialized = true
	return nil
}

// Start invokes Start on every system in priority order, resets the clock
// and marks the engine running. Errors if the engine is not initialized.
func (e *Engine) Start() error {
	if !e.initialized {
		e.log.Error("cannot start engine: not initialized")
		return fmt.Errorf("start engine: not initialized")
	}
	for _, rec := range e.systems {
		rec.sys.Start()
	}
	e.clk.Reset()
	e.running = true
	e.log.Info("engine started")
	return nil
}

// Update advances one frame: clock tick, event delivery, per-frame update on
// every enabled system in priority order, then zero or more fixed steps.
// No-op unless the engine is running.
func (e *Engine) Update() {
	if !e.running {
		return
	}

	e.clk.Tick()

	e.bus.SwapBuffers()
	e.bus.Dispatch()

	dt := e.clk.DeltaTime()
	for _, rec := range e.systems {
		if rec.initialized && rec.sys.Enabled() {
			rec.sys.Update(dt)
		}
	}

	e.clk.AccumulateFixed()
	step := e.clk.FixedTimeStep()
	for e.clk.ConsumeFixedStep() {
		for _, rec := range e.systems {
			if rec.initialized && rec.sys.Enabled() {
				rec.sys.FixedUpdate(step)
			}
		}
	}
}

// Shutdown tears systems down in reverse priority order and releases
// ownership of the set. Only systems whose Init succeeded are shut down, so
// this is safe after a partially failed Initialize. Idempotent.
func (e *Engine) Shutdown() {
	if !e.initialized && len(e.systems) == 0 {
		return
	}
	e.running = false

	for i := len(e.systems) - 1; i >= 0; i-- {
		rec := e.systems[i]
		if !rec.initialized {
			continue
		}
		e.log.Info("shutting down system", zap.String("system", rec.sys.Name()))
		rec.sys.Shutdown()
	}

	e.systems = nil
	e.initialized = false
	e.log.Info("engine shutdown complete")
}

func (e *Engine) sortSystems() {
	sort.SliceStable(e.systems, func(i, j int) bool {
		return e.systems[i].sys.Priority() < e.systems[j].sys.Priority()
	})
}

// SystemCount reports the number of owned systems.
func (e *Engine) SystemCount() int { return len(e.systems) }

func (e *Engine) IsRunning() bool     { return e.running }
func (e *Engine) IsInitialized() bool { return e.initialized }

func (e *Engine) DeltaTime() float64 { return e.clk.DeltaTime() }
func (e *Engine) TotalTime() float64 { return e.clk.TotalTime() }

func (e *Engine) SetFixedTimeStep(step float64) { e.clk.SetFixedTimeStep(step) }

func (e *Engine) Clock() *clock.Clock { return e.clk }
func (e *Engine) Events() *event.Bus  { return e.bus }
func (e *Engine) Logger() *zap.Logger { return e.log }

// RequestClose asks the host loop to stop after the current frame. The
// request is delivered through the event bus like any other event.
func (e *Engine) RequestClose(reason string) {
	event.Emit(e.bus, event.CloseRequested{Reason: reason})
}

// ShouldClose reports whether a close request has been delivered.
func (e *Engine) ShouldClose() bool { return e.closeRequested }
