package engine

// System is the capability contract every engine plugin implements. Systems
// are owned by the Engine, initialized in ascending priority order, updated
// every frame while enabled, and shut down in reverse order.
type System interface {
	// Name identifies the system in logs.
	Name() string

	// Priority orders execution; lower values run earlier. Conventional
	// slots: -100 application, -75 resources, -50 input, 0 game logic,
	// 50 physics, 100 rendering.
	Priority() int

	// Init is called exactly once, during Engine.Initialize (or immediately
	// when added to an initialized engine). A returned error aborts engine
	// initialization.
	Init(e *Engine) error

	// Start is called once after every system initialized, when the engine
	// starts running. Cross-system references resolved during Init are safe
	// to use here.
	Start()

	// Update runs every frame with the clamped frame delta in seconds.
	Update(dt float64)

	// FixedUpdate runs zero or more times per frame with the constant
	// simulation step in seconds.
	FixedUpdate(dt float64)

	// Shutdown is called once, in reverse priority order, during engine
	// teardown. Only systems whose Init succeeded receive it.
	Shutdown()

	Enabled() bool
	SetEnabled(bool)
}

// Base supplies default lifecycle hooks and the enabled flag. Embed it and
// override what the system needs; an embedder overriding Init must call
// Base.Init to keep the engine reference.
type Base struct {
	engine   *Engine
	disabled bool
}

func (b *Base) Init(e *Engine) error {
	b.engine = e
	return nil
}

// Engine returns the owning engine; nil before Init.
func (b *Base) Engine() *Engine { return b.engine }

func (b *Base) Start()              {}
func (b *Base) Update(float64)      {}
func (b *Base) FixedUpdate(float64) {}
func (b *Base) Shutdown()           {}

func (b *Base) Enabled() bool     { return !b.disabled }
func (b *Base) SetEnabled(v bool) { b.disabled = !v }
