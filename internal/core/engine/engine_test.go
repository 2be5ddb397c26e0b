package engine

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rs-engine/engine/internal/core/clock"
)

// fakeTime drives the engine clock deterministically.
type fakeTime struct {
	now time.Time
}

func newFakeTime() *fakeTime {
	return &fakeTime{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeTime) Now() time.Time          { return f.now }
func (f *fakeTime) Advance(d time.Duration) { f.now = f.now.Add(d) }

// probe records lifecycle calls into a shared trace.
type probe struct {
	Base
	name     string
	priority int
	initErr  error

	trace *[]string

	inits        int
	starts       int
	updates      int
	fixedUpdates int
	shutdowns    int
}

func newProbe(name string, priority int, trace *[]string) *probe {
	return &probe{name: name, priority: priority, trace: trace}
}

func (p *probe) Name() string  { return p.name }
func (p *probe) Priority() int { return p.priority }

func (p *probe) record(ev string) {
	if p.trace != nil {
		*p.trace = append(*p.trace, p.name+":"+ev)
	}
}

func (p *probe) Init(e *Engine) error {
	if p.initErr != nil {
		return p.initErr
	}
	p.inits++
	p.record("init")
	return p.Base.Init(e)
}

func (p *probe) Start() {
	p.starts++
	p.record("start")
}

func (p *probe) Update(dt float64) {
	p.updates++
	p.record("update")
}

func (p *probe) FixedUpdate(dt float64) {
	p.fixedUpdates++
	p.record("fixed")
}

func (p *probe) Shutdown() {
	p.shutdowns++
	p.record("shutdown")
}

func newTestEngine(ft *fakeTime) *Engine {
	return New(zap.NewNop(), WithClock(clock.NewWithSource(ft.Now)))
}

func TestPriorityOrdering(t *testing.T) {
	var trace []string
	e := newTestEngine(newFakeTime())

	// Added out of order; must initialize as -100, 50, 100.
	e.Add(newProbe("late", 100, &trace))
	e.Add(newProbe("early", -100, &trace))
	e.Add(newProbe("mid", 50, &trace))

	if err := e.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	want := []string{"early:init", "mid:init", "late:init"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Errorf("trace[%d] = %q, want %q", i, trace[i], want[i])
		}
	}
}

func TestShutdownReverseOrder(t *testing.T) {
	var trace []string
	e := newTestEngine(newFakeTime())

	e.Add(newProbe("a", 100, &trace))
	e.Add(newProbe("b", -100, &trace))
	e.Add(newProbe("c", 50, &trace))

	if err := e.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	trace = trace[:0]
	e.Shutdown()

	want := []string{"a:shutdown", "c:shutdown", "b:shutdown"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Errorf("trace[%d] = %q, want %q", i, trace[i], want[i])
		}
	}
}

func TestEqualPriorityKeepsInsertionOrder(t *testing.T) {
	var trace []string
	e := newTestEngine(newFakeTime())

	e.Add(newProbe("first", 0, &trace))
	e.Add(newProbe("second", 0, &trace))
	e.Add(newProbe("third", 0, &trace))

	if err := e.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	want := []string{"first:init", "second:init", "third:init"}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace = %v, want %v", trace, want)
		}
	}
}

func TestDoubleInitializeIsNoOp(t *testing.T) {
	e := newTestEngine(newFakeTime())
	p := newProbe("p", 0, nil)
	e.Add(p)

	if err := e.Initialize(); err != nil {
		t.Fatalf("first Initialize: %v", err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatalf("second Initialize: %v", err)
	}
	if p.inits != 1 {
		t.Errorf("Init ran %d times, want 1", p.inits)
	}
}

func TestInitializeFailFast(t *testing.T) {
	var trace []string
	e := newTestEngine(newFakeTime())

	ok := newProbe("ok", -10, &trace)
	bad := newProbe("bad", 0, &trace)
	bad.initErr = errors.New("device lost")
	never := newProbe("never", 10, &trace)

	e.Add(ok)
	e.Add(bad)
	e.Add(never)

	err := e.Initialize()
	if err == nil {
		t.Fatal("Initialize should fail")
	}
	if !errors.Is(err, bad.initErr) {
		t.Errorf("error %v does not wrap the system error", err)
	}
	if never.inits != 0 {
		t.Error("system after the failure was initialized")
	}
	if e.IsInitialized() {
		t.Error("engine reports initialized after failure")
	}

	// Shutdown after a partial init tears down only what came up.
	trace = trace[:0]
	e.Shutdown()
	if len(trace) != 1 || trace[0] != "ok:shutdown" {
		t.Errorf("shutdown trace = %v, want [ok:shutdown]", trace)
	}
}

func TestShutdownIdempotent(t *testing.T) {
	e := newTestEngine(newFakeTime())
	p := newProbe("p", 0, nil)
	e.Add(p)

	if err := e.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	e.Shutdown()
	e.Shutdown()
	e.Shutdown()

	if p.shutdowns != 1 {
		t.Errorf("Shutdown ran %d times, want 1", p.shutdowns)
	}
}

func TestStartRequiresInitialize(t *testing.T) {
	e := newTestEngine(newFakeTime())
	e.Add(newProbe("p", 0, nil))

	if err := e.Start(); err == nil {
		t.Error("Start before Initialize should error")
	}
	if e.IsRunning() {
		t.Error("engine running after failed Start")
	}
}

func TestUpdateBeforeStartIsNoOp(t *testing.T) {
	ft := newFakeTime()
	e := newTestEngine(ft)
	p := newProbe("p", 0, nil)
	e.Add(p)

	if err := e.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	ft.Advance(time.Second)
	e.Update()

	if p.updates != 0 {
		t.Error("Update ran on a non-running engine")
	}
	if e.DeltaTime() != 0 {
		t.Errorf("clock advanced on a non-running engine: dt=%v", e.DeltaTime())
	}
}

func TestUpdateDispatchesInOrder(t *testing.T) {
	var trace []string
	ft := newFakeTime()
	e := newTestEngine(ft)

	e.Add(newProbe("render", 100, &trace))
	e.Add(newProbe("input", -50, &trace))

	if err := e.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	trace = trace[:0]
	ft.Advance(5 * time.Millisecond) // below one fixed step
	e.Update()

	want := []string{"input:update", "render:update"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Errorf("trace[%d] = %q, want %q", i, trace[i], want[i])
		}
	}
}

func TestFixedStepDispatch(t *testing.T) {
	ft := newFakeTime()
	e := newTestEngine(ft)
	p := newProbe("physics", 50, nil)
	e.Add(p)

	if err := e.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// 40ms frame at the default 1/60 step: exactly two fixed updates.
	ft.Advance(40 * time.Millisecond)
	e.Update()

	if p.updates != 1 {
		t.Errorf("updates = %d, want 1", p.updates)
	}
	if p.fixedUpdates != 2 {
		t.Errorf("fixedUpdates = %d, want 2", p.fixedUpdates)
	}

	acc := e.Clock().FixedAccumulator()
	if acc < 0 || acc >= e.Clock().FixedTimeStep() {
		t.Errorf("accumulator %v out of range after update", acc)
	}
}

func TestDisabledSystemSkipped(t *testing.T) {
	ft := newFakeTime()
	e := newTestEngine(ft)
	p := newProbe("p", 0, nil)
	e.Add(p)
	p.SetEnabled(false)

	if err := e.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ft.Advance(50 * time.Millisecond)
	e.Update()

	if p.updates != 0 || p.fixedUpdates != 0 {
		t.Errorf("disabled system ran: updates=%d fixed=%d", p.updates, p.fixedUpdates)
	}

	p.SetEnabled(true)
	ft.Advance(5 * time.Millisecond)
	e.Update()
	if p.updates != 1 {
		t.Errorf("re-enabled system did not run: updates=%d", p.updates)
	}
}

func TestLookupFindsFirstMatch(t *testing.T) {
	e := newTestEngine(newFakeTime())

	first := newProbe("first", -10, nil)
	second := newProbe("second", 10, nil)
	e.Add(second)
	e.Add(first)

	got, ok := Lookup[*probe](e)
	if !ok {
		t.Fatal("Lookup missed")
	}
	if got != first {
		t.Errorf("Lookup returned %q, want the lowest-priority match %q", got.name, first.name)
	}
}

func TestLookupMiss(t *testing.T) {
	e := newTestEngine(newFakeTime())
	if _, ok := Lookup[*probe](e); ok {
		t.Error("Lookup on empty engine should miss")
	}
}

func TestDuplicateSystemTypesAllowed(t *testing.T) {
	e := newTestEngine(newFakeTime())
	e.Add(newProbe("one", 0, nil))
	e.Add(newProbe("two", 0, nil))

	if e.SystemCount() != 2 {
		t.Errorf("SystemCount = %d, want 2", e.SystemCount())
	}
}

func TestAddAfterInitializeInitializesImmediately(t *testing.T) {
	e := newTestEngine(newFakeTime())
	if err := e.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	p := newProbe("late", 0, nil)
	e.Add(p)
	if p.inits != 1 {
		t.Errorf("late-added system inits = %d, want 1", p.inits)
	}
}

func TestBaselineInjectedWhenEmpty(t *testing.T) {
	var trace []string
	e := New(zap.NewNop(),
		WithClock(clock.NewWithSource(newFakeTime().Now)),
		WithBaseline(func(*Engine) []System {
			return []System{
				newProbe("base-a", 0, &trace),
				newProbe("base-b", 10, &trace),
			}
		}))

	if err := e.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if e.SystemCount() != 2 {
		t.Errorf("SystemCount = %d, want 2 baseline systems", e.SystemCount())
	}
}

func TestBaselineSkippedWhenSystemsAdded(t *testing.T) {
	e := New(zap.NewNop(),
		WithClock(clock.NewWithSource(newFakeTime().Now)),
		WithBaseline(func(*Engine) []System {
			t.Fatal("baseline must not be injected when systems were added")
			return nil
		}))
	e.Add(newProbe("explicit", 0, nil))

	if err := e.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
}

func TestCloseRequestDeliveredNextFrame(t *testing.T) {
	ft := newFakeTime()
	e := newTestEngine(ft)
	e.Add(newProbe("p", 0, nil))

	if err := e.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	e.RequestClose("test")
	if e.ShouldClose() {
		t.Error("close visible before the bus delivered it")
	}

	ft.Advance(time.Millisecond)
	e.Update()
	if !e.ShouldClose() {
		t.Error("close not delivered on the following frame")
	}
}
