// Package clock tracks frame timing for the scheduler: a clamped per-frame
// delta and a fixed-step accumulator that decouples the simulation rate from
// the frame rate.
package clock

import "time"

const (
	// DefaultFixedTimeStep is the 60 Hz simulation step.
	DefaultFixedTimeStep = 1.0 / 60.0

	// DefaultMaxDelta caps per-frame delta so a long stall does not trigger
	// a runaway fixed-step catch-up loop.
	DefaultMaxDelta = 0.1
)

// Clock derives per-frame timing from a time source. The source is
// injectable so tests can drive it deterministically.
type Clock struct {
	now func() time.Time

	startTime     time.Time
	lastFrameTime time.Time

	totalTime float64 // seconds since Reset, wall-clock derived
	deltaTime float64 // seconds since previous Tick, clamped
	maxDelta  float64

	fixedTimeStep    float64
	fixedAccumulator float64
}

// New creates a clock reading from time.Now.
func New() *Clock {
	return NewWithSource(time.Now)
}

// NewWithSource creates a clock reading from the given source.
func NewWithSource(now func() time.Time) *Clock {
	c := &Clock{
		now:           now,
		maxDelta:      DefaultMaxDelta,
		fixedTimeStep: DefaultFixedTimeStep,
	}
	c.Reset()
	return c
}

// Reset stamps start and last-frame time from the source and zeroes totals.
// The scheduler calls this when the engine starts.
func (c *Clock) Reset() {
	t := c.now()
	c.startTime = t
	c.lastFrameTime = t
	c.totalTime = 0
	c.deltaTime = 0
	c.fixedAccumulator = 0
}

// Tick advances the clock one frame: computes the clamped delta since the
// previous tick and the total time since Reset.
func (c *Clock) Tick() {
	t := c.now()

	c.deltaTime = t.Sub(c.lastFrameTime).Seconds()
	if c.deltaTime > c.maxDelta {
		c.deltaTime = c.maxDelta
	}

	c.totalTime = t.Sub(c.startTime).Seconds()
	c.lastFrameTime = t
}

// AccumulateFixed feeds the current frame delta into the fixed-step
// accumulator. Call once per Tick, before consuming steps.
func (c *Clock) AccumulateFixed() {
	c.fixedAccumulator += c.deltaTime
}

// ConsumeFixedStep takes one fixed step out of the accumulator if a full
// step is available. The scheduler loops on this; after the loop the
// accumulator is always in [0, fixedTimeStep).
func (c *Clock) ConsumeFixedStep() bool {
	if c.fixedAccumulator < c.fixedTimeStep {
		return false
	}
	c.fixedAccumulator -= c.fixedTimeStep
	return true
}

func (c *Clock) DeltaTime() float64        { return c.deltaTime }
func (c *Clock) TotalTime() float64        { return c.totalTime }
func (c *Clock) FixedTimeStep() float64    { return c.fixedTimeStep }
func (c *Clock) FixedAccumulator() float64 { return c.fixedAccumulator }

// SetFixedTimeStep changes the simulation step. Non-positive values are
// ignored.
func (c *Clock) SetFixedTimeStep(step float64) {
	if step > 0 {
		c.fixedTimeStep = step
	}
}

// SetMaxDelta changes the per-frame delta ceiling. Non-positive values are
// ignored.
func (c *Clock) SetMaxDelta(max float64) {
	if max > 0 {
		c.maxDelta = max
	}
}
