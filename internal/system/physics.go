package system

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rs-engine/engine/internal/core/engine"
	"github.com/rs-engine/engine/internal/mathx"
	"github.com/rs-engine/engine/internal/resource"
)

// Physics advances model transforms on the fixed simulation step. Priority
// 50: after game logic, before rendering. Real simulations (cloth, fluids)
// are external collaborators; this system carries the fixed-step plumbing
// and a plain gravity integrator so transforms actually move.
type Physics struct {
	engine.Base

	log      *zap.Logger
	registry *resource.Registry

	gravity    mathx.Vec3
	velocities map[resource.Handle]mathx.Vec3

	fixedSteps uint64
	simTime    float64
}

func NewPhysics(log *zap.Logger) *Physics {
	if log == nil {
		log = zap.NewNop()
	}
	return &Physics{
		log:        log,
		gravity:    mathx.New(0, -9.81, 0),
		velocities: make(map[resource.Handle]mathx.Vec3),
	}
}

func (p *Physics) Name() string  { return "physics" }
func (p *Physics) Priority() int { return 50 }

func (p *Physics) Init(e *engine.Engine) error {
	if err := p.Base.Init(e); err != nil {
		return err
	}
	res, ok := engine.Lookup[*Resources](e)
	if !ok {
		return fmt.Errorf("physics system requires the resource system")
	}
	p.registry = res.Registry()
	return nil
}

// SetGravity replaces the gravity vector applied to dynamic models.
func (p *Physics) SetGravity(g mathx.Vec3) { p.gravity = g }

// MarkDynamic opts a model into gravity integration.
func (p *Physics) MarkDynamic(h resource.Handle) {
	p.velocities[h] = mathx.Zero
}

func (p *Physics) FixedUpdate(dt float64) {
	p.fixedSteps++
	p.simTime += dt

	step := float32(dt)
	for h, vel := range p.velocities {
		model, ok := p.registry.GetModel(h)
		if !ok {
			delete(p.velocities, h)
			continue
		}
		vel = vel.Add(p.gravity.Scale(step))
		p.velocities[h] = vel
		model.SetPosition(model.Transform().Position.Add(vel.Scale(step)))
	}
}

// FixedSteps reports how many fixed steps have run since start.
func (p *Physics) FixedSteps() uint64 { return p.fixedSteps }

// SimTime reports accumulated simulation time in seconds; always a whole
// multiple of the fixed step.
func (p *Physics) SimTime() float64 { return p.simTime }

func (p *Physics) Shutdown() {
	p.log.Debug("physics shutdown",
		zap.Uint64("fixed_steps", p.fixedSteps),
		zap.Float64("sim_time", p.simTime))
}
