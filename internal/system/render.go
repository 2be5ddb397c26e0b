package system

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rs-engine/engine/internal/core/engine"
	"github.com/rs-engine/engine/internal/core/event"
	"github.com/rs-engine/engine/internal/resource"
)

// Render runs last (priority 100). The draw pass itself belongs to the
// native backend; this system keeps loaded models GPU-resident and counts
// what a backend would draw, which is what the core owes the pipeline.
type Render struct {
	engine.Base

	log      *zap.Logger
	registry *resource.Registry

	residencyDirty bool
	frames         uint64
	lastDrawCount  int
}

func NewRender(log *zap.Logger) *Render {
	if log == nil {
		log = zap.NewNop()
	}
	return &Render{log: log}
}

func (r *Render) Name() string  { return "render" }
func (r *Render) Priority() int { return 100 }

func (r *Render) Init(e *engine.Engine) error {
	if err := r.Base.Init(e); err != nil {
		return err
	}
	res, ok := engine.Lookup[*Resources](e)
	if !ok {
		return fmt.Errorf("render system requires the resource system")
	}
	r.registry = res.Registry()
	r.residencyDirty = true

	event.Subscribe(e.Events(), func(event.ResourceLoaded) {
		r.residencyDirty = true
	})
	return nil
}

func (r *Render) Update(dt float64) {
	if r.residencyDirty {
		r.ensureResidency()
		r.residencyDirty = false
	}

	draws := 0
	r.registry.Each(func(_ resource.Handle, res resource.Resource) {
		model, ok := res.(*resource.Model)
		if !ok || !model.Meta().IsLoaded() {
			return
		}
		draws += model.MeshCount()
	})
	r.lastDrawCount = draws
	r.frames++
}

// ensureResidency uploads GPU buffers for any loaded model missing them.
// Best-effort: a failed upload is logged and retried on the next dirty pass.
func (r *Render) ensureResidency() {
	dev := r.registry.Device()
	if dev == nil {
		return
	}
	r.registry.Each(func(h resource.Handle, res resource.Resource) {
		model, ok := res.(*resource.Model)
		if !ok || model.HasGPUResources() {
			return
		}
		if err := model.CreateGPUResources(dev); err != nil {
			r.log.Warn("residency upload failed",
				zap.Uint64("handle", uint64(h)), zap.Error(err))
		}
	})
}

// Frames reports how many frames the render pass has run.
func (r *Render) Frames() uint64 { return r.frames }

// LastDrawCount reports the mesh draw count of the most recent frame.
func (r *Render) LastDrawCount() int { return r.lastDrawCount }
