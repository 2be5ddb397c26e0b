package system

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rs-engine/engine/internal/core/engine"
	"github.com/rs-engine/engine/internal/resource"
)

// Resources owns the resource registry. Runs at priority -75: after the
// application system (whose device it binds), before everything that loads
// or draws assets.
type Resources struct {
	engine.Base

	log          *zap.Logger
	registry     *resource.Registry
	manifestPath string
}

// NewResources creates the system. manifestPath may be empty to skip
// preloading.
func NewResources(manifestPath string, log *zap.Logger) *Resources {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resources{log: log, manifestPath: manifestPath}
}

func (r *Resources) Name() string  { return "resource" }
func (r *Resources) Priority() int { return -75 }

func (r *Resources) Init(e *engine.Engine) error {
	if err := r.Base.Init(e); err != nil {
		return err
	}

	app, ok := engine.Lookup[*Application](e)
	if !ok {
		return fmt.Errorf("resource system requires the application system")
	}

	r.registry = resource.NewRegistry(r.log)
	r.registry.SetEvents(e.Events())
	r.registry.Bind(app.Device())
	return nil
}

func (r *Resources) Start() {
	if r.manifestPath == "" {
		return
	}
	man, err := resource.LoadManifest(r.manifestPath)
	if err != nil {
		r.log.Error("manifest preload failed",
			zap.String("path", r.manifestPath), zap.Error(err))
		return
	}
	loaded, failed := man.Apply(r.registry, r.log)
	r.log.Info("manifest preloaded",
		zap.String("path", r.manifestPath),
		zap.Int("loaded", loaded),
		zap.Int("failed", failed))
}

func (r *Resources) Shutdown() {
	if r.registry == nil {
		return
	}
	r.registry.LogStatistics()
	r.registry.ClearAll()
	r.registry.Unbind()
}

// Registry returns the owned registry; nil before Init.
func (r *Resources) Registry() *resource.Registry { return r.registry }
