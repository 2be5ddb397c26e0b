// Package system holds the engine's baseline systems: the default set the
// scheduler injects when the host adds nothing of its own. Each is a thin
// plugin over an external collaborator; the scheduling and resource cores
// do the real work.
package system

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rs-engine/engine/internal/config"
	"github.com/rs-engine/engine/internal/core/engine"
	"github.com/rs-engine/engine/internal/gpu"
)

// Application owns the platform collaborators: the GPU device and the
// window surface. Runs first (priority -100) so every later system can rely
// on the device being ready. Window and surface negotiation belong to the
// native backend; this system only carries the handles.
type Application struct {
	engine.Base

	log    *zap.Logger
	device gpu.Device
	window config.WindowConfig
}

func NewApplication(device gpu.Device, window config.WindowConfig, log *zap.Logger) *Application {
	if log == nil {
		log = zap.NewNop()
	}
	return &Application{log: log, device: device, window: window}
}

func (a *Application) Name() string  { return "application" }
func (a *Application) Priority() int { return -100 }

func (a *Application) Init(e *engine.Engine) error {
	if err := a.Base.Init(e); err != nil {
		return err
	}
	if a.device == nil {
		return fmt.Errorf("application system: no GPU device")
	}
	a.log.Info("application system ready",
		zap.String("device", a.device.Name()),
		zap.String("window", a.window.Title),
		zap.Uint32("width", a.window.Width),
		zap.Uint32("height", a.window.Height))
	return nil
}

// Device returns the GPU device handle other systems bind against.
func (a *Application) Device() gpu.Device { return a.device }

// WindowSize reports the configured surface dimensions.
func (a *Application) WindowSize() (width, height uint32) {
	return a.window.Width, a.window.Height
}

// RequestClose asks the host loop to stop, via the engine's event bus.
func (a *Application) RequestClose(reason string) {
	a.Engine().RequestClose(reason)
}
