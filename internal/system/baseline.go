package system

import (
	"go.uber.org/zap"

	"github.com/rs-engine/engine/internal/config"
	"github.com/rs-engine/engine/internal/core/engine"
	"github.com/rs-engine/engine/internal/gpu"
)

// Baseline returns the default system set factory for engine.WithBaseline:
// application (-100), resource (-75), input (-50), script (0, when enabled),
// physics (50), render (100).
func Baseline(device gpu.Device, cfg *config.Config, poll PollFunc, log *zap.Logger) func(*engine.Engine) []engine.System {
	return func(*engine.Engine) []engine.System {
		systems := []engine.System{
			NewApplication(device, cfg.Window, log),
			NewResources(cfg.Resources.Manifest, log),
			NewInput(poll, log),
		}
		if cfg.Scripting.Enabled {
			systems = append(systems, NewScript(cfg.Scripting.Dir, log))
		}
		systems = append(systems,
			NewPhysics(log),
			NewRender(log),
		)
		return systems
	}
}
