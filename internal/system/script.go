package system

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rs-engine/engine/internal/core/engine"
	"github.com/rs-engine/engine/internal/scripting"
)

// Script runs Lua scene hooks at priority 0, between input and physics.
// Scripts see the registry through the scripting package's scene API.
type Script struct {
	engine.Base

	log *zap.Logger
	dir string
	lua *scripting.Engine
}

func NewScript(dir string, log *zap.Logger) *Script {
	if log == nil {
		log = zap.NewNop()
	}
	return &Script{log: log, dir: dir}
}

func (s *Script) Name() string  { return "script" }
func (s *Script) Priority() int { return 0 }

func (s *Script) Init(e *engine.Engine) error {
	if err := s.Base.Init(e); err != nil {
		return err
	}

	res, ok := engine.Lookup[*Resources](e)
	if !ok {
		return fmt.Errorf("script system requires the resource system")
	}

	lua, err := scripting.New(s.dir, scripting.SceneAPI{
		Registry:  res.Registry(),
		TotalTime: e.TotalTime,
		Close:     e.RequestClose,
	}, s.log)
	if err != nil {
		return fmt.Errorf("script system: %w", err)
	}
	s.lua = lua
	return nil
}

func (s *Script) Start() {
	s.lua.CallOnStart()
}

func (s *Script) Update(dt float64) {
	s.lua.CallOnUpdate(dt)
}

func (s *Script) Shutdown() {
	if s.lua != nil {
		s.lua.Close()
		s.lua = nil
	}
}
