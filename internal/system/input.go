package system

import (
	"go.uber.org/zap"

	"github.com/rs-engine/engine/internal/core/engine"
)

// PollFunc drains pending input from the platform backend. It reports
// whether the user asked to quit. Real backends live outside this module;
// headless hosts pass nil and the system idles.
type PollFunc func() (quit bool)

// Input polls the platform backend each frame. Priority -50: after the
// application pumps its window, before game logic consumes input state.
type Input struct {
	engine.Base

	log  *zap.Logger
	poll PollFunc
}

func NewInput(poll PollFunc, log *zap.Logger) *Input {
	if log == nil {
		log = zap.NewNop()
	}
	return &Input{log: log, poll: poll}
}

func (i *Input) Name() string  { return "input" }
func (i *Input) Priority() int { return -50 }

func (i *Input) Update(dt float64) {
	if i.poll == nil {
		return
	}
	if i.poll() {
		i.Engine().RequestClose("input quit")
	}
}
