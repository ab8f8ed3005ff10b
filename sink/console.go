package sink

import (
	"log"

	"github.com/gridsim/kernel/sim"
)

// Console is a free-form text sink, one record per logged event. It is
// a sim.EventLogHook so it observes the scheduler without the
// scheduler needing to know logging exists.
type Console struct {
	*sim.EventLogHookBase
}

// NewConsole wraps logger as a Console sink.
func NewConsole(logger *log.Logger) *Console {
	return &Console{EventLogHookBase: &sim.EventLogHookBase{Logger: logger}}
}

// Func implements sim.EventLogHook.
func (c *Console) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosTrigger:
		c.Printf("event %v fired, payload=%v", ctx.Event, ctx.Payload)
	case sim.HookPosBeforeStep:
		// Free-form and cheap; the reference console sink does not log
		// every step, only the events that matter to a human watching it.
	}
}
