package protection

import (
	"github.com/gridsim/kernel/registry"
	"github.com/gridsim/kernel/sim"
)

// breakerOperatingDelayMS is the fixed time a breaker takes to actually
// open once it decides to, per §4.6.
const breakerOperatingDelayMS = sim.VTimeInMillis(100)

// BreakerAgent is one task per protected entity (§4.6). It loops
// waiting for EntityTrip; when the tripped entity is its own, it
// suspends for the operating delay and then announces BreakerOpened.
// Trips addressed to other entities are ignored and the agent
// re-subscribes, since event subscriptions are one-shot.
type BreakerAgent struct {
	Entity registry.Entity
}

// NewBreakerAgent returns a BreakerAgent guarding entity.
func NewBreakerAgent(entity registry.Entity) *BreakerAgent {
	return &BreakerAgent{Entity: entity}
}

// Run spawns the agent's loop as a detached task under sched.
func (b *BreakerAgent) Run(sched *sim.Scheduler) {
	sched.Spawn(func(t *sim.Task) {
		for {
			tripped := sim.Wait[registry.Entity](t, sim.EventEntityTrip)
			if tripped != b.Entity {
				continue
			}

			t.Delay(breakerOperatingDelayMS)
			sched.Trigger(sim.EventBreakerOpened, b.Entity)
		}
	}).Detach()
}
