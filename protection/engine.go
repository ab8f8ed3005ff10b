package protection

import (
	"sync"

	"github.com/gridsim/kernel/registry"
	"github.com/gridsim/kernel/sim"
)

// FaultRecord is a supplemented observability record kept alongside
// each dispatched fault, letting a monitoring layer answer "what has
// tripped recently" without re-deriving it from the event stream.
type FaultRecord struct {
	Fault    FaultInfo
	PickedUp []string
}

// Engine is the long-lived task described in §4.5: it waits for
// FaultInfo events and, on each one, fans out across every protective
// component in the registry, spawning a detached delayed-trip sub-task
// for each one that picks up. The engine never inspects or cancels a
// sub-task once it has spawned it; selectivity between coordinated
// stages comes entirely from their relative delays. As an additional
// observability signal it also raises a LoadShedRequest whenever more
// than half of the faulted entity's own protective components pick up
// on the same fault, standing in for a possible-cascading-event
// annotation; it never gates a trip decision.
type Engine struct {
	sched *sim.Scheduler
	reg   *registry.Registry

	mu           sync.Mutex
	recentFaults []FaultRecord
}

// NewEngine constructs an Engine over sched and reg. Call Run to start
// the engine's dispatch loop; Run returns as soon as the loop's task is
// spawned.
func NewEngine(sched *sim.Scheduler, reg *registry.Registry) *Engine {
	return &Engine{sched: sched, reg: reg}
}

// Run spawns the engine's dispatch loop as a detached task. It waits
// for FaultInfo events for the lifetime of the scheduler.
func (e *Engine) Run() {
	e.sched.Spawn(func(t *sim.Task) {
		for {
			fault := sim.Wait[FaultInfo](t, sim.EventFaultInfo)
			e.dispatch(fault)
		}
	}).Detach()
}

// dispatch runs one fault-injection cycle: derive missing impedance,
// then fan out across every protective component in the registry
// (including backup relays sitting on a different entity than the
// fault, per §4.4), spawning a detached timed trip for each one that
// picks up. The majority test behind LoadShedRequest is narrower than
// the fan-out itself: it only counts the faulted feeder's own
// components, so an unrelated entity's protection elsewhere in the
// registry never dilutes or pads another feeder's majority.
func (e *Engine) dispatch(fault FaultInfo) {
	fault.deriveImpedance()

	rec := FaultRecord{Fault: fault}
	feederTotal := 0
	feederPickedUp := 0

	registry.ForEachCapability(e.reg, func(c ProtectiveComponent, protected registry.Entity) {
		onFaultedFeeder := protected == fault.FaultyEntity
		if onFaultedFeeder {
			feederTotal++
		}

		if !c.PickUp(fault, protected) {
			return
		}

		rec.PickedUp = append(rec.PickedUp, c.Name())
		if onFaultedFeeder {
			feederPickedUp++
		}

		delay := c.TripDelayMS(fault)

		e.sched.Spawn(func(t *sim.Task) {
			t.Delay(sim.VTimeInMillis(delay))
			e.sched.Trigger(sim.EventEntityTrip, protected)
		}).Detach()
	})

	if feederTotal > 0 && feederPickedUp*2 > feederTotal {
		e.sched.Trigger(sim.EventLoadShedRequest, nil)
	}

	e.mu.Lock()
	e.recentFaults = append(e.recentFaults, rec)
	e.mu.Unlock()
}

// RecentFaults returns every fault dispatched so far, in dispatch
// order, along with the names of the components that picked up on
// each. It exists for the monitoring layer; the core dispatch loop
// never reads it back.
func (e *Engine) RecentFaults() []FaultRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]FaultRecord, len(e.recentFaults))
	copy(out, e.recentFaults)
	return out
}

// InjectFault triggers a FaultInfo event carrying info, matching §4.9's
// fault-injector contract: injection is equivalent to
// scheduler.trigger(FAULT_INFO_EVENT, info).
func InjectFault(sched *sim.Scheduler, info FaultInfo) {
	sched.Trigger(sim.EventFaultInfo, info)
}
