package vpp

import (
	"github.com/gridsim/kernel/registry"
	"github.com/gridsim/kernel/sim"
)

// Gating thresholds from §4.8.
const (
	freqChangeThresholdHz = 0.01
	timeMaxSeconds        = 1.0
)

// Controller is the per-population event loop from §4.8: it consumes
// FrequencyUpdate samples, decides whether they warrant a full update
// under the monotonic-dedupe and gating rules, and when they do,
// recomputes power and integrates state of charge for every managed
// entity carrying both FrequencyControlConfig and PhysicalState.
//
// One Controller manages one population (EV_VPP or ESS_VPP); which
// entities belong to which population is determined entirely by which
// entities the caller chose to emplace FrequencyControlConfig on
// before starting the controller — the controller itself has no notion
// of population membership beyond "has the two required components".
type Controller struct {
	sched *sim.Scheduler
	reg   *registry.Registry

	hasLastEvent         bool
	lastEventTimeS       float64
	hasFullUpdate        bool
	lastFullUpdateTimeS  float64
	lastFullUpdateFreqHz float64
}

// NewController constructs a Controller over sched and reg.
func NewController(sched *sim.Scheduler, reg *registry.Registry) *Controller {
	return &Controller{sched: sched, reg: reg}
}

// Run spawns the controller's event loop as a detached task.
func (c *Controller) Run() {
	c.sched.Spawn(func(t *sim.Task) {
		for {
			info := sim.Wait[FrequencyInfo](t, sim.EventFrequencyUpdate)
			c.onFrequencyUpdate(info)
		}
	}).Detach()
}

func (c *Controller) onFrequencyUpdate(info FrequencyInfo) {
	// Monotonic dedupe (§4.8 step 1).
	if c.hasLastEvent && info.SimTimeSeconds <= c.lastEventTimeS {
		return
	}
	c.hasLastEvent = true
	c.lastEventTimeS = info.SimTimeSeconds

	if !c.fullUpdateDue(info) {
		return
	}

	dt := info.SimTimeSeconds - c.lastFullUpdateTimeS

	registry.ForEach(c.reg, func(cfg FrequencyControlConfig, e registry.Entity) {
		state, ok := registry.Get[PhysicalState](c.reg, e)
		if !ok {
			return // §7: missing component on iterated entity is skipped silently
		}

		if c.hasFullUpdate {
			state.SOC = integrateSOC(state.SOC, state.CurrentPowerKW, dt, cfg.Kind.capacityKWh())
		}

		state.CurrentPowerKW = recomputePower(cfg, state.SOC, info.FreqDeviationHz)

		registry.Emplace(c.reg, e, state)
	})

	c.hasFullUpdate = true
	c.lastFullUpdateTimeS = info.SimTimeSeconds
	c.lastFullUpdateFreqHz = info.FreqDeviationHz
}

// fullUpdateDue implements the gating rule from §4.8 step 2.
func (c *Controller) fullUpdateDue(info FrequencyInfo) bool {
	if !c.hasFullUpdate {
		return true
	}
	if absF(info.FreqDeviationHz-c.lastFullUpdateFreqHz) > freqChangeThresholdHz {
		return true
	}
	if info.SimTimeSeconds-c.lastFullUpdateTimeS >= timeMaxSeconds {
		return true
	}
	return false
}

// integrateSOC applies the SOC integration rule from §4.8 step 3 using
// the device's power during the prior interval, then clamps to [0,1].
func integrateSOC(soc, priorPowerKW, dtSeconds, capacityKWh float64) float64 {
	soc -= priorPowerKW * (dtSeconds / 3600.0) / capacityKWh
	return clamp(soc, 0, 1)
}

// recomputePower implements the power-recompute, limits, and EV
// SOC-guard rules from §4.8 step 3.
//
// The low-side guard uses a strict "<" against SOCMinThreshold rather
// than the "<=" the prose in §4.8 suggests: §8's boundary behaviors are
// explicit that an EV pile sitting exactly at soc_min_threshold with a
// charging base does not hold at 0, which only holds under a strict
// comparison. The high-side guard has no such boundary case and is
// implemented as written ("soc >= soc_max_threshold").
func recomputePower(cfg FrequencyControlConfig, soc, freqDevHz float64) float64 {
	power := cfg.BasePowerKW

	if absF(freqDevHz) > cfg.DeadbandHz {
		if freqDevHz < 0 {
			deltaF := freqDevHz + cfg.DeadbandHz // negative
			power = -cfg.GainKWPerHz * deltaF
		} else {
			deltaF := freqDevHz - cfg.DeadbandHz // positive
			power = cfg.BasePowerKW - cfg.GainKWPerHz*deltaF
		}
	}

	power = clamp(power, cfg.MinOutputKW, cfg.MaxOutputKW)

	if cfg.Kind == EvPile {
		if power > 0 && soc < cfg.SOCMinThreshold {
			power = 0
		}
		if power < 0 && soc >= cfg.SOCMaxThreshold {
			power = 0
		}
	}

	return power
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Snapshot returns a supplemented, read-only view of every managed
// device's current state and configuration, for the monitoring layer.
func (c *Controller) Snapshot() []DeviceReading {
	var out []DeviceReading
	registry.ForEach(c.reg, func(cfg FrequencyControlConfig, e registry.Entity) {
		state, ok := registry.Get[PhysicalState](c.reg, e)
		if !ok {
			return
		}
		out = append(out, DeviceReading{Entity: e, State: state, Config: cfg})
	})
	return out
}
