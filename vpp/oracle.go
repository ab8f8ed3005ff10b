package vpp

import (
	"math"

	"github.com/gridsim/kernel/registry"
	"github.com/gridsim/kernel/sim"
)

// Deviation formula constants from §4.7, named exactly as the source
// names them so the formula below reads the same as its derivation.
const (
	oracleP  = 0.0862
	oracleM  = 0.1404
	oracleM1 = 0.1577
	oracleM2 = 0.0397
	oracleN  = 0.125
)

// Sample evaluates the analytic frequency-deviation model at
// tRelSeconds seconds after the disturbance start. It is a pure
// function so that both the oracle and tests can reproduce a sample
// without driving a scheduler.
func Sample(tRelSeconds float64) float64 {
	if tRelSeconds < 0 {
		return 0
	}

	inner := oracleM + oracleM1*math.Sin(oracleM*tRelSeconds) - oracleM*math.Cos(oracleM*tRelSeconds)
	return -(inner / oracleM2) * math.Exp(-oracleN*tRelSeconds) * oracleP
}

// PowerSink receives one tab-separated CSV record per oracle step,
// matching the CSV sink format in §6. It is satisfied by sink.CSV; the
// oracle depends on this narrow interface instead of the concrete sink
// type so it can be tested without touching a filesystem.
type PowerSink interface {
	WriteRecord(simTimeMS, simTimeS, relTimeS, freqDevHz, totalPowerKW float64)
}

// Oracle is the periodic emitter from §4.7. It runs as a single
// detached task: each step it suspends, computes a frequency-deviation
// sample, publishes it as a FrequencyUpdate, and reports total managed
// power to a PowerSink.
type Oracle struct {
	sched                 *sim.Scheduler
	reg                   *registry.Registry
	stepMS                sim.VTimeInMillis
	disturbanceStartSecMS sim.VTimeInMillis
	sink                  PowerSink
}

// NewOracle constructs an Oracle. stepMS is the sampling period (20 ms
// in the reference run); disturbanceStart is when t_rel crosses zero.
func NewOracle(
	sched *sim.Scheduler,
	reg *registry.Registry,
	stepMS sim.VTimeInMillis,
	disturbanceStart sim.VTimeInMillis,
	sink PowerSink,
) *Oracle {
	return &Oracle{
		sched:                 sched,
		reg:                   reg,
		stepMS:                stepMS,
		disturbanceStartSecMS: disturbanceStart,
		sink:                  sink,
	}
}

// Run spawns the oracle's periodic loop as a detached task.
func (o *Oracle) Run() {
	o.sched.Spawn(func(t *sim.Task) {
		for {
			t.Delay(o.stepMS)
			o.step()
		}
	}).Detach()
}

func (o *Oracle) step() {
	nowMS := o.sched.Now()
	nowSec := float64(nowMS) / 1000.0
	tRel := float64(nowMS-o.disturbanceStartSecMS) / 1000.0

	dev := Sample(tRel)

	o.sched.Trigger(sim.EventFrequencyUpdate, FrequencyInfo{
		SimTimeSeconds:  nowSec,
		FreqDeviationHz: dev,
	})

	total := 0.0
	registry.ForEach(o.reg, func(c PhysicalState, e registry.Entity) {
		total += c.CurrentPowerKW
	})

	if o.sink != nil {
		o.sink.WriteRecord(float64(nowMS), nowSec, tRel, dev, total)
	}
}
