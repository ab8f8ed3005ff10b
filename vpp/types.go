// Package vpp implements the frequency-response virtual power plant: an
// analytic frequency oracle and the per-population controller that
// reacts to it by adjusting device power and integrating state of
// charge.
package vpp

import "github.com/gridsim/kernel/registry"

// DeviceKind distinguishes the two device populations the core manages.
// Each carries its own default battery capacity used during SOC
// integration (§9's open question: capacity is by kind, not per
// device, and that default-by-kind behavior is preserved deliberately
// rather than "fixed").
type DeviceKind int

const (
	// EvPile is a population of electric-vehicle charging piles.
	EvPile DeviceKind = iota
	// EssUnit is a population of stationary energy storage units.
	EssUnit
)

// capacityKWh returns the device-kind default battery capacity used in
// SOC integration.
func (k DeviceKind) capacityKWh() float64 {
	if k == EssUnit {
		return 2000
	}
	return 50
}

// PhysicalState is the mutable electrical state of one managed device.
type PhysicalState struct {
	CurrentPowerKW float64
	SOC            float64 // in [0, 1]
}

// FrequencyControlConfig is a device's static frequency-response
// configuration.
type FrequencyControlConfig struct {
	Kind            DeviceKind
	BasePowerKW     float64
	GainKWPerHz     float64
	DeadbandHz      float64
	MaxOutputKW     float64
	MinOutputKW     float64
	SOCMinThreshold float64
	SOCMaxThreshold float64
}

// FrequencyInfo is one sample published by the oracle.
type FrequencyInfo struct {
	SimTimeSeconds  float64
	FreqDeviationHz float64
}

// DeviceReading is a supplemented, read-only snapshot of one managed
// device, meant for the monitoring layer rather than the control loop
// itself.
type DeviceReading struct {
	Entity registry.Entity
	State  PhysicalState
	Config FrequencyControlConfig
}
