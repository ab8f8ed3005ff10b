// Package protection implements fault detection and delayed tripping:
// protective components attached to entities in the registry, and the
// engine that fans a fault out across them.
package protection

import "github.com/gridsim/kernel/registry"

// FaultInfo describes a single injected fault. VoltageKV defaults to
// 220 when a caller leaves it at the zero value and still wants
// impedance derived; NewFaultInfo applies that default, but the struct
// itself carries no hidden behavior for callers that build one by hand.
type FaultInfo struct {
	CurrentKA    float64
	VoltageKV    float64
	ImpedanceOhm float64
	DistanceKM   float64
	FaultyEntity registry.Entity
}

// NewFaultInfo builds a FaultInfo, defaulting VoltageKV to 220 kV when
// unset and deriving ImpedanceOhm from voltage and current when it was
// left at zero, per the impedance derivation rule.
func NewFaultInfo(currentKA, voltageKV, distanceKM float64, faultyEntity registry.Entity) FaultInfo {
	f := FaultInfo{
		CurrentKA:    currentKA,
		VoltageKV:    voltageKV,
		DistanceKM:   distanceKM,
		FaultyEntity: faultyEntity,
	}
	if f.VoltageKV == 0 {
		f.VoltageKV = 220
	}
	f.deriveImpedance()
	return f
}

// deriveImpedance fills ImpedanceOhm from VoltageKV and CurrentKA when
// it is still zero and both operands are positive. Units cancel from
// kV/kA to ohms, so no scaling factor is needed.
func (f *FaultInfo) deriveImpedance() {
	if f.ImpedanceOhm == 0 && f.VoltageKV > 0 && f.CurrentKA > 0 {
		f.ImpedanceOhm = f.VoltageKV / f.CurrentKA
	}
}
