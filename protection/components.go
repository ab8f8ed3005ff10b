package protection

import "github.com/gridsim/kernel/registry"

// noTripDelayMS is the sentinel trip delay a distance zone set returns
// when a fault falls outside every zone: it picked up on nothing, so it
// never actually trips, but callers that only look at the delay (rather
// than checking PickUp first) still get a well-defined, very large
// number instead of a zero that would look like an instant trip.
const noTripDelayMS = int32(99999)

// ProtectiveComponent is the capability the protection engine fans a
// fault out across. Overcurrent stages and distance zone sets are the
// two concrete kinds the core ships; both are plain structs rather than
// a shared base type, and satisfy this interface directly instead of
// being wrapped in a tagged union — Go's structural interfaces make the
// enum-of-variants trick this was ported from unnecessary.
type ProtectiveComponent interface {
	PickUp(fault FaultInfo, selfID registry.Entity) bool
	TripDelayMS(fault FaultInfo) int32
	Name() string
}

// OverCurrentProtection is a single overcurrent stage: it picks up
// whenever the fault current reaches its threshold, and always trips
// after the same fixed delay. Multiple stages (e.g. a fast stage and a
// main stage) may be emplaced on the same entity.
type OverCurrentProtection struct {
	PickupKA  float64
	DelayMS   int32
	StageName string
}

// PickUp reports whether the fault current reaches this stage's
// threshold.
func (o OverCurrentProtection) PickUp(fault FaultInfo, _ registry.Entity) bool {
	return fault.CurrentKA >= o.PickupKA
}

// TripDelayMS returns this stage's fixed delay, independent of the
// fault.
func (o OverCurrentProtection) TripDelayMS(FaultInfo) int32 { return o.DelayMS }

// Name returns the stage's configured label.
func (o OverCurrentProtection) Name() string { return o.StageName }

// DistanceProtection is a three-zone distance element. ZSet and TMS
// must each hold exactly three entries, non-decreasing in ZSet.
type DistanceProtection struct {
	ZSet [3]float64
	TMS  [3]int32
}

// PickUp implements the backup-zone rule from §4.4: a fault on a
// different entity only picks up within the largest (backup) zone; a
// fault on this element's own entity picks up within any zone.
func (d DistanceProtection) PickUp(fault FaultInfo, selfID registry.Entity) bool {
	backup := fault.FaultyEntity != 0 && fault.FaultyEntity != selfID
	if backup {
		return fault.ImpedanceOhm <= d.ZSet[2]
	}
	return fault.ImpedanceOhm <= d.ZSet[0] ||
		fault.ImpedanceOhm <= d.ZSet[1] ||
		fault.ImpedanceOhm <= d.ZSet[2]
}

// TripDelayMS returns the delay of the smallest zone the fault falls
// into, or the no-trip sentinel if it falls outside all three.
func (d DistanceProtection) TripDelayMS(fault FaultInfo) int32 {
	switch {
	case fault.ImpedanceOhm <= d.ZSet[0]:
		return d.TMS[0]
	case fault.ImpedanceOhm <= d.ZSet[1]:
		return d.TMS[1]
	case fault.ImpedanceOhm <= d.ZSet[2]:
		return d.TMS[2]
	default:
		return noTripDelayMS
	}
}

// Name identifies a distance element in logs; the core has no
// per-instance label for it, so this is a fixed string.
func (d DistanceProtection) Name() string { return "distance" }
