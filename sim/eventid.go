package sim

// EventID identifies a well-known event kind that tasks can subscribe to
// and that the engine or a domain component can trigger.
type EventID int64

// The fixed registry of well-known event ids used by the protection and
// VPP subsystems. Payload types are documented alongside each constant;
// a subscriber must agree with the triggerer on the payload type or the
// type assertion in Wait will panic, which is a programmer error (§7).
const (
	// EventGeneratorReady carries no payload.
	EventGeneratorReady EventID = 1
	// EventLoadChange carries no payload.
	EventLoadChange EventID = 2
	// EventBreakerOpened carries a registry.Entity.
	EventBreakerOpened EventID = 6
	// EventStabilityConcern carries no payload.
	EventStabilityConcern EventID = 7
	// EventLoadShedRequest carries no payload.
	EventLoadShedRequest EventID = 8
	// EventPowerAdjustRequest carries no payload.
	EventPowerAdjustRequest EventID = 9
	// EventFaultInfo carries a protection.FaultInfo.
	EventFaultInfo EventID = 100
	// EventEntityTrip carries a registry.Entity.
	EventEntityTrip EventID = 101
	// EventFrequencyUpdate carries a vpp.FrequencyInfo.
	EventFrequencyUpdate EventID = 200
)
