package sim

import (
	"log"
)

// An EventLogHook is a Hook that records scheduler activity — timer
// steps and event triggers — as it happens, rather than being polled
// for it afterward.
type EventLogHook interface {
	Hook
}

// EventLogHookBase gives a concrete EventLogHook a *log.Logger to write
// through, so implementations only need to supply Func's formatting.
type EventLogHookBase struct {
	*log.Logger
}
