// Package sink implements the two logging sinks the core treats as
// external collaborators: a line-oriented console sink and a
// tab-separated CSV sink for the frequency oracle's power trace.
package sink

import (
	"log"
	"sync"
)

// reported guards ReportOnce so a sink failure is reported a single
// time, matching §7: a sink failure is reported once and then the
// simulation continues regardless.
var reported sync.Once

// ReportOnce reports err the first time it is called for the process;
// subsequent calls, even with a different err, are no-ops.
func ReportOnce(err error) {
	reported.Do(func() {
		log.Printf("sink failure (further failures suppressed): %v", err)
	})
}
