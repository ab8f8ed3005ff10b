// Package monitor implements the process-memory introspection and HTTP
// control-surface collaborators the core treats as external per §1: a
// resource reporter and a small HTTP server exposing pause/continue and
// a read-only view of the registry, entirely outside the deterministic
// core.
package monitor

import (
	"os"

	"github.com/shirou/gopsutil/process"
)

// Resources is a point-in-time snapshot of the simulation process's
// resource usage.
type Resources struct {
	CPUPercent float64
	MemoryRSS  uint64
}

// ResourceReporter is the interface the core's monitoring surface
// depends on, so it can be tested without shelling out to the real
// process table.
type ResourceReporter interface {
	Report() (Resources, error)
}

// GopsutilReporter reports the current process's own resource usage
// using gopsutil, grounded on the reference engine's monitoring
// server's /api/resource endpoint.
type GopsutilReporter struct{}

// Report returns the current process's CPU percentage and resident set
// size.
func (GopsutilReporter) Report() (Resources, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return Resources{}, err
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		return Resources{}, err
	}

	mem, err := proc.MemoryInfo()
	if err != nil {
		return Resources{}, err
	}

	return Resources{CPUPercent: cpuPercent, MemoryRSS: mem.RSS}, nil
}
