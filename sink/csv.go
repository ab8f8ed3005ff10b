package sink

import (
	"fmt"
	"os"
	"sync"

	"github.com/tebeka/atexit"
)

// csvHeader is emitted once at oracle start, per §6.
const csvHeader = "# SimTime_ms\tSimTime_s\tRelativeTime_s\tFreqDeviation_Hz\tTotalVppPower_kW\n"

// CSV is the tab-separated power trace sink from §6. It is grounded on
// the reference engine's buffered CSV trace writer, adapted from a
// generic task record to the oracle's fixed five-column record and
// from comma to tab separation.
type CSV struct {
	mu   sync.Mutex
	path string
	file *os.File

	records    []string
	bufferSize int
}

// NewCSV creates a CSV sink that will write to path. Call Init before
// the first WriteRecord.
func NewCSV(path string) *CSV {
	return &CSV{path: path, bufferSize: 1000}
}

// Init opens the trace file, writes the header line, and registers a
// flush-and-close hook to run at process exit.
func (c *CSV) Init() error {
	file, err := os.Create(c.path)
	if err != nil {
		ReportOnce(err)
		return err
	}
	c.file = file

	if _, err := file.WriteString(csvHeader); err != nil {
		ReportOnce(err)
		return err
	}

	atexit.Register(func() {
		c.Flush()
		if err := c.file.Close(); err != nil {
			ReportOnce(err)
		}
	})

	return nil
}

// WriteRecord appends one tab-separated record, buffering it until
// Flush is called or the buffer fills. It implements vpp.PowerSink.
func (c *CSV) WriteRecord(simTimeMS, simTimeS, relTimeS, freqDevHz, totalPowerKW float64) {
	line := fmt.Sprintf("%.0f\t%.3f\t%.3f\t%.5f\t%.2f\n",
		simTimeMS, simTimeS, relTimeS, freqDevHz, totalPowerKW)

	c.mu.Lock()
	c.records = append(c.records, line)
	full := len(c.records) >= c.bufferSize
	c.mu.Unlock()

	if full {
		c.Flush()
	}
}

// Flush writes every buffered record to disk.
func (c *CSV) Flush() {
	c.mu.Lock()
	pending := c.records
	c.records = nil
	c.mu.Unlock()

	if c.file == nil {
		return
	}

	for _, line := range pending {
		if _, err := c.file.WriteString(line); err != nil {
			ReportOnce(err)
			return
		}
	}
}
