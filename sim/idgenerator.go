package sim

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

var taskIDGeneratorMutex sync.Mutex
var taskIDGeneratorInstantiated bool
var taskIDGenerator TaskIDGenerator

// TaskIDGenerator mints the ids Task and event log lines are stamped
// with, for correlation only — nothing in the scheduler branches on a
// generated id's value or format.
type TaskIDGenerator interface {
	// Generate returns the next id.
	Generate() string
}

// UseSequentialTaskIDs switches task-id generation to a process-local
// monotonic counter, giving byte-identical trace output across runs of
// the same input. This is the default.
func UseSequentialTaskIDs() {
	taskIDGeneratorMutex.Lock()
	defer taskIDGeneratorMutex.Unlock()

	if taskIDGeneratorInstantiated {
		panic("sim: cannot change task id generator after it has been used")
	}

	taskIDGenerator = &sequentialTaskIDGenerator{}
	taskIDGeneratorInstantiated = true
}

// UseParallelTaskIDs switches task-id generation to xid, so that
// several simulation runs sharing one process never mint colliding
// trace ids. Generated ids are no longer deterministic across runs.
func UseParallelTaskIDs() {
	taskIDGeneratorMutex.Lock()
	defer taskIDGeneratorMutex.Unlock()

	if taskIDGeneratorInstantiated {
		panic("sim: cannot change task id generator after it has been used")
	}

	taskIDGenerator = xidTaskIDGenerator{}
	taskIDGeneratorInstantiated = true
}

// GetIDGenerator returns the task-id generator in effect for the
// current process, defaulting to the sequential generator the first
// time it is called.
func GetIDGenerator() TaskIDGenerator {
	taskIDGeneratorMutex.Lock()
	defer taskIDGeneratorMutex.Unlock()

	if !taskIDGeneratorInstantiated {
		taskIDGenerator = &sequentialTaskIDGenerator{}
		taskIDGeneratorInstantiated = true
	}

	return taskIDGenerator
}

type sequentialTaskIDGenerator struct {
	next uint64
}

func (g *sequentialTaskIDGenerator) Generate() string {
	n := atomic.AddUint64(&g.next, 1)
	return strconv.FormatUint(n, 10)
}

type xidTaskIDGenerator struct{}

func (xidTaskIDGenerator) Generate() string {
	return xid.New().String()
}
