package sim

// VTimeInMillis is the simulated time, expressed in milliseconds since the
// start of the run. It is the millisecond-resolution analogue of the
// reference engine's VTimeInSec.
type VTimeInMillis int64

// A timerEntry is a continuation waiting for virtual time to reach a
// deadline. It plays the role the reference engine's Event interface
// plays in its heap-ordered EventQueue, specialized to hold a plain
// continuation instead of a Handler to dispatch to.
type timerEntry struct {
	deadline VTimeInMillis
	seq      uint64 // insertion order, used to break deadline ties
	resume   func()
}
