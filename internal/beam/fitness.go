// Package beam implements the generic parallel beam search engine: a
// fitness-ranked, duplicate-suppressing, bounded-population best-first
// search with lock-free concurrent insertion. The engine is domain-agnostic;
// callers supply an Adapter describing how to expand, rank, hash, and
// compare their own record type.
package beam

import "fmt"

// Fitness is an unsigned priority used to rank candidate records. Higher
// values win. Two values are reserved and must never be produced by an
// Adapter's Fitness method for a real record.
type Fitness uint32

const (
	// empty marks a slot with no record. Never a legal adapter fitness.
	empty Fitness = 0

	// inUse is the slot-lock sentinel: a goroutine holding the slot stores
	// this value into the slot's fitness word for the duration of the
	// critical section. Never a legal adapter fitness.
	inUse Fitness = 0xFFFFFFFF

	// Stop is the "perfect solution" sentinel. An Adapter returns Stop from
	// Fitness to request early termination of the search at the end of the
	// current generation. Stop compares above every other legal fitness.
	Stop Fitness = 0xFFFFFFFE
)

// Valid reports whether f is a legal fitness value an Adapter may return,
// i.e. not one of the two reserved words. Tests use this to catch
// misbehaving adapters; the hot insertion path does not call it, since
// validating on every probe would add a branch to code that runs millions
// of times per generation.
func (f Fitness) Valid() bool {
	return f != empty && f != inUse
}

func (f Fitness) String() string {
	switch f {
	case empty:
		return "empty"
	case inUse:
		return "in-use"
	case Stop:
		return "stop"
	default:
		return fmt.Sprintf("%d", uint32(f))
	}
}
