package beam

import (
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"
)

// minBeamSize is the smallest beam size the double-hash probe stride can
// operate over without degenerating (the double-hash stride needs room).
const minBeamSize = 17

// slot is one (fitness word, record) pair. The fitness word is the single
// synchronization point for the slot: it doubles as a presence bit (empty
// when 0), a priority, and a CAS lock (inUse). rec is only ever read or
// written while the calling goroutine holds the lock (has CAS'd the word to
// inUse) or, between generations, while the table is guaranteed read-only.
type slot[R any] struct {
	fitness atomic.Uint32
	rec     R
}

// Table is the bounded, fitness-ranked survivor table: an open-addressed
// hash table of size B holding the current generation's (or next
// generation's, while it is being populated) beam.
type Table[R any] struct {
	slots     []slot[R]
	size      int
	probes    int
	adapter   Adapter[R]
	earlyStop *atomic.Bool
	log       *zap.Logger
}

// NewTable allocates a zeroed table of beamSize slots (clamped up to
// minBeamSize) using nprobes as the per-insertion probe budget. earlyStop is
// shared across every table in a search so that a Stop fitness discovered
// while populating one generation is visible to the driver once that
// generation's expansion completes.
func NewTable[R any](adapter Adapter[R], beamSize, nprobes int, earlyStop *atomic.Bool, log *zap.Logger) *Table[R] {
	if beamSize < minBeamSize {
		beamSize = minBeamSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Table[R]{
		slots:     make([]slot[R], beamSize),
		size:      beamSize,
		probes:    nprobes,
		adapter:   adapter,
		earlyStop: earlyStop,
		log:       log,
	}
}

// Size returns the table's slot capacity (the clamped beam size).
func (t *Table[R]) Size() int { return t.size }

// lock spins a bounded double-hash walk's CAS acquisition: it attempts to
// swing slot k's fitness word from expect to the inUse sentinel, retrying
// with a freshly observed value whenever another goroutine beat it to the
// word, exactly mirroring the original get_control retry loop
// (original_source/src/beam.c).
func (t *Table[R]) lock(k int, expect Fitness) Fitness {
	for {
		if t.slots[k].fitness.CompareAndSwap(uint32(expect), uint32(inUse)) {
			return expect
		}
		cur := Fitness(t.slots[k].fitness.Load())
		if cur != inUse {
			expect = cur
		}
		runtime.Gosched()
	}
}

// Probe offers one candidate record to the table. It either
// lands the record in an empty slot, displaces a strictly-lower-fitness
// incumbent (and keeps probing for the displaced record within the same
// probe budget), discovers a duplicate along its probe chain (a no-op), or
// — after exhausting nprobes — drops the candidate silently. Probe has no
// return value; its only externally visible effects are the slots it
// mutates and, when rec's fitness is Stop, the shared earlyStop flag.
func (t *Table[R]) Probe(rec R) {
	h := t.adapter.Hash(rec)
	stride := 13 - h%13
	myFit := t.adapter.Fitness(rec)
	if myFit == Stop {
		t.earlyStop.Store(true)
	}

	var scratch [2]R
	nextScratch := 0
	item := rec
	key := h
	haveLock := false

	for i := 0; i < t.probes; i++ {
		k := int(key % uint64(t.size))

		fit := Fitness(t.slots[k].fitness.Load())
		for fit == inUse {
			runtime.Gosched()
			fit = Fitness(t.slots[k].fitness.Load())
		}

		if fit == empty {
			fit = t.lock(k, empty)
			haveLock = true
			if fit == empty {
				t.slots[k].rec = item
				t.slots[k].fitness.Store(uint32(myFit))
				return
			}
		}

		if fit < myFit {
			if !haveLock {
				fit = t.lock(k, fit)
				haveLock = true
			}
			if fit < myFit {
				scratch[nextScratch] = t.slots[k].rec
				t.slots[k].rec = item
				t.slots[k].fitness.Store(uint32(myFit))
				haveLock = false
				myFit = fit
				item = scratch[nextScratch]
				nextScratch ^= 1
				key += stride
				continue
			}
		}

		if fit == myFit {
			if !haveLock {
				fit = t.lock(k, fit)
				haveLock = true
			}
			if fit == myFit {
				if t.adapter.Equal(item, t.slots[k].rec) {
					t.slots[k].fitness.Store(uint32(fit))
					return
				}
				t.slots[k].fitness.Store(uint32(fit))
				haveLock = false
			}
		}

		if haveLock {
			t.slots[k].fitness.Store(uint32(fit))
			haveLock = false
		}
		key += stride
	}

	t.log.Debug("candidate dropped: probe chain exhausted", zap.Int("probes", t.probes))
}

// IterateOccupied calls fn once per occupied slot's record, in slot-index
// order. It must only be called when the table is not being concurrently
// probed — i.e. between generations, while no Probe call is in flight.
func (t *Table[R]) IterateOccupied(fn func(rec R)) {
	for i := range t.slots {
		if Fitness(t.slots[i].fitness.Load()) != empty {
			fn(t.slots[i].rec)
		}
	}
}

// Compact copies every occupied slot's record into a freshly allocated
// dense slice. Used once, at the end of the search, to produce the result
// array.
func (t *Table[R]) Compact() []R {
	out := make([]R, 0, t.size)
	t.IterateOccupied(func(rec R) {
		out = append(out, rec)
	})
	return out
}

// Occupied counts the table's non-empty slots. Used by tests and by
// generation logging.
func (t *Table[R]) Occupied() int {
	n := 0
	for i := range t.slots {
		if Fitness(t.slots[i].fitness.Load()) != empty {
			n++
		}
	}
	return n
}

// Locked reports whether any slot is currently held by an in-flight Probe
// (its fitness word reads as the inUse sentinel). Outside an active probe
// this must always be false; tests assert on it after
// a driver run or a burst of concurrent Probe calls has quiesced.
func (t *Table[R]) Locked() bool {
	for i := range t.slots {
		if Fitness(t.slots[i].fitness.Load()) == inUse {
			return true
		}
	}
	return false
}
