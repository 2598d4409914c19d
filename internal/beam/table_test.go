package beam

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityAdapter() Adapter[rec] {
	return fnAdapter[rec]{
		fitnessFn: func(r rec) Fitness { return r.fit },
		equalFn:   func(a, b rec) bool { return a.id == b.id },
		hashFn:    func(r rec) uint64 { return uint64(r.id) },
	}
}

// Probing a record equal to any record already present on its probe chain
// is a no-op.
func TestProbe_DuplicateIsNoOp(t *testing.T) {
	stop := &atomic.Bool{}
	a := identityAdapter()
	tbl := NewTable[rec](a, 32, 5, stop, nil)

	tbl.Probe(rec{id: 1, fit: 7})
	tbl.Probe(rec{id: 1, fit: 7})

	require.Equal(t, 1, tbl.Occupied(), "duplicate insertion must not grow the occupied count")
}

// Probing a record whose fitness strictly exceeds an existing chain
// member's must not evict that member if there is room for both.
func TestProbe_HigherFitnessDisplacesLower(t *testing.T) {
	stop := &atomic.Bool{}
	// Force every record onto the same chain by hashing to a constant.
	a := fnAdapter[rec]{
		fitnessFn: func(r rec) Fitness { return r.fit },
		equalFn:   func(x, y rec) bool { return x.id == y.id },
		hashFn:    func(rec) uint64 { return 42 },
	}
	tbl := NewTable[rec](a, 17, 17, stop, nil)

	tbl.Probe(rec{id: 1, fit: 10})
	tbl.Probe(rec{id: 2, fit: 20})

	fits := make(map[Fitness]bool)
	tbl.IterateOccupied(func(r rec) { fits[r.fit] = true })
	require.Len(t, fits, 2, "both records should survive on the shared chain")
	assert.True(t, fits[10])
	assert.True(t, fits[20])
}

// Eviction: B=17, P=17, inject 18 distinct records with strictly
// increasing fitness 1..18 along colliding hashes. The final table must
// hold exactly fitnesses 2..18 (the minimum is evicted).
func TestProbe_EvictionScenario(t *testing.T) {
	stop := &atomic.Bool{}
	a := fnAdapter[rec]{
		fitnessFn: func(r rec) Fitness { return r.fit },
		equalFn:   func(x, y rec) bool { return x.id == y.id },
		hashFn:    func(rec) uint64 { return 7 }, // constant: every record collides
	}
	tbl := NewTable[rec](a, 17, 17, stop, nil)

	for i := 1; i <= 18; i++ {
		tbl.Probe(rec{id: i, fit: Fitness(i)})
	}

	require.Equal(t, 17, tbl.Occupied())
	var got []int
	tbl.IterateOccupied(func(r rec) { got = append(got, int(r.fit)) })
	want := make(map[int]bool)
	for i := 2; i <= 18; i++ {
		want[i] = true
	}
	for _, f := range got {
		assert.True(t, want[f], "unexpected surviving fitness %d", f)
		delete(want, f)
	}
	assert.Empty(t, want, "every fitness from 2..18 must survive")
}

// For any two occupied slots on the same probe chain, Equal must be
// false — no chain ever holds two slots the adapter considers equal.
func TestProbe_NoDuplicatesOnSameChain(t *testing.T) {
	stop := &atomic.Bool{}
	a := fnAdapter[rec]{
		fitnessFn: func(r rec) Fitness { return Fitness(r.id + 1) },
		equalFn:   func(x, y rec) bool { return x.id == y.id },
		hashFn:    func(rec) uint64 { return 3 },
	}
	tbl := NewTable[rec](a, 17, 17, stop, nil)

	for i := 0; i < 17; i++ {
		tbl.Probe(rec{id: i % 5, fit: Fitness(i%5 + 1)})
	}

	seen := make(map[int]bool)
	tbl.IterateOccupied(func(r rec) {
		require.False(t, seen[r.id], "id %d occupies more than one slot on its chain", r.id)
		seen[r.id] = true
	})
}

// After any completed round of probing, every non-zero fitness word
// equals adapter.Fitness(slot) and is never one of the reserved words.
func TestProbe_FitnessWordMatchesAdapter(t *testing.T) {
	stop := &atomic.Bool{}
	a := identityAdapter()
	tbl := NewTable[rec](a, 64, 4, stop, nil)

	for i := 0; i < 50; i++ {
		tbl.Probe(rec{id: i, fit: Fitness(i + 1)})
	}

	for i := range tbl.slots {
		word := Fitness(tbl.slots[i].fitness.Load())
		if word == empty {
			continue
		}
		assert.True(t, word.Valid())
		assert.Equal(t, a.Fitness(tbl.slots[i].rec), word)
	}
	assert.False(t, tbl.Locked())
}

// Concurrency stress: many goroutines probing 10^5 records with identical
// fitness but distinct hashes concurrently. Final occupied count must stay
// <= B, and no slot may be left locked once the burst quiesces.
func TestProbe_ConcurrencyStress(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}
	stop := &atomic.Bool{}
	a := fnAdapter[rec]{
		fitnessFn: func(r rec) Fitness { return 100 },
		equalFn:   func(x, y rec) bool { return x.id == y.id },
		hashFn:    func(r rec) uint64 { return uint64(r.id) },
	}
	const beamSize = 1024
	tbl := NewTable[rec](a, beamSize, 3, stop, nil)

	const workers = 8
	const perWorker = 100000 / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				tbl.Probe(rec{id: w*perWorker + i, fit: 100})
			}
		}(w)
	}
	wg.Wait()

	require.LessOrEqual(t, tbl.Occupied(), beamSize)
	require.False(t, tbl.Locked())
}

// A candidate with Stop fitness sets the shared early-stop flag as soon
// as it is probed in.
func TestProbe_StopFitnessSetsFlag(t *testing.T) {
	stop := &atomic.Bool{}
	a := identityAdapter()
	tbl := NewTable[rec](a, 32, 3, stop, nil)

	tbl.Probe(rec{id: 1, fit: Stop})
	assert.True(t, stop.Load())
}
