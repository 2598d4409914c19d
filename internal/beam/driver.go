package beam

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/gitrdm/beamforge/internal/workerpool"
)

// Config bundles the generation driver's tunables.
type Config struct {
	// BeamSize is B, the survivor table capacity. Values below 17 are
	// silently clamped up.
	BeamSize int
	// Generations is G, the number of generations to advance.
	Generations int
	// Probes is P, the per-insertion probe budget.
	Probes int
	// Workers bounds how many parent expansions run concurrently. <= 0
	// defaults to runtime.NumCPU(), matching workerpool.New.
	Workers int
}

// Driver runs the generation loop: it advances a
// beam of records across Config.Generations generations, expanding every
// occupied slot of the current table in parallel via the supplied Adapter
// and offering every emitted child to the next table, until the generation
// budget is exhausted or a child with Stop fitness is probed in.
type Driver[R any] struct {
	adapter Adapter[R]
	cfg     Config
	log     *zap.Logger
}

// NewDriver constructs a Driver for the given adapter and configuration. A
// nil logger defaults to zap.NewNop(), matching the rest of the package.
func NewDriver[R any](adapter Adapter[R], cfg Config, log *zap.Logger) *Driver[R] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver[R]{adapter: adapter, cfg: cfg, log: log}
}

// Result is the outcome of a completed search.
type Result[R any] struct {
	// Records is the dense compaction of the final generation's occupied
	// slots.
	Records []R
	// Stopped reports whether a Stop-fitness child was probed in during
	// one of the generations (a Stop-fitness seed does not count).
	Stopped bool
	// Generations is the number of generations actually advanced before
	// the loop exited (may be less than Config.Generations on early stop).
	Generations int
}

// Run executes the search to completion. seeds are copied into generation
// zero's table (probed in, same as any other candidate — duplicates among
// the seeds are deduplicated the same way any other duplicate pair is).
func (d *Driver[R]) Run(seeds []R) Result[R] {
	earlyStop := &atomic.Bool{}

	current := NewTable[R](d.adapter, d.cfg.BeamSize, d.cfg.Probes, earlyStop, d.log)
	for _, s := range seeds {
		current.Probe(s)
	}
	earlyStop.Store(false)

	pool := workerpool.New(d.cfg.Workers)
	defer pool.Close()

	gen := 0
	for ; gen < d.cfg.Generations; gen++ {
		start := time.Now()
		d.log.Info("generation", zap.Int("gen", gen), zap.Int("occupied", current.Occupied()))

		next := NewTable[R](d.adapter, d.cfg.BeamSize, d.cfg.Probes, earlyStop, d.log)

		current.IterateOccupied(func(parent R) {
			pool.Go(func() {
				d.adapter.EnumerateChildren(parent, func(child R) {
					next.Probe(child)
				})
			})
		})
		pool.Wait()

		current = next
		d.log.Debug("generation complete", zap.Int("gen", gen), zap.Duration("elapsed", time.Since(start)))

		if earlyStop.Load() {
			gen++
			break
		}
	}

	return Result[R]{
		Records:     current.Compact(),
		Stopped:     earlyStop.Load(),
		Generations: gen,
	}
}
