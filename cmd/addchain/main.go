// Command addchain runs the beam search engine against the addchain
// domain adapter: it searches for addition chains that reach every residue
// modulo P within a bounded length.
package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gitrdm/beamforge/internal/beam"
	"github.com/gitrdm/beamforge/pkg/addchain"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		p           int
		length      int
		beamSize    int
		probes      int
		generations int
		workers     int
		runs        int
		debug       bool
	)

	cmd := &cobra.Command{
		Use:   "addchain",
		Short: "Search for short addition chains reaching every residue mod P",
		RunE: func(cmd *cobra.Command, args []string) error {
			if p <= 0 || length <= 2 {
				return fmt.Errorf("P and LEN must be positive, with LEN > 2")
			}
			if p > 1024 || length > 128 {
				return fmt.Errorf("P (max 1024) or LEN (max 128) out of range")
			}
			if generations == 0 {
				generations = length - 2
			}

			log := newLogger(debug)
			defer log.Sync() //nolint:errcheck

			a := addchain.Adapter{P: p, MaxLen: length}
			cfg := beam.Config{
				BeamSize:    beamSize,
				Generations: generations,
				Probes:      probes,
				Workers:     workers,
			}

			res, err := runSearches(cmd.Context(), a, cfg, log, runs)
			if err != nil {
				return err
			}
			printResults(res, a, p)
			return nil
		},
	}

	cmd.Flags().IntVar(&p, "p", 0, "modulus (required)")
	cmd.Flags().IntVar(&length, "len", 0, "maximum chain length (required)")
	cmd.Flags().IntVar(&beamSize, "beam", 10000, "beam width")
	cmd.Flags().IntVar(&probes, "probes", 3, "probes per insertion")
	cmd.Flags().IntVar(&generations, "gens", 0, "generations to run; defaults to len-2")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines; 0 = runtime.NumCPU()")
	cmd.Flags().IntVar(&runs, "runs", 1, "independent searches to run concurrently, each with a distinct probe budget; best-of-runs is reported")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.MarkFlagRequired("p")   //nolint:errcheck
	cmd.MarkFlagRequired("len") //nolint:errcheck

	return cmd
}

// runSearches runs n independent beam searches concurrently, each widening
// the probe budget by its run index, and merges every run's surviving
// records into a single result. This mirrors addchain.c's main() allowing
// nprobes to be overridden from the command line, generalized to sample
// several probe budgets in one invocation instead of just one.
func runSearches(ctx context.Context, a addchain.Adapter, cfg beam.Config, log *zap.Logger, n int) (beam.Result[addchain.Chain], error) {
	if n <= 0 {
		n = 1
	}

	var (
		mu      sync.Mutex
		merged  beam.Result[addchain.Chain]
		seedRec = a.Seed()
	)

	g, _ := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			runCfg := cfg
			runCfg.Probes = cfg.Probes + i
			d := beam.NewDriver[addchain.Chain](a, runCfg, log)
			res := d.Run([]addchain.Chain{seedRec})

			mu.Lock()
			defer mu.Unlock()
			merged.Records = append(merged.Records, res.Records...)
			merged.Stopped = merged.Stopped || res.Stopped
			if res.Generations > merged.Generations {
				merged.Generations = res.Generations
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return beam.Result[addchain.Chain]{}, err
	}
	return merged, nil
}

func newLogger(debug bool) *zap.Logger {
	if debug {
		l, _ := zap.NewDevelopment()
		return l
	}
	l, _ := zap.NewProduction()
	return l
}

func printResults(res beam.Result[addchain.Chain], a addchain.Adapter, p int) {
	hist := beam.Histogram(res.Records, a.Fitness)
	best, bestFit := beam.Best(res.Records, a.Fitness)

	fmt.Printf("%d solutions found", len(res.Records))
	if len(res.Records) == 0 {
		fmt.Println()
		return
	}
	display := bestFit
	if bestFit == beam.Stop {
		display = beam.Fitness(p)
	}
	fmt.Printf(", best has fitness %d %s\n", display, a.Print(best))
	fmt.Println("fitness counts:")
	for _, f := range beam.SortedFitnesses(hist) {
		shown := f
		if f == beam.Stop {
			shown = beam.Fitness(p)
		}
		fmt.Printf("%d %d\n", shown, hist[f])
	}
}
