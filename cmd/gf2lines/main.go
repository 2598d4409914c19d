// Command gf2lines runs the beam search engine against the gf2lines domain
// adapter: it searches for sets of GF(2) lines whose tensor products drive
// a fixed target intersection space to full rank.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/beamforge/internal/beam"
	"github.com/gitrdm/beamforge/pkg/gf2lines"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		beamSize    int
		probes      int
		generations int
		workers     int
		debug       bool
	)

	cmd := &cobra.Command{
		Use:   "gf2lines",
		Short: "Search for GF(2) line sets spanning the fixed target intersection space",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(debug)
			defer log.Sync() //nolint:errcheck

			a := gf2lines.Adapter{}
			d := beam.NewDriver[gf2lines.Solution](a, beam.Config{
				BeamSize:    beamSize,
				Generations: generations,
				Probes:      probes,
				Workers:     workers,
			}, log)

			res := d.Run([]gf2lines.Solution{a.Seed()})
			printResults(res, a)
			return nil
		},
	}

	cmd.Flags().IntVar(&beamSize, "beam", 10000, "beam width")
	cmd.Flags().IntVar(&probes, "probes", 3, "probes per insertion")
	cmd.Flags().IntVar(&generations, "gens", 6, "generations to run")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines; 0 = runtime.NumCPU()")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	return cmd
}

func newLogger(debug bool) *zap.Logger {
	if debug {
		l, _ := zap.NewDevelopment()
		return l
	}
	l, _ := zap.NewProduction()
	return l
}

func printResults(res beam.Result[gf2lines.Solution], a gf2lines.Adapter) {
	hist := beam.Histogram(res.Records, a.Fitness)
	best, bestFit := beam.Best(res.Records, a.Fitness)

	fmt.Printf("%d solutions found", len(res.Records))
	if len(res.Records) == 0 {
		fmt.Println()
		return
	}
	display := bestFit
	if bestFit == beam.Stop {
		display = 4
	}
	fmt.Printf(", best has fitness %d %s\n", display, a.Print(best))
	fmt.Println("fitness counts:")
	for _, f := range beam.SortedFitnesses(hist) {
		shown := f
		if f == beam.Stop {
			shown = 4
		}
		fmt.Printf("%d %d\n", shown, hist[f])
	}
}
