// Command aascode runs the beam search engine against the aascode domain
// adapter: it searches for almost-arithmetic-sequence-free codes covering
// every residue modulo P within a bounded length.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/beamforge/internal/beam"
	"github.com/gitrdm/beamforge/pkg/aascode"
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
		debug       bool
	)

	cmd := &cobra.Command{
		Use:   "aascode",
		Short: "Search for almost-arithmetic-sequence-free codes covering every residue mod P",
		RunE: func(cmd *cobra.Command, args []string) error {
			if p <= 0 || length <= 2 {
				return fmt.Errorf("P and LEN must be positive, with LEN > 2")
			}
			if p > 512 || length > 64 {
				return fmt.Errorf("P (max 512) or LEN (max 64) out of range")
			}
			if generations == 0 {
				generations = length - 2
			}

			log := newLogger(debug)
			defer log.Sync() //nolint:errcheck

			a := aascode.Adapter{P: p, MaxLen: length}
			d := beam.NewDriver[aascode.Code](a, beam.Config{
				BeamSize:    beamSize,
				Generations: generations,
				Probes:      probes,
				Workers:     workers,
			}, log)

			res := d.Run([]aascode.Code{a.Seed()})
			printResults(res, a, p)
			return nil
		},
	}

	cmd.Flags().IntVar(&p, "p", 0, "modulus (required)")
	cmd.Flags().IntVar(&length, "len", 0, "maximum code length (required)")
	cmd.Flags().IntVar(&beamSize, "beam", 10000, "beam width")
	cmd.Flags().IntVar(&probes, "probes", 3, "probes per insertion")
	cmd.Flags().IntVar(&generations, "gens", 0, "generations to run; defaults to len-2")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines; 0 = runtime.NumCPU()")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.MarkFlagRequired("p")   //nolint:errcheck
	cmd.MarkFlagRequired("len") //nolint:errcheck

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

func printResults(res beam.Result[aascode.Code], a aascode.Adapter, p int) {
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
