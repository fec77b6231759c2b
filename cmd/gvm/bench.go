package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"gvm/internal/bench"
	"gvm/jit"
)

func newBenchCmd() *cobra.Command {
	var cases int
	var maxOps int
	var out string
	var seed uint64
	var verbose bool

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "generate random programs and compare interpreter vs JIT timing",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			rng := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))

			results := make([]*bench.Case, 0, cases)
			for i := 0; i < cases; i++ {
				code := bench.GenerateProgram(rng, maxOps)

				c, err := bench.Run(code, log)
				if err != nil {
					return fmt.Errorf("case %d: %w", i, err)
				}
				if !c.Match {
					log.Warn().Str("case", c.ID.String()).Msg("interpreter and JIT disagreed")
				}
				if verbose && (!c.Match || i == 0) {
					if compiled, err := jit.Compile(code, log); err == nil {
						fmt.Printf("--- case %s ---\n%s\n", c.ID, jit.DumpEntry(compiled, 64))
						compiled.Close()
					}
				}
				results = append(results, c)
			}

			if err := bench.WriteReport(out, results); err != nil {
				return err
			}

			fmt.Printf("wrote %d cases to %s\n", len(results), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&cases, "cases", 100, "number of random programs to generate")
	cmd.Flags().IntVar(&maxOps, "max-ops", 64, "maximum opcode count per generated program")
	cmd.Flags().StringVar(&out, "out", "gvm-bench-report.txt", "report file path")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "PRNG seed for reproducible program generation")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "hex-dump the JIT entry point for the first case and any mismatches")

	return cmd
}
