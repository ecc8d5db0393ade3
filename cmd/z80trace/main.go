// Command z80trace drives the Z80 core from the command line: it
// replays a raw memory image through CPU.Tick and prints a register
// trace, runs the conformance golden vectors, fuzzes the decode
// tables, or sweeps the opcode space for gaps.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/oisee/z80core/pkg/conformance"
	"github.com/oisee/z80core/pkg/coverage"
	"github.com/oisee/z80core/pkg/fuzz"
	"github.com/oisee/z80core/pkg/z80"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "z80trace",
		Short: "Z80 cycle-accurate core — trace, conformance, fuzz and coverage tools",
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newConformanceCmd())
	rootCmd.AddCommand(newFuzzCmd())
	rootCmd.AddCommand(newCoverageCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRunCmd ticks a raw memory image through the CPU and prints the
// registers after each completed instruction.
func newRunCmd() *cobra.Command {
	var maxInstructions int
	var startPC uint16

	cmd := &cobra.Command{
		Use:   "run [image.bin]",
		Short: "Load a flat memory image and trace execution instruction by instruction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mem, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}

			c := z80.New()
			c.Prefetch(startPC)
			pins := c.Pins()

			instructions := 0
			for instructions < maxInstructions {
				switch {
				case pins.Has(z80.PinMREQ) && pins.Has(z80.PinRD):
					var b uint8
					if int(pins.Addr()) < len(mem) {
						b = mem[pins.Addr()]
					}
					pins = pins.WithData(b)
				case pins.Has(z80.PinMREQ) && pins.Has(z80.PinWR):
					if int(pins.Addr()) < len(mem) {
						mem[pins.Addr()] = pins.Data()
					}
				case pins.Has(z80.PinIORQ) && pins.Has(z80.PinRD):
					pins = pins.WithData(0xFF)
				}
				pins = c.Tick(pins)
				if c.OpDone() {
					instructions++
					fmt.Printf("PC=%04X AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X IX=%04X IY=%04X\n",
						c.PC, c.AF(), c.BC(), c.DE(), c.HL(), c.SP, c.IX(), c.IY())
					if c.HaltF {
						break
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxInstructions, "max-instructions", 100, "Number of instructions to trace")
	cmd.Flags().Uint16Var(&startPC, "start", 0, "Initial PC")
	return cmd
}

// newConformanceCmd runs the golden vectors.
func newConformanceCmd() *cobra.Command {
	var workers int
	var verbose bool
	var output string

	cmd := &cobra.Command{
		Use:   "conformance",
		Short: "Run the golden-path conformance vectors",
		RunE: func(cmd *cobra.Command, args []string) error {
			wp := conformance.NewWorkerPool(workers)
			table := wp.RunVectors(conformance.Golden(), verbose)
			results := table.Results()

			for _, r := range results {
				status := "PASS"
				if !r.Passed {
					status = "FAIL"
				}
				fmt.Printf("[%s] %s", status, r.Name)
				if r.Err != nil {
					fmt.Printf(": %v", r.Err)
				}
				fmt.Println()
			}
			fmt.Printf("\n%d/%d passed\n", len(results)-table.Failed(), len(results))

			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := json.NewEncoder(f).Encode(results); err != nil {
					return err
				}
			}

			if table.Failed() > 0 {
				return fmt.Errorf("%d conformance vectors failed", table.Failed())
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of workers (0 = NumCPU)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose progress output")
	cmd.Flags().StringVar(&output, "output", "", "Output JSON file path")
	return cmd
}

// newFuzzCmd runs the crash fuzzer.
func newFuzzCmd() *cobra.Command {
	cfg := fuzz.Config{}
	var checkpointPath string

	cmd := &cobra.Command{
		Use:   "fuzz",
		Short: "Fuzz the decode tables for panics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Checkpoint = checkpointPath
			report, err := fuzz.Run(cfg)
			fmt.Printf("steps=%d accepted=%d rejected=%d best-cost=%d\n",
				report.StepsRun, report.Accepted, report.Rejected, report.BestCost)
			if err != nil {
				fmt.Printf("counterexample stream: % X\n", report.Best)
				return err
			}
			fmt.Println("no counterexample found")
			return nil
		},
	}
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", 1, "PRNG seed")
	cmd.Flags().IntVar(&cfg.StreamLen, "len", 16, "Initial instruction-stream length")
	cmd.Flags().IntVar(&cfg.Ticks, "ticks", 64, "Ticks to run each candidate for")
	cmd.Flags().IntVar(&cfg.Steps, "steps", 20000, "Mutation steps to run")
	cmd.Flags().Float64Var(&cfg.Temperature, "temperature", 1.0, "Initial annealing temperature")
	cmd.Flags().Float64Var(&cfg.Decay, "decay", 0.9999, "Temperature decay per step")
	cmd.Flags().StringVar(&checkpointPath, "checkpoint", "", "Checkpoint file for resume")
	cmd.Flags().BoolVar(&cfg.Verbose, "verbose", false, "Verbose progress output")
	return cmd
}

// newCoverageCmd sweeps the decode-table space for gaps.
func newCoverageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Sweep every (prefix, opcode) slot for decode-table gaps",
		RunE: func(cmd *cobra.Command, args []string) error {
			gaps := coverage.Sweep()
			if len(gaps) == 0 {
				fmt.Println("no gaps found: every decode-table slot reaches OpDone")
				return nil
			}
			for _, g := range gaps {
				fmt.Println(g.String())
			}
			return fmt.Errorf("%d decode-table gaps found", len(gaps))
		},
	}
	return cmd
}
