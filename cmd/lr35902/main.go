// Command lr35902 loads a boot ROM and a cartridge image and runs (or
// interactively debugs) the CPU against them.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lr35902/internal/cpu"
	"lr35902/internal/debugger"
	"lr35902/internal/mem"
	"lr35902/internal/trace"
)

// errBootROMSize marks a boot ROM size mismatch so main can map it to exit
// code 2, distinct from the exit code 1 used for every other argument/file
// error (spec.md §6).
type errBootROMSize struct{ got int }

func (e *errBootROMSize) Error() string {
	return fmt.Sprintf("boot rom is %d bytes, want %d", e.got, mem.BootROMSize)
}

func main() {
	var steps int
	var debug bool
	var traceOut string

	rootCmd := &cobra.Command{
		Use:           "lr35902 <boot-rom> <cartridge>",
		Short:         "Sharp LR35902 CPU and memory bus emulator core",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bootROM, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading boot rom: %w", err)
			}
			if len(bootROM) != mem.BootROMSize {
				return &errBootROMSize{got: len(bootROM)}
			}

			cartridge, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("reading cartridge: %w", err)
			}
			if len(cartridge) < mem.MinCartridgeLen {
				return fmt.Errorf("cartridge is %d bytes, want at least %d", len(cartridge), mem.MinCartridgeLen)
			}

			bus := mem.New(bootROM, cartridge)
			c := cpu.New(bus)

			if debug {
				return debugger.Run(c)
			}

			var t *trace.Tracer
			if traceOut != "" {
				f, err := os.Create(traceOut)
				if err != nil {
					return fmt.Errorf("opening trace output: %w", err)
				}
				defer f.Close()
				t = trace.New(f)
			}

			for i := 0; steps <= 0 || i < steps; i++ {
				pc := c.PC
				err := c.Step()
				t.Step(c, pc, err)
				if err != nil {
					return fmt.Errorf("step %d: %w", i, err)
				}
			}
			return nil
		},
	}

	rootCmd.Flags().IntVar(&steps, "steps", 0, "number of instructions to execute (0 = run until error)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "launch the interactive TUI debugger instead of running headlessly")
	rootCmd.Flags().StringVar(&traceOut, "trace", "", "write a step-by-step execution log to this file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var sizeErr *errBootROMSize
		if errors.As(err, &sizeErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
