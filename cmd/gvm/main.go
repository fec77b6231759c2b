// Command gvm is the command-line driver around the core interpreter
// and template JIT: run a bytecode file under either execution path,
// disassemble it, or benchmark both paths against randomly generated
// programs. None of this package is part of the core contract - it's
// an external collaborator consuming only interp.VM.Interpret and
// jit.Compile.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var logLevel string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gvm",
		Short: "stack bytecode VM with a template x86-64 JIT",
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "disabled", "trace|debug|info|warn|error|disabled")

	root.AddCommand(newRunCmd())
	root.AddCommand(newJITCmd())
	root.AddCommand(newDisasmCmd())
	root.AddCommand(newBenchCmd())

	return root
}

func newLogger() zerolog.Logger {
	lvl, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		lvl = zerolog.Disabled
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
}

func readProgram(path string) ([]byte, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return code, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
