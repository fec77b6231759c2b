package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gvm/interp"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <bytecode-file>",
		Short: "interpret a bytecode file and print the final stack and memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readProgram(args[0])
			if err != nil {
				return err
			}

			vm := interp.New(newLogger())
			if err := vm.Interpret(code); err != nil {
				return err
			}

			fmt.Println("stack:", vm.Stack())
			fmt.Println("memory:")
			for key, val := range vm.Memory() {
				fmt.Printf("  [0x%02x] = %d\n", key, val)
			}
			return nil
		},
	}
}
