package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gvm/isa"
	"gvm/jit"
)

func newJITCmd() *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "jit <bytecode-file>",
		Short: "compile a bytecode file to native code and run it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readProgram(args[0])
			if err != nil {
				return err
			}

			compiled, err := jit.Compile(code, newLogger())
			if err != nil {
				return err
			}
			defer compiled.Close()

			if dump {
				fmt.Println(jit.DumpEntry(compiled, 64))
			}

			var mem [isa.MemSlots]uint64
			compiled.Call(&mem)

			fmt.Println("memory:")
			for key, val := range mem {
				if val != 0 {
					fmt.Printf("  [0x%02x] = %d\n", key, val)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "print a hex dump of the compiled code before running it")
	return cmd
}
