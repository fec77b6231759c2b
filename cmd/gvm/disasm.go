package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gvm/isa"
	"gvm/jit"
)

func newDisasmCmd() *cobra.Command {
	var showJIT bool

	cmd := &cobra.Command{
		Use:   "disasm <bytecode-file>",
		Short: "pretty-print a bytecode program using ISA mnemonics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readProgram(args[0])
			if err != nil {
				return err
			}

			pc := 0
			for pc < len(code) {
				op := isa.Op(code[pc])
				if !op.Valid() {
					fmt.Printf("%4d: ?0x%02x?\n", pc, code[pc])
					pc++
					continue
				}

				if op.HasImmediate() && pc+1 < len(code) {
					fmt.Printf("%4d: %-8s 0x%02x\n", pc, op, code[pc+1])
				} else {
					fmt.Printf("%4d: %-8s\n", pc, op)
				}
				pc += op.Len()
			}

			if showJIT {
				compiled, err := jit.Compile(code, newLogger())
				if err != nil {
					return err
				}
				defer compiled.Close()
				fmt.Println()
				fmt.Println(jit.DumpEntry(compiled, 128))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&showJIT, "jit", false, "also compile and hex-dump the emitted machine code")
	return cmd
}
