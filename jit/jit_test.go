//go:build amd64 && unix

package jit

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"gvm/interp"
	"gvm/isa"
)

func mustCompile(t *testing.T, code []byte) *Compiled {
	t.Helper()
	c, err := Compile(code, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Close()) })
	return c
}

func runJIT(t *testing.T, code []byte) [isa.MemSlots]uint64 {
	t.Helper()
	c := mustCompile(t, code)
	var mem [isa.MemSlots]uint64
	c.Call(&mem)
	return mem
}

func TestScenarios(t *testing.T) {
	cases := []struct {
		name string
		code []byte
		key  uint8
		want uint64
	}{
		{"store/load round-trip", []byte{0x03, 0x2A, 0x02, 0x10, 0x01, 0x10, 0xFF}, 0x10, 42},
		{"wrapping subtract", []byte{0x03, 0x00, 0x03, 0x01, 0x05, 0x02, 0x00, 0xFF}, 0x00, 0xFFFFFFFFFFFFFFFF},
		{"div by zero", []byte{0x03, 0x07, 0x03, 0x00, 0x07, 0x02, 0x05, 0xFF}, 0x05, 0},
		{"comparison", []byte{0x03, 0x05, 0x03, 0x09, 0x0A, 0x02, 0x02, 0xFF}, 0x02, 1},
		{"dup + add", []byte{0x03, 0x03, 0x0F, 0x04, 0x02, 0x00, 0xFF}, 0x00, 6},
		{"swap preserves values", []byte{0x03, 0x01, 0x03, 0x02, 0x10, 0x10, 0x02, 0x00, 0xFF}, 0x00, 2},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mem := runJIT(t, c.code)
			require.Equal(t, c.want, mem[c.key])
		})
	}
}

func TestModByZero(t *testing.T) {
	mem := runJIT(t, []byte{0x03, 0x07, 0x03, 0x00, 0x08, 0x02, 0x00, 0xFF})
	require.Equal(t, uint64(0), mem[0])
}

func TestEmptyProgramIsJustStop(t *testing.T) {
	mem := runJIT(t, []byte{0xFF})
	require.Equal(t, [isa.MemSlots]uint64{}, mem)
}

func TestUnknownOpcodeFailsAtCompileTime(t *testing.T) {
	_, err := Compile([]byte{0xEE}, zerolog.Nop())
	require.ErrorIs(t, err, ErrUnknownOpcode)
}

func TestMissingImmediateFailsAtCompileTime(t *testing.T) {
	_, err := Compile([]byte{0x03}, zerolog.Nop())
	require.ErrorIs(t, err, ErrMissingImmediate)
}

// stackBalancedProgram generates a random flat sequence of opcodes
// whose shadow depth never goes negative and is settled to exactly 1,
// then appends an SSTORE to key 0 so the result lands somewhere both
// execution paths observe, and finally STOP.
func stackBalancedProgram(t *rapid.T) []byte {
	ops := []isa.Op{isa.PUSH, isa.ADD, isa.SUB, isa.MUL, isa.DIV, isa.MOD, isa.EQ, isa.LT, isa.GT, isa.AND, isa.OR, isa.XOR, isa.DUP, isa.SWAP, isa.SLOAD, isa.SSTORE}

	var code []byte
	depth := 0
	steps := rapid.IntRange(0, 64).Draw(t, "steps")
	for i := 0; i < steps; i++ {
		candidates := make([]isa.Op, 0, len(ops))
		for _, op := range ops {
			pops, pushes := op.StackEffect()
			if depth-pops >= 0 {
				candidates = append(candidates, op)
				_ = pushes
			}
		}
		if len(candidates) == 0 {
			break
		}
		op := candidates[rapid.IntRange(0, len(candidates)-1).Draw(t, "op")]
		code = append(code, byte(op))
		if op.HasImmediate() {
			code = append(code, byte(rapid.IntRange(0, 255).Draw(t, "imm")))
		}
		pops, pushes := op.StackEffect()
		depth += pushes - pops
	}

	for depth > 1 {
		code = append(code, byte(isa.SSTORE), byte(0xFE))
		depth--
	}
	for depth < 1 {
		code = append(code, byte(isa.PUSH), 0)
		depth++
	}
	code = append(code, byte(isa.SSTORE), 0x00)
	code = append(code, byte(isa.STOP))
	return code
}

func TestInterpreterJITEquivalence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		code := stackBalancedProgram(t)

		vm := interp.New(zerolog.Nop())
		require.NoError(t, vm.Interpret(code))

		c, err := Compile(code, zerolog.Nop())
		require.NoError(t, err)
		defer c.Close()

		var mem [isa.MemSlots]uint64
		c.Call(&mem)

		for key, want := range vm.Memory() {
			require.Equalf(t, want, mem[key], "mismatch at key %d", key)
		}
	})
}
