package interp

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func mustRun(t *testing.T, code []byte) *VM {
	t.Helper()
	vm := New(zerolog.Nop())
	require.NoError(t, vm.Interpret(code))
	return vm
}

// End-to-end scenarios covering memory, PUSH, ADD/SUB, DIV, LT, DUP
// and SWAP.
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
			vm := mustRun(t, c.code)
			require.Equal(t, c.want, vm.Memory()[c.key])
		})
	}
}

func TestStoreLoadRoundTripStack(t *testing.T) {
	vm := mustRun(t, []byte{0x03, 0x2A, 0x02, 0x10, 0x01, 0x10, 0xFF})
	require.Equal(t, []uint64{42}, vm.Stack())
}

func TestUnsetMemoryReadsZero(t *testing.T) {
	vm := mustRun(t, []byte{0x01, 0x20, 0xFF})
	require.Equal(t, []uint64{0}, vm.Stack())
}

func TestUnknownOpcode(t *testing.T) {
	vm := New(zerolog.Nop())
	err := vm.Interpret([]byte{0xEE})
	require.ErrorIs(t, err, ErrUnknownOpcode)
}

func TestMissingImmediate(t *testing.T) {
	vm := New(zerolog.Nop())
	err := vm.Interpret([]byte{0x03})
	require.ErrorIs(t, err, ErrMissingImmediate)
}

func TestUnderflowIsTolerant(t *testing.T) {
	// ADD on an empty stack substitutes zero for both operands.
	vm := mustRun(t, []byte{0x04, 0xFF})
	require.Equal(t, []uint64{0}, vm.Stack())
}

func TestDupSwapLaws(t *testing.T) {
	vm := mustRun(t, []byte{0x03, 0x07, 0x0F, 0xFF})
	require.Len(t, vm.Stack(), 2)
	require.Equal(t, vm.Stack()[0], vm.Stack()[1])

	vm = mustRun(t, []byte{0x03, 0x01, 0x03, 0x02, 0x10, 0x10, 0xFF})
	require.Equal(t, []uint64{1, 2}, vm.Stack())
}

func TestWrappingArithmetic(t *testing.T) {
	vm := mustRun(t, []byte{0x03, 0x00, 0x03, 0x01, 0x05, 0xFF})
	require.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), vm.Stack()[0])
}

func TestModByZero(t *testing.T) {
	vm := mustRun(t, []byte{0x03, 0x07, 0x03, 0x00, 0x08, 0xFF})
	require.Equal(t, []uint64{0}, vm.Stack())
}
