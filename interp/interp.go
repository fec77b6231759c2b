// Package interp is the reference implementation of the bytecode
// semantics: a straightforward fetch-decode-execute loop over a byte
// slice, maintaining an evaluation stack of 64-bit unsigned values and
// a sparse mapping from 8-bit keys to 64-bit values. It exists to
// define ground truth that the template JIT in package jit must match
// bit for bit.
package interp

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"gvm/isa"
)

// Errors surfaced by Interpret. Fatal errors abort execution with no
// partial result published to the caller beyond what Interpret
// returns; runtime arithmetic conditions (div/mod by zero, wrapping
// overflow) are absorbed by the semantics and never produce an error.
var (
	// ErrUnknownOpcode is returned when a byte outside the isa table
	// is encountered while fetching an instruction.
	ErrUnknownOpcode = errors.New("interp: unknown opcode")
	// ErrMissingImmediate is returned when the program ends before a
	// one-operand opcode's immediate byte can be read.
	ErrMissingImmediate = errors.New("interp: missing immediate operand")
)

// VM holds the state of a single interpreted run: the evaluation
// stack and the sparse memory map. A zero-value VM is ready to use.
type VM struct {
	stack  []uint64
	memory map[uint8]uint64

	log zerolog.Logger
}

// New returns a VM with an optional logger. Passing the zero
// zerolog.Logger disables all tracing; attach one with
// zerolog.New(w) to observe per-opcode trace events.
func New(log zerolog.Logger) *VM {
	return &VM{memory: make(map[uint8]uint64), log: log}
}

// Stack returns a read-only view of the final evaluation stack, in
// bottom-to-top order. The slice aliases VM-owned storage and must
// not be retained past the next call that mutates the VM.
func (vm *VM) Stack() []uint64 {
	return vm.stack
}

// Memory returns a read-only view of memory covering only keys
// touched by SSTORE. Unwritten keys are absent, not zero-valued; the
// interpreter's zero-if-unset rule only applies to SLOAD.
func (vm *VM) Memory() map[uint8]uint64 {
	return vm.memory
}

func (vm *VM) push(v uint64) {
	vm.stack = append(vm.stack, v)
}

// pop removes and returns the top of stack, substituting zero for an
// empty stack. Underflow is never an error; it's treated as reading
// an implicit zero that was always there.
func (vm *VM) pop() uint64 {
	n := len(vm.stack)
	if n == 0 {
		return 0
	}
	v := vm.stack[n-1]
	vm.stack = vm.stack[:n-1]
	return v
}

func (vm *VM) peek() uint64 {
	if n := len(vm.stack); n > 0 {
		return vm.stack[n-1]
	}
	return 0
}

// Interpret resets vm's stack and memory and runs code from byte 0
// until STOP or end of code. Because of that reset it is a pure
// function of code - identical code always produces an identical
// trace.
func (vm *VM) Interpret(code []byte) error {
	vm.stack = vm.stack[:0]
	vm.memory = make(map[uint8]uint64)

	pc := 0
	for pc < len(code) {
		op := isa.Op(code[pc])
		if !op.Valid() {
			return errors.Wrapf(ErrUnknownOpcode, "at offset %d (byte 0x%02x)", pc, code[pc])
		}

		var imm uint8
		if op.HasImmediate() {
			if pc+1 >= len(code) {
				return errors.Wrapf(ErrMissingImmediate, "for %s at offset %d", op, pc)
			}
			imm = code[pc+1]
		}

		vm.log.Trace().Str("op", op.String()).Int("pc", pc).Uint8("imm", imm).Msg("step")

		switch op {
		case isa.SLOAD:
			vm.push(vm.memory[imm])
		case isa.SSTORE:
			vm.memory[imm] = vm.pop()
		case isa.PUSH:
			vm.push(uint64(imm))
		case isa.ADD:
			b, a := vm.pop(), vm.pop()
			vm.push(a + b)
		case isa.SUB:
			b, a := vm.pop(), vm.pop()
			vm.push(a - b)
		case isa.MUL:
			b, a := vm.pop(), vm.pop()
			vm.push(a * b)
		case isa.DIV:
			b, a := vm.pop(), vm.pop()
			if b == 0 {
				vm.push(0)
			} else {
				vm.push(a / b)
			}
		case isa.MOD:
			b, a := vm.pop(), vm.pop()
			if b == 0 {
				vm.push(0)
			} else {
				vm.push(a % b)
			}
		case isa.EQ:
			b, a := vm.pop(), vm.pop()
			vm.push(boolToU64(a == b))
		case isa.LT:
			b, a := vm.pop(), vm.pop()
			vm.push(boolToU64(a < b))
		case isa.GT:
			b, a := vm.pop(), vm.pop()
			vm.push(boolToU64(a > b))
		case isa.AND:
			b, a := vm.pop(), vm.pop()
			vm.push(a & b)
		case isa.OR:
			b, a := vm.pop(), vm.pop()
			vm.push(a | b)
		case isa.XOR:
			b, a := vm.pop(), vm.pop()
			vm.push(a ^ b)
		case isa.DUP:
			vm.push(vm.peek())
		case isa.SWAP:
			b, a := vm.pop(), vm.pop()
			vm.push(b)
			vm.push(a)
		case isa.STOP:
			return nil
		}

		pc += op.Len()
	}

	return nil
}

func boolToU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
