// Package bench is the non-core benchmark driver: it generates
// stack-balanced random programs, runs them through both the
// interpreter and the template JIT against independently zeroed
// memory, and reports how long each path took. It consumes only the
// two public entry points package interp and package jit expose and
// is not part of the core contract either engine implements.
package bench

import (
	"math/rand/v2"

	"gvm/isa"
)

var binaryOps = []isa.Op{
	isa.ADD, isa.SUB, isa.MUL, isa.DIV, isa.MOD,
	isa.EQ, isa.LT, isa.GT, isa.AND, isa.OR, isa.XOR,
}

// GenerateProgram produces a random flat bytecode sequence of up to
// maxOps opcodes (plus the final SSTORE/STOP bookkeeping), using a
// shadow depth counter so the program never underflows and the JIT's
// native-stack-as-evaluation-stack never reads into the caller's
// frame. Surplus values above the bottom of the stack are stored to
// key 0xFF, and the one remaining value (a fresh PUSH if the stack
// is empty) is stored to memory key 0 so both execution paths leave
// an observable result.
func GenerateProgram(rng *rand.Rand, maxOps int) []byte {
	var code []byte
	depth := 0

	steps := rng.IntN(maxOps + 1)
	for i := 0; i < steps; i++ {
		op, ok := pickOp(rng, depth)
		if !ok {
			continue
		}

		code = append(code, byte(op))
		if op.HasImmediate() {
			code = append(code, byte(rng.IntN(256)))
		}

		pops, pushes := op.StackEffect()
		depth += pushes - pops
	}

	// Settle the shadow stack to depth 1 so there is exactly one
	// value to store before STOP.
	for depth > 1 {
		code = append(code, byte(isa.SSTORE), byte(0xFF))
		depth--
	}
	for depth < 1 {
		code = append(code, byte(isa.PUSH), byte(rng.IntN(256)))
		depth++
	}

	code = append(code, byte(isa.SSTORE), 0x00)
	code = append(code, byte(isa.STOP))
	return code
}

// pickOp draws an opcode whose pop count the current shadow depth can
// satisfy. PUSH and SLOAD are always legal since they never pop.
func pickOp(rng *rand.Rand, depth int) (isa.Op, bool) {
	candidates := make([]isa.Op, 0, len(binaryOps)+4)
	candidates = append(candidates, isa.PUSH, isa.SLOAD)
	if depth >= 1 {
		candidates = append(candidates, isa.SSTORE, isa.DUP)
	}
	if depth >= 2 {
		candidates = append(candidates, isa.SWAP)
		candidates = append(candidates, binaryOps...)
	}

	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[rng.IntN(len(candidates))], true
}
