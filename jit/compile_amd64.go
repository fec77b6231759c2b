//go:build amd64

package jit

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"gvm/isa"
)

// Two callee-saved registers are repurposed for the duration of the
// call: RBX holds the caller-supplied memory base pointer, R12 holds
// a snapshot of RSP taken at entry so STOP can reset the native stack
// to its call-entry depth regardless of how many values the evaluation
// stack still holds.
const (
	baseReg = regBX
	spSnapshotReg = regR12
)

func compile(code []byte, log zerolog.Logger) (*Compiled, error) {
	a := &asm{}

	// Prologue: save callee-saved regs we repurpose, bind arg ptr.
	a.pushReg(regBX)
	a.pushReg(regR12)
	a.movRegReg(baseReg, regDI)
	a.movRegReg(spSnapshotReg, regSP)

	pc := 0
	for pc < len(code) {
		op := isa.Op(code[pc])
		if !op.Valid() {
			return nil, errors.Wrapf(ErrUnknownOpcode, "at offset %d (byte 0x%02x)", pc, code[pc])
		}

		var imm uint8
		if op.HasImmediate() {
			if pc+1 >= len(code) {
				return nil, errors.Wrapf(ErrMissingImmediate, "for %s at offset %d", op, pc)
			}
			imm = code[pc+1]
		}

		log.Debug().Str("op", op.String()).Int("pc", pc).Uint8("imm", imm).Msg("emit")

		switch op {
		case isa.PUSH:
			a.movRegImm32(regAX, uint32(imm))
			a.pushReg(regAX)
		case isa.SLOAD:
			a.loadBaseDisp32(regAX, baseReg, int32(imm)*8)
			a.pushReg(regAX)
		case isa.SSTORE:
			a.popReg(regAX)
			a.storeBaseDisp32(baseReg, int32(imm)*8, regAX)
		case isa.ADD:
			a.popReg(regAX) // b
			a.popReg(regDX) // a
			a.addRegReg(regAX, regDX)
			a.pushReg(regAX)
		case isa.SUB:
			a.popReg(regAX) // b
			a.popReg(regDX) // a
			a.subRegReg(regDX, regAX) // a - b
			a.pushReg(regDX)
		case isa.MUL:
			a.popReg(regAX) // b
			a.popReg(regDX) // a
			a.imulRegReg(regAX, regDX)
			a.pushReg(regAX)
		case isa.DIV:
			emitDivMod(a, true)
		case isa.MOD:
			emitDivMod(a, false)
		case isa.EQ:
			emitCompare(a, ccEqual)
		case isa.LT:
			emitCompare(a, ccBelow)
		case isa.GT:
			emitCompare(a, ccAbove)
		case isa.AND:
			a.popReg(regAX)
			a.popReg(regDX)
			a.andRegReg(regAX, regDX)
			a.pushReg(regAX)
		case isa.OR:
			a.popReg(regAX)
			a.popReg(regDX)
			a.orRegReg(regAX, regDX)
			a.pushReg(regAX)
		case isa.XOR:
			a.popReg(regAX)
			a.popReg(regDX)
			a.xorRegReg(regAX, regDX)
			a.pushReg(regAX)
		case isa.DUP:
			a.loadTopOfStack(regAX)
			a.pushReg(regAX)
		case isa.SWAP:
			a.popReg(regAX) // b (top)
			a.popReg(regDX) // a
			a.pushReg(regAX)
			a.pushReg(regDX)
		case isa.STOP:
			a.movRegReg(regSP, spSnapshotReg)
			a.popReg(regR12)
			a.popReg(regBX)
			a.ret()
		}

		pc += op.Len()
	}

	buf, entry, err := newExecutableBuffer(a.code)
	if err != nil {
		return nil, errors.Wrap(err, "jit: finalize executable buffer")
	}

	return &Compiled{buf: buf, entry: entry, log: log}, nil
}

// emitCompare encodes EQ/LT/GT: pop b (top) and a (next), compare a
// against b, materialize the 0/1 result with the requested
// condition code and push it as a 64-bit value.
func emitCompare(a *asm, cc uint8) {
	a.popReg(regAX) // b
	a.popReg(regDX) // a
	a.cmpRegReg(regDX, regAX) // flags for a - b
	a.setccAL(cc)
	a.movzxRaxAl()
	a.pushReg(regAX)
}

// emitDivMod encodes the shared DIV/MOD template: pop the divisor
// (top) into RCX, the dividend (next) into RAX, guard against a zero
// divisor (push 0, matching the defined total-function semantics),
// otherwise clear RDX and perform an unsigned 64-bit divide, pushing
// the quotient (wantQuotient) or the remainder.
func emitDivMod(a *asm, wantQuotient bool) {
	a.popReg(regCX) // divisor (b)
	a.popReg(regAX) // dividend (a)
	a.testRegReg(regCX, regCX)

	jzStart := a.len()
	a.jz(0) // patched below once the zero-path offset is known

	a.xorRegReg(regDX, regDX)
	a.divReg(regCX)
	if wantQuotient {
		a.pushReg(regAX)
	} else {
		a.pushReg(regDX)
	}

	jmpStart := a.len()
	a.jmp(0) // patched below to skip the zero-path push

	zeroPathStart := a.len()
	a.pushImm8(0)
	end := a.len()

	a.code[jzStart+1] = byte(zeroPathStart - (jzStart + 2))
	a.code[jmpStart+1] = byte(end - (jmpStart + 2))
}
