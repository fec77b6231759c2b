//go:build amd64

package jit

import "encoding/binary"

// asm is a tiny x86-64 instruction encoder, just large enough to
// cover the fixed templates compile_amd64.go needs. It is not a
// general-purpose assembler: there is no instruction selection, no
// register allocation, no relocation table beyond the two local
// branches DIV/MOD need. Every method appends fully-encoded bytes for
// exactly one instruction.
//
// Register numbering follows the x86-64 ModRM/SIB encoding: 0=RAX,
// 1=RCX, 2=RDX, 3=RBX, 4=RSP, 5=RBP, 6=RSI, 7=RDI, 8-15=R8-R15.
type asm struct {
	code []byte
}

const (
	regAX  = 0
	regCX  = 1
	regDX  = 2
	regBX  = 3
	regSP  = 4
	regBP  = 5
	regDI  = 7
	regR12 = 12
)

func (a *asm) emit(b ...byte) {
	a.code = append(a.code, b...)
}

func (a *asm) len() int {
	return len(a.code)
}

// rex builds a REX prefix. w selects 64-bit operand size; r, x, b
// extend the ModRM reg, SIB index and ModRM rm/SIB base fields
// respectively to address R8-R15.
func rex(w, r, x, b bool) byte {
	v := byte(0x40)
	if w {
		v |= 0x08
	}
	if r {
		v |= 0x04
	}
	if x {
		v |= 0x02
	}
	if b {
		v |= 0x01
	}
	return v
}

func modrm(mod, reg, rm byte) byte {
	return (mod << 6) | ((reg & 7) << 3) | (rm & 7)
}

func ext(reg int) bool { return reg >= 8 }

// pushReg emits PUSH r64.
func (a *asm) pushReg(reg int) {
	if ext(reg) {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0x50 + byte(reg&7))
}

// popReg emits POP r64.
func (a *asm) popReg(reg int) {
	if ext(reg) {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0x58 + byte(reg&7))
}

// pushImm8 emits PUSH imm8, sign-extended to 64 bits by the CPU. Only
// ever used to push the literal 0 produced by the div/mod-by-zero
// guard, so the sign extension is never observable.
func (a *asm) pushImm8(v int8) {
	a.emit(0x6A, byte(v))
}

// movRegImm32 emits MOV r32, imm32 (zero-extends into the full r64 on
// x86-64). Used for PUSH's immediate, which is defined as zero-extended
// unsigned in isa's ISA table.
func (a *asm) movRegImm32(reg int, imm uint32) {
	if ext(reg) {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0xB8 + byte(reg&7))
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], imm)
	a.emit(buf[:]...)
}

// movRegReg emits MOV dst, src (64-bit register to register).
func (a *asm) movRegReg(dst, src int) {
	a.emit(rex(true, ext(src), false, ext(dst)))
	a.emit(0x89, modrm(3, byte(src), byte(dst)))
}

// loadBaseDisp32 emits MOV dst, [base + disp32].
func (a *asm) loadBaseDisp32(dst, base int, disp int32) {
	a.emit(rex(true, ext(dst), false, ext(base)))
	a.emit(0x8B, modrm(2, byte(dst), byte(base)))
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(disp))
	a.emit(buf[:]...)
}

// storeBaseDisp32 emits MOV [base + disp32], src.
func (a *asm) storeBaseDisp32(base int, disp int32, src int) {
	a.emit(rex(true, ext(src), false, ext(base)))
	a.emit(0x89, modrm(2, byte(src), byte(base)))
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(disp))
	a.emit(buf[:]...)
}

// loadTopOfStack emits MOV dst, [RSP] (DUP's non-popping read).
func (a *asm) loadTopOfStack(dst int) {
	a.emit(rex(true, ext(dst), false, false))
	// RSP as a base forces a SIB byte with no index.
	a.emit(0x8B, modrm(0, byte(dst), regSP), 0x24)
}

// binOp encodes a two-register ALU instruction: opcode /r, dst = dst OP src.
func (a *asm) binOp(opcode byte, dst, src int) {
	a.emit(rex(true, ext(src), false, ext(dst)))
	a.emit(opcode, modrm(3, byte(src), byte(dst)))
}

func (a *asm) addRegReg(dst, src int) { a.binOp(0x01, dst, src) }
func (a *asm) subRegReg(dst, src int) { a.binOp(0x29, dst, src) }
func (a *asm) andRegReg(dst, src int) { a.binOp(0x21, dst, src) }
func (a *asm) orRegReg(dst, src int)  { a.binOp(0x09, dst, src) }
func (a *asm) xorRegReg(dst, src int) { a.binOp(0x31, dst, src) }
func (a *asm) cmpRegReg(dst, src int) { a.binOp(0x39, dst, src) }

// testRegReg emits TEST dst, src (ANDs without storing, sets flags).
func (a *asm) testRegReg(dst, src int) { a.binOp(0x85, dst, src) }

// imulRegReg emits IMUL dst, src (two-operand form); the low 64 bits
// of signed and unsigned multiplication agree, so this doubles as
// unsigned wrapping multiply.
func (a *asm) imulRegReg(dst, src int) {
	a.emit(rex(true, ext(dst), false, ext(src)))
	a.emit(0x0F, 0xAF, modrm(3, byte(dst), byte(src)))
}

// divReg emits DIV r64 (unsigned divide RDX:RAX by reg, quotient in
// RAX, remainder in RDX).
func (a *asm) divReg(reg int) {
	a.emit(rex(true, false, false, ext(reg)))
	a.emit(0xF7, modrm(3, 6, byte(reg)))
}

const (
	ccBelow uint8 = 0x92 // unsigned <
	ccAbove uint8 = 0x97 // unsigned >
	ccEqual uint8 = 0x94 // ==
)

// setccAL emits SETcc AL.
func (a *asm) setccAL(cc uint8) {
	a.emit(0x0F, cc, modrm(3, 0, regAX))
}

// movzxRaxAl emits MOVZX RAX, AL.
func (a *asm) movzxRaxAl() {
	a.emit(rex(true, false, false, false), 0x0F, 0xB6, modrm(3, regAX, regAX))
}

// jz/jmp emit a short (rel8) jump. They return nothing; the caller
// records len() before emitting and patches the displacement byte
// at that offset + 1 once the jump target's position is known.
func (a *asm) jz(rel int8) { a.emit(0x74, byte(rel)) }
func (a *asm) jmp(rel int8) { a.emit(0xEB, byte(rel)) }

func (a *asm) ret() { a.emit(0xC3) }
