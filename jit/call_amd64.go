//go:build amd64

package jit

import (
	"unsafe"

	"gvm/isa"
)

// callNative is implemented in call_amd64.s. It calls fn (the
// compiled entry point) with arg loaded into the platform's first
// integer-argument register, matching the System V AMD64 calling
// convention the compiled function was generated against.
func callNative(fn, arg uintptr)

// Call invokes the compiled function against mem, a dense array of
// at least isa.MemSlots 64-bit slots. mem must be naturally aligned
// and the caller retains ownership; the JIT keeps no reference to it
// after Call returns. Call must not be invoked concurrently against
// the same mem from multiple goroutines/threads, and c must not be
// closed while a call is in flight.
func (c *Compiled) Call(mem *[isa.MemSlots]uint64) {
	callNative(c.entry, uintptr(unsafe.Pointer(mem)))
}

// Bytes returns the raw emitted machine code for the lifetime of c,
// for use by jit.DumpEntry and the disassembly CLI path. The slice
// aliases the executable mapping; do not retain it past Close.
func (c *Compiled) Bytes() []byte {
	if c.buf == nil {
		return nil
	}
	return c.buf.bytes()
}

// Entry returns the compiled function's entry address, for debug
// logging only. It is not valid after Close.
func (c *Compiled) Entry() uintptr {
	return c.entry
}
