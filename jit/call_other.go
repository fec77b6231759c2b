//go:build !amd64

package jit

import "gvm/isa"

// Call, Bytes and Entry are unreachable on non-amd64 platforms since
// compile() always fails before a Compiled value can exist; they are
// defined here only so the package compiles under every GOARCH.
func (c *Compiled) Call(mem *[isa.MemSlots]uint64) {
	panic("jit: Call is unsupported on this platform")
}

func (c *Compiled) Bytes() []byte {
	return nil
}

func (c *Compiled) Entry() uintptr {
	return 0
}
