//go:build amd64 && unix

package jit

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// executableBuffer owns an anonymous mmap'd region that starts
// writable-and-non-executable (for emission) and is transitioned to
// executable-and-non-writable before the first call - W^X discipline,
// required on platforms that enforce it and harmless elsewhere.
type executableBuffer struct {
	mem []byte
}

// newExecutableBuffer copies code into a fresh page-backed mapping,
// protects it read/execute and returns the buffer along with the
// entry point (the mapping's base address, since the prologue is
// always emitted first).
func newExecutableBuffer(code []byte) (*executableBuffer, uintptr, error) {
	if len(code) == 0 {
		return nil, 0, errors.New("jit: empty code buffer")
	}

	mem, err := unix.Mmap(-1, 0, len(code), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, 0, errors.Wrap(err, "jit: mmap")
	}

	copy(mem, code)

	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		_ = unix.Munmap(mem)
		return nil, 0, errors.Wrap(err, "jit: mprotect rx")
	}

	entry := uintptr(unsafe.Pointer(&mem[0]))
	return &executableBuffer{mem: mem}, entry, nil
}

// close unmaps the region. Safe to call on an already-closed buffer.
func (b *executableBuffer) close() error {
	if b == nil || b.mem == nil {
		return nil
	}
	err := unix.Munmap(b.mem)
	b.mem = nil
	return err
}

// bytes returns the raw emitted machine code, for disassembly and
// debugging (jit.DumpEntry, cmd/gvm disasm --jit).
func (b *executableBuffer) bytes() []byte {
	return b.mem
}
