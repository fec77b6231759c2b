// Package jit implements the template JIT: a single linear pass over
// the bytecode defined by package isa that emits a fixed x86-64
// machine-code snippet per opcode into a writable buffer, then
// finalizes the buffer as an executable region callable as a native
// function of signature func(*[isa.MemSlots]uint64).
//
// The JIT never optimizes across instruction boundaries - each opcode
// maps to exactly one template, emitted independently of its
// neighbors - which is what lets this package stay a faithful,
// line-for-line mirror of the interpreter in package interp rather
// than a second, independently-evolving implementation of the ISA's
// semantics.
package jit

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrUnknownOpcode is returned at compile time when an unrecognized
// opcode byte is encountered. Unlike the interpreter, the JIT never
// defers this to call time - an ill-formed program fails to finalize.
var ErrUnknownOpcode = errors.New("jit: unknown opcode")

// ErrMissingImmediate is returned at compile time when the program
// ends before a one-operand opcode's immediate byte can be read.
var ErrMissingImmediate = errors.New("jit: missing immediate operand")

// ErrUnsupportedPlatform is returned by Compile on any GOARCH/GOOS
// combination this package has no encoder for. The template JIT
// targets x86-64 exclusively and makes no attempt at portable codegen.
var ErrUnsupportedPlatform = errors.New("jit: unsupported platform, template JIT targets amd64")

// Compiled is an immutable, owned, executable code buffer. The
// callable entry point is valid from Compile until Close; calling
// through a stale pointer after Close is undefined. The owner is
// responsible for deterministic destruction - there is no finalizer.
type Compiled struct {
	buf   *executableBuffer
	entry uintptr
	log   zerolog.Logger
}

// Close unmaps the executable region. Call must not be invoked again
// after Close returns. Close is idempotent.
func (c *Compiled) Close() error {
	if c.buf == nil {
		return nil
	}
	err := c.buf.close()
	c.buf = nil
	return err
}

// Compile performs one left-to-right scan over code, emitting a
// native function body that reproduces the interpreter's semantics
// for every opcode it contains. The returned Compiled's Call method
// takes a pointer to a dense array of at least isa.MemSlots 64-bit
// slots; slot zero-initialization is the caller's responsibility.
func Compile(code []byte, log zerolog.Logger) (*Compiled, error) {
	return compile(code, log)
}
