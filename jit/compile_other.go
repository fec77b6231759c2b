//go:build !amd64

package jit

import "github.com/rs/zerolog"

// compile on non-amd64 platforms always fails: the template JIT has
// no encoder for any architecture but x86-64, by design.
func compile(code []byte, log zerolog.Logger) (*Compiled, error) {
	return nil, ErrUnsupportedPlatform
}
