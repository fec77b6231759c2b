package bench

import (
	"encoding/hex"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"gvm/interp"
	"gvm/isa"
	"gvm/jit"
)

// Case is one benchmark record: the program that was run, both
// execution paths' final memory, whether they agreed, and how long
// each path took. ID lets repeated runs of the same driver be
// cross-referenced in a report file.
type Case struct {
	ID   uuid.UUID
	Code []byte

	InterpMemory map[uint8]uint64
	JITMemory    [isa.MemSlots]uint64
	Match        bool

	InterpDuration time.Duration
	JITDuration    time.Duration
}

// BytecodeHex renders Code the way a report file prints it.
func (c *Case) BytecodeHex() string {
	return hex.EncodeToString(c.Code)
}

// Run interprets and JIT-compiles code, executes both against
// independently zeroed memory, and records whether the two paths
// agree on the resulting memory as Case.Match.
func Run(code []byte, log zerolog.Logger) (*Case, error) {
	c := &Case{ID: uuid.New(), Code: code}

	// Both paths run with the garbage collector disabled: a single
	// program is short (the interpreter only grows a small stack
	// slice and memory map, the JIT's machine code has no
	// allocations at all), so a GC pause landing inside the timed
	// window would be pure noise.
	gcPercent := debug.SetGCPercent(-1)
	defer debug.SetGCPercent(gcPercent)

	vm := interp.New(log)
	t0 := time.Now()
	if err := vm.Interpret(code); err != nil {
		return nil, errors.Wrap(err, "bench: interpret")
	}
	c.InterpDuration = time.Since(t0)
	c.InterpMemory = vm.Memory()

	compiled, err := jit.Compile(code, log)
	if err != nil {
		return nil, errors.Wrap(err, "bench: compile")
	}
	defer compiled.Close()

	t1 := time.Now()
	compiled.Call(&c.JITMemory)
	c.JITDuration = time.Since(t1)

	c.Match = equivalent(c.InterpMemory, c.JITMemory)
	return c, nil
}

func equivalent(interpMem map[uint8]uint64, jitMem [isa.MemSlots]uint64) bool {
	for key, want := range interpMem {
		if jitMem[key] != want {
			return false
		}
	}
	return true
}
