package bench

import (
	"math/rand/v2"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"gvm/isa"
)

func TestGenerateProgramEndsInStop(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		code := GenerateProgram(rng, 32)
		require.NotEmpty(t, code)
		require.Equal(t, byte(isa.STOP), code[len(code)-1])
	}
}

func TestRunAgreesOnGeneratedPrograms(t *testing.T) {
	switch {
	case runtime.GOARCH != "amd64":
		t.Skip("jit requires amd64")
	case runtime.GOOS != "linux" && runtime.GOOS != "darwin" && runtime.GOOS != "freebsd" &&
		runtime.GOOS != "netbsd" && runtime.GOOS != "openbsd" && runtime.GOOS != "dragonfly" &&
		runtime.GOOS != "solaris" && runtime.GOOS != "illumos" && runtime.GOOS != "aix":
		t.Skip("jit requires a unix-like GOOS")
	}

	rng := rand.New(rand.NewPCG(7, 9))
	for i := 0; i < 20; i++ {
		code := GenerateProgram(rng, 24)
		c, err := Run(code, zerolog.Nop())
		require.NoError(t, err)
		require.True(t, c.Match, "case %s: interpreter/JIT memory mismatch for %x", c.ID, code)
	}
}
