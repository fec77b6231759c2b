package jit

import (
	"fmt"
	"os"
	"strings"
)

// DumpEntry renders a hex dump of the first n bytes at c's entry
// point plus, on Linux, the process's /proc/self/maps. This mirrors
// the debug visualization the original proof-of-concept printed
// unconditionally before every JIT call; here it is opt-in, wired to
// `gvm disasm --jit` and `gvm bench --verbose` rather than always-on.
func DumpEntry(c *Compiled, n int) string {
	var b strings.Builder

	code := c.Bytes()
	if len(code) < n {
		n = len(code)
	}

	fmt.Fprintf(&b, "entry = %#x\n", c.Entry())
	for i := 0; i < n; i++ {
		if i%8 == 0 {
			fmt.Fprintf(&b, "\n%#04x: ", i)
		}
		fmt.Fprintf(&b, "%02x ", code[i])
	}
	b.WriteByte('\n')

	if maps, err := os.ReadFile("/proc/self/maps"); err == nil {
		b.WriteString("\n--- /proc/self/maps ---\n")
		b.Write(maps)
	}

	return b.String()
}
