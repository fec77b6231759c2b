package bench

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

// WriteReport renders cases as a human-readable table to path,
// creating or truncating the file. The benchmark driver reads no
// configuration from files or the environment beyond the path it is
// given on the CLI.
func WriteReport(path string, cases []*Case) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "bench: create report %s", path)
	}
	defer f.Close()

	table := tablewriter.NewWriter(f)
	table.SetHeader([]string{"case", "bytecode", "match", "interp", "jit", "speedup"})

	var matched, total int
	for _, c := range cases {
		total++
		if c.Match {
			matched++
		}

		speedup := "n/a"
		if c.JITDuration > 0 {
			speedup = fmt.Sprintf("%.1fx", float64(c.InterpDuration)/float64(c.JITDuration))
		}

		table.Append([]string{
			c.ID.String()[:8],
			truncateHex(c.BytecodeHex(), 40),
			fmt.Sprintf("%v", c.Match),
			c.InterpDuration.String(),
			c.JITDuration.String(),
			speedup,
		})
	}

	table.Render()
	fmt.Fprintf(f, "\n%d/%d cases matched interpreter and JIT output\n", matched, total)
	return nil
}

func truncateHex(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
