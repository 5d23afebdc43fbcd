package disassembler

import "fmt"

// formatBranch renders a branch target relative to the start of the instruction,
// the form an assembler turns back into the same displacement.
func formatBranch(disp int8, size int) string {
	return fmt.Sprintf("$%+d", int(disp)+size)
}
