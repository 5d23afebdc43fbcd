package disassembler

import (
	"strings"
)

// Line is one listing entry: an instruction and an optional state-change comment.
type Line struct {
	Mnemonic string
	Operands string
	Comment  string
}

func (l Line) String() string {
	var sb strings.Builder
	sb.WriteString(l.Mnemonic)
	if l.Operands != "" {
		sb.WriteByte(' ')
		sb.WriteString(l.Operands)
	}
	if l.Comment != "" {
		sb.WriteString(" ; ")
		sb.WriteString(l.Comment)
	}
	return sb.String()
}

// Listing renders lines as an assembly file with a "bits 16" header.
func Listing(lines []Line) string {
	var sb strings.Builder
	sb.WriteString("bits 16\n")
	for _, l := range lines {
		sb.WriteString(l.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
