package disassembler

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/sim86/cpu"
)

// Comment renders the state changes of an executed instruction, e.g.
// "cx:0x0->0x5 ; ip:0x3->0x7 ; flags:->Z".
func Comment(t *cpu.Trace) string {
	var parts []string
	for _, r := range t.Registers {
		parts = append(parts, fmt.Sprintf("%s:%#x->%#x", r.Index, r.Old, r.New))
	}
	parts = append(parts, fmt.Sprintf("ip:%#x->%#x", t.IPBefore, t.IPAfter))
	if t.FlagsBefore != t.FlagsAfter {
		parts = append(parts, fmt.Sprintf("flags:%s->%s", cpu.FlagString(t.FlagsBefore), cpu.FlagString(t.FlagsAfter)))
	}
	return strings.Join(parts, " ; ")
}

// Traced returns the listing line for an executed instruction.
func Traced(t *cpu.Trace) Line {
	l := Decoded(t.Inst)
	l.Comment = Comment(t)
	return l
}
