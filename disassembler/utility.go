package disassembler

import (
	"fmt"
	"strconv"

	"github.com/Urethramancer/sim86/cpu"
)

// FormatOperand renders a single operand. sized adds a byte/word prefix to memory operands.
func FormatOperand(o cpu.Operand, sized bool) string {
	switch v := o.(type) {
	case cpu.Register:
		return v.String()
	case cpu.Memory:
		s := formatAddress(v.Address)
		if !sized {
			return s
		}
		if v.Wide {
			return "word " + s
		}
		return "byte " + s
	case cpu.Immediate:
		return formatImmediate(v)
	case nil:
		return ""
	}
	return fmt.Sprintf("(bad operand %T)", o)
}

// formatAddress renders "[bx + si + 4]", "[bp - 2]", "[bp]" or "[2555]".
func formatAddress(ea cpu.EffectiveAddress) string {
	if ea.Direct() {
		return "[" + strconv.Itoa(int(uint16(ea.Disp))) + "]"
	}
	return "[" + ea.Base.String() + formatDisp(ea.Disp) + "]"
}

func formatDisp(v int16) string {
	switch {
	case v > 0:
		return fmt.Sprintf(" + %d", v)
	case v < 0:
		return fmt.Sprintf(" - %d", -int32(v))
	}
	return ""
}

func formatImmediate(imm cpu.Immediate) string {
	if imm.SignExtended {
		return strconv.Itoa(int(int16(imm.Value)))
	}
	if !imm.Wide {
		return strconv.Itoa(int(imm.Value & 0xFF))
	}
	return strconv.Itoa(int(imm.Value))
}
