package disassembler

import (
	"github.com/Urethramancer/sim86/cpu"
)

// Format returns the mnemonic and operand text of a decoded instruction.
func Format(inst *cpu.DecodedInstruction) (string, string) {
	mn := inst.Op.String()
	if inst.Op.IsBranch() {
		return mn, formatBranch(inst.Displacement, inst.Size)
	}

	// Memory needs an explicit size when nothing else implies one.
	_, immediate := inst.Src.(cpu.Immediate)
	dst := FormatOperand(inst.Dst, immediate)
	src := FormatOperand(inst.Src, false)
	return mn, dst + ", " + src
}

// Decoded returns the listing line for a decoded instruction, without a comment.
func Decoded(inst *cpu.DecodedInstruction) Line {
	mn, ops := Format(inst)
	return Line{Mnemonic: mn, Operands: ops}
}

// Disassemble decodes code linearly, without executing it, and returns the listing.
// Decoding stops at the first error; the lines decoded up to then are still returned.
func Disassemble(code []byte) (string, error) {
	lines, err := DisassembleLines(code)
	return Listing(lines), err
}

// DisassembleLines is Disassemble without the final rendering.
func DisassembleLines(code []byte) ([]Line, error) {
	var lines []Line
	for pc := 0; pc < len(code); {
		inst, err := cpu.Decode(code, pc)
		if err != nil {
			return lines, err
		}
		lines = append(lines, Decoded(inst))
		pc = inst.Next
	}
	return lines, nil
}
