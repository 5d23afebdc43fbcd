package assembler

import "github.com/Urethramancer/sim86/cpu"

// NodeType defines the type of an assembly node.
type NodeType int

const (
	// NodeInstruction type.
	NodeInstruction NodeType = iota
	// NodeLabel type.
	NodeLabel
	// NodeDirective type.
	NodeDirective
)

// Node represents one parsed element from the assembly source.
type Node struct {
	Type     NodeType
	Label    string
	Mnemonic string
	Operands []string
	// Line is the 1-based source line, for error messages.
	Line int
	// Inst is set for instructions once operands are parsed. Branch
	// displacements are filled in after labels are placed.
	Inst *cpu.DecodedInstruction
	// Target is the branch operand text, a label or "$+N".
	Target string
	Size   int
}
