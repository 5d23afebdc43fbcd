package assembler

import (
	"fmt"
	"strings"
)

// Assembler holds the state for the assembly process.
type Assembler struct {
	labels map[string]int
}

// New creates a new Assembler instance.
func New() *Assembler {
	return &Assembler{
		labels: make(map[string]int),
	}
}

// Assemble takes 8086 assembly in the listing syntax and returns the machine code.
func (asm *Assembler) Assemble(src string) ([]byte, error) {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")

	nodes, err := asm.parseLines(lines)
	if err != nil {
		return nil, fmt.Errorf("parsing error: %w", err)
	}

	// Pass: place labels. Sizes do not depend on labels since all
	// branches are short, so one pass is enough.
	pc := 0
	for _, n := range nodes {
		switch n.Type {
		case NodeLabel:
			if _, ok := asm.labels[n.Label]; ok {
				return nil, fmt.Errorf("line %d: duplicate label %q", n.Line, n.Label)
			}
			asm.labels[n.Label] = pc
		case NodeDirective:
			size, err := asm.getDirectiveSize(n)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Line, err)
			}
			n.Size = size
		case NodeInstruction:
			size, err := n.GetSize()
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Line, err)
			}
			n.Size = size
		}
		pc += n.Size
	}

	// Generate machine code.
	var code []byte
	pc = 0
	for _, n := range nodes {
		var out []byte
		var err error

		switch n.Type {
		case NodeLabel:
			continue
		case NodeDirective:
			out, err = asm.generateDirectiveCode(n)
		case NodeInstruction:
			out, err = asm.generateInstructionCode(n, pc)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: error generating code for %s: %w", n.Line, n.Mnemonic, err)
		}
		code = append(code, out...)
		pc += n.Size
	}

	return code, nil
}

// parseLines converts raw source lines into a slice of Node objects.
func (asm *Assembler) parseLines(lines []string) ([]*Node, error) {
	var nodes []*Node
	for i, line := range lines {
		if commentIndex := strings.IndexRune(line, ';'); commentIndex != -1 {
			line = line[:commentIndex]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.Contains(line, ":") {
			parts := strings.SplitN(line, ":", 2)
			label := strings.TrimSpace(parts[0])
			if label != "" && !strings.ContainsAny(label, " \t[") {
				nodes = append(nodes, &Node{Type: NodeLabel, Label: strings.ToLower(label), Line: i + 1})
				line = strings.TrimSpace(parts[1])
			}
		}

		if line == "" {
			continue
		}

		var mnemonic, operandStr string
		firstSpace := strings.IndexAny(line, " \t")
		if firstSpace == -1 {
			mnemonic = line
		} else {
			mnemonic = line[:firstSpace]
			operandStr = strings.TrimSpace(line[firstSpace:])
		}
		mnemonic = strings.ToLower(mnemonic)

		var operands []string
		if operandStr != "" {
			for _, o := range strings.Split(operandStr, ",") {
				operands = append(operands, strings.TrimSpace(o))
			}
		}

		n := &Node{Mnemonic: mnemonic, Operands: operands, Line: i + 1}
		if isDirective(mnemonic) {
			n.Type = NodeDirective
		} else {
			n.Type = NodeInstruction
			if err := n.parseInstruction(); err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// GetSize returns the encoded size of an instruction node.
func (n *Node) GetSize() (int, error) {
	if n.Inst.Op.IsBranch() {
		return 2, nil
	}
	code, err := Encode(n.Inst)
	if err != nil {
		return 0, err
	}
	return len(code), nil
}

// generateInstructionCode encodes an instruction node placed at pc.
func (asm *Assembler) generateInstructionCode(n *Node, pc int) ([]byte, error) {
	if n.Inst.Op.IsBranch() {
		disp, err := asm.branchDisplacement(n.Target, pc, n.Size)
		if err != nil {
			return nil, err
		}
		n.Inst.Displacement = disp
	}
	return Encode(n.Inst)
}
