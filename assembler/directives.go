package assembler

import (
	"fmt"
)

func isDirective(mn string) bool {
	switch mn {
	case "bits", "db":
		return true
	}
	return false
}

// getDirectiveSize calculates the byte size of a directive for the sizing pass.
func (asm *Assembler) getDirectiveSize(n *Node) (int, error) {
	switch n.Mnemonic {
	case "bits":
		if len(n.Operands) != 1 || n.Operands[0] != "16" {
			return 0, fmt.Errorf("only bits 16 is supported")
		}
		return 0, nil
	case "db":
		if len(n.Operands) == 0 {
			return 0, fmt.Errorf("db requires at least one value")
		}
		return len(n.Operands), nil
	}
	return 0, fmt.Errorf("unknown directive: %s", n.Mnemonic)
}

// generateDirectiveCode generates the binary data for assembler directives.
func (asm *Assembler) generateDirectiveCode(n *Node) ([]byte, error) {
	switch n.Mnemonic {
	case "bits":
		return nil, nil
	case "db":
		out := make([]byte, 0, len(n.Operands))
		for _, o := range n.Operands {
			v, err := parseConstant(o)
			if err != nil {
				return nil, err
			}
			if v < -128 || v > 255 {
				return nil, fmt.Errorf("db value %d does not fit a byte", v)
			}
			out = append(out, byte(v))
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown directive: %s", n.Mnemonic)
}
