package assembler

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/sim86/cpu"
)

// branchDisplacement turns a label or "$+N" target into the displacement of a
// branch of the given size placed at pc.
func (asm *Assembler) branchDisplacement(target string, pc, size int) (int8, error) {
	var rel int
	if strings.HasPrefix(target, "$") {
		if target != "$" {
			v, err := parseConstant(strings.ReplaceAll(target[1:], " ", ""))
			if err != nil {
				return 0, err
			}
			rel = int(v)
		}
	} else {
		addr, ok := asm.labels[strings.ToLower(target)]
		if !ok {
			return 0, fmt.Errorf("undefined label %q", target)
		}
		rel = addr - pc
	}

	disp := rel - size
	if disp < -128 || disp > 127 {
		return 0, fmt.Errorf("branch target %s out of short range (%d)", target, disp)
	}
	return int8(disp), nil
}

func encodeBranch(inst *cpu.DecodedInstruction) ([]byte, error) {
	op, ok := cpu.BranchOpcode(inst.Op)
	if !ok {
		return nil, fmt.Errorf("%s is not a branch", inst.Op)
	}
	return []byte{op, byte(inst.Displacement)}, nil
}
