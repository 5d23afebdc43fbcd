package assembler

import (
	"fmt"

	"github.com/Urethramancer/sim86/cpu"
)

// Encode returns the machine code for a single instruction.
func Encode(inst *cpu.DecodedInstruction) ([]byte, error) {
	switch {
	case inst.Op == cpu.OpMov:
		return encodeMov(inst)
	case inst.Op.IsArithmetic():
		return encodeArith(inst)
	case inst.Op.IsBranch():
		return encodeBranch(inst)
	}
	return nil, fmt.Errorf("cannot encode %s", inst.Op)
}

func wbit(wide bool) byte {
	if wide {
		return 1
	}
	return 0
}

// immediateBytes emits an immediate, little endian when wide.
func immediateBytes(imm cpu.Immediate, wide bool) []byte {
	if wide {
		return []byte{byte(imm.Value), byte(imm.Value >> 8)}
	}
	return []byte{byte(imm.Value)}
}

func checkWidths(a, b bool) error {
	if a != b {
		return fmt.Errorf("operand size mismatch")
	}
	return nil
}

func errCombination(inst *cpu.DecodedInstruction) error {
	return fmt.Errorf("%s: unsupported operand combination %T, %T", inst.Op, inst.Dst, inst.Src)
}
