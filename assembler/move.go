package assembler

import (
	"github.com/Urethramancer/sim86/cpu"
)

// encodeMov picks the shortest mov form for the operands.
func encodeMov(inst *cpu.DecodedInstruction) ([]byte, error) {
	switch dst := inst.Dst.(type) {
	case cpu.Register:
		f, w := dst.Field()
		switch src := inst.Src.(type) {
		case cpu.Immediate:
			return append([]byte{cpu.OPMOVIMMREG | wbit(w)<<3 | f}, immediateBytes(src, w)...), nil
		case cpu.Register:
			sf, sw := src.Field()
			if err := checkWidths(w, sw); err != nil {
				return nil, err
			}
			modrm, err := encodeModRM(sf, dst)
			if err != nil {
				return nil, err
			}
			return append([]byte{cpu.OPMOVRM | wbit(w)}, modrm...), nil
		case cpu.Memory:
			modrm, err := encodeModRM(f, src)
			if err != nil {
				return nil, err
			}
			return append([]byte{cpu.OPMOVRM | 0b10 | wbit(w)}, modrm...), nil
		}

	case cpu.Memory:
		switch src := inst.Src.(type) {
		case cpu.Register:
			sf, sw := src.Field()
			modrm, err := encodeModRM(sf, dst)
			if err != nil {
				return nil, err
			}
			return append([]byte{cpu.OPMOVRM | wbit(sw)}, modrm...), nil
		case cpu.Immediate:
			modrm, err := encodeModRM(0, dst)
			if err != nil {
				return nil, err
			}
			out := append([]byte{cpu.OPMOVIMMRM | wbit(dst.Wide)}, modrm...)
			return append(out, immediateBytes(src, dst.Wide)...), nil
		}
	}
	return nil, errCombination(inst)
}
