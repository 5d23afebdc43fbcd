package assembler

import (
	"fmt"

	"github.com/Urethramancer/sim86/cpu"
)

// encodeArith encodes add, sub and cmp.
func encodeArith(inst *cpu.DecodedInstruction) ([]byte, error) {
	field, ok := cpu.ArithField(inst.Op)
	if !ok {
		return nil, fmt.Errorf("%s is not an arithmetic instruction", inst.Op)
	}
	base := field << 3

	switch dst := inst.Dst.(type) {
	case cpu.Register:
		f, w := dst.Field()
		switch src := inst.Src.(type) {
		case cpu.Register:
			sf, sw := src.Field()
			if err := checkWidths(w, sw); err != nil {
				return nil, err
			}
			modrm, err := encodeModRM(sf, dst)
			if err != nil {
				return nil, err
			}
			return append([]byte{base | wbit(w)}, modrm...), nil
		case cpu.Memory:
			modrm, err := encodeModRM(f, src)
			if err != nil {
				return nil, err
			}
			return append([]byte{base | 0b10 | wbit(w)}, modrm...), nil
		case cpu.Immediate:
			if dst.Index == cpu.AX && dst.Part != cpu.PartHigh {
				return append([]byte{base | cpu.OPARITHACC | wbit(w)}, immediateBytes(src, w)...), nil
			}
			return encodeArithImm(field, dst, src, w)
		}

	case cpu.Memory:
		switch src := inst.Src.(type) {
		case cpu.Register:
			sf, sw := src.Field()
			modrm, err := encodeModRM(sf, dst)
			if err != nil {
				return nil, err
			}
			return append([]byte{base | wbit(sw)}, modrm...), nil
		case cpu.Immediate:
			return encodeArithImm(field, dst, src, dst.Wide)
		}
	}
	return nil, errCombination(inst)
}

// encodeArithImm uses the sign-extended byte form when a word immediate fits in 8 bits.
func encodeArithImm(field byte, rm cpu.Operand, imm cpu.Immediate, wide bool) ([]byte, error) {
	modrm, err := encodeModRM(field, rm)
	if err != nil {
		return nil, err
	}

	v := int16(imm.Value)
	if wide && v >= -128 && v <= 127 {
		out := append([]byte{cpu.OPARITHIMM | 0b10 | 1}, modrm...)
		return append(out, byte(v)), nil
	}
	out := append([]byte{cpu.OPARITHIMM | wbit(wide)}, modrm...)
	return append(out, immediateBytes(imm, wide)...), nil
}
