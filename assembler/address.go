package assembler

import (
	"fmt"

	"github.com/Urethramancer/sim86/cpu"
)

// encodeModRM returns the ModRegRm byte and any displacement for a reg field and an r/m operand.
// The shortest displacement that reproduces the address is used.
func encodeModRM(reg byte, rm cpu.Operand) ([]byte, error) {
	reg = (reg & 7) << 3
	switch v := rm.(type) {
	case cpu.Register:
		f, _ := v.Field()
		return []byte{0b11000000 | reg | f}, nil
	case cpu.Memory:
		ea := v.Address
		disp := uint16(ea.Disp)
		if ea.Direct() {
			return []byte{reg | 0b110, byte(disp), byte(disp >> 8)}, nil
		}

		field := byte(ea.Base)
		switch {
		// [bp] has no mod 00 form; that slot is the direct address.
		case ea.Disp == 0 && ea.Base != cpu.BaseBP:
			return []byte{reg | field}, nil
		case ea.Disp >= -128 && ea.Disp <= 127:
			return []byte{0b01000000 | reg | field, byte(disp)}, nil
		default:
			return []byte{0b10000000 | reg | field, byte(disp), byte(disp >> 8)}, nil
		}
	}
	return nil, fmt.Errorf("operand %T cannot be encoded as r/m", rm)
}
