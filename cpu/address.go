package cpu

import "fmt"

// Resolve computes the memory address of an effective address from the current registers.
func (c *CPU) Resolve(ea EffectiveAddress) uint16 {
	if ea.Direct() {
		return uint16(ea.Disp)
	}

	var addr uint16
	for _, r := range baseRegisters[ea.Base] {
		addr += c.Regs[r]
	}
	return addr + uint16(ea.Disp)
}

// GetOperand fetches the value of an operand.
func (c *CPU) GetOperand(o Operand) (uint16, error) {
	switch v := o.(type) {
	case Register:
		return c.Get(v), nil
	case Memory:
		if v.Address.Base > BaseDirect {
			return 0, fmt.Errorf("%w: base %d", ErrInvalidOperand, v.Address.Base)
		}
		addr := c.Resolve(v.Address)
		if v.Wide {
			return c.ReadU16(addr), nil
		}
		return uint16(c.ReadU8(addr)), nil
	case Immediate:
		if v.Wide {
			return v.Value, nil
		}
		return v.Value & 0xFF, nil
	}
	return 0, fmt.Errorf("%w: %T", ErrInvalidOperand, o)
}

// PutOperand writes a value to a register or memory operand.
func (c *CPU) PutOperand(o Operand, value uint16) error {
	switch v := o.(type) {
	case Register:
		c.Set(v, value)
		return nil
	case Memory:
		if v.Address.Base > BaseDirect {
			return fmt.Errorf("%w: base %d", ErrInvalidOperand, v.Address.Base)
		}
		addr := c.Resolve(v.Address)
		if v.Wide {
			c.WriteU16(addr, value)
		} else {
			c.WriteU8(addr, byte(value))
		}
		return nil
	case Immediate:
		return fmt.Errorf("%w: cannot write to an immediate", ErrInvalidOperand)
	}
	return fmt.Errorf("%w: %T", ErrInvalidOperand, o)
}
