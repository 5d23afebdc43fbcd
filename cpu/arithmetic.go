package cpu

import "fmt"

// arithmetic reads both operands, combines them at the destination width and sets Z and S.
// The result is written back unless discard is set.
func (c *CPU) arithmetic(inst *DecodedInstruction, combine func(dst, src uint16) uint16, discard bool) error {
	dst, ok := inst.Dst.(Register)
	if !ok {
		return fmt.Errorf("%s to %T: %w", inst.Op, inst.Dst, ErrUnimplementedDestination)
	}

	a := c.Get(dst)
	b, err := c.GetOperand(inst.Src)
	if err != nil {
		return fmt.Errorf("%s failed to get source operand: %w", inst.Op, err)
	}

	result := combine(a, b)
	if !dst.Wide() {
		result &= 0xFF
	}
	c.setNZ(result, dst.Wide())

	if discard {
		return nil
	}
	c.Set(dst, result)
	return nil
}

// opADD handles add. Only register destinations are supported.
func (c *CPU) opADD(inst *DecodedInstruction) error {
	return c.arithmetic(inst, func(d, s uint16) uint16 { return d + s }, false)
}

// opSUB handles sub.
func (c *CPU) opSUB(inst *DecodedInstruction) error {
	return c.arithmetic(inst, func(d, s uint16) uint16 { return d - s }, false)
}

// opCMP subtracts for the flags only; the destination is left as it was.
func (c *CPU) opCMP(inst *DecodedInstruction) error {
	return c.arithmetic(inst, func(d, s uint16) uint16 { return d - s }, true)
}
