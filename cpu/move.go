package cpu

import "fmt"

// opMOV handles every mov form. Flags are not affected.
func (c *CPU) opMOV(inst *DecodedInstruction) error {
	value, err := c.GetOperand(inst.Src)
	if err != nil {
		return fmt.Errorf("mov failed to get source operand: %w", err)
	}

	err = c.PutOperand(inst.Dst, value)
	if err != nil {
		return fmt.Errorf("mov failed to put destination operand: %w", err)
	}
	return nil
}
