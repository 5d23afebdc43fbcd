package cpu

import (
	log "github.com/sirupsen/logrus"
)

// opBranch handles conditional jumps and the loop family.
// IP already points past the instruction; a taken branch adds the displacement.
func (c *CPU) opBranch(inst *DecodedInstruction) error {
	taken, evaluated := c.condition(inst.Op)
	if !evaluated {
		entry := log.WithFields(log.Fields{
			"ip": inst.Address,
			"op": inst.Op.String(),
		})
		if c.AllBranches {
			entry.Warn("branch condition needs flags that are not modelled; falling through")
		} else {
			entry.Debug("branch condition not evaluated; falling through")
		}
		return nil
	}

	if taken {
		c.IP = uint16(inst.Target())
	}
	return nil
}

// condition reports whether a branch is taken and whether it could be evaluated.
// Only jne is evaluated unless AllBranches is set. Loop forms decrement cx.
func (c *CPU) condition(op Op) (taken, evaluated bool) {
	if op == OpJne {
		return !c.Zero(), true
	}
	if !c.AllBranches {
		return false, false
	}

	switch op {
	case OpJe:
		return c.Zero(), true
	case OpJs:
		return c.Sign(), true
	case OpJns:
		return !c.Sign(), true
	case OpJcxz:
		return c.Regs[CX] == 0, true
	case OpLoop:
		c.Regs[CX]--
		return c.Regs[CX] != 0, true
	case OpLoopz:
		c.Regs[CX]--
		return c.Regs[CX] != 0 && c.Zero(), true
	case OpLoopnz:
		c.Regs[CX]--
		return c.Regs[CX] != 0 && !c.Zero(), true
	}
	return false, false
}
