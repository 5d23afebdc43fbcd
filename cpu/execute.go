package cpu

import "fmt"

// RegisterChange records a word register whose value an instruction changed.
type RegisterChange struct {
	Index    RegIndex
	Old, New uint16
}

// Trace describes what one executed instruction did to the machine.
type Trace struct {
	Inst        *DecodedInstruction
	Registers   []RegisterChange
	FlagsBefore uint16
	FlagsAfter  uint16
	IPBefore    uint16
	IPAfter     uint16
}

// Execute runs a decoded instruction. IP is moved past the instruction
// before the handler runs so that branches can overwrite it. On failure IP
// is left at the failing instruction.
func (c *CPU) Execute(inst *DecodedInstruction) error {
	if inst.Handler == nil {
		return fmt.Errorf("no handler for %s at offset %d", inst.Op, inst.Address)
	}

	ip := c.IP
	c.IP = uint16(inst.Next)
	err := inst.Handler(c, inst)
	if err != nil {
		c.IP = ip
		return fmt.Errorf("execution failed for %s at offset %d: %w", inst.Op, inst.Address, err)
	}
	return nil
}

// Step fetches, decodes, and executes the instruction at IP.
func (c *CPU) Step(code []byte) (*Trace, error) {
	inst, err := Decode(code, int(c.IP))
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	before := c.Snapshot()
	err = c.Execute(inst)
	if err != nil {
		return nil, err
	}
	return diff(inst, before, c.Snapshot()), nil
}

func diff(inst *DecodedInstruction, before, after State) *Trace {
	t := &Trace{
		Inst:        inst,
		FlagsBefore: before.Flags,
		FlagsAfter:  after.Flags,
		IPBefore:    before.IP,
		IPAfter:     after.IP,
	}
	for i := range before.Registers {
		if before.Registers[i] != after.Registers[i] {
			t.Registers = append(t.Registers, RegisterChange{
				Index: RegIndex(i),
				Old:   before.Registers[i],
				New:   after.Registers[i],
			})
		}
	}
	return t
}
