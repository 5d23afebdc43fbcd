package cpu

// DefaultMemorySize is the size of the 8086 data space addressable with a 16-bit offset.
const DefaultMemorySize = 1 << 16

// CPU memory and registers.
type CPU struct {
	// Regs holds ax, cx, dx, bx, sp, bp, si and di in encoding order.
	Regs [8]uint16
	// IP is the offset into the code stream of the next instruction.
	IP uint16
	// Flags is the status word. Only FlagZ and FlagS are modelled.
	Flags uint16

	// Mem is the data memory. Addresses wrap modulo its length.
	Mem []byte

	// AllBranches makes every branch whose condition can be computed from the
	// modelled flags take effect, not just jne.
	AllBranches bool
}

// Status flags, at their 8086 bit positions.
const (
	// FlagZ is zero
	FlagZ = 1 << 6
	// FlagS is sign
	FlagS = 1 << 7
)

// New creates a new CPU instance with given memory size.
// A non-positive size selects DefaultMemorySize.
func New(memsize int) *CPU {
	if memsize <= 0 {
		memsize = DefaultMemorySize
	}
	return &CPU{
		Mem: make([]byte, memsize),
	}
}

// Zero reports whether the zero flag is set.
func (c *CPU) Zero() bool {
	return c.Flags&FlagZ != 0
}

// Sign reports whether the sign flag is set.
func (c *CPU) Sign() bool {
	return c.Flags&FlagS != 0
}

// Get reads a register slice.
func (c *CPU) Get(r Register) uint16 {
	v := c.Regs[r.Index]
	switch r.Part {
	case PartLow:
		return v & 0xFF
	case PartHigh:
		return v >> 8
	}
	return v
}

// Set writes a register slice. Byte writes leave the other half alone.
func (c *CPU) Set(r Register, value uint16) {
	switch r.Part {
	case PartLow:
		c.Regs[r.Index] = c.Regs[r.Index]&0xFF00 | value&0xFF
	case PartHigh:
		c.Regs[r.Index] = c.Regs[r.Index]&0x00FF | (value&0xFF)<<8
	default:
		c.Regs[r.Index] = value
	}
}

// State is a copy of the architectural state.
type State struct {
	Registers [8]uint16
	Flags     uint16
	IP        uint16
}

// Snapshot returns the current register, flag and IP values.
func (c *CPU) Snapshot() State {
	return State{
		Registers: c.Regs,
		Flags:     c.Flags,
		IP:        c.IP,
	}
}

// Named returns the word registers keyed by name.
func (s State) Named() map[string]uint16 {
	m := make(map[string]uint16, len(s.Registers))
	for i, v := range s.Registers {
		m[RegIndex(i).String()] = v
	}
	return m
}

// FlagString renders set flags as letters, e.g. "ZS". Empty when none are set.
func FlagString(flags uint16) string {
	var b []byte
	if flags&FlagZ != 0 {
		b = append(b, 'Z')
	}
	if flags&FlagS != 0 {
		b = append(b, 'S')
	}
	return string(b)
}
