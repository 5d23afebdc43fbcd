package cpu

// Operand is one of Register, Memory or Immediate.
// Code that consumes operands type-switches on them and rejects anything else.
type Operand interface {
	operand()
}

// Register is a register operand: a word register or one of its byte halves.
type Register struct {
	Index RegIndex
	Part  Part
}

// Memory is a memory operand. The address stays unresolved until execution.
type Memory struct {
	Address EffectiveAddress
	// Wide is set for word accesses.
	Wide bool
}

// EffectiveAddress is a base expression plus a signed displacement.
// For BaseDirect, Disp holds the 16-bit address.
type EffectiveAddress struct {
	Base Base
	Disp int16
}

// Immediate is a constant encoded in the instruction stream.
type Immediate struct {
	Value uint16
	Wide  bool
	// SignExtended is set when an 8-bit immediate was widened to 16 bits.
	SignExtended bool
}

func (Register) operand()  {}
func (Memory) operand()    {}
func (Immediate) operand() {}

// Wide reports whether the register operand is 16 bits.
func (r Register) Wide() bool {
	return r.Part == PartWord
}

func (r Register) String() string {
	f, w := r.Field()
	return registerNames[slot(f, w)]
}

// Direct reports whether the address has no base registers.
func (ea EffectiveAddress) Direct() bool {
	return ea.Base == BaseDirect
}
