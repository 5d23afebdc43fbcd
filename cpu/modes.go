package cpu

// RegIndex selects one of the eight word registers, in encoding order.
type RegIndex uint8

// Register numbers
const (
	AX RegIndex = iota
	CX
	DX
	BX
	SP
	BP
	SI
	DI
)

var wordNames = [8]string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di"}

func (r RegIndex) String() string {
	if int(r) < len(wordNames) {
		return wordNames[r]
	}
	return "r?"
}

// Part selects which bytes of a register an operand touches.
type Part uint8

const (
	// PartWord is all 16 bits.
	PartWord Part = iota
	// PartLow is bits 0-7 (al, cl, dl, bl).
	PartLow
	// PartHigh is bits 8-15 (ah, ch, dh, bh).
	PartHigh
)

// registerSlots maps field<<1|w to a register operand.
var registerSlots = [16]Register{
	{AX, PartLow}, {AX, PartWord},
	{CX, PartLow}, {CX, PartWord},
	{DX, PartLow}, {DX, PartWord},
	{BX, PartLow}, {BX, PartWord},
	{AX, PartHigh}, {SP, PartWord},
	{CX, PartHigh}, {BP, PartWord},
	{DX, PartHigh}, {SI, PartWord},
	{BX, PartHigh}, {DI, PartWord},
}

var registerNames = [16]string{
	"al", "ax",
	"cl", "cx",
	"dl", "dx",
	"bl", "bx",
	"ah", "sp",
	"ch", "bp",
	"dh", "si",
	"bh", "di",
}

// RegisterFromField folds the width bit into a 3-bit register field.
func RegisterFromField(field byte, wide bool) Register {
	return registerSlots[slot(field, wide)]
}

func slot(field byte, wide bool) int {
	s := int(field&7) << 1
	if wide {
		s |= 1
	}
	return s
}

// RegisterByName looks up a register operand such as "ax" or "ch".
func RegisterByName(name string) (Register, bool) {
	for i, n := range registerNames {
		if n == name {
			return registerSlots[i], true
		}
	}
	return Register{}, false
}

// Field returns the 3-bit encoding of the register and whether it is word sized.
func (r Register) Field() (byte, bool) {
	switch r.Part {
	case PartLow:
		return byte(r.Index), false
	case PartHigh:
		return byte(r.Index) + 4, false
	}
	return byte(r.Index), true
}

// Base is the register expression of an effective address.
type Base uint8

// Effective address bases, in r/m order.
const (
	BaseBXSI Base = iota
	BaseBXDI
	BaseBPSI
	BaseBPDI
	BaseSI
	BaseDI
	BaseBP
	BaseBX
	// BaseDirect has no registers: the displacement is the address.
	BaseDirect
)

var baseExpressions = [8]string{
	"bx + si",
	"bx + di",
	"bp + si",
	"bp + di",
	"si",
	"di",
	"bp",
	"bx",
}

// baseRegisters lists the registers summed by each base expression.
var baseRegisters = [8][]RegIndex{
	{BX, SI},
	{BX, DI},
	{BP, SI},
	{BP, DI},
	{SI},
	{DI},
	{BP},
	{BX},
}

func (b Base) String() string {
	if b < BaseDirect {
		return baseExpressions[b]
	}
	return ""
}

// BaseByExpression looks up a base such as "bp + di". Spacing around '+' is ignored.
func BaseByExpression(expr string) (Base, bool) {
	compact := stripSpaces(expr)
	for i, e := range baseExpressions {
		if stripSpaces(e) == compact {
			return Base(i), true
		}
	}
	return 0, false
}

func stripSpaces(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
