package cpu

// Op identifies the operation of a decoded instruction.
type Op int

const (
	// OpInvalid is the zero value.
	OpInvalid Op = iota
	OpMov
	OpAdd
	OpSub
	OpCmp

	// Conditional jumps, in the order of the low nibble of 0x70-0x7F.
	OpJo
	OpJno
	OpJb
	OpJnb
	OpJe
	OpJne
	OpJbe
	OpJnbe
	OpJs
	OpJns
	OpJp
	OpJnp
	OpJl
	OpJnl
	OpJle
	OpJnle

	// Loop family, in the order of the low two bits of 0xE0-0xE3.
	OpLoopnz
	OpLoopz
	OpLoop
	OpJcxz
)

var mnemonics = map[Op]string{
	OpMov:    "mov",
	OpAdd:    "add",
	OpSub:    "sub",
	OpCmp:    "cmp",
	OpJo:     "jo",
	OpJno:    "jno",
	OpJb:     "jb",
	OpJnb:    "jnb",
	OpJe:     "je",
	OpJne:    "jne",
	OpJbe:    "jbe",
	OpJnbe:   "jnbe",
	OpJs:     "js",
	OpJns:    "jns",
	OpJp:     "jp",
	OpJnp:    "jnp",
	OpJl:     "jl",
	OpJnl:    "jnl",
	OpJle:    "jle",
	OpJnle:   "jnle",
	OpLoopnz: "loopnz",
	OpLoopz:  "loopz",
	OpLoop:   "loop",
	OpJcxz:   "jcxz",
}

func (o Op) String() string {
	if s, ok := mnemonics[o]; ok {
		return s
	}
	return "(bad)"
}

// IsBranch reports whether the op is a conditional jump or loop.
func (o Op) IsBranch() bool {
	return o >= OpJo && o <= OpJcxz
}

// IsArithmetic reports whether the op is add, sub or cmp.
func (o Op) IsArithmetic() bool {
	return o == OpAdd || o == OpSub || o == OpCmp
}

// Opcode bases for the supported instruction forms.
const (
	OPMOVRM     = 0x88 // 100010dw mov r/m to/from reg
	OPMOVIMMRM  = 0xC6 // 1100011w mov imm to r/m
	OPMOVIMMREG = 0xB0 // 1011wreg mov imm to reg
	OPARITHRM   = 0x00 // 00ooo0dw add/sub/cmp r/m with reg
	OPARITHIMM  = 0x80 // 100000sw add/sub/cmp imm to r/m
	OPARITHACC  = 0x04 // 00ooo10w add/sub/cmp imm to accumulator
	OPJCC       = 0x70 // 0111cccc conditional jump
	OPLOOP      = 0xE0 // 111000cc loop family
)

// Arithmetic op field values, shared by the reg field of 100000sw and bits 3-5 of the first byte.
const (
	ArithAdd = 0b000
	ArithSub = 0b101
	ArithCmp = 0b111
)

var arithOps = map[byte]Op{
	ArithAdd: OpAdd,
	ArithSub: OpSub,
	ArithCmp: OpCmp,
}

// ArithField returns the 3-bit arithmetic field for an op.
func ArithField(o Op) (byte, bool) {
	for f, op := range arithOps {
		if op == o {
			return f, true
		}
	}
	return 0, false
}

// OpByMnemonic looks up an op by its assembly name.
func OpByMnemonic(name string) (Op, bool) {
	for op, s := range mnemonics {
		if s == name {
			return op, true
		}
	}
	return OpInvalid, false
}

// BranchOpcode returns the first byte encoding a branch op.
func BranchOpcode(o Op) (byte, bool) {
	switch {
	case o >= OpJo && o <= OpJnle:
		return OPJCC | byte(o-OpJo), true
	case o >= OpLoopnz && o <= OpJcxz:
		return OPLOOP | byte(o-OpLoopnz), true
	}
	return 0, false
}
