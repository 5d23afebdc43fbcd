package cpu

import (
	"fmt"
)

// DecodedInstruction holds the parsed details of one 8086 instruction.
type DecodedInstruction struct {
	Handler func(*CPU, *DecodedInstruction) error
	Op      Op
	Dst     Operand
	Src     Operand
	// Displacement is the signed branch offset, relative to Next.
	Displacement int8
	// Address is the stream offset of the first byte.
	Address int
	// Size is the encoded length in bytes.
	Size int
	// Next is the stream offset immediately after the instruction.
	Next int
}

// Target returns the stream offset a branch transfers to when taken.
func (inst *DecodedInstruction) Target() int {
	return inst.Next + int(inst.Displacement)
}

type decoder func(s *stream, op byte) (*DecodedInstruction, error)

// pattern matches a first byte when op&mask == bits.
type pattern struct {
	mask, bits byte
	name       string
	decode     decoder
}

// patterns is checked in order; the first match wins.
var patterns = []pattern{
	{0xFC, OPMOVRM, "mov r/m, reg", decodeMovRM},
	{0xFE, OPMOVIMMRM, "mov r/m, imm", decodeMovImmRM},
	{0xF0, OPMOVIMMREG, "mov reg, imm", decodeMovImmReg},
	{0xC4, OPARITHRM, "arith r/m, reg", decodeArithRM},
	{0xFC, OPARITHIMM, "arith r/m, imm", decodeArithImmRM},
	{0xC6, OPARITHACC, "arith acc, imm", decodeArithAcc},
	{0xF0, OPJCC, "jcc", decodeJump},
	{0xFC, OPLOOP, "loop", decodeLoop},
}

// Decode decodes the instruction starting at pc in code.
// It only reads code and never touches machine state.
func Decode(code []byte, pc int) (*DecodedInstruction, error) {
	if pc < 0 || pc >= len(code) {
		return nil, ErrEndOfStream
	}

	s := &stream{code: code, pos: pc}
	op, _ := s.u8()
	for _, p := range patterns {
		if op&p.mask != p.bits {
			continue
		}

		inst, err := p.decode(s, op)
		if err != nil {
			return nil, fmt.Errorf("%s at offset %d (opcode %02X): %w", p.name, pc, op, err)
		}

		inst.Address = pc
		inst.Next = s.pos
		inst.Size = s.pos - pc
		if inst.Handler == nil {
			inst.Handler = handlerFor(inst.Op)
		}
		return inst, nil
	}

	return nil, fmt.Errorf("offset %d (opcode %02X): %w", pc, op, ErrUnsupportedOpcode)
}

func handlerFor(op Op) func(*CPU, *DecodedInstruction) error {
	switch {
	case op == OpMov:
		return (*CPU).opMOV
	case op == OpAdd:
		return (*CPU).opADD
	case op == OpSub:
		return (*CPU).opSUB
	case op == OpCmp:
		return (*CPU).opCMP
	case op.IsBranch():
		return (*CPU).opBranch
	}
	return nil
}

// decodeModRM reads a ModRegRm byte and returns the reg field and the r/m operand,
// consuming any displacement.
func decodeModRM(s *stream, wide bool) (reg byte, rm Operand, err error) {
	b, err := s.u8()
	if err != nil {
		return 0, nil, err
	}

	mod := b >> 6
	reg = (b >> 3) & 7
	field := b & 7

	if mod == 0b11 {
		return reg, RegisterFromField(field, wide), nil
	}

	ea := EffectiveAddress{Base: Base(field)}
	switch mod {
	case 0b00:
		if field == 0b110 {
			addr, err := s.u16()
			if err != nil {
				return 0, nil, err
			}
			ea = EffectiveAddress{Base: BaseDirect, Disp: int16(addr)}
		}
	case 0b01:
		d, err := s.u8()
		if err != nil {
			return 0, nil, err
		}
		ea.Disp = int16(int8(d))
	case 0b10:
		d, err := s.u16()
		if err != nil {
			return 0, nil, err
		}
		ea.Disp = int16(d)
	}

	return reg, Memory{Address: ea, Wide: wide}, nil
}

// decodeRegRM handles the shared d/w form of mov and arithmetic.
func decodeRegRM(s *stream, op byte, o Op) (*DecodedInstruction, error) {
	dir := op&0b10 != 0
	wide := op&0b01 != 0

	reg, rm, err := decodeModRM(s, wide)
	if err != nil {
		return nil, err
	}

	inst := &DecodedInstruction{Op: o}
	r := RegisterFromField(reg, wide)
	if dir {
		inst.Dst, inst.Src = r, rm
	} else {
		inst.Dst, inst.Src = rm, r
	}
	return inst, nil
}

// decodeMovRM decodes 100010dw.
func decodeMovRM(s *stream, op byte) (*DecodedInstruction, error) {
	return decodeRegRM(s, op, OpMov)
}

// decodeMovImmRM decodes 1100011w, whose reg field must be zero.
func decodeMovImmRM(s *stream, op byte) (*DecodedInstruction, error) {
	wide := op&1 != 0
	reg, rm, err := decodeModRM(s, wide)
	if err != nil {
		return nil, err
	}
	if reg != 0 {
		return nil, ErrUnsupportedOpcode
	}

	imm, err := s.immediate(wide, false)
	if err != nil {
		return nil, err
	}
	return &DecodedInstruction{Op: OpMov, Dst: rm, Src: imm}, nil
}

// decodeMovImmReg decodes 1011wreg.
func decodeMovImmReg(s *stream, op byte) (*DecodedInstruction, error) {
	wide := op&0b1000 != 0
	imm, err := s.immediate(wide, false)
	if err != nil {
		return nil, err
	}
	return &DecodedInstruction{
		Op:  OpMov,
		Dst: RegisterFromField(op&7, wide),
		Src: imm,
	}, nil
}

func arithOp(field byte) (Op, error) {
	o, ok := arithOps[field]
	if !ok {
		return OpInvalid, ErrUnsupportedOpcode
	}
	return o, nil
}

// decodeArithRM decodes 00ooo0dw.
func decodeArithRM(s *stream, op byte) (*DecodedInstruction, error) {
	o, err := arithOp((op >> 3) & 7)
	if err != nil {
		return nil, err
	}
	return decodeRegRM(s, op, o)
}

// decodeArithImmRM decodes 100000sw. The op lives in the reg field.
func decodeArithImmRM(s *stream, op byte) (*DecodedInstruction, error) {
	signExtend := op&0b10 != 0
	wide := op&0b01 != 0

	reg, rm, err := decodeModRM(s, wide)
	if err != nil {
		return nil, err
	}
	o, err := arithOp(reg)
	if err != nil {
		return nil, err
	}

	imm, err := s.immediate(wide, signExtend)
	if err != nil {
		return nil, err
	}
	return &DecodedInstruction{Op: o, Dst: rm, Src: imm}, nil
}

// decodeArithAcc decodes 00ooo10w, which always targets al or ax.
func decodeArithAcc(s *stream, op byte) (*DecodedInstruction, error) {
	o, err := arithOp((op >> 3) & 7)
	if err != nil {
		return nil, err
	}

	wide := op&1 != 0
	imm, err := s.immediate(wide, false)
	if err != nil {
		return nil, err
	}
	return &DecodedInstruction{
		Op:  o,
		Dst: RegisterFromField(byte(AX), wide),
		Src: imm,
	}, nil
}

// decodeJump decodes 0111cccc followed by an 8-bit displacement.
func decodeJump(s *stream, op byte) (*DecodedInstruction, error) {
	return decodeShortBranch(s, OpJo+Op(op&0x0F))
}

// decodeLoop decodes 111000cc followed by an 8-bit displacement.
func decodeLoop(s *stream, op byte) (*DecodedInstruction, error) {
	return decodeShortBranch(s, OpLoopnz+Op(op&0x03))
}

func decodeShortBranch(s *stream, o Op) (*DecodedInstruction, error) {
	d, err := s.u8()
	if err != nil {
		return nil, err
	}
	return &DecodedInstruction{Op: o, Displacement: int8(d)}, nil
}
