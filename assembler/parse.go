package assembler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Urethramancer/sim86/cpu"
)

// operand is a parsed operand whose width may still be open.
type operand struct {
	op cpu.Operand
	// sized is set when the text fixes the width: a register or a byte/word prefix.
	sized bool
	wide  bool
	// value holds immediates until the width is known.
	value int64
}

// parseInstruction fills in n.Inst from the mnemonic and operand text.
func (n *Node) parseInstruction() error {
	op, ok := cpu.OpByMnemonic(n.Mnemonic)
	if !ok {
		return fmt.Errorf("unknown instruction: %s", n.Mnemonic)
	}
	n.Inst = &cpu.DecodedInstruction{Op: op}

	if op.IsBranch() {
		if len(n.Operands) != 1 {
			return fmt.Errorf("%s requires 1 operand", n.Mnemonic)
		}
		n.Target = n.Operands[0]
		return nil
	}

	if len(n.Operands) != 2 {
		return fmt.Errorf("%s requires 2 operands", n.Mnemonic)
	}
	dst, err := parseOperand(n.Operands[0])
	if err != nil {
		return err
	}
	src, err := parseOperand(n.Operands[1])
	if err != nil {
		return err
	}
	if _, ok := dst.op.(cpu.Immediate); ok {
		return fmt.Errorf("%s: destination cannot be an immediate", n.Mnemonic)
	}

	n.Inst.Dst, n.Inst.Src, err = resolveWidths(dst, src)
	return err
}

// resolveWidths settles the width of memory and immediate operands from the other operand.
func resolveWidths(dst, src operand) (cpu.Operand, cpu.Operand, error) {
	var wide bool
	switch {
	case dst.sized && src.sized:
		if dst.wide != src.wide {
			return nil, nil, fmt.Errorf("operand size mismatch")
		}
		wide = dst.wide
	case dst.sized:
		wide = dst.wide
	case src.sized:
		wide = src.wide
	default:
		return nil, nil, fmt.Errorf("operand size not specified")
	}

	d, err := dst.withWidth(wide)
	if err != nil {
		return nil, nil, err
	}
	s, err := src.withWidth(wide)
	if err != nil {
		return nil, nil, err
	}
	return d, s, nil
}

func (o operand) withWidth(wide bool) (cpu.Operand, error) {
	switch v := o.op.(type) {
	case cpu.Memory:
		v.Wide = wide
		return v, nil
	case cpu.Immediate:
		if wide {
			if o.value < -32768 || o.value > 0xFFFF {
				return nil, fmt.Errorf("immediate %d does not fit a word", o.value)
			}
			return cpu.Immediate{Value: uint16(o.value), Wide: true}, nil
		}
		if o.value < -128 || o.value > 0xFF {
			return nil, fmt.Errorf("immediate %d does not fit a byte", o.value)
		}
		return cpu.Immediate{Value: uint16(o.value) & 0xFF}, nil
	}
	return o.op, nil
}

// parseOperand converts operand text into a register, memory or immediate operand.
func parseOperand(s string) (operand, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if r, ok := cpu.RegisterByName(s); ok {
		return operand{op: r, sized: true, wide: r.Wide()}, nil
	}

	var o operand
	switch {
	case strings.HasPrefix(s, "byte "):
		o.sized = true
		s = strings.TrimSpace(s[len("byte "):])
	case strings.HasPrefix(s, "word "):
		o.sized, o.wide = true, true
		s = strings.TrimSpace(s[len("word "):])
	}

	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		m, err := parseMemory(s[1 : len(s)-1])
		if err != nil {
			return o, err
		}
		o.op = m
		return o, nil
	}
	if o.sized {
		return o, fmt.Errorf("size prefix on a non-memory operand: %s", s)
	}

	v, err := parseConstant(s)
	if err != nil {
		return o, err
	}
	o.op = cpu.Immediate{}
	o.value = v
	return o, nil
}

// parseMemory parses the inside of brackets: "bx + si + 4", "bp - 2" or "2555".
func parseMemory(expr string) (cpu.Memory, error) {
	var regs []string
	var disp int64
	for _, term := range strings.Split(strings.ReplaceAll(expr, "-", "+-"), "+") {
		term = strings.ReplaceAll(strings.TrimSpace(term), " ", "")
		if term == "" {
			continue
		}
		if _, ok := cpu.RegisterByName(term); ok {
			regs = append(regs, term)
			continue
		}
		v, err := parseConstant(term)
		if err != nil {
			return cpu.Memory{}, fmt.Errorf("invalid address term %q: %w", term, err)
		}
		disp += v
	}

	if disp < -32768 || disp > 0xFFFF {
		return cpu.Memory{}, fmt.Errorf("displacement %d out of range", disp)
	}
	if len(regs) == 0 {
		return cpu.Memory{Address: cpu.EffectiveAddress{Base: cpu.BaseDirect, Disp: int16(uint16(disp))}}, nil
	}

	base, ok := cpu.BaseByExpression(strings.Join(regs, "+"))
	if !ok {
		return cpu.Memory{}, fmt.Errorf("invalid address expression: [%s]", expr)
	}
	return cpu.Memory{Address: cpu.EffectiveAddress{Base: base, Disp: int16(uint16(disp))}}, nil
}

// parseConstant parses decimal, 0x-prefixed or h-suffixed hex numbers, optionally negative.
func parseConstant(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "h") {
		neg := strings.HasPrefix(s, "-")
		v, err := strconv.ParseInt(strings.TrimPrefix(s[:len(s)-1], "-"), 16, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", s)
		}
		if neg {
			v = -v
		}
		return v, nil
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}
