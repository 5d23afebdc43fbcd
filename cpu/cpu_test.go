package cpu_test

import (
	"errors"
	"testing"

	"github.com/Urethramancer/sim86/cpu"
)

// step runs a single instruction placed at offset 0.
func step(t *testing.T, c *cpu.CPU, code ...byte) *cpu.Trace {
	t.Helper()
	c.IP = 0
	tr, err := c.Step(code)
	if err != nil {
		t.Fatalf("% x: %v", code, err)
	}
	return tr
}

func TestByteHalfWrites(t *testing.T) {
	c := cpu.New(0)
	c.Set(ax, 0x1234)
	c.Set(al, 0xFF)
	if c.Regs[cpu.AX] != 0x12FF {
		t.Errorf("low write: got %#04x, want 0x12ff", c.Regs[cpu.AX])
	}
	c.Set(ah, 0xAB)
	if c.Regs[cpu.AX] != 0xABFF {
		t.Errorf("high write: got %#04x, want 0xabff", c.Regs[cpu.AX])
	}
	if c.Get(al) != 0xFF || c.Get(ah) != 0xAB || c.Get(ax) != 0xABFF {
		t.Errorf("reads: al %#x ah %#x ax %#x", c.Get(al), c.Get(ah), c.Get(ax))
	}
}

func TestArithmeticFlags(t *testing.T) {
	tests := []struct {
		name     string
		code     []byte
		cx, bx   uint16
		result   uint16
		zero     bool
		negative bool
	}{
		{"sub to zero", []byte{0x29, 0xD9}, 5, 5, 0, true, false},
		{"sub below zero", []byte{0x29, 0xD9}, 0, 1, 0xFFFF, false, true},
		{"add", []byte{0x01, 0xD9}, 3, 4, 7, false, false},
		{"add wraps", []byte{0x01, 0xD9}, 0xFFFF, 1, 0, true, false},
		{"add into sign", []byte{0x01, 0xD9}, 0x7FFF, 1, 0x8000, false, true},
	}

	for _, tt := range tests {
		c := cpu.New(0)
		c.Regs[cpu.CX] = tt.cx
		c.Regs[cpu.BX] = tt.bx
		step(t, c, tt.code...)
		if c.Regs[cpu.CX] != tt.result {
			t.Errorf("%s: result %#x, want %#x", tt.name, c.Regs[cpu.CX], tt.result)
		}
		if c.Zero() != tt.zero || c.Sign() != tt.negative {
			t.Errorf("%s: Z=%v S=%v, want Z=%v S=%v", tt.name, c.Zero(), c.Sign(), tt.zero, tt.negative)
		}
	}
}

func TestByteArithmetic(t *testing.T) {
	c := cpu.New(0)
	c.Regs[cpu.AX] = 0x1280
	step(t, c, 0x04, 0x80) // add al, 128
	if c.Regs[cpu.AX] != 0x1200 {
		t.Errorf("got %#x, want 0x1200", c.Regs[cpu.AX])
	}
	if !c.Zero() || c.Sign() {
		t.Errorf("flags %q, want Z", cpu.FlagString(c.Flags))
	}
}

func TestCmpLeavesDestination(t *testing.T) {
	for _, v := range [][2]uint16{{5, 5}, {0, 1}, {10, 3}, {0x8000, 0}} {
		c := cpu.New(0)
		c.Regs[cpu.CX] = v[0]
		c.Regs[cpu.BX] = v[1]
		tr := step(t, c, 0x39, 0xD9) // cmp cx, bx
		if c.Regs[cpu.CX] != v[0] || c.Regs[cpu.BX] != v[1] {
			t.Errorf("cmp %#x, %#x changed registers to %#x, %#x", v[0], v[1], c.Regs[cpu.CX], c.Regs[cpu.BX])
		}
		if len(tr.Registers) != 0 {
			t.Errorf("cmp traced register changes: %v", tr.Registers)
		}
	}

	c := cpu.New(0)
	c.Regs[cpu.CX] = 5
	c.Regs[cpu.BX] = 5
	step(t, c, 0x39, 0xD9)
	if !c.Zero() {
		t.Error("cmp of equal values did not set Z")
	}
}

func TestMovLeavesFlags(t *testing.T) {
	c := cpu.New(0)
	c.Flags = cpu.FlagZ | cpu.FlagS
	step(t, c, 0xB9, 0x00, 0x00) // mov cx, 0
	if c.Flags != cpu.FlagZ|cpu.FlagS {
		t.Errorf("flags %q, want ZS", cpu.FlagString(c.Flags))
	}
}

func TestResolve(t *testing.T) {
	c := cpu.New(0)
	c.Regs[cpu.BP] = 0x10
	c.Regs[cpu.DI] = 0x20
	if got := c.Resolve(cpu.EffectiveAddress{Base: cpu.BaseBPDI, Disp: 4}); got != 0x34 {
		t.Errorf("bp + di + 4: got %#x, want 0x34", got)
	}
	if got := c.Resolve(cpu.EffectiveAddress{Base: cpu.BaseDirect, Disp: 1000}); got != 1000 {
		t.Errorf("direct: got %d, want 1000", got)
	}

	c.Regs[cpu.BX] = 0xFFFF
	if got := c.Resolve(cpu.EffectiveAddress{Base: cpu.BaseBX, Disp: 2}); got != 1 {
		t.Errorf("wrap: got %#x, want 0x1", got)
	}
	c.Regs[cpu.BP] = 0x10
	if got := c.Resolve(cpu.EffectiveAddress{Base: cpu.BaseBP, Disp: -2}); got != 0x0E {
		t.Errorf("negative disp: got %#x, want 0xe", got)
	}
}

func TestMemoryMoves(t *testing.T) {
	c := cpu.New(0)
	c.Regs[cpu.CX] = 0x1234
	c.Regs[cpu.BX] = 0x100
	step(t, c, 0x89, 0x0F) // mov [bx], cx
	if c.Mem[0x100] != 0x34 || c.Mem[0x101] != 0x12 {
		t.Errorf("word store: % x", c.Mem[0x100:0x102])
	}

	step(t, c, 0x8B, 0x17) // mov dx, [bx]
	if c.Regs[cpu.DX] != 0x1234 {
		t.Errorf("word load: got %#x", c.Regs[cpu.DX])
	}

	c.Regs[cpu.AX] = 0x5600
	c.Mem[0x103] = 0xEE
	step(t, c, 0x88, 0x67, 0x02) // mov [bx + 2], ah
	if c.Mem[0x102] != 0x56 || c.Mem[0x103] != 0xEE {
		t.Errorf("byte store touched more than one byte: % x", c.Mem[0x102:0x104])
	}

	step(t, c, 0xC7, 0x06, 0x00, 0x02, 0xCD, 0xAB) // mov word [512], 43981
	if c.ReadU16(512) != 0xABCD {
		t.Errorf("immediate store: got %#x", c.ReadU16(512))
	}
}

func TestMemoryWraps(t *testing.T) {
	c := cpu.New(16)
	c.WriteU16(15, 0xABCD)
	if c.Mem[15] != 0xCD || c.Mem[0] != 0xAB {
		t.Errorf("got % x", c.Mem)
	}
	if c.ReadU16(15) != 0xABCD {
		t.Errorf("read back %#x", c.ReadU16(15))
	}
	c.WriteU8(16, 0x7F)
	if c.Mem[0] != 0x7F {
		t.Errorf("byte wrap: got %#x", c.Mem[0])
	}
}

func TestJneDisplacement(t *testing.T) {
	code := make([]byte, 12)
	code[10], code[11] = 0x75, 0xFE // jne $+0

	c := cpu.New(0)
	c.IP = 10
	if _, err := c.Step(code); err != nil {
		t.Fatal(err)
	}
	if c.IP != 10 {
		t.Errorf("taken: ip %d, want 10", c.IP)
	}

	c.Flags = cpu.FlagZ
	if _, err := c.Step(code); err != nil {
		t.Fatal(err)
	}
	if c.IP != 12 {
		t.Errorf("not taken: ip %d, want 12", c.IP)
	}
}

func TestUnevaluatedBranches(t *testing.T) {
	tests := []struct {
		name   string
		code   []byte
		flags  uint16
		cx     uint16
		ip     uint16 // with AllBranches
		wantCX uint16
	}{
		{"je", []byte{0x74, 0x10}, cpu.FlagZ, 0, 0x12, 0},
		{"js", []byte{0x78, 0x10}, cpu.FlagS, 0, 0x12, 0},
		{"jns", []byte{0x79, 0x10}, 0, 0, 0x12, 0},
		{"jcxz", []byte{0xE3, 0x10}, 0, 0, 0x12, 0},
		{"loop", []byte{0xE2, 0xFE}, 0, 3, 0, 2},
		{"loop exits", []byte{0xE2, 0xFE}, 0, 1, 2, 0},
		{"loopz", []byte{0xE1, 0xFE}, cpu.FlagZ, 3, 0, 2},
		{"loopnz", []byte{0xE0, 0xFE}, cpu.FlagZ, 3, 2, 2},
		{"jl needs overflow", []byte{0x7C, 0x10}, cpu.FlagS, 0, 2, 0},
	}

	for _, tt := range tests {
		c := cpu.New(0)
		c.Flags = tt.flags
		c.Regs[cpu.CX] = tt.cx
		step(t, c, tt.code...)
		if c.IP != 2 || c.Regs[cpu.CX] != tt.cx {
			t.Errorf("%s: default mode ip %d cx %d, want fall through", tt.name, c.IP, c.Regs[cpu.CX])
		}

		c = cpu.New(0)
		c.AllBranches = true
		c.Flags = tt.flags
		c.Regs[cpu.CX] = tt.cx
		step(t, c, tt.code...)
		if c.IP != tt.ip || c.Regs[cpu.CX] != tt.wantCX {
			t.Errorf("%s: all branches ip %#x cx %d, want %#x %d", tt.name, c.IP, c.Regs[cpu.CX], tt.ip, tt.wantCX)
		}
	}
}

func TestArithmeticMemoryDestination(t *testing.T) {
	c := cpu.New(0)
	_, err := c.Step([]byte{0x01, 0x07}) // add [bx], ax
	if !errors.Is(err, cpu.ErrUnimplementedDestination) {
		t.Errorf("got %v, want %v", err, cpu.ErrUnimplementedDestination)
	}
	if c.Mem[0] != 0 {
		t.Error("memory was modified")
	}
	if c.IP != 0 {
		t.Errorf("ip moved to %d after a failed instruction", c.IP)
	}
}

func TestStepTrace(t *testing.T) {
	c := cpu.New(0)
	tr := step(t, c, 0xB9, 0x0C, 0x00) // mov cx, 12
	if len(tr.Registers) != 1 {
		t.Fatalf("got %d register changes, want 1", len(tr.Registers))
	}
	r := tr.Registers[0]
	if r.Index != cpu.CX || r.Old != 0 || r.New != 12 {
		t.Errorf("got %+v", r)
	}
	if tr.IPBefore != 0 || tr.IPAfter != 3 {
		t.Errorf("ip %d->%d, want 0->3", tr.IPBefore, tr.IPAfter)
	}

	c.Regs[cpu.CX] = 1
	tr = step(t, c, 0x83, 0xE9, 0x01) // sub cx, 1
	if tr.FlagsBefore != 0 || tr.FlagsAfter != cpu.FlagZ {
		t.Errorf("flags %q->%q, want ->Z", cpu.FlagString(tr.FlagsBefore), cpu.FlagString(tr.FlagsAfter))
	}
}

func TestSnapshotNamed(t *testing.T) {
	c := cpu.New(0)
	c.Regs[cpu.SI] = 7
	named := c.Snapshot().Named()
	if len(named) != 8 || named["si"] != 7 || named["ax"] != 0 {
		t.Errorf("got %v", named)
	}
}
