package vm_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Urethramancer/sim86/assembler"
	"github.com/Urethramancer/sim86/cpu"
	"github.com/Urethramancer/sim86/disassembler"
	"github.com/Urethramancer/sim86/vm"
)

func assemble(src string) []byte {
	code, err := assembler.New().Assemble(src)
	Expect(err).NotTo(HaveOccurred())
	return code
}

func lineStrings(lines []disassembler.Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}

var _ = Describe("VM", func() {
	var v *vm.VM

	BeforeEach(func() {
		v = vm.New(vm.Options{})
	})

	Describe("Run", func() {
		It("should produce nothing for an empty stream", func() {
			Expect(v.LoadCode(nil)).To(Succeed())
			lines, err := v.Run()

			Expect(err).NotTo(HaveOccurred())
			Expect(lines).To(BeEmpty())
			Expect(v.CPU.Snapshot()).To(Equal(cpu.State{}))
		})

		It("should add an immediate to a moved register", func() {
			Expect(v.LoadCode([]byte{0xB9, 0x0C, 0x00, 0x83, 0xC1, 0x04})).To(Succeed())
			lines, err := v.Run()

			Expect(err).NotTo(HaveOccurred())
			Expect(lineStrings(lines)).To(Equal([]string{
				"mov cx, 12 ; cx:0x0->0xc ; ip:0x0->0x3",
				"add cx, 4 ; cx:0xc->0x10 ; ip:0x3->0x6",
			}))
			Expect(v.CPU.Regs[cpu.CX]).To(Equal(uint16(16)))
			Expect(v.CPU.Zero()).To(BeFalse())
			Expect(v.CPU.Sign()).To(BeFalse())
		})

		It("should loop on jne until the counter reaches zero", func() {
			Expect(v.LoadCode(assemble(`
				mov cx, 3
			top:
				sub cx, 1
				jne top
			`))).To(Succeed())
			lines, err := v.Run()

			Expect(err).NotTo(HaveOccurred())
			Expect(lines).To(HaveLen(7))
			Expect(lines[2].String()).To(Equal("jne $-3 ; ip:0x6->0x3"))
			Expect(lines[5].String()).To(Equal("sub cx, 1 ; cx:0x1->0x0 ; ip:0x3->0x6 ; flags:->Z"))
			Expect(v.CPU.Regs[cpu.CX]).To(BeZero())
			Expect(v.CPU.Zero()).To(BeTrue())
			Expect(v.CPU.IP).To(Equal(uint16(8)))
		})

		It("should keep the listing up to an unsupported opcode", func() {
			Expect(v.LoadCode(assemble("mov cx, 12\ndb 0x0f\nmov cx, 1"))).To(Succeed())
			lines, err := v.Run()

			Expect(err).To(MatchError(cpu.ErrUnsupportedOpcode))
			Expect(lines).To(HaveLen(1))
			Expect(v.CPU.Regs[cpu.CX]).To(Equal(uint16(12)))
		})

		It("should stop on a truncated instruction", func() {
			Expect(v.LoadCode([]byte{0x89, 0xD9, 0xB9, 0x0C})).To(Succeed())
			lines, err := v.Run()

			Expect(err).To(MatchError(cpu.ErrTruncated))
			Expect(lines).To(HaveLen(1))
		})

		It("should reject arithmetic on memory", func() {
			Expect(v.LoadCode(assemble("add word [bx], 4"))).To(Succeed())
			_, err := v.Run()

			Expect(err).To(MatchError(cpu.ErrUnimplementedDestination))
			Expect(v.CPU.ReadU16(0)).To(BeZero())
			Expect(v.CPU.IP).To(BeZero())
		})

		It("should move values through memory", func() {
			Expect(v.LoadCode(assemble(`
				mov bx, 1000
				mov word [bx + 4], 513
				mov cx, [1004]
				mov dl, [bx + 5]
			`))).To(Succeed())
			_, err := v.Run()

			Expect(err).NotTo(HaveOccurred())
			Expect(v.CPU.Regs[cpu.CX]).To(Equal(uint16(513)))
			Expect(v.CPU.Regs[cpu.DX]).To(Equal(uint16(2)))
			Expect(v.CPU.Mem[1004]).To(Equal(byte(1)))
			Expect(v.CPU.Mem[1005]).To(Equal(byte(2)))
		})

		It("should stop at the step limit", func() {
			v = vm.New(vm.Options{MaxSteps: 10})
			Expect(v.LoadCode(assemble("jne $+0"))).To(Succeed())
			lines, err := v.Run()

			Expect(err).To(MatchError(vm.ErrStepLimit))
			Expect(lines).To(HaveLen(10))
		})

		It("should stop at the end of a maximum size stream", func() {
			code := bytes.Repeat([]byte{0x89, 0xD9}, vm.MaxCodeSize/2) // mov cx, bx
			v = vm.New(vm.Options{MaxSteps: len(code)})
			Expect(v.LoadCode(code)).To(Succeed())
			lines, err := v.Run()

			Expect(err).NotTo(HaveOccurred())
			Expect(lines).To(HaveLen(vm.MaxCodeSize / 2))
			Expect(v.CPU.IP).To(Equal(uint16(len(code))))
		})

		It("should stop on a branch before the start of the stream", func() {
			Expect(v.LoadCode([]byte{0x75, 0xFC, 0xB9, 0x0C, 0x00})).To(Succeed()) // jne $-2; mov cx, 12
			lines, err := v.Run()

			Expect(err).NotTo(HaveOccurred())
			Expect(lines).To(HaveLen(1))
			Expect(v.CPU.Regs[cpu.CX]).To(BeZero())
		})
	})

	Describe("Branches", func() {
		const program = `
			mov cx, 2
		top:
			add ax, 1
			loop top
		`

		It("should not evaluate loop by default", func() {
			Expect(v.LoadCode(assemble(program))).To(Succeed())
			lines, err := v.Run()

			Expect(err).NotTo(HaveOccurred())
			Expect(lines).To(HaveLen(3))
			Expect(v.CPU.Regs[cpu.AX]).To(Equal(uint16(1)))
			Expect(v.CPU.Regs[cpu.CX]).To(Equal(uint16(2)))
		})

		It("should evaluate loop when all branches are enabled", func() {
			v = vm.New(vm.Options{AllBranches: true})
			Expect(v.LoadCode(assemble(program))).To(Succeed())
			_, err := v.Run()

			Expect(err).NotTo(HaveOccurred())
			Expect(v.CPU.Regs[cpu.AX]).To(Equal(uint16(2)))
			Expect(v.CPU.Regs[cpu.CX]).To(BeZero())
		})
	})

	Describe("LoadCode", func() {
		It("should reject code larger than the address space", func() {
			Expect(v.LoadCode(make([]byte, vm.MaxCodeSize+1))).To(MatchError(vm.ErrProgramTooLarge))
			Expect(v.LoadCode(make([]byte, 1<<16))).To(MatchError(vm.ErrProgramTooLarge))
		})

		It("should size memory from the options", func() {
			v = vm.New(vm.Options{MemorySize: 256})
			Expect(v.CPU.Mem).To(HaveLen(256))
		})
	})

	Describe("DumpRegisters", func() {
		It("should print word registers and flags", func() {
			Expect(v.LoadCode(assemble("mov cx, 16\nsub cx, 16"))).To(Succeed())
			_, err := v.Run()
			Expect(err).NotTo(HaveOccurred())

			var buf bytes.Buffer
			v.DumpRegisters(&buf)
			out := buf.String()

			Expect(out).To(HavePrefix("Final registers:\n"))
			Expect(out).To(ContainSubstring("      cx: 0x0000 (0)\n"))
			Expect(out).To(ContainSubstring("      ip: 0x0006 (6)\n"))
			Expect(strings.TrimSpace(out)).To(HaveSuffix("flags: Z"))
		})
	})
})
