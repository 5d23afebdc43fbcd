package vm

import (
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/Urethramancer/sim86/cpu"
	"github.com/Urethramancer/sim86/disassembler"
)

var (
	// ErrStepLimit is returned when a run executes more instructions than Options.MaxSteps.
	ErrStepLimit = errors.New("step limit reached")
	// ErrProgramTooLarge is returned when the end of the code does not fit the 16-bit instruction pointer.
	ErrProgramTooLarge = errors.New("program too large")
)

// DefaultMaxSteps bounds a run so that a branch loop that never exits still terminates.
const DefaultMaxSteps = 1 << 20

// Options configure a VM.
type Options struct {
	// MemorySize is the data memory size in bytes. Zero selects cpu.DefaultMemorySize.
	MemorySize int
	// MaxSteps bounds the number of executed instructions. Zero selects DefaultMaxSteps.
	MaxSteps int
	// AllBranches evaluates every branch the modelled flags allow, not just jne.
	AllBranches bool
}

// VM couples a CPU with the code stream it executes.
type VM struct {
	CPU      *cpu.CPU
	code     []byte
	maxSteps int
}

// New creates a VM with fresh machine state.
func New(opt Options) *VM {
	c := cpu.New(opt.MemorySize)
	c.AllBranches = opt.AllBranches

	steps := opt.MaxSteps
	if steps <= 0 {
		steps = DefaultMaxSteps
	}
	return &VM{CPU: c, maxSteps: steps}
}

// MaxCodeSize is the largest stream whose end offset is still a valid IP.
const MaxCodeSize = 0xFFFF

// LoadCode sets the instruction stream and resets IP to its start.
func (v *VM) LoadCode(code []byte) error {
	if len(code) > MaxCodeSize {
		return fmt.Errorf("%d bytes: %w", len(code), ErrProgramTooLarge)
	}
	v.code = code
	v.CPU.IP = 0
	return nil
}

// Run decodes and executes from IP until the stream ends or an error occurs.
// A branch to an offset outside the stream ends the run.
// The lines traced before an error are returned alongside it.
func (v *VM) Run() ([]disassembler.Line, error) {
	var lines []disassembler.Line
	pos := int(v.CPU.IP)
	for steps := 0; pos >= 0 && pos < len(v.code); steps++ {
		if steps >= v.maxSteps {
			return lines, fmt.Errorf("%d instructions executed: %w", steps, ErrStepLimit)
		}

		t, err := v.CPU.Step(v.code)
		if err != nil {
			log.WithFields(log.Fields{
				"ip":    v.CPU.IP,
				"steps": steps,
			}).Debug("run stopped")
			return lines, err
		}

		log.WithFields(log.Fields{
			"ip": t.IPBefore,
			"op": t.Inst.Op.String(),
		}).Debug("step")
		lines = append(lines, disassembler.Traced(t))
		pos = nextOffset(t)
	}
	return lines, nil
}

// nextOffset is the stream offset execution continues at, before truncation to IP.
func nextOffset(t *cpu.Trace) int {
	if t.IPAfter == uint16(t.Inst.Next) {
		return t.Inst.Next
	}
	return t.Inst.Target()
}

// DumpRegisters writes the word registers and set flags.
func (v *VM) DumpRegisters(w io.Writer) {
	s := v.CPU.Snapshot()
	fmt.Fprintln(w, "Final registers:")
	for i, val := range s.Registers {
		fmt.Fprintf(w, "      %s: 0x%04x (%d)\n", cpu.RegIndex(i), val, val)
	}
	fmt.Fprintf(w, "      ip: 0x%04x (%d)\n", s.IP, s.IP)
	if f := cpu.FlagString(s.Flags); f != "" {
		fmt.Fprintf(w, "   flags: %s\n", f)
	}
}
