package main

import (
	"fmt"
	"os"

	"github.com/grimdork/climate/arg"
	"github.com/k0kubun/pp/v3"
	log "github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/Urethramancer/sim86/cpu"
	"github.com/Urethramancer/sim86/disassembler"
	"github.com/Urethramancer/sim86/vm"
)

// This program simulates an 8086 binary, printing the traced listing and the final machine state.
func main() {
	opt := arg.New("sim86")
	opt.SetDefaultHelp(true)
	opt.SetOption(arg.GroupDefault, "v", "verbose", "Log every executed instruction.", false, false, arg.VarBool, nil)
	opt.SetOption(arg.GroupDefault, "b", "all-branches", "Evaluate every branch the modelled flags allow, not only jne.", false, false, arg.VarBool, nil)
	opt.SetOption(arg.GroupDefault, "m", "memory", "Memory size in bytes.", cpu.DefaultMemorySize, false, arg.VarInt, nil)
	opt.SetOption(arg.GroupDefault, "s", "max-steps", "Stop after this many instructions.", vm.DefaultMaxSteps, false, arg.VarInt, nil)
	opt.SetOption(arg.GroupDefault, "d", "dump", "Pretty-print the final machine state.", false, false, arg.VarBool, nil)
	opt.SetPositional("INPUT", "8086 machine code to simulate.", "", true, arg.VarString)

	err := opt.Parse(os.Args[1:])
	if err != nil {
		if err == arg.ErrNoArgs {
			opt.PrintHelp()
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if opt.GetBool("help") {
		opt.PrintHelp()
		return
	}
	if opt.GetBool("verbose") {
		log.SetLevel(log.DebugLevel)
	}

	inputFile := opt.GetPosString("INPUT")
	code, err := os.ReadFile(inputFile)
	if err != nil {
		log.WithField("file", inputFile).Errorf("Error reading input file: %v", err)
		os.Exit(1)
	}

	v := vm.New(vm.Options{
		MemorySize:  opt.GetInt("memory"),
		MaxSteps:    opt.GetInt("max-steps"),
		AllBranches: opt.GetBool("all-branches"),
	})
	if err := v.LoadCode(code); err != nil {
		log.WithField("file", inputFile).Errorf("Error loading code: %v", err)
		os.Exit(1)
	}

	fmt.Printf("--- %s execution ---\n", inputFile)
	lines, runErr := v.Run()
	fmt.Print(disassembler.Listing(lines))
	fmt.Println()
	v.DumpRegisters(os.Stdout)

	if opt.GetBool("dump") {
		printer := pp.New()
		printer.SetColoringEnabled(term.IsTerminal(int(os.Stdout.Fd())))
		printer.Println(v.CPU.Snapshot().Named())
	}

	if runErr != nil {
		log.WithField("file", inputFile).Errorf("Simulation stopped: %v", runErr)
		os.Exit(1)
	}
}
