package main

import (
	"fmt"
	"os"

	"github.com/grimdork/climate/arg"
	log "github.com/sirupsen/logrus"

	"github.com/Urethramancer/sim86/disassembler"
)

func main() {
	opt := arg.New("dis86")
	opt.SetDefaultHelp(true)
	opt.SetPositional("INPUT", "8086 machine code to disassemble.", "", true, arg.VarString)
	opt.SetPositional("OUTPUT", "Listing file. Printed to stdout when omitted.", "", false, arg.VarString)

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

	inputFile := opt.GetPosString("INPUT")
	outputFile := opt.GetPosString("OUTPUT")

	// Read the binary file directly; it has no header.
	code, err := os.ReadFile(inputFile)
	if err != nil {
		log.WithField("file", inputFile).Errorf("Error reading input file: %v", err)
		os.Exit(1)
	}

	// A decode error still leaves a partial listing worth writing.
	text, decodeErr := disassembler.Disassemble(code)

	if outputFile == "" {
		fmt.Print(text)
	} else if err := os.WriteFile(outputFile, []byte(text), 0644); err != nil {
		log.WithField("file", outputFile).Errorf("Error writing output file: %v", err)
		os.Exit(1)
	}

	if decodeErr != nil {
		log.WithField("file", inputFile).Errorf("Disassembly error: %v", decodeErr)
		os.Exit(1)
	}
	if outputFile != "" {
		fmt.Printf("Disassembly written to %s\n", outputFile)
	}
}
