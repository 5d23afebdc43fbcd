package main

import (
	"fmt"
	"os"

	"github.com/grimdork/climate/arg"
	log "github.com/sirupsen/logrus"

	"github.com/Urethramancer/sim86/assembler"
)

func main() {
	opt := arg.New("asm86")
	opt.SetDefaultHelp(true)
	opt.SetPositional("INPUT", "Assembly listing to assemble.", "", true, arg.VarString)
	opt.SetPositional("OUTPUT", "Binary output file.", "", true, arg.VarString)

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
	data, err := os.ReadFile(inputFile)
	if err != nil {
		log.WithField("file", inputFile).Errorf("Error reading input file: %v", err)
		os.Exit(1)
	}

	code, err := assembler.New().Assemble(string(data))
	if err != nil {
		log.WithField("file", inputFile).Errorf("Assembly error: %v", err)
		os.Exit(1)
	}

	outputFile := opt.GetPosString("OUTPUT")
	if err := os.WriteFile(outputFile, code, 0644); err != nil {
		log.WithField("file", outputFile).Errorf("Error writing output file: %v", err)
		os.Exit(1)
	}
	fmt.Printf("%d bytes written to %s\n", len(code), outputFile)
}
