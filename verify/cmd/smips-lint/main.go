package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/smips/core"
	"github.com/sarchlab/smips/verify"
)

func main() {
	maxSteps := flag.Uint64("max-steps", 100000, "step limit of the trial run")
	capacity := flag.Int("capacity", core.DefaultCapacity, "instruction buffer capacity")
	reportFile := flag.String("o", "", "also save the report to this file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <program.hex|program.yaml>\n", os.Args[0])
		flag.PrintDefaults()
		atexit.Exit(2)
	}

	path := flag.Arg(0)

	program, err := core.LoadProgramPath(path, *capacity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "smips-lint: %v\n", err)
		atexit.Exit(1)
	}

	report := verify.GenerateReport(program, *maxSteps)
	report.WriteReport(os.Stdout)

	if *reportFile != "" {
		if err := report.SaveReportToFile(*reportFile); err != nil {
			fmt.Fprintf(os.Stderr, "smips-lint: %v\n", err)
			atexit.Exit(1)
		}
	}

	if !report.Passed() {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
