package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/smips/api"
	"github.com/sarchlab/smips/config"
	"github.com/sarchlab/smips/core"
	"github.com/sarchlab/smips/isa"
)

const (
	t0 isa.Reg = 8
)

// countdown prints 5 4 3 2 1 and exits.
func countdown() core.Program {
	return core.NewProgram("countdown",
		isa.I(isa.OpAddi, t0, 0, 5),
		isa.I(isa.OpAddi, isa.RegV0, 0, 1), // loop:
		isa.R(isa.OpAdd, isa.RegA0, t0, 0, 0),
		isa.Syscall(),
		isa.I(isa.OpAddi, isa.RegV0, 0, 11),
		isa.I(isa.OpAddi, isa.RegA0, 0, ' '),
		isa.Syscall(),
		isa.I(isa.OpAddi, t0, t0, -1),
		isa.I(isa.OpBgtz, 0, t0, -7), // to loop
		isa.I(isa.OpAddi, isa.RegV0, 0, 10),
		isa.Syscall(),
	)
}

func main() {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})
	slog.SetDefault(slog.New(handler))

	program := countdown()
	if err := core.WriteListing(os.Stdout, program, isa.SymbolicNames); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	platform := config.NewPlatformBuilder(config.Default()).
		WithStdout(os.Stdout).
		Build("Countdown")

	result, err := api.RunProgram(platform.Driver, program)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	fmt.Printf("\n%d instructions in %.0f ns\n",
		result.Steps, float64(result.SimTime)*1e9)

	atexit.Exit(0)
}
