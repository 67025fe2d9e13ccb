// Package api defines the driver that runs programs on a simulated core.
package api

import (
	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/smips/core"
)

// Driver provides the interface to run a program on a core.
type Driver interface {
	// MapProgram loads the program into the core. A new program discards
	// the state of the previous run.
	MapProgram(program core.Program) error

	// Run drives the engine until the core halts.
	Run() (RunResult, error)

	// Regs returns the register file of the core.
	Regs() *core.RegFile
}

// RunResult is the outcome of a run together with the simulated time it
// took.
type RunResult struct {
	core.Result
	SimTime sim.VTimeInSec
}

type processor interface {
	MapProgram(program core.Program) error
	TickNow()
	Result() (core.Result, error)
	Regs() *core.RegFile
}

type driverImpl struct {
	engine sim.Engine
	proc   processor
	mapped bool
}

func (d *driverImpl) MapProgram(program core.Program) error {
	if err := d.proc.MapProgram(program); err != nil {
		return err
	}

	d.mapped = true

	return nil
}

func (d *driverImpl) Run() (RunResult, error) {
	if !d.mapped {
		return RunResult{}, errors.New("no program mapped")
	}

	start := d.engine.CurrentTime()

	d.proc.TickNow()

	if err := d.engine.Run(); err != nil {
		return RunResult{}, errors.Wrap(err, "engine")
	}

	result, err := d.proc.Result()

	return RunResult{
		Result:  result,
		SimTime: d.engine.CurrentTime() - start,
	}, err
}

func (d *driverImpl) Regs() *core.RegFile {
	return d.proc.Regs()
}

// RunProgram maps the program and runs it to the end.
func RunProgram(d Driver, program core.Program) (RunResult, error) {
	if err := d.MapProgram(program); err != nil {
		return RunResult{}, errors.Wrap(err, "map program")
	}

	return d.Run()
}
