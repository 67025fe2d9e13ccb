// Package core executes programs of instruction words.
//
// Emulator is the plain fetch/decode/execute loop. Core wraps an Emulator as
// an akita ticking component that retires one instruction per cycle.
package core

import (
	"github.com/sarchlab/akita/v4/sim"
)

// Core runs a program on an akita engine, one instruction per tick.
type Core struct {
	*sim.TickingComponent

	emu *Emulator
}

// MapProgram sets the program that the core needs to run.
func (c *Core) MapProgram(program Program) error {
	if err := c.emu.LoadProgram(program); err != nil {
		return err
	}

	Trace("MapProgram", "Core", c.Name(), "Program", program.Name,
		"Words", len(program.Words))

	return nil
}

// Tick runs the program for one cycle.
func (c *Core) Tick() (madeProgress bool) {
	if c.emu.Halted() {
		return false
	}

	pc := c.emu.PC()
	r := c.emu.Step()

	Trace("Tick",
		"Core", c.Name(),
		"Time", float64(c.Engine.CurrentTime()*1e9),
		"PC", pc,
		"Halted", r.Halted,
	)

	return !r.Halted
}

// Regs returns the register file of the core.
func (c *Core) Regs() *RegFile {
	return c.emu.Regs()
}

// Result reports how the run ended and the failure, if any.
func (c *Core) Result() (Result, error) {
	return c.emu.Result(), c.emu.Err()
}
