package core

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/sarchlab/smips/isa"
)

// DefaultMaxSteps bounds runs that never reach a halting syscall.
const DefaultMaxSteps = 1_000_000

// StepRecord describes one executed instruction.
type StepRecord struct {
	Step    uint64
	PC      uint32
	Word    uint32
	Changes []RegChange
}

// A Tracer observes every executed instruction.
type Tracer interface {
	TraceStep(rec StepRecord) error
}

// StepResult is the outcome of a single Step.
type StepResult struct {
	Halted bool
	Reason HaltReason
	Err    error
}

// Result summarizes a finished run.
type Result struct {
	Steps  uint64
	PC     uint32
	Reason HaltReason
}

// EmulatorOption configures an Emulator.
type EmulatorOption func(*Emulator)

// WithStdout sets where syscalls print.
func WithStdout(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.state.Out = w
	}
}

// WithMaxSteps sets the step ceiling. Zero disables it.
func WithMaxSteps(n uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxSteps = n
	}
}

// WithCapacity sets the instruction buffer capacity. The capacity is also
// the PC value that marks a halted machine.
func WithCapacity(n int) EmulatorOption {
	return func(e *Emulator) {
		if n <= 0 {
			panic("capacity must be positive")
		}

		e.state.Capacity = uint32(n)
	}
}

// WithInitialRegs sets register values that every reset starts from. A value
// for register 0 is ignored.
func WithInitialRegs(regs map[isa.Reg]int32) EmulatorOption {
	return func(e *Emulator) {
		e.initRegs = regs
	}
}

// WithTracer adds an observer of executed instructions.
func WithTracer(t Tracer) EmulatorOption {
	return func(e *Emulator) {
		e.tracers = append(e.tracers, t)
	}
}

// Emulator runs one program. It is not safe for concurrent use.
type Emulator struct {
	emu      instEmulator
	state    coreState
	maxSteps uint64
	tracers  []Tracer
	initRegs map[isa.Reg]int32
	err      error
}

// NewEmulator creates an emulator with an empty program.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		emu:      newInstEmulator(),
		maxSteps: DefaultMaxSteps,
		state: coreState{
			Capacity: DefaultCapacity,
			Out:      os.Stdout,
		},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// LoadProgram resets the machine and installs the program.
func (e *Emulator) LoadProgram(p Program) error {
	if len(p.Words) > int(e.state.Capacity) {
		return errors.Errorf("program %q has %d words, capacity is %d",
			p.Name, len(p.Words), e.state.Capacity)
	}

	e.Reset()
	e.state.Code = append([]uint32(nil), p.Words...)

	return nil
}

// Reset restores the initial registers and rewinds the PC. The program stays
// loaded.
func (e *Emulator) Reset() {
	e.state.PC = 0
	e.state.Regs = RegFile{}

	for reg, v := range e.initRegs {
		e.state.Regs.Write(reg, v)
	}

	e.state.Regs.ClearZero()
	e.state.Halted = false
	e.state.Reason = Running
	e.state.Steps = 0
	e.err = nil
}

// Regs exposes the register file. Callers may seed registers before a run.
func (e *Emulator) Regs() *RegFile {
	return &e.state.Regs
}

// PC returns the index of the next instruction.
func (e *Emulator) PC() uint32 {
	return e.state.PC
}

// Halted reports whether the machine has stopped.
func (e *Emulator) Halted() bool {
	return e.state.Halted
}

// Err returns the failure that stopped the machine, if any.
func (e *Emulator) Err() error {
	return e.err
}

// Result summarizes the run so far.
func (e *Emulator) Result() Result {
	return Result{
		Steps:  e.state.Steps,
		PC:     e.state.PC,
		Reason: e.state.Reason,
	}
}

func (e *Emulator) outOfProgram() bool {
	pc := e.state.PC
	return pc >= uint32(len(e.state.Code)) || pc >= e.state.Capacity
}

// Step executes one instruction.
func (e *Emulator) Step() StepResult {
	s := &e.state

	if s.Halted {
		return e.stepResult()
	}

	if e.outOfProgram() {
		s.halt(HaltEndOfProgram)
		return e.stepResult()
	}

	pc := s.PC
	word := s.Code[pc]

	if e.maxSteps > 0 && s.Steps >= e.maxSteps {
		return e.fail(pc, word, fmt.Errorf("%w: %d", ErrStepLimit, e.maxSteps))
	}

	var before RegFile
	if len(e.tracers) > 0 {
		before = s.Regs
	}

	if err := e.emu.RunInst(word, s); err != nil {
		return e.fail(pc, word, err)
	}

	s.Steps++

	Trace("Inst", "PC", pc, "Word", fmt.Sprintf("0x%08x", word), "NextPC", s.PC)

	if len(e.tracers) > 0 {
		rec := StepRecord{
			Step:    s.Steps,
			PC:      pc,
			Word:    word,
			Changes: s.Regs.Diff(&before),
		}

		for _, t := range e.tracers {
			if err := t.TraceStep(rec); err != nil {
				return e.fail(pc, word, errors.Wrap(err, "trace"))
			}
		}
	}

	if !s.Halted && e.outOfProgram() {
		s.halt(HaltEndOfProgram)
	}

	if s.Halted {
		Trace("Halt", "Reason", s.Reason.String(), "Steps", s.Steps)
	}

	return e.stepResult()
}

func (e *Emulator) fail(pc, word uint32, err error) StepResult {
	e.err = newExecError(pc, word, err)
	e.state.halt(HaltFault)

	Trace("Fault", "PC", pc, "Error", e.err.Error())

	return e.stepResult()
}

func (e *Emulator) stepResult() StepResult {
	return StepResult{
		Halted: e.state.Halted,
		Reason: e.state.Reason,
		Err:    e.err,
	}
}

// Run steps until the machine halts.
func (e *Emulator) Run() (Result, error) {
	for {
		r := e.Step()
		if r.Halted {
			return e.Result(), r.Err
		}
	}
}
