package core

import (
	"io"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/smips/isa"
)

// Builder can create new cores.
type Builder struct {
	engine   sim.Engine
	freq     sim.Freq
	stdout   io.Writer
	maxSteps uint64
	capacity int
	tracers  []Tracer
	initRegs map[isa.Reg]int32
}

// NewBuilder returns a builder with the default capacity and step limit.
func NewBuilder() Builder {
	return Builder{
		freq:     1 * sim.GHz,
		maxSteps: DefaultMaxSteps,
		capacity: DefaultCapacity,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithStdout sets where syscalls print.
func (b Builder) WithStdout(w io.Writer) Builder {
	b.stdout = w
	return b
}

// WithMaxSteps sets the step ceiling.
func (b Builder) WithMaxSteps(n uint64) Builder {
	b.maxSteps = n
	return b
}

func (b Builder) WithCapacity(n int) Builder {
	if n <= 0 {
		panic("capacity must be positive")
	}

	b.capacity = n

	return b
}

func (b Builder) WithTracer(t Tracer) Builder {
	b.tracers = append(b.tracers[:len(b.tracers):len(b.tracers)], t)
	return b
}

// WithInitialRegs sets the register values the core starts from.
func (b Builder) WithInitialRegs(regs map[isa.Reg]int32) Builder {
	b.initRegs = regs
	return b
}

// Build creates a core.
func (b Builder) Build(name string) *Core {
	c := &Core{}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)
	c.emu = NewEmulator(b.emulatorOptions()...)

	return c
}

func (b Builder) emulatorOptions() []EmulatorOption {
	opts := []EmulatorOption{
		WithMaxSteps(b.maxSteps),
		WithCapacity(b.capacity),
	}

	if b.stdout != nil {
		opts = append(opts, WithStdout(b.stdout))
	}

	if len(b.initRegs) > 0 {
		opts = append(opts, WithInitialRegs(b.initRegs))
	}

	for _, t := range b.tracers {
		opts = append(opts, WithTracer(t))
	}

	return opts
}
