package config

import (
	"io"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/smips/api"
	"github.com/sarchlab/smips/core"
	"github.com/sarchlab/smips/isa"
)

// Platform is an engine with a driver attached to a single core.
type Platform struct {
	Engine sim.Engine
	Driver api.Driver
}

// PlatformBuilder can build platforms.
type PlatformBuilder struct {
	cfg     Config
	stdout  io.Writer
	tracers []core.Tracer
}

// NewPlatformBuilder starts from the given configuration.
func NewPlatformBuilder(cfg Config) PlatformBuilder {
	return PlatformBuilder{cfg: cfg}
}

// WithStdout sets where syscalls print.
func (b PlatformBuilder) WithStdout(w io.Writer) PlatformBuilder {
	b.stdout = w
	return b
}

// WithTracer adds an observer of executed instructions.
func (b PlatformBuilder) WithTracer(t core.Tracer) PlatformBuilder {
	b.tracers = append(b.tracers[:len(b.tracers):len(b.tracers)], t)
	return b
}

// Freq returns the core frequency of the configuration.
func (c Config) Freq() sim.Freq {
	return sim.Freq(c.FrequencyMHz) * sim.MHz
}

// CoreBuilder returns a core builder that follows the configuration.
func (b PlatformBuilder) CoreBuilder() core.Builder {
	cb := core.NewBuilder().
		WithCapacity(b.cfg.Capacity).
		WithMaxSteps(b.cfg.MaxSteps).
		WithInitialRegs(b.initialRegs())

	if b.stdout != nil {
		cb = cb.WithStdout(b.stdout)
	}

	for _, t := range b.tracers {
		cb = cb.WithTracer(t)
	}

	return cb
}

// initialRegs panics on names that Validate would have rejected.
func (b PlatformBuilder) initialRegs() map[isa.Reg]int32 {
	regs, err := b.cfg.InitialRegs()
	if err != nil {
		panic(err)
	}

	return regs
}

// Build creates a platform with a serial engine.
func (b PlatformBuilder) Build(name string) *Platform {
	engine := sim.NewSerialEngine()

	driver := api.NewDriverBuilder().
		WithEngine(engine).
		WithFreq(b.cfg.Freq()).
		WithCoreBuilder(b.CoreBuilder()).
		Build(name)

	return &Platform{
		Engine: engine,
		Driver: driver,
	}
}

// Emulator returns a plain emulator that follows the configuration.
func (b PlatformBuilder) Emulator() *core.Emulator {
	opts := []core.EmulatorOption{
		core.WithCapacity(b.cfg.Capacity),
		core.WithMaxSteps(b.cfg.MaxSteps),
		core.WithInitialRegs(b.initialRegs()),
	}

	if b.stdout != nil {
		opts = append(opts, core.WithStdout(b.stdout))
	}

	for _, t := range b.tracers {
		opts = append(opts, core.WithTracer(t))
	}

	return core.NewEmulator(opts...)
}
