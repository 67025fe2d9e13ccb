package api

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/smips/core"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	engine sim.Engine
	freq   sim.Freq
	core   core.Builder
}

// NewDriverBuilder returns a builder with a default core.
func NewDriverBuilder() DriverBuilder {
	return DriverBuilder{
		freq: 1 * sim.GHz,
		core: core.NewBuilder(),
	}
}

// WithEngine sets the engine.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithCoreBuilder sets how the core is built. Its engine and frequency are
// replaced by the driver's.
func (b DriverBuilder) WithCoreBuilder(cb core.Builder) DriverBuilder {
	b.core = cb
	return b
}

// Build create a driver.
func (b DriverBuilder) Build(name string) Driver {
	if b.engine == nil {
		panic("driver needs an engine")
	}

	c := b.core.
		WithEngine(b.engine).
		WithFreq(b.freq).
		Build(name + ".Core")

	return &driverImpl{
		engine: b.engine,
		proc:   c,
	}
}
