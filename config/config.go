// Package config provides the run configuration and assembles a simulated
// platform from it.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/smips/core"
	"github.com/sarchlab/smips/isa"
)

// Config holds the settings of a run. Zero values are replaced by defaults
// when loading.
type Config struct {
	Capacity      int    `yaml:"capacity"`
	MaxSteps      uint64 `yaml:"max_steps"`
	FrequencyMHz  int    `yaml:"frequency_mhz"`
	RegisterNames string `yaml:"register_names"`
	Color         string `yaml:"color"`
	LogLevel      string `yaml:"log_level"`
	TraceFile     string `yaml:"trace_file"`

	// Registers holds start values keyed by register name, numeric ("$4")
	// or conventional ("$a0").
	Registers map[string]int32 `yaml:"registers"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Capacity:      core.DefaultCapacity,
		MaxSteps:      core.DefaultMaxSteps,
		FrequencyMHz:  1000,
		RegisterNames: "numeric",
		Color:         "auto",
		LogLevel:      "warn",
	}
}

// Load reads a YAML configuration. Missing keys keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}

	return Parse(data)
}

// Parse decodes a YAML configuration on top of the defaults.
func Parse(data []byte) (Config, error) {
	c := Default()

	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return errors.Errorf("capacity must be positive, got %d", c.Capacity)
	}

	if c.FrequencyMHz <= 0 {
		return errors.Errorf("frequency_mhz must be positive, got %d", c.FrequencyMHz)
	}

	switch c.RegisterNames {
	case "numeric", "symbolic":
	default:
		return errors.Errorf("register_names must be numeric or symbolic, got %q", c.RegisterNames)
	}

	switch c.Color {
	case "auto", "always", "never":
	default:
		return errors.Errorf("color must be auto, always or never, got %q", c.Color)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	if _, err := c.InitialRegs(); err != nil {
		return err
	}

	return nil
}

// InitialRegs resolves the register names of the configuration.
func (c Config) InitialRegs() (map[isa.Reg]int32, error) {
	if len(c.Registers) == 0 {
		return nil, nil
	}

	regs := make(map[isa.Reg]int32, len(c.Registers))

	for name, v := range c.Registers {
		reg, ok := isa.LookupReg(name)
		if !ok {
			return nil, errors.Errorf("unknown register %q", name)
		}

		if reg == isa.RegZero {
			return nil, errors.Errorf("register %q is hard-wired to zero", name)
		}

		regs[reg] = v
	}

	return regs, nil
}

// NameStyle returns the register naming selected by the configuration.
func (c Config) NameStyle() isa.NameStyle {
	if c.RegisterNames == "symbolic" {
		return isa.SymbolicNames
	}

	return isa.NumericNames
}

// Level returns the log level. "trace" selects core.LevelTrace.
func (c Config) Level() (slog.Level, error) {
	if strings.EqualFold(c.LogLevel, "trace") {
		return core.LevelTrace, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, errors.Wrapf(err, "log_level %q", c.LogLevel)
	}

	return level, nil
}
