package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/smips/api"
	"github.com/sarchlab/smips/config"
	"github.com/sarchlab/smips/core"
	"github.com/sarchlab/smips/trace"
)

// regFlags collects repeated -reg name=value settings.
type regFlags map[string]int32

func (r regFlags) String() string {
	parts := make([]string, 0, len(r))
	for name, v := range r {
		parts = append(parts, fmt.Sprintf("%s=%d", name, v))
	}

	return strings.Join(parts, ",")
}

func (r regFlags) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return errors.Errorf("want name=value, got %q", s)
	}

	v, err := strconv.ParseInt(strings.TrimSpace(value), 0, 32)
	if err != nil {
		return errors.Wrapf(err, "register %s", name)
	}

	r[strings.TrimSpace(name)] = int32(v)

	return nil
}

type options struct {
	configPath string
	names      string
	color      string
	logLevel   string
	logJSON    string
	traceOut   string
	maxSteps   uint64
	capacity   int
	table      bool
	steps      bool
	engine     bool
	regs       regFlags
}

func parseFlags() (options, string) {
	o := options{regs: regFlags{}}

	flag.StringVar(&o.configPath, "config", "", "YAML configuration file")
	flag.StringVar(&o.names, "names", "", "register names: numeric or symbolic")
	flag.StringVar(&o.color, "color", "", "color output: auto, always or never")
	flag.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, trace, warn or error")
	flag.StringVar(&o.logJSON, "log-json", "", "write JSON logs to this file")
	flag.StringVar(&o.traceOut, "trace-out", "", "record a binary execution trace to this file")
	flag.Uint64Var(&o.maxSteps, "max-steps", 0, "step limit, 0 keeps the configured value")
	flag.IntVar(&o.capacity, "capacity", 0, "instruction buffer capacity, 0 keeps the configured value")
	flag.BoolVar(&o.table, "table", false, "print all registers as a table after the run")
	flag.BoolVar(&o.steps, "trace", false, "print every executed instruction to stderr")
	flag.Var(o.regs, "reg", "start value of a register as name=value, may repeat")
	flag.BoolVar(&o.engine, "engine", false, "run on the simulation engine, one instruction per cycle")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <program.hex|program.yaml>\n", os.Args[0])
		flag.PrintDefaults()
		atexit.Exit(2)
	}

	return o, flag.Arg(0)
}

func loadConfig(o options) (config.Config, error) {
	cfg := config.Default()

	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}

	if o.names != "" {
		cfg.RegisterNames = o.names
	}

	if o.color != "" {
		cfg.Color = o.color
	}

	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}

	if o.traceOut != "" {
		cfg.TraceFile = o.traceOut
	}

	if o.maxSteps != 0 {
		cfg.MaxSteps = o.maxSteps
	}

	if o.capacity != 0 {
		cfg.Capacity = o.capacity
	}

	if len(o.regs) > 0 && cfg.Registers == nil {
		cfg.Registers = map[string]int32{}
	}

	for name, v := range o.regs {
		cfg.Registers[name] = v
	}

	return cfg, cfg.Validate()
}

func setupLogging(cfg config.Config, jsonPath string) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})

	if jsonPath != "" {
		f, err := os.Create(jsonPath)
		if err != nil {
			return errors.Wrap(err, "create log file")
		}
		atexit.Register(func() { f.Close() })

		handler = slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		})
	}

	slog.SetDefault(slog.New(handler))

	return nil
}

func useColor(setting string, f *os.File) bool {
	switch setting {
	case "always":
		return true
	case "never":
		return false
	default:
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "smips: %v\n", err)
	atexit.Exit(1)
}

func main() {
	o, path := parseFlags()

	cfg, err := loadConfig(o)
	if err != nil {
		fail(err)
	}

	if err := setupLogging(cfg, o.logJSON); err != nil {
		fail(err)
	}

	program, err := core.LoadProgramPath(path, cfg.Capacity)
	if err != nil {
		fail(err)
	}

	style := cfg.NameStyle()
	p := painter{enabled: useColor(cfg.Color, os.Stdout)}

	fmt.Println("Program")
	if err := writeListing(os.Stdout, program, style, p); err != nil {
		fail(err)
	}

	builder := config.NewPlatformBuilder(cfg).WithStdout(os.Stdout)

	var recorder *trace.Writer

	if cfg.TraceFile != "" {
		f, err := os.Create(cfg.TraceFile)
		if err != nil {
			fail(errors.Wrap(err, "create trace file"))
		}

		recorder, err = trace.NewWriter(f, program, cfg.Capacity)
		if err != nil {
			fail(err)
		}

		builder = builder.WithTracer(recorder)
	}

	if o.steps {
		builder = builder.WithTracer(&stepPrinter{
			w:       os.Stderr,
			style:   style,
			painter: painter{enabled: useColor(cfg.Color, os.Stderr)},
		})
	}

	fmt.Println("Output")

	result, regs, runErr := run(builder, program, o.engine)

	if recorder != nil {
		if err := recorder.Finish(result); err != nil {
			slog.Error("Trace", "Error", err)
		}

		if err := recorder.Close(); err != nil {
			slog.Error("Trace", "Error", err)
		}
	}

	fmt.Println("Registers After Execution")
	if err := core.WriteRegisters(os.Stdout, regs, style); err != nil {
		fail(err)
	}

	if o.table {
		fmt.Println(core.RenderRegisters(regs))
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, p.paint(fmt.Sprintf("smips: %v", runErr), colorFault))
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func run(
	builder config.PlatformBuilder,
	program core.Program,
	onEngine bool,
) (core.Result, *core.RegFile, error) {
	if !onEngine {
		emu := builder.Emulator()
		if err := emu.LoadProgram(program); err != nil {
			return core.Result{}, emu.Regs(), err
		}

		result, err := emu.Run()
		core.LogState(emu)

		return result, emu.Regs(), err
	}

	platform := builder.Build("SMIPS")

	result, err := api.RunProgram(platform.Driver, program)

	slog.Info("Simulation finished",
		"Steps", result.Steps,
		"SimTime", float64(result.SimTime),
	)

	return result.Result, platform.Driver.Regs(), err
}
