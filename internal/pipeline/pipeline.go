// Package pipeline orchestrates the stages of running a program file.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/cespare/xxhash"
	"github.com/retroenv/chip8vm/internal/cpu"
	"github.com/retroenv/chip8vm/internal/detector"
	"github.com/retroenv/chip8vm/internal/loader"
	"github.com/retroenv/chip8vm/internal/machine"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/runner"
	"github.com/retroenv/chip8vm/internal/writer"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// Result contains the outcome of a program run.
type Result struct {
	State  *machine.State
	Cycles uint64
	Frames int

	DisplayHash uint64 // xxhash of the packed final framebuffer
}

// Pipeline orchestrates the complete workflow of running a program.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(logger),
	}
}

// Execute detects the system of the input file, loads it, runs it and writes
// the final framebuffer to the writer. The framebuffer is written even if the
// run was interrupted or halted by an error.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, machineOpts options.Machine, output io.Writer) (Result, error) {
	system, err := p.detector.Detect(opts)
	if err != nil {
		return Result{}, fmt.Errorf("detecting system: %w", err)
	}

	state := machine.New()
	if err := p.loader.Load(opts.Input, state, machineOpts.Origin); err != nil {
		return Result{}, fmt.Errorf("loading program: %w", err)
	}

	p.printInfo(opts, machineOpts, system)

	return p.ExecuteWithState(ctx, state, machineOpts, output)
}

// ExecuteWithState runs a program that is already loaded into the state.
// This is useful for testing and programmatic usage where the program is already in memory.
func (p *Pipeline) ExecuteWithState(ctx context.Context, state *machine.State, machineOpts options.Machine, output io.Writer) (Result, error) {
	processor := cpu.New(p.logger, state, machineOpts)
	run := runner.New(p.logger, processor, machineOpts)
	run.SetDisplay(&displayLogger{logger: p.logger})
	run.SetSound(&soundLogger{logger: p.logger})

	runErr := run.Run(ctx)

	result := Result{
		State:       state,
		Cycles:      processor.Cycles(),
		Frames:      run.Frames(),
		DisplayHash: xxhash.Sum64(state.Display.Bytes()),
	}

	if err := writer.New(output).Render(&state.Display); err != nil {
		return result, fmt.Errorf("writing framebuffer: %w", err)
	}
	if runErr != nil {
		return result, fmt.Errorf("running program: %w", runErr)
	}
	return result, nil
}

// printInfo prints information about the program being run.
func (p *Pipeline) printInfo(opts options.Program, machineOpts options.Machine, system arch.System) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Running program",
		log.String("file", opts.Input),
		log.Stringer("system", system),
		log.Hex("origin", machineOpts.Origin),
		log.Int("clock", machineOpts.ClockSpeed),
	)
	if machineOpts.StrictOpcodes {
		p.logger.Info("Unknown opcodes halt execution")
	}
}

// displayLogger reports framebuffer changes in the log, the final framebuffer
// is written once the run ends.
type displayLogger struct {
	logger  *log.Logger
	renders int
}

func (d *displayLogger) Render(fb *machine.Framebuffer) error {
	d.renders++
	d.logger.Debug("Display changed",
		log.Int("render", d.renders),
		log.Int("lit", fb.Lit()))
	return nil
}

// soundLogger reports tone changes in the log, the host has no audio output.
type soundLogger struct {
	logger *log.Logger
}

func (s *soundLogger) SetTone(on bool) {
	if on {
		s.logger.Debug("Sound on")
	} else {
		s.logger.Debug("Sound off")
	}
}
