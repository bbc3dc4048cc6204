// Package options contains the program options.
package options

import (
	"github.com/retroenv/chip8vm/internal/machine"
)

// Default values of the machine options.
const (
	DefaultClockSpeed     = 600 // instructions per second
	DefaultTimerFrequency = 60  // timer decrements per second
	MaxTimerFrequency     = 1000
)

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input ROM file"`
	Output string `flag:"o" usage:"output file for the final framebuffer (default: stdout)"`
}

// Flags contains behavior options.
type Flags struct {
	System string `flag:"s" usage:"target system: chip8 (default: auto-detect)"`
	Debug  bool   `flag:"debug" usage:"enable debug logging"`
	Quiet  bool   `flag:"q" usage:"quiet mode"`
}

// Program options of the interpreter.
type Program struct {
	Parameters
	Flags
}

// Machine defines options to control the virtual machine and its host loop.
type Machine struct {
	Origin         uint16 // address the program image is loaded at
	ClockSpeed     int    // instructions executed per second
	TimerFrequency int    // timer decrements and frames per second
	MaxFrames      int    // stop after this many frames, 0 runs until cancelled
	Seed           uint64 // seed of the random source, 0 picks a random seed

	StrictOpcodes bool // unknown opcodes halt execution instead of being skipped
	Trace         bool // log every executed instruction
}

// NewMachine returns a new options instance with default options.
func NewMachine() Machine {
	return Machine{
		Origin:         machine.ProgramStart,
		ClockSpeed:     DefaultClockSpeed,
		TimerFrequency: DefaultTimerFrequency,
	}
}

// CyclesPerFrame returns the number of instructions to execute between two
// timer ticks, at least one.
func (m Machine) CyclesPerFrame() int {
	if m.TimerFrequency <= 0 || m.ClockSpeed <= m.TimerFrequency {
		return 1
	}
	return m.ClockSpeed / m.TimerFrequency
}
