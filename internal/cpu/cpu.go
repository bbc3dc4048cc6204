// Package cpu implements the execution engine of the CHIP-8 virtual machine.
//
// A CPU drives a machine.State: every Step fetches the word at the program
// counter, decodes it, advances the program counter by 2 and executes the
// instruction. Control transfer instructions overwrite the program counter,
// skip instructions add another 2 on top of the default advance.
//
// Timers are not decremented by Step, the host calls TickTimers at its own
// cadence, usually 60 times per second.
package cpu

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/retroenv/chip8vm/internal/instruction"
	"github.com/retroenv/chip8vm/internal/machine"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Errors that are returned in addition to the machine state errors.
var (
	ErrOperandOutOfRange = errors.New("register operand out of range")
	ErrUnknownOpcode     = errors.New("unknown opcode")
)

// CPU executes instructions against a machine state.
type CPU struct {
	logger *log.Logger
	state  *machine.State
	opts   options.Machine
	random *rand.Rand

	cycles uint64
	fault  error
}

// New returns a new CPU that operates on the given state.
func New(logger *log.Logger, state *machine.State, opts options.Machine) *CPU {
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	return &CPU{
		logger: logger,
		state:  state,
		opts:   opts,
		random: rand.New(rand.NewPCG(seed, seed>>32|seed<<32)),
	}
}

// State returns the machine state the CPU operates on.
func (c *CPU) State() *machine.State {
	return c.state
}

// Cycles returns the number of instructions fetched since the last reset.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// Fault returns the fatal error that halted execution, if any.
func (c *CPU) Fault() error {
	return c.fault
}

// Reset resets the machine state and clears a halted condition.
func (c *CPU) Reset() {
	c.state.Reset()
	c.cycles = 0
	c.fault = nil
}

// TickTimers decrements the delay and sound timers once.
func (c *CPU) TickTimers() {
	c.state.TickTimers()
}

// Step executes one instruction cycle.
//
// While the machine awaits a key, Step completes the pending instruction if
// a key-down event arrived and otherwise returns without fetching.
// Once a fatal error occurred, every following call returns it again until
// the CPU is reset.
func (c *CPU) Step() error {
	if c.fault != nil {
		return c.fault
	}

	if target, awaiting := c.state.Awaiting(); awaiting {
		if key, ok := c.state.TakeKeyDown(); ok {
			c.state.Registers[target] = key
			c.state.PC += 2
		}
		return nil
	}

	address := c.state.PC
	word, err := c.state.Fetch()
	if err != nil {
		return c.halt(err)
	}
	c.state.PC += 2
	c.cycles++

	ins, ok := instruction.Decode(word)
	if !ok {
		if c.opts.StrictOpcodes {
			return c.halt(fmt.Errorf("%w: 0x%04X at 0x%03X", ErrUnknownOpcode, word, address))
		}
		c.logger.Debug("Skipping unknown opcode",
			log.Hex("address", address),
			log.Hex("opcode", word))
		return nil
	}

	if c.opts.Trace {
		c.logger.Debug("Executing instruction",
			log.Hex("address", address),
			log.Hex("opcode", word),
			log.String("mnemonic", instruction.Mnemonic(word)))
	}

	if err := c.Execute(ins); err != nil {
		return c.halt(fmt.Errorf("executing %s at 0x%03X: %w", ins.Name(), address, err))
	}
	return nil
}

func (c *CPU) halt(err error) error {
	c.fault = err
	return err
}
