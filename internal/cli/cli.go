// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/chip8vm/internal/config"
	"github.com/retroenv/chip8vm/internal/options"
)

// ParseFlags parses command line flags and returns program and machine options
func ParseFlags() (options.Program, options.Machine, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	machineOpts := options.NewMachine()
	readOptionFlags(flags, &opts)
	readMachineOptionFlags(flags, &machineOpts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, machineOpts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, machineOpts, err
	}

	if opts.Input == "" {
		opts.Input = args[0]
	}

	opts.System = strings.ToLower(opts.System)
	// trace output is logged at debug level
	if machineOpts.Trace {
		opts.Debug = true
	}

	if err := config.ValidateMachine(machineOpts); err != nil {
		return opts, machineOpts, err
	}

	return opts, machineOpts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: chip8vm [options] <ROM file to run>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Output, "o", "", "name of the file to write the final framebuffer to, printed on console if no name given")
	flags.StringVar(&opts.System, "s", "", "system to run (chip8) - if not auto-detected from file extension")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}

func readMachineOptionFlags(flags *flag.FlagSet, opts *options.Machine) {
	flags.Func("origin", "memory address to load the program at (default 0x200)", func(s string) error {
		origin, err := strconv.ParseUint(s, 0, 16)
		if err != nil {
			return fmt.Errorf("parsing origin: %w", err)
		}
		opts.Origin = uint16(origin)
		return nil
	})
	flags.IntVar(&opts.ClockSpeed, "clock", options.DefaultClockSpeed, "instructions executed per second")
	flags.IntVar(&opts.TimerFrequency, "timer", options.DefaultTimerFrequency, "timer decrements and frames per second")
	flags.IntVar(&opts.MaxFrames, "frames", 0, "stop after this many frames, 0 runs until interrupted")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random number generator, 0 picks a random seed")
	flags.BoolVar(&opts.StrictOpcodes, "strict", false, "stop execution on unknown opcodes instead of skipping them")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, implies -debug")
}
