// Package config handles application configuration and setup
package config

import (
	"errors"
	"fmt"

	"github.com/retroenv/chip8vm/internal/machine"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// ErrInvalidOption is returned for machine options outside their valid range.
var ErrInvalidOption = errors.New("invalid option")

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// ValidateMachine checks that the machine options describe a runnable setup.
func ValidateMachine(opts options.Machine) error {
	if opts.Origin >= machine.MemorySize {
		return fmt.Errorf("%w: origin 0x%04X is outside of memory", ErrInvalidOption, opts.Origin)
	}
	if opts.ClockSpeed <= 0 {
		return fmt.Errorf("%w: clock speed %d must be positive", ErrInvalidOption, opts.ClockSpeed)
	}
	if opts.TimerFrequency <= 0 || opts.TimerFrequency > options.MaxTimerFrequency {
		return fmt.Errorf("%w: timer frequency %d must be between 1 and %d",
			ErrInvalidOption, opts.TimerFrequency, options.MaxTimerFrequency)
	}
	if opts.MaxFrames < 0 {
		return fmt.Errorf("%w: frame limit %d must not be negative", ErrInvalidOption, opts.MaxFrames)
	}
	return nil
}
