// Package runner implements the host loop that drives a CPU at a fixed
// cadence.
//
// Every frame executes a batch of instructions, decrements the timers once
// and forwards display and sound changes to the registered sinks. Key events
// can be sent from any goroutine, they are queued and applied to the machine
// state between two instruction steps.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash"
	"github.com/retroenv/chip8vm/internal/cpu"
	"github.com/retroenv/chip8vm/internal/machine"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Display receives the framebuffer whenever it changed during a frame.
type Display interface {
	Render(fb *machine.Framebuffer) error
}

// Sound is switched on while the sound timer is active.
type Sound interface {
	SetTone(on bool)
}

type keyEvent struct {
	key     uint8
	pressed bool
}

// Runner drives a CPU frame by frame.
type Runner struct {
	logger *log.Logger
	cpu    *cpu.CPU
	opts   options.Machine

	display     Display
	sound       Sound
	soundOn     bool
	frames      int
	rendered    bool
	displayHash uint64

	mu     sync.Mutex
	events []keyEvent
}

// New returns a new runner for the CPU.
func New(logger *log.Logger, c *cpu.CPU, opts options.Machine) *Runner {
	if opts.TimerFrequency <= 0 {
		opts.TimerFrequency = options.DefaultTimerFrequency
	}
	return &Runner{
		logger: logger,
		cpu:    c,
		opts:   opts,
	}
}

// SetDisplay sets the sink that renders the framebuffer.
func (r *Runner) SetDisplay(display Display) {
	r.display = display
}

// SetSound sets the sink that emits the tone.
func (r *Runner) SetSound(sound Sound) {
	r.sound = sound
}

// Frames returns the number of completed frames.
func (r *Runner) Frames() int {
	return r.frames
}

// PressKey queues a key-down event. It is safe for concurrent use.
func (r *Runner) PressKey(key uint8) error {
	return r.queueKey(key, true)
}

// ReleaseKey queues a key-up event. It is safe for concurrent use.
func (r *Runner) ReleaseKey(key uint8) error {
	return r.queueKey(key, false)
}

func (r *Runner) queueKey(key uint8, pressed bool) error {
	if key >= machine.KeyCount {
		return fmt.Errorf("%w: %d", machine.ErrInvalidKey, key)
	}

	r.mu.Lock()
	r.events = append(r.events, keyEvent{key: key, pressed: pressed})
	r.mu.Unlock()
	return nil
}

// applyKeyEvents moves all queued key events into the machine state.
func (r *Runner) applyKeyEvents() error {
	r.mu.Lock()
	events := r.events
	r.events = nil
	r.mu.Unlock()

	state := r.cpu.State()
	for _, event := range events {
		if err := state.SetKey(event.key, event.pressed); err != nil {
			return fmt.Errorf("applying key event: %w", err)
		}
	}
	return nil
}

// Frame executes the instructions of one frame and ticks the timers once.
// A machine that awaits a key ends its frame early. The display sink is only
// called if the content of the framebuffer differs from the last rendered one.
func (r *Runner) Frame() error {
	state := r.cpu.State()

	for range r.opts.CyclesPerFrame() {
		if err := r.applyKeyEvents(); err != nil {
			return err
		}
		if err := r.cpu.Step(); err != nil {
			return err
		}
		if _, awaiting := state.Awaiting(); awaiting {
			break
		}
	}

	r.cpu.TickTimers()
	r.frames++

	if state.Redraw && r.display != nil {
		if err := r.render(&state.Display); err != nil {
			return err
		}
		state.Redraw = false
	}

	active := state.SoundActive()
	if active != r.soundOn && r.sound != nil {
		r.sound.SetTone(active)
	}
	r.soundOn = active
	return nil
}

func (r *Runner) render(fb *machine.Framebuffer) error {
	hash := xxhash.Sum64(fb.Bytes())
	if r.rendered && hash == r.displayHash {
		return nil
	}

	if err := r.display.Render(fb); err != nil {
		return fmt.Errorf("rendering display: %w", err)
	}
	r.rendered = true
	r.displayHash = hash
	return nil
}

// frameInterval returns the time between two frames, at least one nanosecond.
func (r *Runner) frameInterval() time.Duration {
	return max(time.Second/time.Duration(r.opts.TimerFrequency), 1)
}

// Run executes frames at the timer frequency until the context is cancelled,
// the frame limit is reached or the CPU halts with an error.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.frameInterval())
	defer ticker.Stop()

	for {
		if r.opts.MaxFrames > 0 && r.frames >= r.opts.MaxFrames {
			return nil
		}

		if err := r.Frame(); err != nil {
			r.logger.Debug("Execution halted",
				log.Hex("pc", r.cpu.State().PC),
				log.Int("frame", r.frames))
			return fmt.Errorf("frame %d: %w", r.frames, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
