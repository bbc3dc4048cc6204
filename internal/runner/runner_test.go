package runner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/retroenv/chip8vm/internal/cpu"
	"github.com/retroenv/chip8vm/internal/machine"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

type recordingDisplay struct {
	renders int
	lit     int
}

func (d *recordingDisplay) Render(fb *machine.Framebuffer) error {
	d.renders++
	d.lit = fb.Lit()
	return nil
}

type recordingSound struct {
	tones []bool
}

func (s *recordingSound) SetTone(on bool) {
	s.tones = append(s.tones, on)
}

func newTestRunner(t *testing.T, opts options.Machine, program ...byte) *Runner {
	t.Helper()

	state := machine.New()
	assert.NoError(t, state.Load(0, program))
	opts.Seed = 1
	logger := log.NewTestLogger(t)
	return New(logger, cpu.New(logger, state, opts), opts)
}

func TestFrame(t *testing.T) {
	program := make([]byte, 0, 40)
	for range 20 {
		program = append(program, 0x70, 0x01)
	}
	r := newTestRunner(t, options.NewMachine(), program...)
	state := r.cpu.State()
	state.DelayTimer = 5

	assert.NoError(t, r.Frame())
	assert.Equal(t, byte(10), state.Registers[0])
	assert.Equal(t, uint16(20), state.PC)
	assert.Equal(t, byte(4), state.DelayTimer)
	assert.Equal(t, 1, r.Frames())
}

func TestFrameAwaitKeypress(t *testing.T) {
	r := newTestRunner(t, options.NewMachine(), 0xF0, 0x0A, 0x61, 0x01)
	state := r.cpu.State()

	// a key held before the instruction does not complete it
	assert.NoError(t, r.PressKey(7))
	assert.NoError(t, r.Frame())
	_, awaiting := state.Awaiting()
	assert.True(t, awaiting)
	assert.Equal(t, uint64(1), r.cpu.Cycles())

	assert.NoError(t, r.Frame())
	assert.Equal(t, uint16(0), state.PC)

	assert.NoError(t, r.ReleaseKey(7))
	assert.NoError(t, r.PressKey(7))
	assert.NoError(t, r.Frame())
	_, awaiting = state.Awaiting()
	assert.False(t, awaiting)
	assert.Equal(t, byte(7), state.Registers[0])
	assert.Equal(t, byte(1), state.Registers[1])
}

func TestFrameSinks(t *testing.T) {
	r := newTestRunner(t, options.NewMachine(), 0x00, 0xE0)
	display := &recordingDisplay{}
	sound := &recordingSound{}
	r.SetDisplay(display)
	r.SetSound(sound)
	r.cpu.State().SoundTimer = 2

	assert.NoError(t, r.Frame())
	assert.Equal(t, 1, display.renders)
	assert.False(t, r.cpu.State().Redraw)

	assert.NoError(t, r.Frame())
	assert.NoError(t, r.Frame())
	assert.Equal(t, 1, display.renders)
	assert.Equal(t, 2, len(sound.tones))
	assert.True(t, sound.tones[0])
	assert.False(t, sound.tones[1])
}

func TestKeyEvents(t *testing.T) {
	r := newTestRunner(t, options.NewMachine())

	err := r.PressKey(machine.KeyCount)
	assert.True(t, errors.Is(err, machine.ErrInvalidKey))

	var wg sync.WaitGroup
	for key := range uint8(machine.KeyCount) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.PressKey(key))
		}()
	}
	wg.Wait()

	assert.NoError(t, r.Frame())
	for key := range machine.KeyCount {
		assert.True(t, r.cpu.State().Keys[key])
	}
}

func TestRun(t *testing.T) {
	opts := options.NewMachine()
	opts.TimerFrequency = 1000
	opts.ClockSpeed = 1000
	opts.MaxFrames = 3
	r := newTestRunner(t, opts, 0x10, 0x00)

	assert.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 3, r.Frames())
}

func TestRunHighTimerFrequency(t *testing.T) {
	opts := options.NewMachine()
	opts.TimerFrequency = 2_000_000_000
	opts.MaxFrames = 2
	r := newTestRunner(t, opts, 0x10, 0x00)

	assert.Equal(t, time.Duration(1), r.frameInterval())
	assert.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 2, r.Frames())
}

func TestRunFault(t *testing.T) {
	r := newTestRunner(t, options.NewMachine(), 0x00, 0xEE)

	err := r.Run(context.Background())
	assert.True(t, errors.Is(err, machine.ErrStackUnderflow))
	assert.ErrorContains(t, err, "frame 0")
	assert.Equal(t, 0, r.Frames())
}

func TestRunCancelled(t *testing.T) {
	r := newTestRunner(t, options.NewMachine(), 0x10, 0x00)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, r.Frames())
}

func TestFrameSkipsUnchangedDisplay(t *testing.T) {
	opts := options.NewMachine()
	opts.ClockSpeed = opts.TimerFrequency
	r := newTestRunner(t, opts,
		0x00, 0xE0, // cls
		0x00, 0xE0, // cls
		0xD0, 0x05, // drw v0, v0, 5
	)
	display := &recordingDisplay{}
	r.SetDisplay(display)
	r.cpu.State().Index = machine.GlyphAddress(1)

	assert.NoError(t, r.Frame())
	assert.NoError(t, r.Frame())
	assert.Equal(t, 1, display.renders)

	assert.NoError(t, r.Frame())
	assert.Equal(t, 2, display.renders)
	assert.Equal(t, 8, display.lit)
}
