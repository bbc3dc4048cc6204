package machine

import (
	"bytes"
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestNew(t *testing.T) {
	s := New()

	assert.Equal(t, uint16(0), s.PC)
	assert.Equal(t, uint16(0), s.Index)
	assert.Equal(t, uint8(0), s.SP)
	assert.Equal(t, 0, s.Display.Lit())

	glyph, err := s.ReadMemory(FontAddress, len(font))
	assert.NoError(t, err)
	assert.True(t, bytes.Equal(font[:], glyph))
}

func TestReset(t *testing.T) {
	s := New()
	s.Registers[3] = 0x42
	s.PC = 0x300
	s.Memory[FontAddress] = 0
	s.Display.Flip(1, 1)
	s.Await(2)

	s.Reset()

	assert.Equal(t, byte(0), s.Registers[3])
	assert.Equal(t, uint16(0), s.PC)
	assert.Equal(t, byte(0xF0), s.Memory[FontAddress])
	assert.Equal(t, 0, s.Display.Lit())
	_, awaiting := s.Awaiting()
	assert.False(t, awaiting)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		origin uint16
		size   int
		err    bool
	}{
		{"program start", ProgramStart, 16, false},
		{"fills memory", ProgramStart, MemorySize - ProgramStart, false},
		{"too large", ProgramStart, MemorySize - ProgramStart + 1, true},
		{"origin zero", 0, MemorySize, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			image := make([]byte, tt.size)
			for i := range image {
				image[i] = byte(i)
			}

			err := s.Load(tt.origin, image)
			if tt.err {
				assert.True(t, errors.Is(err, ErrProgramTooLarge))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.origin, s.PC)
			assert.Equal(t, image[len(image)-1], s.Memory[int(tt.origin)+tt.size-1])
		})
	}
}

func TestFetch(t *testing.T) {
	s := New()
	s.Memory[0x200] = 0x3A
	s.Memory[0x201] = 0x32
	s.PC = 0x200

	word, err := s.Fetch()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x3A32), word)
	assert.Equal(t, uint16(0x200), s.PC)

	s.PC = MemorySize - 2
	_, err = s.Fetch()
	assert.NoError(t, err)

	s.PC = MemorySize - 1
	_, err = s.Fetch()
	assert.True(t, errors.Is(err, ErrFetchOutOfBounds))

	s.PC = 0xFFFF
	_, err = s.Fetch()
	assert.True(t, errors.Is(err, ErrFetchOutOfBounds))
}

func TestMemoryBounds(t *testing.T) {
	s := New()

	assert.NoError(t, s.WriteMemory(MemorySize-3, []byte{1, 2, 3}))
	data, err := s.ReadMemory(MemorySize-3, 3)
	assert.NoError(t, err)
	assert.True(t, bytes.Equal([]byte{1, 2, 3}, data))

	err = s.WriteMemory(MemorySize-2, []byte{1, 2, 3})
	assert.True(t, errors.Is(err, ErrMemoryOutOfBounds))

	_, err = s.ReadMemory(MemorySize-1, 2)
	assert.True(t, errors.Is(err, ErrMemoryOutOfBounds))
}

func TestStack(t *testing.T) {
	s := New()

	_, err := s.Pop()
	assert.True(t, errors.Is(err, ErrStackUnderflow))

	for i := range StackSize {
		assert.NoError(t, s.Push(uint16(0x200+2*i)))
	}
	assert.Equal(t, uint8(StackSize), s.SP)

	err = s.Push(0x400)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, uint8(StackSize), s.SP)

	address, err := s.Pop()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x200+2*(StackSize-1)), address)
	assert.Equal(t, uint8(StackSize-1), s.SP)
}

func TestTickTimers(t *testing.T) {
	s := New()
	s.DelayTimer = 30
	s.SoundTimer = 1

	s.TickTimers()
	assert.Equal(t, byte(29), s.DelayTimer)
	assert.Equal(t, byte(0), s.SoundTimer)
	assert.False(t, s.SoundActive())

	// timers never underflow
	s.TickTimers()
	assert.Equal(t, byte(0), s.SoundTimer)
}

func TestSetKey(t *testing.T) {
	s := New()

	assert.NoError(t, s.SetKey(0xF, true))
	assert.True(t, s.Keys[0xF])
	assert.NoError(t, s.SetKey(0xF, false))
	assert.False(t, s.Keys[0xF])

	err := s.SetKey(KeyCount, true)
	assert.True(t, errors.Is(err, ErrInvalidKey))

	assert.NoError(t, s.SetKey(3, true))
	pressed, err := s.KeyPressed(3)
	assert.NoError(t, err)
	assert.True(t, pressed)

	_, err = s.KeyPressed(0x20)
	assert.True(t, errors.Is(err, ErrInvalidKey))
}

func TestAwaitKeyDown(t *testing.T) {
	s := New()

	// a key-down before the wait starts does not count
	assert.NoError(t, s.SetKey(1, true))
	s.Await(5)
	_, ok := s.TakeKeyDown()
	assert.False(t, ok)

	// a held key does not produce a new key-down
	assert.NoError(t, s.SetKey(1, true))
	_, ok = s.TakeKeyDown()
	assert.False(t, ok)

	assert.NoError(t, s.SetKey(7, true))
	assert.NoError(t, s.SetKey(8, true))
	key, ok := s.TakeKeyDown()
	assert.True(t, ok)
	assert.Equal(t, uint8(7), key)

	_, awaiting := s.Awaiting()
	assert.False(t, awaiting)
	_, ok = s.TakeKeyDown()
	assert.False(t, ok)
}

func TestGlyphAddress(t *testing.T) {
	assert.Equal(t, uint16(FontAddress), GlyphAddress(0))
	assert.Equal(t, uint16(FontAddress+0xA*FontGlyphSize), GlyphAddress(0xA))
	assert.Equal(t, uint16(FontAddress+0xA*FontGlyphSize), GlyphAddress(0xFA))
}

func TestFramebuffer(t *testing.T) {
	var f Framebuffer

	assert.False(t, f.Flip(0, 0))
	assert.True(t, f.Pixel(0, 0))
	assert.True(t, f.Flip(DisplayWidth, DisplayHeight))
	assert.False(t, f.Pixel(0, 0))

	f.Flip(-1, -1)
	assert.True(t, f[DisplayHeight-1][DisplayWidth-1])
	assert.Equal(t, 1, f.Lit())

	f.Clear()
	assert.Equal(t, 0, f.Lit())
}

func TestFramebufferBytes(t *testing.T) {
	var f Framebuffer
	f.Flip(0, 0)
	f.Flip(9, 0)
	f.Flip(63, 31)

	data := f.Bytes()
	assert.Len(t, data, 256)
	assert.Equal(t, byte(0x80), data[0])
	assert.Equal(t, byte(0x40), data[1])
	assert.Equal(t, byte(0x01), data[255])
}
