package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/chip8vm/internal/machine"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestLoad(t *testing.T) {
	t.Run("load program at default origin", func(t *testing.T) {
		tmpFile := createTempFile(t, []byte{0x12, 0x34, 0x56, 0x78})

		state := machine.New()
		err := New(log.NewTestLogger(t)).Load(tmpFile, state, machine.ProgramStart)
		assert.NoError(t, err)
		assert.Equal(t, uint16(machine.ProgramStart), state.PC)
		assert.True(t, bytes.Equal([]byte{0x12, 0x34, 0x56, 0x78}, state.Memory[0x200:0x204]))
		for _, b := range state.Memory[0x204:] {
			assert.Equal(t, byte(0), b)
		}
	})

	t.Run("load program filling the memory", func(t *testing.T) {
		data := make([]byte, machine.MemorySize-machine.ProgramStart)
		data[0] = 0x12
		data[len(data)-1] = 0xEE
		tmpFile := createTempFile(t, data)

		state := machine.New()
		err := New(log.NewTestLogger(t)).Load(tmpFile, state, machine.ProgramStart)
		assert.NoError(t, err)
		assert.Equal(t, byte(0x12), state.Memory[machine.ProgramStart])
		assert.Equal(t, byte(0xEE), state.Memory[machine.MemorySize-1])
	})

	t.Run("load program at custom origin", func(t *testing.T) {
		tmpFile := createTempFile(t, []byte{0x00, 0xE0})

		state := machine.New()
		err := New(log.NewTestLogger(t)).Load(tmpFile, state, 0x600)
		assert.NoError(t, err)
		assert.Equal(t, uint16(0x600), state.PC)
		assert.Equal(t, byte(0xE0), state.Memory[0x601])
	})

	t.Run("program too large", func(t *testing.T) {
		tmpFile := createTempFile(t, make([]byte, machine.MemorySize-machine.ProgramStart+1))

		state := machine.New()
		err := New(log.NewTestLogger(t)).Load(tmpFile, state, machine.ProgramStart)
		assert.True(t, errors.Is(err, machine.ErrProgramTooLarge))
	})

	t.Run("missing file", func(t *testing.T) {
		state := machine.New()
		err := New(log.NewTestLogger(t)).Load(filepath.Join(t.TempDir(), "missing.ch8"), state, machine.ProgramStart)
		assert.ErrorContains(t, err, "opening file")
	})
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()

	fileName := filepath.Join(t.TempDir(), "test.ch8")
	assert.NoError(t, os.WriteFile(fileName, data, 0o600))
	return fileName
}
