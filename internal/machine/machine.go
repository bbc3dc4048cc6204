// Package machine contains the state of a CHIP-8 virtual machine.
//
// The state only stores data and guards its bounds invariants, all
// instruction semantics live in the cpu package.
//
// # Memory Layout
//
//	0x000-0x1FF: Interpreter area, the font glyphs live at FontAddress
//	0x200-0xFFF: Program space used by most programs
package machine

import (
	"fmt"
)

// Sizes of the fixed storage of the machine.
const (
	MemorySize    = 0x1000
	RegisterCount = 16
	StackSize     = 16
	KeyCount      = 16
)

// FlagRegister is the index of VF, which arithmetic, shift and display
// instructions overwrite with their flag output.
const FlagRegister = 0xF

// ProgramStart is the conventional memory address programs are loaded at.
const ProgramStart = 0x200

// State contains all mutable data of a virtual machine.
type State struct {
	Memory    [MemorySize]byte
	Registers [RegisterCount]byte

	Index uint16 // I, base address for memory instructions
	PC    uint16 // address of the next instruction to fetch

	Stack [StackSize]uint16
	SP    uint8 // number of used stack entries

	DelayTimer byte
	SoundTimer byte

	Keys    [KeyCount]bool
	Display Framebuffer

	// Redraw is set whenever the framebuffer was modified. The host is
	// expected to clear it after rendering.
	Redraw bool

	awaiting    bool
	awaitTarget uint8
	keyDown     bool
	keyDownKey  uint8
}

// New returns a zeroed state with the font glyphs loaded.
func New() *State {
	s := &State{}
	s.loadFont()
	return s
}

// Reset returns the state to the condition of a newly created one.
func (s *State) Reset() {
	*s = State{}
	s.loadFont()
}

func (s *State) loadFont() {
	copy(s.Memory[FontAddress:], font[:])
}

// Load copies a program image into memory at the given origin and points
// the program counter at it.
func (s *State) Load(origin uint16, image []byte) error {
	if int(origin)+len(image) > MemorySize {
		return fmt.Errorf("%w: %d bytes at 0x%03X exceed memory of %d bytes",
			ErrProgramTooLarge, len(image), origin, MemorySize)
	}
	copy(s.Memory[origin:], image)
	s.PC = origin
	return nil
}

// Fetch returns the big-endian instruction word at the program counter.
// It does not modify the program counter.
func (s *State) Fetch() (uint16, error) {
	if int(s.PC)+1 >= MemorySize {
		return 0, fmt.Errorf("%w: pc 0x%04X", ErrFetchOutOfBounds, s.PC)
	}
	return uint16(s.Memory[s.PC])<<8 | uint16(s.Memory[s.PC+1]), nil
}

// ReadMemory returns a slice of n bytes of memory starting at address.
// The slice aliases the memory of the state.
func (s *State) ReadMemory(address uint16, n int) ([]byte, error) {
	if err := checkRange(address, n); err != nil {
		return nil, err
	}
	return s.Memory[int(address) : int(address)+n], nil
}

// WriteMemory copies data into memory starting at address.
func (s *State) WriteMemory(address uint16, data []byte) error {
	if err := checkRange(address, len(data)); err != nil {
		return err
	}
	copy(s.Memory[address:], data)
	return nil
}

func checkRange(address uint16, n int) error {
	if n < 0 || int(address)+n > MemorySize {
		return fmt.Errorf("%w: %d bytes at 0x%04X", ErrMemoryOutOfBounds, n, address)
	}
	return nil
}

// Push puts a return address on the stack.
func (s *State) Push(address uint16) error {
	if s.SP >= StackSize {
		return fmt.Errorf("%w: depth %d", ErrStackOverflow, s.SP)
	}
	s.Stack[s.SP] = address
	s.SP++
	return nil
}

// Pop removes the topmost return address from the stack and returns it.
func (s *State) Pop() (uint16, error) {
	if s.SP == 0 {
		return 0, ErrStackUnderflow
	}
	s.SP--
	return s.Stack[s.SP], nil
}

// TickTimers decrements the delay and sound timers, stopping at zero.
func (s *State) TickTimers() {
	if s.DelayTimer > 0 {
		s.DelayTimer--
	}
	if s.SoundTimer > 0 {
		s.SoundTimer--
	}
}

// SoundActive returns whether the host should currently emit a tone.
func (s *State) SoundActive() bool {
	return s.SoundTimer > 0
}

// SetKey updates the pressed state of a key. A key-down transition that
// happens while the machine awaits a key is recorded for the pending
// instruction.
func (s *State) SetKey(key uint8, pressed bool) error {
	if key >= KeyCount {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	if pressed && !s.Keys[key] && s.awaiting && !s.keyDown {
		s.keyDown = true
		s.keyDownKey = key
	}
	s.Keys[key] = pressed
	return nil
}

// KeyPressed returns whether the key is currently held down.
func (s *State) KeyPressed(key uint8) (bool, error) {
	if key >= KeyCount {
		return false, fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	return s.Keys[key], nil
}

// Await puts the machine into the awaiting key condition, the key that
// completes it will be stored in the target register.
// Key-down events that happened earlier are discarded.
func (s *State) Await(target uint8) {
	s.awaiting = true
	s.awaitTarget = target
	s.keyDown = false
}

// Awaiting returns the target register and true if the machine waits for a key.
func (s *State) Awaiting() (uint8, bool) {
	return s.awaitTarget, s.awaiting
}

// TakeKeyDown returns the key whose key-down event completes the pending
// wait, if any, and leaves the awaiting condition.
func (s *State) TakeKeyDown() (uint8, bool) {
	if !s.awaiting || !s.keyDown {
		return 0, false
	}
	s.awaiting = false
	s.keyDown = false
	return s.keyDownKey, true
}
