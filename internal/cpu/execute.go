package cpu

import (
	"fmt"

	"github.com/retroenv/chip8vm/internal/instruction"
	"github.com/retroenv/chip8vm/internal/machine"
)

// Execute applies the semantics of a single decoded instruction to the
// machine state. The program counter is expected to already point past the
// instruction.
func (c *CPU) Execute(ins instruction.Instruction) error {
	s := c.state

	switch i := ins.(type) {
	case instruction.ClearDisplay:
		s.Display.Clear()
		s.Redraw = true

	case instruction.Return:
		address, err := s.Pop()
		if err != nil {
			return err
		}
		s.PC = address

	case instruction.Jump:
		s.PC = uint16(i.Address)

	case instruction.Call:
		if err := s.Push(s.PC); err != nil {
			return err
		}
		s.PC = uint16(i.Address)

	case instruction.OffsetJump:
		s.PC = uint16(i.Address) + uint16(s.Registers[0])

	case instruction.SkipIfEqual:
		if err := checkRegisters(i.Register); err != nil {
			return err
		}
		c.skipIf(s.Registers[i.Register] == i.Value)

	case instruction.SkipIfNotEqual:
		if err := checkRegisters(i.Register); err != nil {
			return err
		}
		c.skipIf(s.Registers[i.Register] != i.Value)

	case instruction.SkipIfRegistersEqual:
		if err := checkRegisters(i.X, i.Y); err != nil {
			return err
		}
		c.skipIf(s.Registers[i.X] == s.Registers[i.Y])

	case instruction.SkipIfRegistersNotEqual:
		if err := checkRegisters(i.X, i.Y); err != nil {
			return err
		}
		c.skipIf(s.Registers[i.X] != s.Registers[i.Y])

	case instruction.SkipIfKeyPressed:
		pressed, err := c.keyPressed(i.Register)
		if err != nil {
			return err
		}
		c.skipIf(pressed)

	case instruction.SkipIfKeyNotPressed:
		pressed, err := c.keyPressed(i.Register)
		if err != nil {
			return err
		}
		c.skipIf(!pressed)

	case instruction.SetRegister:
		if err := checkRegisters(i.Register); err != nil {
			return err
		}
		s.Registers[i.Register] = i.Value

	case instruction.AddConstant:
		if err := checkRegisters(i.Register); err != nil {
			return err
		}
		s.Registers[i.Register] += i.Value

	case instruction.CopyRegister:
		if err := checkRegisters(i.Target, i.Source); err != nil {
			return err
		}
		s.Registers[i.Target] = s.Registers[i.Source]

	case instruction.BitOr, instruction.BitAnd, instruction.BitXor,
		instruction.AddRegister, instruction.SubtractRegister, instruction.AltSubtractRegister,
		instruction.ShiftRight, instruction.ShiftLeft:
		return c.executeALU(ins)

	case instruction.SetIndex:
		s.Index = uint16(i.Address)

	case instruction.Rand:
		if err := checkRegisters(i.Register); err != nil {
			return err
		}
		s.Registers[i.Register] = byte(c.random.Uint32()) & i.Mask

	case instruction.Display:
		return c.draw(i)

	case instruction.GetDelayTimer:
		if err := checkRegisters(i.Register); err != nil {
			return err
		}
		s.Registers[i.Register] = s.DelayTimer

	case instruction.SetDelayTimer:
		if err := checkRegisters(i.Register); err != nil {
			return err
		}
		s.DelayTimer = s.Registers[i.Register]

	case instruction.SetSoundTimer:
		if err := checkRegisters(i.Register); err != nil {
			return err
		}
		s.SoundTimer = s.Registers[i.Register]

	case instruction.AwaitKeypress:
		if err := checkRegisters(i.Register); err != nil {
			return err
		}
		// the instruction completes once a key-down arrives, until then the
		// program counter stays on it
		s.PC -= 2
		s.Await(uint8(i.Register))

	case instruction.IncrementIndex:
		if err := checkRegisters(i.Register); err != nil {
			return err
		}
		s.Index += uint16(s.Registers[i.Register])

	case instruction.SetIndexToFont:
		if err := checkRegisters(i.Register); err != nil {
			return err
		}
		s.Index = machine.GlyphAddress(s.Registers[i.Register])

	case instruction.StoreDecimal:
		if err := checkRegisters(i.Register); err != nil {
			return err
		}
		value := s.Registers[i.Register]
		return s.WriteMemory(s.Index, []byte{value / 100, value / 10 % 10, value % 10})

	case instruction.MemDump:
		if err := checkRegisters(i.MaxRegister); err != nil {
			return err
		}
		return s.WriteMemory(s.Index, s.Registers[:i.MaxRegister+1])

	case instruction.MemLoad:
		if err := checkRegisters(i.MaxRegister); err != nil {
			return err
		}
		data, err := s.ReadMemory(s.Index, int(i.MaxRegister)+1)
		if err != nil {
			return err
		}
		copy(s.Registers[:], data)

	default:
		return fmt.Errorf("%w: unsupported instruction type %T", ErrUnknownOpcode, ins)
	}

	return nil
}

// skipIf skips the next instruction if the condition is true.
func (c *CPU) skipIf(condition bool) {
	if condition {
		c.state.PC += 2
	}
}

// keyPressed returns the pressed state of the key whose index is stored in
// the register.
func (c *CPU) keyPressed(register instruction.Register) (bool, error) {
	if err := checkRegisters(register); err != nil {
		return false, err
	}
	return c.state.KeyPressed(c.state.Registers[register])
}

// draw XORs a sprite of the given height read from the index register
// address onto the framebuffer. The start coordinates wrap around the
// display, as do the sprite pixels.
func (c *CPU) draw(i instruction.Display) error {
	if err := checkRegisters(i.X, i.Y); err != nil {
		return err
	}

	s := c.state
	sprite, err := s.ReadMemory(s.Index, int(i.Height))
	if err != nil {
		return err
	}

	x := int(s.Registers[i.X]) % machine.DisplayWidth
	y := int(s.Registers[i.Y]) % machine.DisplayHeight

	var collision byte
	for row, data := range sprite {
		for bit := range 8 {
			if data&(0x80>>bit) == 0 {
				continue
			}
			if s.Display.Flip(x+bit, y+row) {
				collision = 1
			}
		}
	}

	s.Registers[machine.FlagRegister] = collision
	s.Redraw = true
	return nil
}

// checkRegisters returns an error if any register index exceeds the
// register file.
func checkRegisters(registers ...instruction.Register) error {
	for _, register := range registers {
		if register >= machine.RegisterCount {
			return fmt.Errorf("%w: %s", ErrOperandOutOfRange, register)
		}
	}
	return nil
}
