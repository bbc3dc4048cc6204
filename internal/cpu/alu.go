package cpu

import (
	"github.com/retroenv/chip8vm/internal/instruction"
	"github.com/retroenv/chip8vm/internal/machine"
)

// Values written to VF by the arithmetic instructions. Add and subtract
// write the flag after the result, so it wins when VF is the target. Shifts
// write the flag first and the shifted value wins instead.
const (
	FlagCarry    byte = 1
	FlagNoCarry  byte = 0
	FlagNoBorrow byte = 1
	FlagBorrow   byte = 0
)

// executeALU executes the register to register arithmetic, logic and
// shift instructions of the 8XYN group.
func (c *CPU) executeALU(ins instruction.Instruction) error {
	r := &c.state.Registers

	switch i := ins.(type) {
	case instruction.BitOr:
		if err := checkRegisters(i.Target, i.Other); err != nil {
			return err
		}
		r[i.Target] |= r[i.Other]

	case instruction.BitAnd:
		if err := checkRegisters(i.Target, i.Other); err != nil {
			return err
		}
		r[i.Target] &= r[i.Other]

	case instruction.BitXor:
		if err := checkRegisters(i.Target, i.Other); err != nil {
			return err
		}
		r[i.Target] ^= r[i.Other]

	case instruction.AddRegister:
		if err := checkRegisters(i.Target, i.Other); err != nil {
			return err
		}
		sum := uint16(r[i.Target]) + uint16(r[i.Other])
		r[i.Target] = byte(sum)
		r[machine.FlagRegister] = carry(sum > 0xFF)

	case instruction.SubtractRegister:
		if err := checkRegisters(i.Target, i.Other); err != nil {
			return err
		}
		minuend, subtrahend := r[i.Target], r[i.Other]
		r[i.Target] = minuend - subtrahend
		r[machine.FlagRegister] = noBorrow(minuend >= subtrahend)

	case instruction.AltSubtractRegister:
		if err := checkRegisters(i.Target, i.Other); err != nil {
			return err
		}
		minuend, subtrahend := r[i.Other], r[i.Target]
		r[i.Target] = minuend - subtrahend
		r[machine.FlagRegister] = noBorrow(minuend >= subtrahend)

	case instruction.ShiftRight:
		if err := checkRegisters(i.Target, i.Source); err != nil {
			return err
		}
		value := r[i.Source]
		r[machine.FlagRegister] = value & 0x01
		r[i.Target] = value >> 1

	case instruction.ShiftLeft:
		if err := checkRegisters(i.Target, i.Source); err != nil {
			return err
		}
		value := r[i.Source]
		r[machine.FlagRegister] = value >> 7
		r[i.Target] = value << 1
	}

	return nil
}

func carry(set bool) byte {
	if set {
		return FlagCarry
	}
	return FlagNoCarry
}

func noBorrow(set bool) byte {
	if set {
		return FlagNoBorrow
	}
	return FlagBorrow
}
