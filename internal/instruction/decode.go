package instruction

// opcode describes the bit pattern of an instruction. A word matches the
// opcode if word&mask == value.
type opcode struct {
	mask   uint16
	value  uint16
	decode func(word uint16) Instruction
}

// opcodes contains all known opcodes grouped by the high nibble of the word.
// The legacy 0NNN machine code call is not part of the table.
var opcodes = [16][]opcode{
	0x0: {
		{0xFFFF, 0x00E0, func(uint16) Instruction { return ClearDisplay{} }},
		{0xFFFF, 0x00EE, func(uint16) Instruction { return Return{} }},
	},
	0x1: {
		{0xF000, 0x1000, func(w uint16) Instruction { return Jump{Address: nnn(w)} }},
	},
	0x2: {
		{0xF000, 0x2000, func(w uint16) Instruction { return Call{Address: nnn(w)} }},
	},
	0x3: {
		{0xF000, 0x3000, func(w uint16) Instruction { return SkipIfEqual{Register: x(w), Value: nn(w)} }},
	},
	0x4: {
		{0xF000, 0x4000, func(w uint16) Instruction { return SkipIfNotEqual{Register: x(w), Value: nn(w)} }},
	},
	0x5: {
		{0xF00F, 0x5000, func(w uint16) Instruction { return SkipIfRegistersEqual{X: x(w), Y: y(w)} }},
	},
	0x6: {
		{0xF000, 0x6000, func(w uint16) Instruction { return SetRegister{Register: x(w), Value: nn(w)} }},
	},
	0x7: {
		{0xF000, 0x7000, func(w uint16) Instruction { return AddConstant{Register: x(w), Value: nn(w)} }},
	},
	0x8: {
		{0xF00F, 0x8000, func(w uint16) Instruction { return CopyRegister{Target: x(w), Source: y(w)} }},
		{0xF00F, 0x8001, func(w uint16) Instruction { return BitOr{Target: x(w), Other: y(w)} }},
		{0xF00F, 0x8002, func(w uint16) Instruction { return BitAnd{Target: x(w), Other: y(w)} }},
		{0xF00F, 0x8003, func(w uint16) Instruction { return BitXor{Target: x(w), Other: y(w)} }},
		{0xF00F, 0x8004, func(w uint16) Instruction { return AddRegister{Target: x(w), Other: y(w)} }},
		{0xF00F, 0x8005, func(w uint16) Instruction { return SubtractRegister{Target: x(w), Other: y(w)} }},
		{0xF00F, 0x8006, func(w uint16) Instruction { return ShiftRight{Target: x(w), Source: y(w)} }},
		{0xF00F, 0x8007, func(w uint16) Instruction { return AltSubtractRegister{Target: x(w), Other: y(w)} }},
		{0xF00F, 0x8008, func(w uint16) Instruction { return ShiftLeft{Target: x(w), Source: y(w)} }},
	},
	0x9: {
		{0xF00F, 0x9000, func(w uint16) Instruction { return SkipIfRegistersNotEqual{X: x(w), Y: y(w)} }},
	},
	0xA: {
		{0xF000, 0xA000, func(w uint16) Instruction { return SetIndex{Address: nnn(w)} }},
	},
	0xB: {
		{0xF000, 0xB000, func(w uint16) Instruction { return OffsetJump{Address: nnn(w)} }},
	},
	0xC: {
		{0xF000, 0xC000, func(w uint16) Instruction { return Rand{Register: x(w), Mask: nn(w)} }},
	},
	0xD: {
		{0xF000, 0xD000, func(w uint16) Instruction { return Display{X: x(w), Y: y(w), Height: n(w)} }},
	},
	0xE: {
		{0xF0FF, 0xE09E, func(w uint16) Instruction { return SkipIfKeyPressed{Register: x(w)} }},
		{0xF0FF, 0xE0A1, func(w uint16) Instruction { return SkipIfKeyNotPressed{Register: x(w)} }},
	},
	0xF: {
		{0xF0FF, 0xF007, func(w uint16) Instruction { return GetDelayTimer{Register: x(w)} }},
		{0xF0FF, 0xF00A, func(w uint16) Instruction { return AwaitKeypress{Register: x(w)} }},
		{0xF0FF, 0xF015, func(w uint16) Instruction { return SetDelayTimer{Register: x(w)} }},
		{0xF0FF, 0xF018, func(w uint16) Instruction { return SetSoundTimer{Register: x(w)} }},
		{0xF0FF, 0xF01E, func(w uint16) Instruction { return IncrementIndex{Register: x(w)} }},
		{0xF0FF, 0xF029, func(w uint16) Instruction { return SetIndexToFont{Register: x(w)} }},
		{0xF0FF, 0xF033, func(w uint16) Instruction { return StoreDecimal{Register: x(w)} }},
		{0xF0FF, 0xF055, func(w uint16) Instruction { return MemDump{MaxRegister: x(w)} }},
		{0xF0FF, 0xF065, func(w uint16) Instruction { return MemLoad{MaxRegister: x(w)} }},
	},
}

// Decode returns the instruction encoded by the word. It returns false if
// the word does not match any known opcode.
func Decode(word uint16) (Instruction, bool) {
	for _, op := range opcodes[word>>12] {
		if word&op.mask == op.value {
			return op.decode(word), true
		}
	}
	return nil, false
}

// x extracts the X register nibble from a word.
func x(word uint16) Register {
	return Register((word & 0x0F00) >> 8)
}

// y extracts the Y register nibble from a word.
func y(word uint16) Register {
	return Register((word & 0x00F0) >> 4)
}

func n(word uint16) uint8 {
	return uint8(word & 0x000F)
}

func nn(word uint16) byte {
	return byte(word & 0x00FF)
}

func nnn(word uint16) Address {
	return Address(word & 0x0FFF)
}
