// Package instruction contains the decoded representation of CHIP-8 opcodes.
//
// Every opcode of the instruction set maps to its own type that only carries
// the operands relevant for it. The set of types is closed, only this package
// can implement the Instruction interface.
package instruction

import "fmt"

// Instruction represents a decoded CHIP-8 instruction.
type Instruction interface {
	// Name returns the instruction name.
	Name() string
	// Opcode returns the 16-bit word that encodes the instruction.
	Opcode() uint16

	instruction()
}

// Register is the index of a general purpose register V0-VF.
type Register uint8

func (r Register) String() string {
	return fmt.Sprintf("V%X", uint8(r))
}

// Address is a 12-bit memory address.
type Address uint16

// ClearDisplay clears the framebuffer. 00E0
type ClearDisplay struct{}

// Return returns from a subroutine. 00EE
type Return struct{}

// Jump sets the program counter to the address. 1NNN
type Jump struct {
	Address Address
}

// Call calls the subroutine at the address. 2NNN
type Call struct {
	Address Address
}

// SkipIfEqual skips the next instruction if VX equals the value. 3XNN
type SkipIfEqual struct {
	Register Register
	Value    byte
}

// SkipIfNotEqual skips the next instruction if VX does not equal the value. 4XNN
type SkipIfNotEqual struct {
	Register Register
	Value    byte
}

// SkipIfRegistersEqual skips the next instruction if VX equals VY. 5XY0
type SkipIfRegistersEqual struct {
	X Register
	Y Register
}

// SetRegister sets VX to the value. 6XNN
type SetRegister struct {
	Register Register
	Value    byte
}

// AddConstant adds the value to VX without affecting the flag register. 7XNN
type AddConstant struct {
	Register Register
	Value    byte
}

// CopyRegister sets VX to VY. 8XY0
type CopyRegister struct {
	Target Register
	Source Register
}

// BitOr sets VX to VX | VY. 8XY1
type BitOr struct {
	Target Register
	Other  Register
}

// BitAnd sets VX to VX & VY. 8XY2
type BitAnd struct {
	Target Register
	Other  Register
}

// BitXor sets VX to VX ^ VY. 8XY3
type BitXor struct {
	Target Register
	Other  Register
}

// AddRegister adds VY to VX, VF is set on carry. 8XY4
type AddRegister struct {
	Target Register
	Other  Register
}

// SubtractRegister sets VX to VX - VY, VF is set if no borrow occurred. 8XY5
type SubtractRegister struct {
	Target Register
	Other  Register
}

// ShiftRight sets VX to VY >> 1, VF receives the bit shifted out. 8XY6
type ShiftRight struct {
	Target Register
	Source Register
}

// AltSubtractRegister sets VX to VY - VX, VF is set if no borrow occurred. 8XY7
type AltSubtractRegister struct {
	Target Register
	Other  Register
}

// ShiftLeft sets VX to VY << 1, VF receives the bit shifted out. 8XY8
type ShiftLeft struct {
	Target Register
	Source Register
}

// SkipIfRegistersNotEqual skips the next instruction if VX does not equal VY. 9XY0
type SkipIfRegistersNotEqual struct {
	X Register
	Y Register
}

// SetIndex sets the index register to the address. ANNN
type SetIndex struct {
	Address Address
}

// OffsetJump jumps to the address plus V0. BNNN
type OffsetJump struct {
	Address Address
}

// Rand sets VX to a random byte masked with the value. CXNN
type Rand struct {
	Register Register
	Mask     byte
}

// Display draws a sprite of the given height at VX, VY. DXYN
type Display struct {
	X      Register
	Y      Register
	Height uint8
}

// SkipIfKeyPressed skips the next instruction if the key in VX is down. EX9E
type SkipIfKeyPressed struct {
	Register Register
}

// SkipIfKeyNotPressed skips the next instruction if the key in VX is up. EXA1
type SkipIfKeyNotPressed struct {
	Register Register
}

// GetDelayTimer sets VX to the delay timer. FX07
type GetDelayTimer struct {
	Register Register
}

// AwaitKeypress waits for a key-down event and stores the key in VX. FX0A
type AwaitKeypress struct {
	Register Register
}

// SetDelayTimer sets the delay timer to VX. FX15
type SetDelayTimer struct {
	Register Register
}

// SetSoundTimer sets the sound timer to VX. FX18
type SetSoundTimer struct {
	Register Register
}

// IncrementIndex adds VX to the index register. FX1E
type IncrementIndex struct {
	Register Register
}

// SetIndexToFont points the index register to the glyph of the low nibble of VX. FX29
type SetIndexToFont struct {
	Register Register
}

// StoreDecimal stores the decimal digits of VX at I, I+1 and I+2. FX33
type StoreDecimal struct {
	Register Register
}

// MemDump stores V0 to VX inclusive in memory starting at I. FX55
type MemDump struct {
	MaxRegister Register
}

// MemLoad loads V0 to VX inclusive from memory starting at I. FX65
type MemLoad struct {
	MaxRegister Register
}

func (ClearDisplay) Name() string            { return "ClearDisplay" }
func (Return) Name() string                  { return "Return" }
func (Jump) Name() string                    { return "Jump" }
func (Call) Name() string                    { return "Call" }
func (SkipIfEqual) Name() string             { return "SkipIfEqual" }
func (SkipIfNotEqual) Name() string          { return "SkipIfNotEqual" }
func (SkipIfRegistersEqual) Name() string    { return "SkipIfRegistersEqual" }
func (SetRegister) Name() string             { return "SetRegister" }
func (AddConstant) Name() string             { return "AddConstant" }
func (CopyRegister) Name() string            { return "CopyRegister" }
func (BitOr) Name() string                   { return "BitOr" }
func (BitAnd) Name() string                  { return "BitAnd" }
func (BitXor) Name() string                  { return "BitXor" }
func (AddRegister) Name() string             { return "AddRegister" }
func (SubtractRegister) Name() string        { return "SubtractRegister" }
func (ShiftRight) Name() string              { return "ShiftRight" }
func (AltSubtractRegister) Name() string     { return "AltSubtractRegister" }
func (ShiftLeft) Name() string               { return "ShiftLeft" }
func (SkipIfRegistersNotEqual) Name() string { return "SkipIfRegistersNotEqual" }
func (SetIndex) Name() string                { return "SetIndex" }
func (OffsetJump) Name() string              { return "OffsetJump" }
func (Rand) Name() string                    { return "Rand" }
func (Display) Name() string                 { return "Display" }
func (SkipIfKeyPressed) Name() string        { return "SkipIfKeyPressed" }
func (SkipIfKeyNotPressed) Name() string     { return "SkipIfKeyNotPressed" }
func (GetDelayTimer) Name() string           { return "GetDelayTimer" }
func (AwaitKeypress) Name() string           { return "AwaitKeypress" }
func (SetDelayTimer) Name() string           { return "SetDelayTimer" }
func (SetSoundTimer) Name() string           { return "SetSoundTimer" }
func (IncrementIndex) Name() string          { return "IncrementIndex" }
func (SetIndexToFont) Name() string          { return "SetIndexToFont" }
func (StoreDecimal) Name() string            { return "StoreDecimal" }
func (MemDump) Name() string                 { return "MemDump" }
func (MemLoad) Name() string                 { return "MemLoad" }

func (ClearDisplay) Opcode() uint16 { return 0x00E0 }
func (Return) Opcode() uint16       { return 0x00EE }
func (i Jump) Opcode() uint16       { return encodeAddress(0x1000, i.Address) }
func (i Call) Opcode() uint16       { return encodeAddress(0x2000, i.Address) }
func (i SkipIfEqual) Opcode() uint16 {
	return encodeValue(0x3000, i.Register, i.Value)
}
func (i SkipIfNotEqual) Opcode() uint16 {
	return encodeValue(0x4000, i.Register, i.Value)
}
func (i SkipIfRegistersEqual) Opcode() uint16 {
	return encodeRegisters(0x5000, i.X, i.Y)
}
func (i SetRegister) Opcode() uint16 { return encodeValue(0x6000, i.Register, i.Value) }
func (i AddConstant) Opcode() uint16 { return encodeValue(0x7000, i.Register, i.Value) }
func (i CopyRegister) Opcode() uint16 {
	return encodeRegisters(0x8000, i.Target, i.Source)
}
func (i BitOr) Opcode() uint16       { return encodeRegisters(0x8001, i.Target, i.Other) }
func (i BitAnd) Opcode() uint16      { return encodeRegisters(0x8002, i.Target, i.Other) }
func (i BitXor) Opcode() uint16      { return encodeRegisters(0x8003, i.Target, i.Other) }
func (i AddRegister) Opcode() uint16 { return encodeRegisters(0x8004, i.Target, i.Other) }
func (i SubtractRegister) Opcode() uint16 {
	return encodeRegisters(0x8005, i.Target, i.Other)
}
func (i ShiftRight) Opcode() uint16 { return encodeRegisters(0x8006, i.Target, i.Source) }
func (i AltSubtractRegister) Opcode() uint16 {
	return encodeRegisters(0x8007, i.Target, i.Other)
}
func (i ShiftLeft) Opcode() uint16 { return encodeRegisters(0x8008, i.Target, i.Source) }
func (i SkipIfRegistersNotEqual) Opcode() uint16 {
	return encodeRegisters(0x9000, i.X, i.Y)
}
func (i SetIndex) Opcode() uint16   { return encodeAddress(0xA000, i.Address) }
func (i OffsetJump) Opcode() uint16 { return encodeAddress(0xB000, i.Address) }
func (i Rand) Opcode() uint16       { return encodeValue(0xC000, i.Register, i.Mask) }
func (i Display) Opcode() uint16 {
	return encodeRegisters(0xD000, i.X, i.Y) | uint16(i.Height&0x0F)
}
func (i SkipIfKeyPressed) Opcode() uint16    { return encodeRegister(0xE09E, i.Register) }
func (i SkipIfKeyNotPressed) Opcode() uint16 { return encodeRegister(0xE0A1, i.Register) }
func (i GetDelayTimer) Opcode() uint16       { return encodeRegister(0xF007, i.Register) }
func (i AwaitKeypress) Opcode() uint16       { return encodeRegister(0xF00A, i.Register) }
func (i SetDelayTimer) Opcode() uint16       { return encodeRegister(0xF015, i.Register) }
func (i SetSoundTimer) Opcode() uint16       { return encodeRegister(0xF018, i.Register) }
func (i IncrementIndex) Opcode() uint16      { return encodeRegister(0xF01E, i.Register) }
func (i SetIndexToFont) Opcode() uint16      { return encodeRegister(0xF029, i.Register) }
func (i StoreDecimal) Opcode() uint16        { return encodeRegister(0xF033, i.Register) }
func (i MemDump) Opcode() uint16             { return encodeRegister(0xF055, i.MaxRegister) }
func (i MemLoad) Opcode() uint16             { return encodeRegister(0xF065, i.MaxRegister) }

func (ClearDisplay) instruction()            {}
func (Return) instruction()                  {}
func (Jump) instruction()                    {}
func (Call) instruction()                    {}
func (SkipIfEqual) instruction()             {}
func (SkipIfNotEqual) instruction()          {}
func (SkipIfRegistersEqual) instruction()    {}
func (SetRegister) instruction()             {}
func (AddConstant) instruction()             {}
func (CopyRegister) instruction()            {}
func (BitOr) instruction()                   {}
func (BitAnd) instruction()                  {}
func (BitXor) instruction()                  {}
func (AddRegister) instruction()             {}
func (SubtractRegister) instruction()        {}
func (ShiftRight) instruction()              {}
func (AltSubtractRegister) instruction()     {}
func (ShiftLeft) instruction()               {}
func (SkipIfRegistersNotEqual) instruction() {}
func (SetIndex) instruction()                {}
func (OffsetJump) instruction()              {}
func (Rand) instruction()                    {}
func (Display) instruction()                 {}
func (SkipIfKeyPressed) instruction()        {}
func (SkipIfKeyNotPressed) instruction()     {}
func (GetDelayTimer) instruction()           {}
func (AwaitKeypress) instruction()           {}
func (SetDelayTimer) instruction()           {}
func (SetSoundTimer) instruction()           {}
func (IncrementIndex) instruction()          {}
func (SetIndexToFont) instruction()          {}
func (StoreDecimal) instruction()            {}
func (MemDump) instruction()                 {}
func (MemLoad) instruction()                 {}

func encodeAddress(base uint16, address Address) uint16 {
	return base | uint16(address)&0x0FFF
}

func encodeRegister(base uint16, x Register) uint16 {
	return base | uint16(x&0x0F)<<8
}

func encodeValue(base uint16, x Register, value byte) uint16 {
	return encodeRegister(base, x) | uint16(value)
}

func encodeRegisters(base uint16, x, y Register) uint16 {
	return encodeRegister(base, x) | uint16(y&0x0F)<<4
}
