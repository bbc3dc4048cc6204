package instruction

import (
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Mnemonic returns the conventional assembler mnemonic of the word, as
// used in trace output. It returns an empty string for unknown words.
func Mnemonic(word uint16) string {
	firstNibble := (word & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&word == op.Info.Value && op.Instruction != nil {
			return op.Instruction.Name
		}
	}
	return ""
}
