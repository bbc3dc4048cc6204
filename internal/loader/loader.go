// Package loader handles program file loading operations.
package loader

import (
	"fmt"
	"os"

	"github.com/retroenv/chip8vm/internal/machine"
	"github.com/retroenv/retrogolib/arch/system/nes/cartridge"
	"github.com/retroenv/retrogolib/log"
)

// Loader handles loading program files from disk into the machine memory.
type Loader struct {
	logger *log.Logger
}

// New creates a new program loader.
func New(logger *log.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// Load reads the program image from the file and copies it into the memory
// of the state at the origin. The file is read as a raw buffer, CHIP-8
// programs do not have a header.
func (l *Loader) Load(fileName string, state *machine.State, origin uint16) error {
	file, err := os.Open(fileName)
	if err != nil {
		return fmt.Errorf("opening file %s: %w", fileName, err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("reading file info %s: %w", fileName, err)
	}

	cart, err := cartridge.LoadBuffer(file)
	if err != nil {
		return fmt.Errorf("reading program: %w", err)
	}

	// the buffer is padded to the bank size, only the file content is the image
	image := cart.PRG
	if size := int(info.Size()); size < len(image) {
		image = image[:size]
	}

	if err := state.Load(origin, image); err != nil {
		return fmt.Errorf("loading program %s: %w", fileName, err)
	}

	l.logger.Debug("Program loaded",
		log.String("file", fileName),
		log.Int("size", len(image)),
		log.Hex("origin", origin))
	return nil
}
