// Package writer implements text output of the machine display.
package writer

import (
	"bufio"
	"fmt"
	"io"

	"github.com/retroenv/chip8vm/internal/machine"
)

// Characters used for the pixels of the display.
const (
	PixelLit   = '#'
	PixelUnlit = '.'
)

// Writer renders framebuffers as text, one line per display row.
type Writer struct {
	writer io.Writer
}

// New creates a new writer.
func New(writer io.Writer) *Writer {
	return &Writer{
		writer: writer,
	}
}

// Render writes the framebuffer as DisplayHeight lines of DisplayWidth
// characters.
func (w *Writer) Render(fb *machine.Framebuffer) error {
	buf := bufio.NewWriter(w.writer)
	line := make([]byte, machine.DisplayWidth+1)
	line[machine.DisplayWidth] = '\n'

	for y := range machine.DisplayHeight {
		for x := range machine.DisplayWidth {
			if fb.Pixel(x, y) {
				line[x] = PixelLit
			} else {
				line[x] = PixelUnlit
			}
		}
		if _, err := buf.Write(line); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}
