package machine

// Display dimensions in pixels.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// Framebuffer is the monochrome display, a pixel is either set or unset.
type Framebuffer [DisplayHeight][DisplayWidth]bool

// Pixel returns whether the pixel at the given coordinates is set.
// Coordinates wrap around the display edges.
func (f *Framebuffer) Pixel(x, y int) bool {
	return f[wrap(y, DisplayHeight)][wrap(x, DisplayWidth)]
}

// Flip toggles the pixel at the given coordinates, wrapping around the
// display edges. It returns true if the pixel was set and is now unset.
func (f *Framebuffer) Flip(x, y int) bool {
	row, col := wrap(y, DisplayHeight), wrap(x, DisplayWidth)
	erased := f[row][col]
	f[row][col] = !erased
	return erased
}

// Clear unsets all pixels.
func (f *Framebuffer) Clear() {
	*f = Framebuffer{}
}

// Lit returns the number of set pixels.
func (f *Framebuffer) Lit() int {
	var count int
	for _, row := range f {
		for _, pixel := range row {
			if pixel {
				count++
			}
		}
	}
	return count
}

// Bytes packs the pixels row by row into bytes, the leftmost pixel of a
// group of 8 is stored in the most significant bit.
func (f *Framebuffer) Bytes() []byte {
	data := make([]byte, DisplayWidth*DisplayHeight/8)
	for y, row := range f {
		for x, pixel := range row {
			if pixel {
				i := y*DisplayWidth + x
				data[i/8] |= 0x80 >> (i % 8)
			}
		}
	}
	return data
}

func wrap(value, size int) int {
	value %= size
	if value < 0 {
		value += size
	}
	return value
}
