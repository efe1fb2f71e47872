package video

const (
	// FramebufferWidth is the number of visible pixels per scanline.
	FramebufferWidth = 160
	// FramebufferHeight is the number of visible scanlines.
	FramebufferHeight = 144
)

// Color is an RGB triple in display order: red, green, blue.
type Color [3]byte

// The DMG has exactly four shades, selected by a 2-bit color index after
// palette translation (BGP/OBP0/OBP1). Index 0 is the lightest shade and
// index 3 the darkest, matching the hardware's own palette convention.
var shades = [4]Color{
	{0xFF, 0xFF, 0xFF}, // white
	{0xCC, 0xCC, 0xCC}, // light grey
	{0x77, 0x77, 0x77}, // dark grey
	{0x00, 0x00, 0x00}, // black
}

// ColorFromIndex maps a 2-bit palette-translated color index to its RGB
// shade. Any index outside 0-3 is masked down to 2 bits.
func ColorFromIndex(index byte) Color {
	return shades[index&0x03]
}

// Framebuffer holds one fully-rendered frame as RGB pixels, row-major,
// top-to-bottom, left-to-right.
type Framebuffer struct {
	pixels [FramebufferWidth * FramebufferHeight]Color
}

// NewFramebuffer returns a framebuffer cleared to the lightest shade.
func NewFramebuffer() *Framebuffer {
	fb := &Framebuffer{}
	fb.Clear()
	return fb
}

// Clear resets every pixel to the lightest shade (color index 0).
func (f *Framebuffer) Clear() {
	blank := shades[0]
	for i := range f.pixels {
		f.pixels[i] = blank
	}
}

// SetPixel writes the color at (x, y). Out-of-bounds coordinates are
// silently ignored.
func (f *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= FramebufferWidth || y < 0 || y >= FramebufferHeight {
		return
	}
	f.pixels[y*FramebufferWidth+x] = c
}

// At returns the color at (x, y).
func (f *Framebuffer) At(x, y int) Color {
	if x < 0 || x >= FramebufferWidth || y < 0 || y >= FramebufferHeight {
		return Color{}
	}
	return f.pixels[y*FramebufferWidth+x]
}

// Pixels returns the backing row-major pixel slice, for callers that want
// to scan the whole frame without bounds checks on every pixel.
func (f *Framebuffer) Pixels() []Color {
	return f.pixels[:]
}
