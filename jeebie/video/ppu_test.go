package video

import (
	"testing"

	"github.com/corvid-systems/jeebie/jeebie/addr"
	"github.com/corvid-systems/jeebie/jeebie/memory"
	"github.com/stretchr/testify/assert"
)

func newTestPPU() (*PPU, *memory.MMU) {
	mmu := memory.New()
	mmu.Write(addr.LCDC, 0x80) // LCD on, everything else off
	return NewPPU(mmu), mmu
}

func TestPPU_modeCyclesThroughOAMDrawingHBlank(t *testing.T) {
	ppu, mmu := newTestPPU()

	assert.Equal(t, OAMScan, ppu.mode)

	ppu.Tick(oamScanCycles)
	assert.Equal(t, Drawing, ppu.mode)

	ppu.Tick(drawingCycles)
	assert.Equal(t, HBlank, ppu.mode)

	assert.Equal(t, byte(HBlank), mmu.Read(addr.STAT)&0x03)
}

func TestPPU_entersVBlankAtLine144(t *testing.T) {
	ppu, mmu := newTestPPU()

	for line := 0; line < FramebufferHeight; line++ {
		ppu.Tick(scanlineCycles)
	}

	assert.Equal(t, VBlank, ppu.mode)
	assert.Equal(t, byte(FramebufferHeight), mmu.Read(addr.LY))
}

// Invariant (spec §8.7): LY cycles 0..153 strictly monotonically, mod 154,
// across a frame.
func TestPPU_lyMonotonicAcrossFrame(t *testing.T) {
	ppu, mmu := newTestPPU()

	var lastLY byte
	wrapped := false
	for i := 0; i < 154; i++ {
		ppu.Tick(scanlineCycles)
		ly := mmu.Read(addr.LY)
		if ly < lastLY {
			assert.False(t, wrapped, "LY must wrap exactly once per frame")
			wrapped = true
			assert.Equal(t, byte(0), ly)
		}
		lastLY = ly
	}
	assert.True(t, wrapped)
}

// Invariant (spec §8.6): a full frame is exactly 70,224 T-states.
func TestPPU_frameCyclesConstant(t *testing.T) {
	assert.Equal(t, 70224, FrameCycles)
}

// S3: with the LCD off, LY holds at 0 and STAT reports mode 1, and no
// VBlank interrupt fires.
func TestPPU_lcdOffHoldsLineZero(t *testing.T) {
	mmu := memory.New()
	mmu.Write(addr.LCDC, 0x00) // LCD off
	ppu := NewPPU(mmu)

	ppu.Tick(FrameCycles)

	assert.Equal(t, byte(0), mmu.Read(addr.LY))
	assert.Equal(t, byte(VBlank), mmu.Read(addr.STAT)&0x03)
	assert.False(t, mmu.ReadBit(0, addr.IF), "no VBlank IRQ while the LCD is off")
}

func TestPPU_statLYCCoincidenceInterrupt(t *testing.T) {
	ppu, mmu := newTestPPU()
	mmu.Write(addr.LYC, 1)
	mmu.Write(addr.STAT, 0x40) // enable the LYC=LY STAT interrupt

	ppu.Tick(scanlineCycles) // line 0 -> 1, should match LYC

	assert.True(t, mmu.ReadBit(2, addr.STAT))
	assert.True(t, mmu.ReadBit(1, addr.IF))
}

// S5: a single background tile of color index 1 rendered at SCX=SCY=0
// produces the light-grey shade across the first 8 pixels of line 0.
func TestPPU_drawBackground_singleTile(t *testing.T) {
	ppu, mmu := newTestPPU()
	mmu.Write(addr.LCDC, 0x91) // LCD on, BG on, unsigned tile data, tile map 0
	mmu.Write(addr.BGP, 0xE4) // identity palette: 3,2,1,0

	// Tile 0's first row: color index 1 across all 8 pixels (low=0xFF, high=0x00).
	mmu.Write(addr.TileDataUnsigned, 0xFF)
	mmu.Write(addr.TileDataUnsigned+1, 0x00)
	mmu.Write(addr.TileMap0, 0x00)

	ppu.Tick(oamScanCycles)
	ppu.Tick(drawingCycles)

	fb := ppu.Framebuffer()
	for x := 0; x < 8; x++ {
		assert.Equal(t, ColorFromIndex(1), fb.At(x, 0), "pixel %d", x)
	}
}

func TestPPU_drawBackground_disabledShowsColorZero(t *testing.T) {
	ppu, mmu := newTestPPU()
	mmu.Write(addr.LCDC, 0x80) // LCD on, BG off
	mmu.Write(addr.BGP, 0xE4)

	ppu.Tick(oamScanCycles)
	ppu.Tick(drawingCycles)

	fb := ppu.Framebuffer()
	assert.Equal(t, ColorFromIndex(0), fb.At(0, 0))
}

func TestPPU_spritesRespectXPriority(t *testing.T) {
	ppu, mmu := newTestPPU()
	mmu.Write(addr.LCDC, 0x83) // LCD+BG+sprites on
	mmu.Write(addr.OBP0, 0xE4)

	// Tile 0: solid color index 1 in every column.
	mmu.Write(addr.TileDataUnsigned, 0xFF)
	mmu.Write(addr.TileDataUnsigned+1, 0x00)

	// Sprite 0 at X=5 (OAM index 0, lower X), sprite 1 at X=10, both on line 0.
	mmu.Write(addr.OAMStart+0, 16)    // Y=0
	mmu.Write(addr.OAMStart+1, 5+8)   // X=5
	mmu.Write(addr.OAMStart+2, 0)     // tile 0
	mmu.Write(addr.OAMStart+3, 0)     // flags

	mmu.Write(addr.OAMStart+4, 16)
	mmu.Write(addr.OAMStart+5, 10+8)
	mmu.Write(addr.OAMStart+6, 0)
	mmu.Write(addr.OAMStart+7, 0)

	ppu.Tick(oamScanCycles)
	ppu.Tick(drawingCycles)

	assert.Equal(t, 0, ppu.spritePrio.GetOwner(5), "lower X sprite owns the overlap")
}
