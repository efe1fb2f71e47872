// Package video implements the PPU's mode timing and scanline rendering,
// plus the framebuffer it draws into.
package video

import (
	"github.com/corvid-systems/jeebie/jeebie/addr"
	"github.com/corvid-systems/jeebie/jeebie/bit"
	"github.com/corvid-systems/jeebie/jeebie/memory"
)

// Mode is one of the four PPU states, numbered to match STAT bits 1:0.
type Mode uint8

const (
	HBlank  Mode = 0
	VBlank  Mode = 1
	OAMScan Mode = 2
	Drawing Mode = 3
)

// Cycle lengths for the mode timer, in T-states, per Pan Docs.
const (
	oamScanCycles  = 80
	drawingCycles  = 172
	hblankCycles   = 204
	scanlineCycles = oamScanCycles + drawingCycles + hblankCycles // 456

	// FrameCycles is the number of T-states in one full frame (154 scanlines,
	// 10 of them virtual during VBlank).
	FrameCycles = scanlineCycles * 154 // 70224
)

type statFlag uint8

const (
	statLycIrq    statFlag = 6
	statOamIrq    statFlag = 5
	statVblankIrq statFlag = 4
	statHblankIrq statFlag = 3
	statLycEqual  statFlag = 2
)

type lcdcFlag uint8

const (
	lcdEnable          lcdcFlag = 7
	windowTileMapHigh  lcdcFlag = 6
	windowEnable       lcdcFlag = 5
	bgWindowTileLow    lcdcFlag = 4
	bgTileMapHigh      lcdcFlag = 3
	spriteTall         lcdcFlag = 2
	spriteEnable       lcdcFlag = 1
	bgEnable           lcdcFlag = 0
)

// PPU drives the mode state machine and renders each scanline into a
// Framebuffer as it's completed.
type PPU struct {
	mmu *memory.MMU
	fb  *Framebuffer

	mode   Mode
	line   int
	cycles int

	bgPixelBuffer [FramebufferWidth * FramebufferHeight]byte
	spritePrio    SpritePriorityBuffer
	windowLine    int

	scanlineDrawn bool
}

// NewPPU returns a PPU wired to mmu, starting in OAM scan on line 0.
func NewPPU(mmu *memory.MMU) *PPU {
	p := &PPU{
		mmu:  mmu,
		fb:   NewFramebuffer(),
		mode: OAMScan,
	}
	p.setMode(OAMScan)
	return p
}

// Framebuffer returns the frame most recently completed (or in progress).
func (p *PPU) Framebuffer() *Framebuffer {
	return p.fb
}

// Tick advances the PPU state machine by cycles T-states, rendering
// scanlines and raising VBlank/STAT interrupts as mode boundaries are
// crossed. When the LCD is off, the mode timer doesn't run at all: LY
// holds at 0, STAT reports VBlank, and the screen isn't redrawn.
func (p *PPU) Tick(cycles int) {
	if !p.lcdcBit(lcdEnable) {
		p.setMode(VBlank)
		p.line = 0
		p.cycles = 0
		p.windowLine = 0
		p.mmu.Write(addr.LY, 0)
		return
	}

	p.cycles += cycles
	prevMode, prevLine := p.mode, p.line

	switch p.mode {
	case OAMScan:
		if p.cycles >= oamScanCycles {
			p.cycles -= oamScanCycles
			p.setMode(Drawing)
		}

	case Drawing:
		if !p.scanlineDrawn {
			p.drawScanline()
			p.scanlineDrawn = true
		}
		if p.cycles >= drawingCycles {
			p.cycles -= drawingCycles
			p.setMode(HBlank)
			if p.mmu.ReadBit(uint8(statHblankIrq), addr.STAT) {
				p.mmu.RequestInterrupt(addr.LCDSTAT)
			}
		}

	case HBlank:
		if p.cycles >= hblankCycles {
			p.cycles -= hblankCycles
			p.scanlineDrawn = false
			p.setLine(p.line + 1)

			if p.line == FramebufferHeight {
				p.setMode(VBlank)
				p.windowLine = 0
				p.mmu.RequestInterrupt(addr.VBlank)
				if p.mmu.ReadBit(uint8(statVblankIrq), addr.STAT) {
					p.mmu.RequestInterrupt(addr.LCDSTAT)
				}
			} else {
				p.setMode(OAMScan)
				if p.mmu.ReadBit(uint8(statOamIrq), addr.STAT) {
					p.mmu.RequestInterrupt(addr.LCDSTAT)
				}
			}
		}

	case VBlank:
		if p.cycles >= scanlineCycles {
			p.cycles -= scanlineCycles
			p.setLine(p.line + 1)

			if p.line > 153 {
				p.setLine(0)
				p.setMode(OAMScan)
				if p.mmu.ReadBit(uint8(statOamIrq), addr.STAT) {
					p.mmu.RequestInterrupt(addr.LCDSTAT)
				}
			}
		}
	}

	// One call can span several boundaries; keep going with the leftover
	// cycles until they no longer reach the next one.
	if p.mode != prevMode || p.line != prevLine {
		p.Tick(0)
	}
}

func (p *PPU) setMode(mode Mode) {
	p.mode = mode
	stat := p.mmu.Read(addr.STAT)
	stat = stat&0xFC | byte(mode)
	p.mmu.Write(addr.STAT, stat)
}

// setLine updates LY and evaluates the LYC coincidence flag, firing the
// STAT interrupt on a 0-to-1 transition of the match bit as real hardware
// does (no retriggering while LY==LYC holds).
func (p *PPU) setLine(line int) {
	wasEqual := p.mmu.ReadBit(uint8(statLycEqual), addr.STAT)

	p.line = line
	p.mmu.Write(addr.LY, byte(line))

	lyc := p.mmu.Read(addr.LYC)
	isEqual := byte(line) == lyc
	p.mmu.SetBit(uint8(statLycEqual), addr.STAT, isEqual)

	if isEqual && !wasEqual && p.mmu.ReadBit(uint8(statLycIrq), addr.STAT) {
		p.mmu.RequestInterrupt(addr.LCDSTAT)
	}
}

func (p *PPU) lcdcBit(flag lcdcFlag) bool {
	return bit.IsSet(uint8(flag), p.mmu.Read(addr.LCDC))
}

func (p *PPU) drawScanline() {
	p.drawBackground()
	p.drawWindow()
	p.drawSprites()
}

func (p *PPU) drawBackground() {
	rowStart := p.line * FramebufferWidth

	if !p.lcdcBit(bgEnable) {
		palette := p.mmu.Read(addr.BGP)
		color := ColorFromIndex(palette & 0x03)
		for x := 0; x < FramebufferWidth; x++ {
			p.fb.pixels[rowStart+x] = color
			p.bgPixelBuffer[rowStart+x] = 0
		}
		return
	}

	tileData, signed := p.tileDataBase(bgWindowTileLow)
	tileMap := p.tileMapBase(bgTileMapHigh)

	scx := p.mmu.Read(addr.SCX)
	scy := p.mmu.Read(addr.SCY)

	bgY := (p.line + int(scy)) & 0xFF
	tileRow := (bgY / 8) * 32
	pixelY2 := (bgY % 8) * 2

	palette := p.mmu.Read(addr.BGP)

	for x := 0; x < FramebufferWidth; x++ {
		bgX := (x + int(scx)) & 0xFF
		tileCol := bgX / 8
		tileX := bgX % 8

		tileNum := p.mmu.Read(tileMap + uint16(tileRow+tileCol))
		tileAddr := tileAddress(tileData, signed, tileNum, pixelY2)

		low := p.mmu.Read(tileAddr)
		high := p.mmu.Read(tileAddr + 1)
		pixel := tilePixel(low, high, tileX, false)

		color := (palette >> (pixel * 2)) & 0x03
		p.fb.pixels[rowStart+x] = ColorFromIndex(color)
		p.bgPixelBuffer[rowStart+x] = color
	}
}

func (p *PPU) drawWindow() {
	if !p.lcdcBit(windowEnable) {
		return
	}

	wy := p.mmu.Read(addr.WY)
	if int(wy) > p.line {
		return
	}

	wx := int(p.mmu.Read(addr.WX)) - 7
	if wx >= FramebufferWidth {
		return
	}

	tileData, signed := p.tileDataBase(bgWindowTileLow)
	tileMap := p.tileMapBase(windowTileMapHigh)

	tileRow := (p.windowLine / 8) * 32
	pixelY2 := (p.windowLine % 8) * 2

	rowStart := p.line * FramebufferWidth
	palette := p.mmu.Read(addr.BGP)

	for x := 0; x < FramebufferWidth; x++ {
		bufferX := x
		winX := bufferX - wx
		if winX < 0 {
			continue
		}

		tileCol := winX / 8
		tileX := winX % 8

		tileNum := p.mmu.Read(tileMap + uint16(tileRow+tileCol))
		tileAddr := tileAddress(tileData, signed, tileNum, pixelY2)

		low := p.mmu.Read(tileAddr)
		high := p.mmu.Read(tileAddr + 1)
		pixel := tilePixel(low, high, tileX, false)

		color := (palette >> (pixel * 2)) & 0x03
		p.fb.pixels[rowStart+bufferX] = ColorFromIndex(color)
		p.bgPixelBuffer[rowStart+bufferX] = color
	}

	p.windowLine++
}

// drawSprites selects up to 10 sprites overlapping this scanline (Y only,
// matching real OAM scan), resolves per-pixel ownership through
// SpritePriorityBuffer, then draws each sprite's owned pixels.
func (p *PPU) drawSprites() {
	if !p.lcdcBit(spriteEnable) {
		return
	}

	spriteHeight := 8
	if p.lcdcBit(spriteTall) {
		spriteHeight = 16
	}

	rowStart := p.line * FramebufferWidth

	var visible []int
	for sprite := 0; sprite < 40; sprite++ {
		oamAddr := addr.OAMStart + uint16(sprite*4)
		spriteY := int(p.mmu.Read(oamAddr)) - 16

		if spriteY > p.line || spriteY+spriteHeight <= p.line {
			continue
		}
		visible = append(visible, sprite)
		if len(visible) >= 10 {
			break
		}
	}

	p.spritePrio.Clear()
	for _, sprite := range visible {
		oamAddr := addr.OAMStart + uint16(sprite*4)
		spriteX := int(p.mmu.Read(oamAddr+1)) - 8
		for i := 0; i < 8; i++ {
			p.spritePrio.TryClaimPixel(spriteX+i, sprite, spriteX)
		}
	}

	for _, sprite := range visible {
		oamAddr := addr.OAMStart + uint16(sprite*4)
		spriteY := int(p.mmu.Read(oamAddr)) - 16
		spriteX := int(p.mmu.Read(oamAddr+1)) - 8
		tileIndex := p.mmu.Read(oamAddr + 2)
		flags := p.mmu.Read(oamAddr + 3)

		owned := false
		for i := 0; i < 8; i++ {
			if p.spritePrio.GetOwner(spriteX+i) == sprite {
				owned = true
				break
			}
		}
		if !owned {
			continue
		}

		tileMask := 0xFF
		if spriteHeight == 16 {
			tileMask = 0xFE
		}

		paletteAddr := addr.OBP0
		if bit.IsSet(4, flags) {
			paletteAddr = addr.OBP1
		}
		flipX := bit.IsSet(5, flags)
		flipY := bit.IsSet(6, flags)
		aboveBG := !bit.IsSet(7, flags)

		tileRow := p.line - spriteY
		if flipY {
			tileRow = spriteHeight - 1 - tileRow
		}

		tileOffset := 0
		if spriteHeight == 16 && tileRow >= 8 {
			tileOffset = 16
			tileRow -= 8
		}

		tileAddr := addr.TileDataUnsigned + uint16((int(tileIndex)&tileMask)*16+tileOffset+tileRow*2)
		low := p.mmu.Read(tileAddr)
		high := p.mmu.Read(tileAddr + 1)
		palette := p.mmu.Read(paletteAddr)

		for i := 0; i < 8; i++ {
			bufferX := spriteX + i
			if p.spritePrio.GetOwner(bufferX) != sprite {
				continue
			}

			pixel := tilePixel(low, high, i, flipX)
			if pixel == 0 {
				continue
			}

			position := rowStart + bufferX
			if !aboveBG && p.bgPixelBuffer[position] != 0 {
				continue
			}

			color := (palette >> (pixel * 2)) & 0x03
			p.fb.pixels[position] = ColorFromIndex(color)
		}
	}
}

func (p *PPU) tileDataBase(flag lcdcFlag) (base uint16, signed bool) {
	if p.lcdcBit(flag) {
		return addr.TileDataUnsigned, false
	}
	return addr.TileDataSigned, true
}

func (p *PPU) tileMapBase(flag lcdcFlag) uint16 {
	if p.lcdcBit(flag) {
		return addr.TileMap1
	}
	return addr.TileMap0
}

// tileAddress resolves the byte address of the first row of tile data for
// tileNum, adjusted by pixelY2 (the row's byte offset, 0/2/4/.../14).
func tileAddress(base uint16, signed bool, tileNum uint8, pixelY2 int) uint16 {
	if signed {
		offset := int(int8(tileNum)) * 16
		return uint16(int(base) + offset + pixelY2)
	}
	return base + uint16(int(tileNum)*16+pixelY2)
}

// tilePixel extracts the 2-bit color index for column x (0-7, left to
// right unless flipped) from a tile row's low/high bitplane bytes.
func tilePixel(low, high byte, x int, flip bool) byte {
	idx := uint8(7 - x)
	if flip {
		idx = uint8(x)
	}

	var pixel byte
	if bit.IsSet(idx, low) {
		pixel |= 1
	}
	if bit.IsSet(idx, high) {
		pixel |= 2
	}
	return pixel
}
