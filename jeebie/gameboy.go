// Package jeebie ties the CPU, MMU and PPU together into a runnable DMG
// emulator core.
package jeebie

import (
	"fmt"
	"log/slog"

	"github.com/corvid-systems/jeebie/jeebie/cpu"
	"github.com/corvid-systems/jeebie/jeebie/memory"
	"github.com/corvid-systems/jeebie/jeebie/video"
)

// Button is one physical DMG control, exposed to front ends without
// requiring them to import the memory package directly.
type Button memory.JoypadKey

const (
	ButtonRight  Button = Button(memory.JoypadRight)
	ButtonLeft   Button = Button(memory.JoypadLeft)
	ButtonUp     Button = Button(memory.JoypadUp)
	ButtonDown   Button = Button(memory.JoypadDown)
	ButtonA      Button = Button(memory.JoypadA)
	ButtonB      Button = Button(memory.JoypadB)
	ButtonSelect Button = Button(memory.JoypadSelect)
	ButtonStart  Button = Button(memory.JoypadStart)
)

// Emulator owns a full DMG core: CPU, MMU and PPU wired together, plus
// the running counters a front end needs to report progress.
type Emulator struct {
	cpu *cpu.CPU
	mmu *memory.MMU
	ppu *video.PPU

	frames uint64
}

// New loads rom into a cartridge and returns an Emulator ready to run
// from the reset vector.
func New(rom []byte) (*Emulator, error) {
	cart, err := memory.NewCartridge(rom)
	if err != nil {
		return nil, fmt.Errorf("loading cartridge: %w", err)
	}

	mmu := memory.NewWithCartridge(cart)
	e := &Emulator{
		cpu: cpu.New(mmu),
		mmu: mmu,
		ppu: video.NewPPU(mmu),
	}

	slog.Info("cartridge loaded", "title", cart.Title(), "size", cart.Len())
	return e, nil
}

// StepFrame runs whole CPU steps until at least one frame's worth of
// T-states (video.FrameCycles) has elapsed and returns the resulting
// framebuffer. The last step can carry the total a few T-states past
// FrameCycles; that overrun is not carried into the next frame.
func (e *Emulator) StepFrame() (*video.Framebuffer, error) {
	var elapsed int
	for elapsed < video.FrameCycles {
		cycles, err := e.cpu.Step()
		if err != nil {
			return nil, err
		}
		e.ppu.Tick(cycles)
		elapsed += cycles
	}
	e.frames++
	return e.ppu.Framebuffer(), nil
}

// Press signals that button is now held down.
func (e *Emulator) Press(b Button) {
	e.mmu.HandleKeyPress(memory.JoypadKey(b))
}

// Release signals that button has been let go.
func (e *Emulator) Release(b Button) {
	e.mmu.HandleKeyRelease(memory.JoypadKey(b))
}

// Framebuffer returns the most recently completed frame.
func (e *Emulator) Framebuffer() *video.Framebuffer {
	return e.ppu.Framebuffer()
}

// Frames returns the number of frames rendered since New.
func (e *Emulator) Frames() uint64 {
	return e.frames
}

// Cycles returns the total number of T-states executed since New.
func (e *Emulator) Cycles() uint64 {
	return e.cpu.Cycles()
}
