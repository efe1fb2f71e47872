package memory

import (
	"fmt"
	"log/slog"

	"github.com/corvid-systems/jeebie/jeebie/addr"
	"github.com/corvid-systems/jeebie/jeebie/bit"
	"github.com/corvid-systems/jeebie/jeebie/serial"
)

type memRegion uint8

const (
	regionROM memRegion = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionIO
)

// JoypadKey identifies one physical button on the DMG.
type JoypadKey uint8

const (
	JoypadRight JoypadKey = iota
	JoypadLeft
	JoypadUp
	JoypadDown
	JoypadA
	JoypadB
	JoypadSelect
	JoypadStart
)

// SerialPort is the minimal interface for a device connected to SB/SC.
type SerialPort interface {
	Write(address uint16, value byte)
	Read(address uint16) byte
	Tick(cycles int)
	Reset()
}

// MMU dispatches all CPU-visible memory accesses to the region that owns
// them: cartridge ROM/RAM via the MBC, VRAM/WRAM/OAM/HRAM via flat arrays,
// and the timer, joypad and serial registers via their own owners.
type MMU struct {
	mbc       MBC
	memory    []byte
	regionMap [256]memRegion

	joypadButtons uint8 // low nibble: A/B/Select/Start, 0=pressed
	joypadDpad    uint8 // low nibble: Right/Left/Up/Down, 0=pressed

	serial SerialPort
	timer  *Timer
}

// New creates an MMU with no cartridge loaded; everything other than ROM
// reads as if the Game Boy were powered on with an empty cartridge slot.
func New() *MMU {
	mmu := &MMU{
		memory:        make([]byte, 0x10000),
		mbc:           NewNoMBC(make([]byte, 0x8000)),
		joypadButtons: 0x0F,
		joypadDpad:    0x0F,
		timer:         NewTimer(),
	}
	mmu.serial = serial.NewLogSink(func() { mmu.RequestInterrupt(addr.Serial) })
	mmu.timer.TimerInterruptHandler = func() { mmu.RequestInterrupt(addr.Timer) }
	initRegionMap(mmu)
	return mmu
}

// NewWithCartridge creates an MMU with the given cartridge's MBC wired in.
func NewWithCartridge(cart *Cartridge) *MMU {
	mmu := New()
	mmu.mbc = NewMBC(cart)
	return mmu
}

func initRegionMap(m *MMU) {
	for i := 0x00; i <= 0x7F; i++ {
		m.regionMap[i] = regionROM
	}
	for i := 0x80; i <= 0x9F; i++ {
		m.regionMap[i] = regionVRAM
	}
	for i := 0xA0; i <= 0xBF; i++ {
		m.regionMap[i] = regionExtRAM
	}
	for i := 0xC0; i <= 0xDF; i++ {
		m.regionMap[i] = regionWRAM
	}
	for i := 0xE0; i <= 0xFD; i++ {
		m.regionMap[i] = regionEcho
	}
	m.regionMap[0xFE] = regionOAM
	m.regionMap[0xFF] = regionIO
}

// Tick advances the timer and serial port by the given number of T-states.
// The CPU calls this once per instruction with the cycles it just spent.
func (m *MMU) Tick(cycles int) {
	m.timer.Tick(cycles)
	if m.serial != nil {
		m.serial.Tick(cycles)
	}
}

// RequestInterrupt sets the IF bit for the given interrupt source.
func (m *MMU) RequestInterrupt(interrupt addr.Interrupt) {
	m.Write(addr.IF, m.Read(addr.IF)|uint8(interrupt))
}

// PendingInterrupt returns the highest-priority interrupt that is both
// requested (IF) and enabled (IE), and whether any such interrupt exists.
// Priority order is VBlank > LCDSTAT > Timer > Serial > Joypad, which
// falls out of testing the bits from lowest to highest.
func (m *MMU) PendingInterrupt() (addr.Interrupt, bool) {
	pending := m.Read(addr.IF) & m.Read(addr.IE) & 0x1F
	if pending == 0 {
		return 0, false
	}
	for _, i := range []addr.Interrupt{addr.VBlank, addr.LCDSTAT, addr.Timer, addr.Serial, addr.Joypad} {
		if pending&uint8(i) != 0 {
			return i, true
		}
	}
	return 0, false
}

// ClearInterrupt clears the IF bit for the given interrupt source.
func (m *MMU) ClearInterrupt(interrupt addr.Interrupt) {
	m.Write(addr.IF, m.Read(addr.IF)&^uint8(interrupt))
}

// ReadBit reports whether the given bit of the byte at address is set.
func (m *MMU) ReadBit(index uint8, address uint16) bool {
	return bit.IsSet(index, m.Read(address))
}

// SetBit sets or clears the given bit of the byte at address.
func (m *MMU) SetBit(index uint8, address uint16, set bool) {
	value := m.Read(address)
	if set {
		value = bit.Set(index, value)
	} else {
		value = bit.Reset(index, value)
	}
	m.Write(address, value)
}

func (m *MMU) Read(address uint16) byte {
	switch m.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		return m.mbc.Read(address)
	case regionVRAM, regionWRAM:
		return m.memory[address]
	case regionEcho:
		return m.memory[address-0x2000]
	case regionOAM:
		if address > addr.OAMEnd {
			return 0xFF
		}
		return m.memory[address]
	case regionIO:
		return m.readIO(address)
	default:
		slog.Warn("read at unmapped address", "addr", fmt.Sprintf("0x%04X", address))
		return 0xFF
	}
}

func (m *MMU) readIO(address uint16) byte {
	switch {
	case address == addr.P1:
		return m.memory[address]
	case address == addr.SB || address == addr.SC:
		return m.serial.Read(address)
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		return m.timer.Read(address)
	case address == addr.IF:
		// The upper 3 bits are unused and always read back as 1.
		return m.memory[address] | 0xE0
	default:
		return m.memory[address]
	}
}

func (m *MMU) Write(address uint16, value byte) {
	switch m.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		m.mbc.Write(address, value)
	case regionVRAM, regionWRAM:
		m.memory[address] = value
	case regionEcho:
		m.memory[address-0x2000] = value
	case regionOAM:
		if address > addr.OAMEnd {
			return
		}
		m.memory[address] = value
	case regionIO:
		m.writeIO(address, value)
	default:
		slog.Warn("write at unmapped address", "addr", fmt.Sprintf("0x%04X", address), "value", fmt.Sprintf("0x%02X", value))
	}
}

func (m *MMU) writeIO(address uint16, value byte) {
	switch {
	case address == addr.P1:
		m.writeJoypad(value)
	case address == addr.SB || address == addr.SC:
		m.serial.Write(address, value)
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		m.timer.Write(address, value)
	case address == addr.IF:
		m.memory[address] = value | 0xE0
	case address == addr.DMA:
		m.runOAMDMA(value)
	default:
		m.memory[address] = value
	}
}

// runOAMDMA copies 160 bytes from (value << 8) into OAM. Real hardware
// takes 160 M-cycles and locks out non-HRAM access during the transfer;
// this core applies it instantaneously, an accepted simplification for a
// cycle-accurate-enough core with no mid-instruction bus contention model.
func (m *MMU) runOAMDMA(value byte) {
	source := uint16(value) << 8
	for i := uint16(0); i < 160; i++ {
		m.memory[addr.OAMStart+i] = m.Read(source + i)
	}
	m.memory[addr.DMA] = value
}

// updateJoypadRegister recomputes P1's low nibble from the selection bits
// (written by the guest) and the current button/d-pad state.
//
// Bits 4-5 select which button group is visible on bits 0-3: bit 4 clear
// selects the d-pad, bit 5 clear selects the face buttons, both clear
// ANDs the two groups together, both set reports no buttons held. Bits
// 6-7 are unused and always read as 1. A 0 bit means "pressed".
func (m *MMU) updateJoypadRegister() {
	p1 := m.memory[addr.P1]
	result := uint8(0b1100_0000)
	result |= p1 & 0b0011_0000

	selectDpad := !bit.IsSet(4, p1)
	selectButtons := !bit.IsSet(5, p1)

	switch {
	case selectButtons && !selectDpad:
		result |= m.joypadButtons & 0x0F
	case selectDpad && !selectButtons:
		result |= m.joypadDpad & 0x0F
	case selectButtons && selectDpad:
		result |= m.joypadButtons & m.joypadDpad & 0x0F
	default:
		result |= 0x0F
	}

	m.memory[addr.P1] = result
}

func (m *MMU) writeJoypad(value uint8) {
	m.memory[addr.P1] = value & 0b0011_0000
	m.updateJoypadRegister()
}

// HandleKeyPress marks a button as held and requests a Joypad interrupt
// on the 1-to-0 transition of one of its bits, but only when that
// button's group (d-pad or buttons) is the one currently selected by P1.
func (m *MMU) HandleKeyPress(key JoypadKey) {
	oldButtons, oldDpad := m.joypadButtons, m.joypadDpad

	switch key {
	case JoypadRight:
		m.joypadDpad = bit.Reset(0, m.joypadDpad)
	case JoypadLeft:
		m.joypadDpad = bit.Reset(1, m.joypadDpad)
	case JoypadUp:
		m.joypadDpad = bit.Reset(2, m.joypadDpad)
	case JoypadDown:
		m.joypadDpad = bit.Reset(3, m.joypadDpad)
	case JoypadA:
		m.joypadButtons = bit.Reset(0, m.joypadButtons)
	case JoypadB:
		m.joypadButtons = bit.Reset(1, m.joypadButtons)
	case JoypadSelect:
		m.joypadButtons = bit.Reset(2, m.joypadButtons)
	case JoypadStart:
		m.joypadButtons = bit.Reset(3, m.joypadButtons)
	}

	p1 := m.memory[addr.P1]
	selectDpad := !bit.IsSet(4, p1)
	selectButtons := !bit.IsSet(5, p1)

	buttonTransitions := oldButtons &^ m.joypadButtons
	dpadTransitions := oldDpad &^ m.joypadDpad
	if (selectButtons && buttonTransitions != 0) || (selectDpad && dpadTransitions != 0) {
		m.RequestInterrupt(addr.Joypad)
	}

	m.updateJoypadRegister()
}

// HandleKeyRelease marks a button as no longer held.
func (m *MMU) HandleKeyRelease(key JoypadKey) {
	switch key {
	case JoypadRight:
		m.joypadDpad = bit.Set(0, m.joypadDpad)
	case JoypadLeft:
		m.joypadDpad = bit.Set(1, m.joypadDpad)
	case JoypadUp:
		m.joypadDpad = bit.Set(2, m.joypadDpad)
	case JoypadDown:
		m.joypadDpad = bit.Set(3, m.joypadDpad)
	case JoypadA:
		m.joypadButtons = bit.Set(0, m.joypadButtons)
	case JoypadB:
		m.joypadButtons = bit.Set(1, m.joypadButtons)
	case JoypadSelect:
		m.joypadButtons = bit.Set(2, m.joypadButtons)
	case JoypadStart:
		m.joypadButtons = bit.Set(3, m.joypadButtons)
	}

	m.updateJoypadRegister()
}
