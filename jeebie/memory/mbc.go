package memory

// MBC represents a Memory Bank Controller interface that all MBC types must implement.
type MBC interface {
	// Read reads a byte from the specified address.
	Read(addr uint16) uint8
	// Write writes a byte to the specified address.
	Write(addr uint16, value uint8)
}

// NewMBC builds the right MBC implementation for a cartridge's header.
func NewMBC(c *Cartridge) MBC {
	switch c.mbcKind {
	case MBC1Kind:
		return NewMBC1(c.data, c.hasBattery, c.ramBankCount)
	case MBC2Kind:
		return NewMBC2(c.data, c.hasBattery)
	case MBC3Kind:
		return NewMBC3(c.data, c.hasRTC, c.hasBattery, c.ramBankCount)
	case MBC5Kind:
		return NewMBC5(c.data, c.hasRumble, c.hasBattery, c.ramBankCount)
	default:
		return NewNoMBC(c.data)
	}
}

// NoMBC represents cartridges with no memory banking capabilities.
// These are typically smaller games (32KB or less) that fit entirely in the
// base memory region. The cartridge ROM is directly mapped to 0x0000-0x7FFF
// and cannot be banked/switched. These cartridges cannot have external RAM.
type NoMBC struct {
	rom []uint8
}

// NewNoMBC creates a new NoMBC controller.
func NewNoMBC(romData []uint8) *NoMBC {
	return &NoMBC{rom: romData}
}

func (m *NoMBC) Read(addr uint16) uint8 {
	if int(addr) >= len(m.rom) {
		return 0xFF
	}
	return m.rom[addr]
}

// Write is a no-op: NoMBC cartridges have no registers and no RAM.
func (m *NoMBC) Write(addr uint16, value uint8) {}

// MBC1 is the first and most common MBC chip. Features include:
//   - Supports up to 2MB ROM (125 16KB banks)
//   - Up to 32KB RAM (4 8KB banks)
//   - Bank 0 always mapped to 0x0000-0x3FFF
//   - Switchable ROM bank at 0x4000-0x7FFF
//   - Optional RAM banking at 0xA000-0xBFFF
//   - Two banking modes: mode 0 (ROM) allows the full ROM range but only one
//     RAM bank; mode 1 (RAM) restricts ROM banking to 5 bits but allows full
//     RAM bank access
//   - Optional battery backup for RAM persistence
type MBC1 struct {
	rom          []uint8
	ram          []uint8
	romBank      uint8
	ramBank      uint8
	ramEnabled   bool
	bankingMode  uint8
	hasBattery   bool
	ramBankCount uint8
}

// NewMBC1 creates a new MBC1 controller. The ROM bank register resets to 1,
// never 0 — bank 0 is hardwired to the base window and would otherwise be
// unreachable from the switchable window.
func NewMBC1(romData []uint8, hasBattery bool, ramBankCount uint8) *MBC1 {
	ramSize := uint32(ramBankCount) * 0x2000
	return &MBC1{
		rom:          romData,
		ram:          make([]uint8, ramSize),
		romBank:      1,
		hasBattery:   hasBattery,
		ramBankCount: ramBankCount,
	}
}

func (m *MBC1) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	case addr <= 0x7FFF:
		offset := uint32(m.romBank) * 0x4000
		if len(m.rom) > 0 {
			offset %= uint32(len(m.rom))
		}
		return m.rom[offset+uint32(addr-0x4000)]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		offset := uint32(m.ramBank) * 0x2000 % uint32(len(m.ram))
		return m.ram[offset+uint32(addr-0xA000)]
	default:
		return 0xFF
	}
}

func (m *MBC1) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case addr <= 0x3FFF:
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBank = (m.romBank & 0x60) | bank
	case addr <= 0x5FFF:
		if m.bankingMode == 0 {
			m.romBank = (m.romBank & 0x1F) | ((value & 0x03) << 5)
		} else {
			m.ramBank = value & 0x03
		}
	case addr <= 0x7FFF:
		m.bankingMode = value & 0x01
		if m.bankingMode == 1 {
			m.romBank &= 0x1F
		}
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		offset := uint32(m.ramBank) * 0x2000 % uint32(len(m.ram))
		m.ram[offset+uint32(addr-0xA000)] = value
	}
}

// MBC2 is a simpler MBC chip with built-in RAM. Features include:
//   - Supports up to 256KB ROM (16 16KB banks)
//   - Built-in 512x4-bit RAM (not external); only the low nibble of every
//     byte is meaningful, the high nibble always reads back as 1s
//   - RAM is always accessible once the enable latch is set, it has no
//     separate bank register
//   - Bit 8 of the address written during the 0x0000-0x3FFF window selects
//     between the RAM-enable latch (bit clear) and the ROM bank register
//     (bit set)
//   - Optional battery backup for the built-in RAM
type MBC2 struct {
	rom        []uint8
	ram        [512]uint8
	romBank    uint8
	ramEnabled bool
	hasBattery bool
}

// NewMBC2 creates a new MBC2 controller.
func NewMBC2(romData []uint8, hasBattery bool) *MBC2 {
	return &MBC2{rom: romData, romBank: 1, hasBattery: hasBattery}
}

func (m *MBC2) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	case addr <= 0x7FFF:
		offset := uint32(m.romBank) * 0x4000
		if len(m.rom) > 0 {
			offset %= uint32(len(m.rom))
		}
		return m.rom[offset+uint32(addr-0x4000)]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		return m.ram[(addr-0xA000)%512] | 0xF0
	default:
		return 0xFF
	}
}

func (m *MBC2) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x3FFF:
		if addr&0x0100 == 0 {
			m.ramEnabled = value&0x0F == 0x0A
			return
		}
		bank := value & 0x0F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return
		}
		m.ram[(addr-0xA000)%512] = value & 0x0F
	}
}

// MBC3 is an advanced MBC chip with RTC support. Features include:
//   - Supports up to 2MB ROM (128 16KB banks)
//   - Up to 32KB RAM (4 8KB banks)
//   - A Real-Time Clock with 5 latched registers (seconds, minutes, hours,
//     day-low, day-high/flags), selected the same way as RAM banks
//   - RAM and RTC can be battery backed
//
// This core has no host clock source, so the RTC registers latch on
// writing 0x00 then 0x01 to 0x6000-0x7FFF but never advance on their own;
// they read back whatever was last latched or directly poked.
type MBC3 struct {
	rom          []uint8
	ram          []uint8
	rtc          [5]uint8
	romBank      uint8
	ramBank      uint8
	ramEnabled   bool
	hasRTC       bool
	hasBattery   bool
	latchPending bool
}

// NewMBC3 creates a new MBC3 controller.
func NewMBC3(romData []uint8, hasRTC, hasBattery bool, ramBankCount uint8) *MBC3 {
	ramSize := uint32(ramBankCount) * 0x2000
	return &MBC3{
		rom:        romData,
		ram:        make([]uint8, ramSize),
		romBank:    1,
		hasRTC:     hasRTC,
		hasBattery: hasBattery,
	}
}

func (m *MBC3) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	case addr <= 0x7FFF:
		offset := uint32(m.romBank) * 0x4000
		if len(m.rom) > 0 {
			offset %= uint32(len(m.rom))
		}
		return m.rom[offset+uint32(addr-0x4000)]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		if m.hasRTC && m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			return m.rtc[m.ramBank-0x08]
		}
		if len(m.ram) == 0 {
			return 0xFF
		}
		offset := uint32(m.ramBank) * 0x2000 % uint32(len(m.ram))
		return m.ram[offset+uint32(addr-0xA000)]
	default:
		return 0xFF
	}
}

func (m *MBC3) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case addr <= 0x3FFF:
		bank := value & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case addr <= 0x5FFF:
		m.ramBank = value
	case addr <= 0x7FFF:
		if value == 0x00 {
			m.latchPending = true
		} else if value == 0x01 && m.latchPending {
			m.latchPending = false
		}
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return
		}
		if m.hasRTC && m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			m.rtc[m.ramBank-0x08] = value
			return
		}
		if len(m.ram) == 0 {
			return
		}
		offset := uint32(m.ramBank) * 0x2000 % uint32(len(m.ram))
		m.ram[offset+uint32(addr-0xA000)] = value
	}
}

// MBC5 is the most advanced MBC chip modeled here. Features include:
//   - Supports up to 8MB ROM (512 16KB banks)
//   - Up to 128KB RAM (16 8KB banks)
//   - Simple ROM/RAM banking with no quirks (unlike MBC1)
//   - 9-bit ROM bank number, split across two bank-select registers
//   - Optional rumble motor support (on rumble carts bit 3 of the RAM bank
//     register is the motor bit and is left out of the bank number; this
//     core has no haptic output to drive)
type MBC5 struct {
	rom        []uint8
	ram        []uint8
	romBank    uint16
	ramBank    uint8
	ramEnabled bool
	hasRumble  bool
	hasBattery bool
}

// NewMBC5 creates a new MBC5 controller.
func NewMBC5(romData []uint8, hasRumble, hasBattery bool, ramBankCount uint8) *MBC5 {
	ramSize := uint32(ramBankCount) * 0x2000
	return &MBC5{
		rom:        romData,
		ram:        make([]uint8, ramSize),
		romBank:    1,
		hasRumble:  hasRumble,
		hasBattery: hasBattery,
	}
}

func (m *MBC5) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	case addr <= 0x7FFF:
		offset := uint32(m.romBank) * 0x4000
		if len(m.rom) > 0 {
			offset %= uint32(len(m.rom))
		}
		return m.rom[offset+uint32(addr-0x4000)]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		offset := uint32(m.ramBank) * 0x2000 % uint32(len(m.ram))
		return m.ram[offset+uint32(addr-0xA000)]
	default:
		return 0xFF
	}
}

func (m *MBC5) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case addr <= 0x2FFF:
		m.romBank = (m.romBank & 0x100) | uint16(value)
	case addr <= 0x3FFF:
		m.romBank = (m.romBank & 0x0FF) | (uint16(value&0x01) << 8)
	case addr <= 0x5FFF:
		// The rumble bit, when present, is bit 3 of this register; the
		// remaining bits select the RAM bank.
		if m.hasRumble {
			m.ramBank = value & 0x07
		} else {
			m.ramBank = value & 0x0F
		}
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		offset := uint32(m.ramBank) * 0x2000 % uint32(len(m.ram))
		m.ram[offset+uint32(addr-0xA000)] = value
	}
}
