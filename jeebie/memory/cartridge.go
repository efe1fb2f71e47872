package memory

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	titleAddress         = 0x134
	titleLength          = 16
	cartridgeTypeAddress = 0x147
	romSizeAddress       = 0x148
	ramSizeAddress       = 0x149
)

// MBCKind is a tagged variant identifying which bank-controller chip a
// cartridge carries, decoded from the header byte at 0x147.
type MBCKind uint8

const (
	NoMBCKind MBCKind = iota
	MBC1Kind
	MBC2Kind
	MBC3Kind
	MBC5Kind
)

// LoadErrorKind classifies why a cartridge image was rejected.
type LoadErrorKind uint8

const (
	// TooSmall means the image is under 32KiB or too short to hold a header.
	TooSmall LoadErrorKind = iota
	// TooLarge means the image exceeds the 2MiB address space this core models.
	TooLarge
	// UnsupportedMBC means the header names an MBC chip this core doesn't implement.
	UnsupportedMBC
)

// LoadError reports why Cartridge construction failed.
type LoadError struct {
	Kind  LoadErrorKind
	Value uint8 // cartridge-type byte, set only for UnsupportedMBC
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case TooSmall:
		return "cartridge image too small to contain a valid header"
	case TooLarge:
		return "cartridge image exceeds 2MiB"
	case UnsupportedMBC:
		return fmt.Sprintf("unsupported cartridge type byte 0x%02X", e.Value)
	default:
		return "invalid cartridge image"
	}
}

const (
	minROMSize = 0x8000   // 32KiB
	maxROMSize = 0x200000 // 2MiB
)

// Cartridge is an immutable, defensively-bounded view over a ROM image.
// It never mutates after construction; all bank-switching state lives in
// the MBC built from it.
type Cartridge struct {
	data         []byte
	title        string
	mbcKind      MBCKind
	ramBankCount uint8
	hasBattery   bool
	hasRTC       bool
	hasRumble    bool
}

// NewCartridge parses a raw ROM image into a Cartridge, or returns a
// LoadError describing why the image was rejected.
func NewCartridge(data []byte) (*Cartridge, error) {
	if len(data) < minROMSize || len(data) <= ramSizeAddress {
		return nil, &LoadError{Kind: TooSmall}
	}
	if len(data) > maxROMSize {
		return nil, &LoadError{Kind: TooLarge}
	}

	cartType := data[cartridgeTypeAddress]
	kind, hasBattery, hasRTC, hasRumble, err := classify(cartType)
	if err != nil {
		return nil, err
	}

	padded := make([]byte, len(data))
	copy(padded, data)

	return &Cartridge{
		data:         padded,
		title:        cleanTitle(padded[titleAddress : titleAddress+titleLength]),
		mbcKind:      kind,
		ramBankCount: ramBankCount(padded[ramSizeAddress]),
		hasBattery:   hasBattery,
		hasRTC:       hasRTC,
		hasRumble:    hasRumble,
	}, nil
}

// classify maps the 0x147 cartridge-type byte to an MBC kind and its
// optional extras, per the values enumerated in spec.md and the wider
// Pan Docs cartridge-header table.
func classify(cartType byte) (kind MBCKind, hasBattery, hasRTC, hasRumble bool, err error) {
	switch cartType {
	case 0x00:
		return NoMBCKind, false, false, false, nil
	case 0x01, 0x02:
		return MBC1Kind, false, false, false, nil
	case 0x03:
		return MBC1Kind, true, false, false, nil
	case 0x05:
		return MBC2Kind, false, false, false, nil
	case 0x06:
		return MBC2Kind, true, false, false, nil
	case 0x0F, 0x10:
		return MBC3Kind, true, true, false, nil
	case 0x11, 0x12:
		return MBC3Kind, false, false, false, nil
	case 0x13:
		return MBC3Kind, true, false, false, nil
	case 0x19, 0x1A:
		return MBC5Kind, false, false, false, nil
	case 0x1B:
		return MBC5Kind, true, false, false, nil
	case 0x1C, 0x1D:
		return MBC5Kind, false, false, true, nil
	case 0x1E:
		return MBC5Kind, true, false, true, nil
	default:
		return 0, false, false, false, &LoadError{Kind: UnsupportedMBC, Value: cartType}
	}
}

// ramBankCount decodes the 0x149 RAM-size header byte into a bank count
// (each bank is 8KiB). Unknown/absent codes map to no external RAM.
func ramBankCount(code byte) uint8 {
	switch code {
	case 0x02:
		return 1
	case 0x03:
		return 4
	case 0x04:
		return 16
	case 0x05:
		return 8
	default:
		return 0
	}
}

func cleanTitle(raw []byte) string {
	runes := make([]rune, 0, len(raw))
	for _, b := range raw {
		switch {
		case b == 0:
			continue
		case unicode.IsPrint(rune(b)):
			runes = append(runes, rune(b))
		}
	}
	title := strings.TrimSpace(string(runes))
	if title == "" {
		return "(untitled)"
	}
	return title
}

// Title returns the cleaned-up game title from the cartridge header.
func (c *Cartridge) Title() string { return c.title }

// Read returns the byte at offset, or 0xFF if offset is out of range.
// Bounds are always checked; this never panics on a malformed ROM.
func (c *Cartridge) Read(offset uint32) uint8 {
	if int(offset) >= len(c.data) {
		return 0xFF
	}
	return c.data[offset]
}

// Len returns the size of the underlying ROM image in bytes.
func (c *Cartridge) Len() int { return len(c.data) }
