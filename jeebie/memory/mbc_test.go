package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func bankedROM(bankCount int) []byte {
	rom := make([]byte, bankCount*0x4000)
	for bank := 0; bank < bankCount; bank++ {
		rom[bank*0x4000] = byte(bank) // first byte of each bank tags it
	}
	return rom
}

func TestNoMBC_ignoresWrites(t *testing.T) {
	rom := []byte{0xAA, 0xBB, 0xCC}
	mbc := NewNoMBC(rom)

	mbc.Write(0x0000, 0xFF)
	assert.Equal(t, byte(0xAA), mbc.Read(0x0000), "NoMBC writes are no-ops")
}

func TestMBC1_romBankSelect(t *testing.T) {
	mbc := NewMBC1(bankedROM(8), false, 0)

	mbc.Write(0x2000, 0x03)
	assert.Equal(t, byte(0x03), mbc.Read(0x4000))
}

// Invariant (spec §8.4): writing 0x00/0x20/0x40/0x60 to the bank-select
// register, with the upper 2 bank bits set to match, always yields bank
// 0x01/0x21/0x41/0x61 respectively — the classic MBC1 quirk where banks
// that are multiples of 0x20 are unreachable and alias to bank+1.
func TestMBC1_bankZeroSubstitution(t *testing.T) {
	tests := []struct {
		write uint8
		want  uint8
	}{
		{0x00, 0x01},
		{0x20, 0x21},
		{0x40, 0x41},
		{0x60, 0x61},
	}

	for _, tt := range tests {
		mbc := NewMBC1(bankedROM(128), false, 0)
		mbc.Write(0x4000, tt.write>>5) // BANK2: upper bits matching the intended bank
		mbc.Write(0x2000, tt.write)    // BANK1: low 5 bits, all zero for these values
		assert.Equal(t, tt.want, mbc.Read(0x4000), "write 0x%02X", tt.write)
	}
}

func TestMBC1_ramRequiresEnable(t *testing.T) {
	mbc := NewMBC1(bankedROM(2), false, 1)

	assert.Equal(t, byte(0xFF), mbc.Read(0xA000), "RAM reads 0xFF before being enabled")

	mbc.Write(0x0000, 0x0A)
	mbc.Write(0xA000, 0x42)
	assert.Equal(t, byte(0x42), mbc.Read(0xA000))

	mbc.Write(0x0000, 0x00)
	assert.Equal(t, byte(0xFF), mbc.Read(0xA000), "RAM reads 0xFF once disabled again")
}

func TestMBC1_ramBankingMode(t *testing.T) {
	mbc := NewMBC1(bankedROM(2), false, 4)
	mbc.Write(0x0000, 0x0A) // enable RAM
	mbc.Write(0x6000, 0x01) // switch to RAM banking mode

	mbc.Write(0x4000, 0x02) // select RAM bank 2
	mbc.Write(0xA000, 0x55)

	mbc.Write(0x4000, 0x00) // back to bank 0
	assert.NotEqual(t, byte(0x55), mbc.Read(0xA000))

	mbc.Write(0x4000, 0x02)
	assert.Equal(t, byte(0x55), mbc.Read(0xA000))
}

func TestMBC2_builtinRAM(t *testing.T) {
	mbc := NewMBC2(bankedROM(2), false)

	mbc.Write(0x0000, 0x0A) // enable (bit 8 of address clear)
	mbc.Write(0xA000, 0xFF)

	assert.Equal(t, byte(0xFF), mbc.Read(0xA000), "only the low nibble is meaningful, masked with 0xF")
}

func TestMBC2_romBankSelect(t *testing.T) {
	mbc := NewMBC2(bankedROM(4), false)

	mbc.Write(0x0100, 0x02) // bit 8 set selects the ROM bank register
	assert.Equal(t, byte(0x02), mbc.Read(0x4000))
}

func TestMBC3_rtcLatch(t *testing.T) {
	mbc := NewMBC3(bankedROM(2), true, false, 1)
	mbc.Write(0x0000, 0x0A) // enable RAM/RTC

	mbc.Write(0x4000, 0x08) // select RTC seconds register
	mbc.Write(0xA000, 0x2A)
	assert.Equal(t, byte(0x2A), mbc.Read(0xA000))
}

func TestMBC3_ramBanking(t *testing.T) {
	mbc := NewMBC3(bankedROM(2), false, false, 4)
	mbc.Write(0x0000, 0x0A)

	mbc.Write(0x4000, 0x01)
	mbc.Write(0xA000, 0x77)

	mbc.Write(0x4000, 0x00)
	assert.NotEqual(t, byte(0x77), mbc.Read(0xA000))
}

func TestMBC5_splitBankRegister(t *testing.T) {
	const bankCount = 300
	mbc := NewMBC5(bankedROM(bankCount), false, false, 0)

	mbc.Write(0x2000, 0xFF)
	mbc.Write(0x3000, 0x01) // high bit of the 9-bit bank number, selects bank 0x1FF = 511

	wantBank := 511 % bankCount
	assert.Equal(t, byte(wantBank), mbc.Read(0x4000))
}
