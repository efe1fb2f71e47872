package cpu

import (
	"testing"

	"github.com/corvid-systems/jeebie/jeebie/memory"
	"github.com/stretchr/testify/assert"
)

func TestOpcodes_loadBlock(t *testing.T) {
	cpu := newTestCPU()
	cpu.b = 0x42

	cycles := opcodeTable[0x78](cpu) // LD A,B
	assert.Equal(t, uint8(0x42), cpu.a)
	assert.Equal(t, 4, cycles)
}

func TestOpcodes_loadThroughHL(t *testing.T) {
	cpu := newTestCPU()
	cpu.setHL(0xC000)
	cpu.b = 0x99

	cycles := opcodeTable[0x70](cpu) // LD (HL),B
	assert.Equal(t, uint8(0x99), cpu.mmu.Read(0xC000))
	assert.Equal(t, 8, cycles)
}

func TestOpcodes_aluBlock(t *testing.T) {
	cpu := newTestCPU()
	cpu.a = 0x0F
	cpu.b = 0x01

	opcodeTable[0x80](cpu) // ADD A,B
	assert.Equal(t, uint8(0x10), cpu.a)
	assert.True(t, cpu.isSetFlag(halfCarryFlag))
}

func TestOpcodes_incDecWordRegisters(t *testing.T) {
	cpu := newTestCPU()
	cpu.setBC(0x00FF)

	opcodeTable[0x03](cpu) // INC BC
	assert.Equal(t, uint16(0x0100), cpu.getBC())

	opcodeTable[0x0B](cpu) // DEC BC
	assert.Equal(t, uint16(0x00FF), cpu.getBC())
}

func TestOpcodes_jrRelative(t *testing.T) {
	cpu := newTestCPU()
	cpu.pc = 0xC000
	cpu.mmu.Write(0xC000, 0xFE) // -2, an infinite loop back to itself

	cycles := opcodeTable[0x18](cpu)
	assert.Equal(t, uint16(0xBFFF), cpu.pc)
	assert.Equal(t, 12, cycles)
}

func TestOpcodes_callAndRet(t *testing.T) {
	cpu := newTestCPU()
	cpu.pc = 0xC000
	cpu.sp = 0xFFFE
	cpu.mmu.Write(0xC000, 0x34)
	cpu.mmu.Write(0xC001, 0xC1) // target 0xC134

	opcodeTable[0xCD](cpu) // CALL nn
	assert.Equal(t, uint16(0xC134), cpu.pc)
	assert.Equal(t, uint16(0xFFFC), cpu.sp)

	opcodeTable[0xC9](cpu) // RET
	assert.Equal(t, uint16(0xC002), cpu.pc)
	assert.Equal(t, uint16(0xFFFE), cpu.sp)
}

func TestOpcodes_pushPopAF_lowNibbleAlwaysZero(t *testing.T) {
	cpu := newTestCPU()
	cpu.sp = 0xFFFE
	cpu.a = 0xAB
	cpu.f = 0xFF

	opcodeTable[0xF5](cpu) // PUSH AF
	cpu.a, cpu.f = 0, 0
	opcodeTable[0xF1](cpu) // POP AF

	assert.Equal(t, uint8(0xAB), cpu.a)
	assert.Equal(t, uint8(0xF0), cpu.f)
}

func TestCBOpcodes_rotateAndBit(t *testing.T) {
	cpu := newTestCPU()
	cpu.b = 0x80

	cycles := opcodeCBTable[0x00](cpu) // RLC B
	assert.Equal(t, uint8(0x01), cpu.b)
	assert.True(t, cpu.isSetFlag(carryFlag))
	assert.Equal(t, 8, cycles)

	cpu.b = 0x08
	opcodeCBTable[0x58](cpu) // BIT 3,B
	assert.False(t, cpu.isSetFlag(zeroFlag))
}

func TestCBOpcodes_throughHL(t *testing.T) {
	cpu := newTestCPU()
	cpu.setHL(0xC000)
	cpu.mmu.Write(0xC000, 0x01)

	cycles := opcodeCBTable[0x06](cpu) // RLC (HL)
	assert.Equal(t, uint8(0x02), cpu.mmu.Read(0xC000))
	assert.Equal(t, 16, cycles)
}

func TestOpcodes_illegalOpcodesAreUnregistered(t *testing.T) {
	for _, op := range []int{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		assert.Nil(t, opcodeTable[op], "0x%02X should be unregistered", op)
	}
}

func TestStep_advancesCyclesAndPC(t *testing.T) {
	mmu := memory.New()
	cpu := New(mmu)
	cpu.pc = 0xC000
	mmu.Write(0xC000, 0x00) // NOP

	cycles, err := cpu.Step()
	assert.NoError(t, err)
	assert.Equal(t, 4, cycles)
	assert.Equal(t, uint16(0xC001), cpu.pc)
	assert.Equal(t, uint64(4), cpu.cycles)
}
