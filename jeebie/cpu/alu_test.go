package cpu

import (
	"testing"

	"github.com/corvid-systems/jeebie/jeebie/memory"
	"github.com/stretchr/testify/assert"
)

func newTestCPU() *CPU {
	return New(memory.New())
}

func TestCPU_stack(t *testing.T) {
	cpu := newTestCPU()

	cpu.sp = 0xFFFF
	cpu.pushStack(0x0102)
	assert.Equal(t, uint16(0xFFFD), cpu.sp)

	popped := cpu.popStack()
	assert.Equal(t, uint16(0x0102), popped)
	assert.Equal(t, uint16(0xFFFF), cpu.sp)
}

func TestCPU_inc(t *testing.T) {
	cpu := newTestCPU()

	testCases := []struct {
		desc  string
		arg   uint8
		want  uint8
		flags Flag
	}{
		{desc: "increases", arg: 0x0A, want: 0x0B},
		{desc: "sets zero and half carry flags", arg: 0xFF, want: 0, flags: zeroFlag | halfCarryFlag},
		{desc: "sets half carry flag", arg: 0x0F, want: 0x10, flags: halfCarryFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu.f = 0
			cpu.a = tC.arg
			cpu.inc(&cpu.a)
			assert.Equal(t, tC.want, cpu.a)
			assert.Equal(t, uint8(tC.flags), cpu.f)
		})
	}
}

func TestCPU_dec(t *testing.T) {
	cpu := newTestCPU()

	testCases := []struct {
		desc  string
		arg   uint8
		want  uint8
		flags Flag
	}{
		{desc: "decreases", arg: 0x0A, want: 0x09, flags: subFlag},
		{desc: "sets half carry flag", arg: 0, want: 0xFF, flags: subFlag | halfCarryFlag},
		{desc: "sets zero flag", arg: 0x01, want: 0, flags: subFlag | zeroFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu.f = 0
			cpu.a = tC.arg
			cpu.dec(&cpu.a)
			assert.Equal(t, tC.want, cpu.a)
			assert.Equal(t, uint8(tC.flags), cpu.f)
		})
	}
}

func TestCPU_addToA(t *testing.T) {
	cpu := newTestCPU()

	t.Run("plain add sets carry and half carry", func(t *testing.T) {
		cpu.f = 0
		cpu.a = 0xFF
		cpu.addToA(0x01, false)
		assert.Equal(t, uint8(0), cpu.a)
		assert.Equal(t, uint8(zeroFlag|carryFlag|halfCarryFlag), cpu.f)
	})

	t.Run("adc includes carry-in", func(t *testing.T) {
		cpu.f = uint8(carryFlag)
		cpu.a = 0x0E
		cpu.addToA(0x01, true)
		assert.Equal(t, uint8(0x10), cpu.a)
		assert.Equal(t, uint8(halfCarryFlag), cpu.f)
	})
}

func TestCPU_sub(t *testing.T) {
	cpu := newTestCPU()

	t.Run("borrow sets carry", func(t *testing.T) {
		cpu.f = 0
		cpu.a = 0x00
		cpu.sub(0x01, false)
		assert.Equal(t, uint8(0xFF), cpu.a)
		assert.Equal(t, uint8(subFlag|carryFlag|halfCarryFlag), cpu.f)
	})

	t.Run("sbc includes borrow-in", func(t *testing.T) {
		cpu.f = uint8(carryFlag)
		cpu.a = 0x05
		cpu.sub(0x04, true)
		assert.Equal(t, uint8(0x00), cpu.a)
		assert.True(t, cpu.isSetFlag(zeroFlag))
	})
}

func TestCPU_cp_doesNotMutateA(t *testing.T) {
	cpu := newTestCPU()
	cpu.a = 0x10
	cpu.cp(0x10)
	assert.Equal(t, uint8(0x10), cpu.a)
	assert.True(t, cpu.isSetFlag(zeroFlag))
}

func TestCPU_daa(t *testing.T) {
	cpu := newTestCPU()

	t.Run("corrects after BCD add", func(t *testing.T) {
		cpu.a = 0x09
		cpu.f = 0
		cpu.addToA(0x08, false) // a = 0x11 binary, should read as 0x17 BCD
		cpu.daa()
		assert.Equal(t, uint8(0x17), cpu.a)
	})
}

func TestCPU_rotates(t *testing.T) {
	cpu := newTestCPU()

	t.Run("rlc wraps the top bit into carry and bit 0", func(t *testing.T) {
		cpu.f = 0
		cpu.a = 0x80
		cpu.rlc(&cpu.a)
		assert.Equal(t, uint8(0x01), cpu.a)
		assert.True(t, cpu.isSetFlag(carryFlag))
	})

	t.Run("srl shifts in a zero from the top", func(t *testing.T) {
		cpu.f = 0
		cpu.a = 0x01
		cpu.srl(&cpu.a)
		assert.Equal(t, uint8(0), cpu.a)
		assert.True(t, cpu.isSetFlag(zeroFlag))
		assert.True(t, cpu.isSetFlag(carryFlag))
	})
}

func TestCPU_bit(t *testing.T) {
	cpu := newTestCPU()

	cpu.bit(3, 0x08)
	assert.False(t, cpu.isSetFlag(zeroFlag))

	cpu.bit(3, 0xF7)
	assert.True(t, cpu.isSetFlag(zeroFlag))
}
