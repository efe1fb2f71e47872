// Package cpu implements the SM83 fetch-decode-execute core: registers,
// flags, the full instruction set, and interrupt dispatch.
package cpu

import (
	"fmt"

	"github.com/corvid-systems/jeebie/jeebie/addr"
	"github.com/corvid-systems/jeebie/jeebie/bit"
	"github.com/corvid-systems/jeebie/jeebie/memory"
)

// Flag is one of the 4 flags held in the high nibble of F, the low byte of AF.
type Flag uint8

const (
	zeroFlag      Flag = 0x80
	subFlag       Flag = 0x40
	halfCarryFlag Flag = 0x20
	carryFlag     Flag = 0x10
)

// CPU holds the full SM83 register and scheduling state.
type CPU struct {
	mmu *memory.MMU

	a, b, c, d, e, h, l uint8
	f                   uint8 // low nibble always reads as 0
	sp, pc              uint16

	currentOpcode uint16

	interruptsEnabled bool
	eiPending         bool
	halted            bool
	stopped           bool

	cycles uint64
}

// New returns a CPU wired to mmu, with registers at their post-boot-ROM
// values (as if the real bootstrap had already run).
func New(mmu *memory.MMU) *CPU {
	c := &CPU{
		mmu: mmu,
		a:   0x01, f: 0xB0,
		b: 0x00, c: 0x13,
		d: 0x00, e: 0xD8,
		h: 0x01, l: 0x4D,
		sp: 0xFFFE,
		pc: 0x0100,
	}
	return c
}

// Step executes one instruction (or one cycle of HALT/STOP) and returns
// the number of T-states it took. An unrecognized opcode is reported as
// an error rather than panicking, so a caller can decide how to react to
// a corrupt or unsupported ROM.
func (c *CPU) Step() (int, error) {
	if c.stopped {
		// STOP exits once the Joypad IF bit is set, independent of IE/IME:
		// a press of a button in the row P1 currently selects sets that
		// bit even when the interrupt is disabled in IE.
		if c.mmu.ReadBit(4, addr.IF) {
			c.stopped = false
		} else {
			c.tick(4)
			return 4, nil
		}
	}

	if c.halted {
		_, pending := c.mmu.PendingInterrupt()
		if !pending {
			c.tick(4)
			c.applyEIDelay()
			return 4, nil
		}

		c.halted = false
		if !c.interruptsEnabled {
			// Woken by a pending-but-disabled interrupt: the wake-up itself
			// doesn't service it, and the actual fetch waits for the next
			// Step call rather than running in the same 4 T-states.
			c.tick(4)
			c.applyEIDelay()
			return 4, nil
		}
	}

	if cycles := c.dispatchInterrupt(); cycles > 0 {
		c.applyEIDelay()
		return cycles, nil
	}

	fn, ok := decode(c)
	if !ok {
		return 0, fmt.Errorf("unsupported opcode 0x%02X at 0x%04X", c.currentOpcode, c.pc)
	}
	if c.currentOpcode > 0xFF {
		c.pc += 2
	} else {
		c.pc++
	}

	spent := fn(c)
	c.tick(spent)
	c.applyEIDelay()
	return spent, nil
}

func (c *CPU) tick(cycles int) {
	c.cycles += uint64(cycles)
	c.mmu.Tick(cycles)
}

// applyEIDelay turns on IME one instruction after EI, matching the
// documented one-instruction delay: EI itself must still execute with
// interrupts off.
func (c *CPU) applyEIDelay() {
	if c.eiPending {
		c.eiPending = false
		c.interruptsEnabled = true
	}
}

// dispatchInterrupt services the highest-priority pending, enabled
// interrupt if IME is set. It always costs 20 cycles on real hardware,
// pushing PC and jumping to the vector.
func (c *CPU) dispatchInterrupt() int {
	if !c.interruptsEnabled {
		return 0
	}
	interrupt, pending := c.mmu.PendingInterrupt()
	if !pending {
		return 0
	}

	c.interruptsEnabled = false
	c.mmu.ClearInterrupt(interrupt)
	c.pushStack(c.pc)
	c.pc = interrupt.Vector()
	c.tick(20)
	return 20
}

// handleInterrupts reports whether an interrupt is pending (IF&IE&0x1F
// != 0) and, if IME is set, services it. It returns true whenever a
// pending condition exists, independent of IME, so HALT/STOP wake-up
// can be checked the same way as actual servicing.
func (c *CPU) handleInterrupts() bool {
	_, pending := c.mmu.PendingInterrupt()
	if !pending {
		return false
	}
	if c.interruptsEnabled {
		c.dispatchInterrupt()
	}
	return true
}

func (c *CPU) pushStack(value uint16) {
	c.sp--
	c.mmu.Write(c.sp, bit.High(value))
	c.sp--
	c.mmu.Write(c.sp, bit.Low(value))
}

func (c *CPU) popStack() uint16 {
	low := c.mmu.Read(c.sp)
	c.sp++
	high := c.mmu.Read(c.sp)
	c.sp++
	return bit.Combine(high, low)
}

func (c *CPU) readImmediate() uint8 {
	v := c.mmu.Read(c.pc)
	c.pc++
	return v
}

func (c *CPU) readImmediateWord() uint16 {
	low := c.readImmediate()
	high := c.readImmediate()
	return bit.Combine(high, low)
}

// getAF/setAF etc combine the 8-bit register pairs into their 16-bit view.

func (c *CPU) getAF() uint16 { return bit.Combine(c.a, c.f&0xF0) }
func (c *CPU) setAF(v uint16) {
	c.a = bit.High(v)
	c.f = bit.Low(v) & 0xF0
}

func (c *CPU) getBC() uint16  { return bit.Combine(c.b, c.c) }
func (c *CPU) setBC(v uint16) { c.b, c.c = bit.High(v), bit.Low(v) }

func (c *CPU) getDE() uint16  { return bit.Combine(c.d, c.e) }
func (c *CPU) setDE(v uint16) { c.d, c.e = bit.High(v), bit.Low(v) }

func (c *CPU) getHL() uint16  { return bit.Combine(c.h, c.l) }
func (c *CPU) setHL(v uint16) { c.h, c.l = bit.High(v), bit.Low(v) }

func (c *CPU) setFlag(flag Flag)            { c.f |= uint8(flag) }
func (c *CPU) resetFlag(flag Flag)          { c.f &^= uint8(flag) }
func (c *CPU) isSetFlag(flag Flag) bool     { return c.f&uint8(flag) != 0 }
func (c *CPU) setFlagToCondition(flag Flag, cond bool) {
	if cond {
		c.setFlag(flag)
	} else {
		c.resetFlag(flag)
	}
}

func (c *CPU) flagToBit(flag Flag) uint8 {
	if c.isSetFlag(flag) {
		return 1
	}
	return 0
}

// PC returns the current program counter, for diagnostics and tests.
func (c *CPU) PC() uint16 { return c.pc }

// Cycles returns the total number of T-states executed since New.
func (c *CPU) Cycles() uint64 { return c.cycles }

// Halted reports whether the CPU is currently in the HALT state.
func (c *CPU) Halted() bool { return c.halted }
