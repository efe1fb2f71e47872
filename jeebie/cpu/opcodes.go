package cpu

import "github.com/corvid-systems/jeebie/jeebie/bit"

// registerExplicitOpcodes fills every opcode that isn't part of the fully
// regular LD r,r' or ALU A,r8 blocks (those are built by registerLoads and
// registerALU). Opcodes the DMG never defines (0xD3, 0xDB, 0xDD, 0xE3,
// 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD) are left unregistered; Step
// reports those as an error instead of executing undefined behavior.
func registerExplicitOpcodes() {
	t := &opcodeTable

	t[0x00] = func(c *CPU) int { return 4 }
	t[0x01] = func(c *CPU) int { c.setBC(c.readImmediateWord()); return 12 }
	t[0x02] = func(c *CPU) int { c.mmu.Write(c.getBC(), c.a); return 8 }
	t[0x03] = func(c *CPU) int { c.setBC(c.getBC() + 1); return 8 }
	t[0x04] = func(c *CPU) int { c.inc(&c.b); return 4 }
	t[0x05] = func(c *CPU) int { c.dec(&c.b); return 4 }
	t[0x06] = func(c *CPU) int { c.b = c.readImmediate(); return 8 }
	t[0x07] = func(c *CPU) int { c.rlc(&c.a); c.resetFlag(zeroFlag); return 4 }
	t[0x08] = func(c *CPU) int {
		addr := c.readImmediateWord()
		c.mmu.Write(addr, bit.Low(c.sp))
		c.mmu.Write(addr+1, bit.High(c.sp))
		return 20
	}
	t[0x09] = func(c *CPU) int { c.addToHL(c.getBC()); return 8 }
	t[0x0A] = func(c *CPU) int { c.a = c.mmu.Read(c.getBC()); return 8 }
	t[0x0B] = func(c *CPU) int { c.setBC(c.getBC() - 1); return 8 }
	t[0x0C] = func(c *CPU) int { c.inc(&c.c); return 4 }
	t[0x0D] = func(c *CPU) int { c.dec(&c.c); return 4 }
	t[0x0E] = func(c *CPU) int { c.c = c.readImmediate(); return 8 }
	t[0x0F] = func(c *CPU) int { c.rrc(&c.a); c.resetFlag(zeroFlag); return 4 }

	t[0x10] = func(c *CPU) int { c.readImmediate(); c.stopped = true; return 4 }
	t[0x11] = func(c *CPU) int { c.setDE(c.readImmediateWord()); return 12 }
	t[0x12] = func(c *CPU) int { c.mmu.Write(c.getDE(), c.a); return 8 }
	t[0x13] = func(c *CPU) int { c.setDE(c.getDE() + 1); return 8 }
	t[0x14] = func(c *CPU) int { c.inc(&c.d); return 4 }
	t[0x15] = func(c *CPU) int { c.dec(&c.d); return 4 }
	t[0x16] = func(c *CPU) int { c.d = c.readImmediate(); return 8 }
	t[0x17] = func(c *CPU) int { c.rl(&c.a); c.resetFlag(zeroFlag); return 4 }
	t[0x18] = func(c *CPU) int { return c.jr(true) }
	t[0x19] = func(c *CPU) int { c.addToHL(c.getDE()); return 8 }
	t[0x1A] = func(c *CPU) int { c.a = c.mmu.Read(c.getDE()); return 8 }
	t[0x1B] = func(c *CPU) int { c.setDE(c.getDE() - 1); return 8 }
	t[0x1C] = func(c *CPU) int { c.inc(&c.e); return 4 }
	t[0x1D] = func(c *CPU) int { c.dec(&c.e); return 4 }
	t[0x1E] = func(c *CPU) int { c.e = c.readImmediate(); return 8 }
	t[0x1F] = func(c *CPU) int { c.rr(&c.a); c.resetFlag(zeroFlag); return 4 }

	t[0x20] = func(c *CPU) int { return c.jr(!c.isSetFlag(zeroFlag)) }
	t[0x21] = func(c *CPU) int { c.setHL(c.readImmediateWord()); return 12 }
	t[0x22] = func(c *CPU) int { c.mmu.Write(c.getHL(), c.a); c.setHL(c.getHL() + 1); return 8 }
	t[0x23] = func(c *CPU) int { c.setHL(c.getHL() + 1); return 8 }
	t[0x24] = func(c *CPU) int { c.inc(&c.h); return 4 }
	t[0x25] = func(c *CPU) int { c.dec(&c.h); return 4 }
	t[0x26] = func(c *CPU) int { c.h = c.readImmediate(); return 8 }
	t[0x27] = func(c *CPU) int { c.daa(); return 4 }
	t[0x28] = func(c *CPU) int { return c.jr(c.isSetFlag(zeroFlag)) }
	t[0x29] = func(c *CPU) int { c.addToHL(c.getHL()); return 8 }
	t[0x2A] = func(c *CPU) int { c.a = c.mmu.Read(c.getHL()); c.setHL(c.getHL() + 1); return 8 }
	t[0x2B] = func(c *CPU) int { c.setHL(c.getHL() - 1); return 8 }
	t[0x2C] = func(c *CPU) int { c.inc(&c.l); return 4 }
	t[0x2D] = func(c *CPU) int { c.dec(&c.l); return 4 }
	t[0x2E] = func(c *CPU) int { c.l = c.readImmediate(); return 8 }
	t[0x2F] = func(c *CPU) int { c.cpl(); return 4 }

	t[0x30] = func(c *CPU) int { return c.jr(!c.isSetFlag(carryFlag)) }
	t[0x31] = func(c *CPU) int { c.sp = c.readImmediateWord(); return 12 }
	t[0x32] = func(c *CPU) int { c.mmu.Write(c.getHL(), c.a); c.setHL(c.getHL() - 1); return 8 }
	t[0x33] = func(c *CPU) int { c.sp++; return 8 }
	t[0x34] = func(c *CPU) int {
		v := c.mmu.Read(c.getHL())
		c.inc(&v)
		c.mmu.Write(c.getHL(), v)
		return 12
	}
	t[0x35] = func(c *CPU) int {
		v := c.mmu.Read(c.getHL())
		c.dec(&v)
		c.mmu.Write(c.getHL(), v)
		return 12
	}
	t[0x36] = func(c *CPU) int { c.mmu.Write(c.getHL(), c.readImmediate()); return 12 }
	t[0x37] = func(c *CPU) int { c.scf(); return 4 }
	t[0x38] = func(c *CPU) int { return c.jr(c.isSetFlag(carryFlag)) }
	t[0x39] = func(c *CPU) int { c.addToHL(c.sp); return 8 }
	t[0x3A] = func(c *CPU) int { c.a = c.mmu.Read(c.getHL()); c.setHL(c.getHL() - 1); return 8 }
	t[0x3B] = func(c *CPU) int { c.sp--; return 8 }
	t[0x3C] = func(c *CPU) int { c.inc(&c.a); return 4 }
	t[0x3D] = func(c *CPU) int { c.dec(&c.a); return 4 }
	t[0x3E] = func(c *CPU) int { c.a = c.readImmediate(); return 8 }
	t[0x3F] = func(c *CPU) int { c.ccf(); return 4 }

	t[0x76] = func(c *CPU) int { c.halted = true; return 4 }

	t[0xC0] = func(c *CPU) int { return c.ret(!c.isSetFlag(zeroFlag)) }
	t[0xC1] = func(c *CPU) int { c.setBC(c.popStack()); return 12 }
	t[0xC2] = func(c *CPU) int { return c.jp(!c.isSetFlag(zeroFlag)) }
	t[0xC3] = func(c *CPU) int { return c.jp(true) }
	t[0xC4] = func(c *CPU) int { return c.call(!c.isSetFlag(zeroFlag)) }
	t[0xC5] = func(c *CPU) int { c.pushStack(c.getBC()); return 16 }
	t[0xC6] = func(c *CPU) int { c.addToA(c.readImmediate(), false); return 8 }
	t[0xC7] = func(c *CPU) int { c.rst(0x00); return 16 }
	t[0xC8] = func(c *CPU) int { return c.ret(c.isSetFlag(zeroFlag)) }
	t[0xC9] = func(c *CPU) int { c.pc = c.popStack(); return 16 }
	t[0xCA] = func(c *CPU) int { return c.jp(c.isSetFlag(zeroFlag)) }
	t[0xCC] = func(c *CPU) int { return c.call(c.isSetFlag(zeroFlag)) }
	t[0xCD] = func(c *CPU) int { return c.call(true) }
	t[0xCE] = func(c *CPU) int { c.addToA(c.readImmediate(), true); return 8 }
	t[0xCF] = func(c *CPU) int { c.rst(0x08); return 16 }

	t[0xD0] = func(c *CPU) int { return c.ret(!c.isSetFlag(carryFlag)) }
	t[0xD1] = func(c *CPU) int { c.setDE(c.popStack()); return 12 }
	t[0xD2] = func(c *CPU) int { return c.jp(!c.isSetFlag(carryFlag)) }
	t[0xD4] = func(c *CPU) int { return c.call(!c.isSetFlag(carryFlag)) }
	t[0xD5] = func(c *CPU) int { c.pushStack(c.getDE()); return 16 }
	t[0xD6] = func(c *CPU) int { c.sub(c.readImmediate(), false); return 8 }
	t[0xD7] = func(c *CPU) int { c.rst(0x10); return 16 }
	t[0xD8] = func(c *CPU) int { return c.ret(c.isSetFlag(carryFlag)) }
	t[0xD9] = func(c *CPU) int { c.pc = c.popStack(); c.interruptsEnabled = true; return 16 }
	t[0xDA] = func(c *CPU) int { return c.jp(c.isSetFlag(carryFlag)) }
	t[0xDC] = func(c *CPU) int { return c.call(c.isSetFlag(carryFlag)) }
	t[0xDE] = func(c *CPU) int { c.sub(c.readImmediate(), true); return 8 }
	t[0xDF] = func(c *CPU) int { c.rst(0x18); return 16 }

	t[0xE0] = func(c *CPU) int { c.mmu.Write(0xFF00+uint16(c.readImmediate()), c.a); return 12 }
	t[0xE1] = func(c *CPU) int { c.setHL(c.popStack()); return 12 }
	t[0xE2] = func(c *CPU) int { c.mmu.Write(0xFF00+uint16(c.c), c.a); return 8 }
	t[0xE5] = func(c *CPU) int { c.pushStack(c.getHL()); return 16 }
	t[0xE6] = func(c *CPU) int { c.and(c.readImmediate()); return 8 }
	t[0xE7] = func(c *CPU) int { c.rst(0x20); return 16 }
	t[0xE8] = func(c *CPU) int { c.sp = c.addSPSigned(); return 16 }
	t[0xE9] = func(c *CPU) int { c.pc = c.getHL(); return 4 }
	t[0xEA] = func(c *CPU) int { c.mmu.Write(c.readImmediateWord(), c.a); return 16 }
	t[0xEE] = func(c *CPU) int { c.xor(c.readImmediate()); return 8 }
	t[0xEF] = func(c *CPU) int { c.rst(0x28); return 16 }

	t[0xF0] = func(c *CPU) int { c.a = c.mmu.Read(0xFF00 + uint16(c.readImmediate())); return 12 }
	t[0xF1] = func(c *CPU) int { c.setAF(c.popStack()); return 12 }
	t[0xF2] = func(c *CPU) int { c.a = c.mmu.Read(0xFF00 + uint16(c.c)); return 8 }
	t[0xF3] = func(c *CPU) int { c.interruptsEnabled = false; c.eiPending = false; return 4 }
	t[0xF5] = func(c *CPU) int { c.pushStack(c.getAF()); return 16 }
	t[0xF6] = func(c *CPU) int { c.or(c.readImmediate()); return 8 }
	t[0xF7] = func(c *CPU) int { c.rst(0x30); return 16 }
	t[0xF8] = func(c *CPU) int { c.setHL(c.addSPSigned()); return 12 }
	t[0xF9] = func(c *CPU) int { c.sp = c.getHL(); return 8 }
	t[0xFA] = func(c *CPU) int { c.a = c.mmu.Read(c.readImmediateWord()); return 16 }
	t[0xFB] = func(c *CPU) int { c.eiPending = true; return 4 }
	t[0xFE] = func(c *CPU) int { c.cp(c.readImmediate()); return 8 }
	t[0xFF] = func(c *CPU) int { c.rst(0x38); return 16 }
}
