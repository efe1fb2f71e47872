package cpu

// Opcode is a decoded instruction body; it performs the instruction's
// effect and returns the number of T-states it took.
type Opcode func(*CPU) int

var opcodeTable [256]Opcode
var opcodeCBTable [256]Opcode

// decode peeks the byte(s) at the current PC without advancing it (Step
// advances PC itself once the opcode length is known) and returns the
// matching instruction body.
func decode(c *CPU) (Opcode, bool) {
	first := c.mmu.Read(c.pc)
	if first == 0xCB {
		second := c.mmu.Read(c.pc + 1)
		c.currentOpcode = 0xCB00 | uint16(second)
		fn := opcodeCBTable[second]
		return fn, fn != nil
	}

	c.currentOpcode = uint16(first)
	fn := opcodeTable[first]
	return fn, fn != nil
}

func r8Cycles(index uint8) int {
	if index == r8HLInd {
		return 8
	}
	return 4
}

func cbR8Cycles(index uint8) int {
	if index == r8HLInd {
		return 16
	}
	return 8
}

func init() {
	registerLoads()
	registerALU()
	registerExplicitOpcodes()
	registerCBBlock()
}

// registerLoads fills the fully regular LD r,r' block at 0x40-0x7F. 0x76
// (what would be LD (HL),(HL)) is HALT instead and is registered by
// registerExplicitOpcodes.
func registerLoads() {
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			opcode := 0x40 + int(dst)*8 + int(src)
			if opcode == 0x76 {
				continue
			}
			d, s := dst, src
			cycles := 4
			if d == r8HLInd || s == r8HLInd {
				cycles = 8
			}
			opcodeTable[opcode] = func(c *CPU) int {
				c.setR8(d, c.getR8(s))
				return cycles
			}
		}
	}
}

// registerALU fills the fully regular ADD/ADC/SUB/SBC/AND/XOR/OR/CP A,r8
// block at 0x80-0xBF.
func registerALU() {
	ops := []func(c *CPU, v uint8){
		func(c *CPU, v uint8) { c.addToA(v, false) },
		func(c *CPU, v uint8) { c.addToA(v, true) },
		func(c *CPU, v uint8) { c.sub(v, false) },
		func(c *CPU, v uint8) { c.sub(v, true) },
		func(c *CPU, v uint8) { c.and(v) },
		func(c *CPU, v uint8) { c.xor(v) },
		func(c *CPU, v uint8) { c.or(v) },
		func(c *CPU, v uint8) { c.cp(v) },
	}

	for op := 0; op < 8; op++ {
		for src := uint8(0); src < 8; src++ {
			opcode := 0x80 + op*8 + int(src)
			fn, s := ops[op], src
			opcodeTable[opcode] = func(c *CPU) int {
				fn(c, c.getR8(s))
				return r8Cycles(s)
			}
		}
	}
}

// registerCBBlock fills the entire CB-prefixed table, which is fully
// regular: rotate/shift group (0x00-0x3F), BIT (0x40-0x7F), RES
// (0x80-0xBF) and SET (0xC0-0xFF), each crossed with the 8 r8 operands.
func registerCBBlock() {
	shifts := []func(c *CPU, r *uint8){
		(*CPU).rlc,
		(*CPU).rrc,
		(*CPU).rl,
		(*CPU).rr,
		(*CPU).sla,
		(*CPU).sra,
		(*CPU).swap,
		(*CPU).srl,
	}

	for op := 0; op < 8; op++ {
		for src := uint8(0); src < 8; src++ {
			opcode := op*8 + int(src)
			fn, s := shifts[op], src
			opcodeCBTable[opcode] = func(c *CPU) int {
				if s == r8HLInd {
					v := c.getR8(s)
					fn(c, &v)
					c.setR8(s, v)
				} else {
					fn(c, c.r8Ptr(s))
				}
				return cbR8Cycles(s)
			}
		}
	}

	for bitIdx := uint8(0); bitIdx < 8; bitIdx++ {
		for src := uint8(0); src < 8; src++ {
			opcode := 0x40 + int(bitIdx)*8 + int(src)
			b, s := bitIdx, src
			opcodeCBTable[opcode] = func(c *CPU) int {
				c.bit(b, c.getR8(s))
				if s == r8HLInd {
					return 12
				}
				return 8
			}
		}
	}

	for bitIdx := uint8(0); bitIdx < 8; bitIdx++ {
		for src := uint8(0); src < 8; src++ {
			opcode := 0x80 + int(bitIdx)*8 + int(src)
			b, s := bitIdx, src
			opcodeCBTable[opcode] = func(c *CPU) int {
				c.setR8(s, c.getR8(s)&^(1<<b))
				return cbR8Cycles(s)
			}
		}
	}

	for bitIdx := uint8(0); bitIdx < 8; bitIdx++ {
		for src := uint8(0); src < 8; src++ {
			opcode := 0xC0 + int(bitIdx)*8 + int(src)
			b, s := bitIdx, src
			opcodeCBTable[opcode] = func(c *CPU) int {
				c.setR8(s, c.getR8(s)|(1<<b))
				return cbR8Cycles(s)
			}
		}
	}
}
