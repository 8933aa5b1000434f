package cpu

import (
	"errors"
)

// Interrupt vectors.
const (
	vectorNMI   = 0xFFFA
	vectorReset = 0xFFFC
	vectorIRQ   = 0xFFFE
	vectorBRK   = vectorIRQ
)

const stackPage = 0x0100

// Bus is everything the CPU needs from the rest of the machine: a flat
// 16-bit address space. PPU/controller/mapper register side effects are
// the concrete Bus implementation's problem, not the CPU's.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// ErrInvalidOpcode marks the byte Step last decoded as one with no
// opcodeTable entry. Step never returns it as an error: dispatch is
// total, so an unmapped byte is treated as a one-byte, zero-cycle
// no-op and the instruction stream continues, matching how real ROMs
// that execute stray data bytes are expected to survive. LastInvalid
// lets a caller notice this happened without Step itself failing.
var ErrInvalidOpcode = errors.New("cpu: invalid opcode")

// CPU is the MOS 6502-derived processor core. It owns no memory of its
// own beyond its registers; all reads and writes go through Bus.
type CPU struct {
	Regs Registers
	Bus  Bus

	// Cycles is the running total of cycles spent since Reset. Callers
	// driving CPU:PPU synchronization read this to know how far to
	// advance the PPU.
	Cycles uint64

	pageCrossed bool  // scratch, set by operand() and consumed by Step()
	extraCycles uint8 // scratch, set by branch() and consumed by Step()
	nmiPending  bool
	irqPending  bool

	// LastInvalid is set by Step whenever the most recently fetched
	// opcode byte had no opcodeTable entry; it is cleared on every
	// other Step call. Diagnostic only — dispatch itself never fails.
	LastInvalid bool
}

// New constructs a CPU wired to bus. Reset must be called before Step.
func New(bus Bus) *CPU {
	return &CPU{Bus: bus}
}

// Reset puts the CPU into its documented power-up/reset state and
// loads PC from the reset vector.
// https://www.nesdev.org/wiki/CPU_ALL#Power_up_state
func (c *CPU) Reset() {
	c.Regs.Reset()
	c.Regs.PC = c.read16(vectorReset)
	c.Cycles = 0
	c.nmiPending = false
	c.irqPending = false
}

// TriggerNMI latches a non-maskable interrupt to be serviced before the
// next instruction fetch.
func (c *CPU) TriggerNMI() {
	c.nmiPending = true
}

// TriggerIRQ latches a maskable interrupt request; it is serviced
// before the next instruction fetch only if the interrupt-disable flag
// is clear.
func (c *CPU) TriggerIRQ() {
	c.irqPending = true
}

// Step either services one pending interrupt (returning its 7 cycles
// without executing an instruction) or executes exactly one
// instruction, and returns the number of CPU cycles consumed. This is
// the unit the conformance harness and the bus's CPU:PPU scheduler
// both drive.
func (c *CPU) Step() (uint8, error) {
	if c.nmiPending {
		c.nmiPending = false
		c.serviceInterrupt(vectorNMI, false)
		c.Cycles += 7
		return 7, nil
	}
	if c.irqPending {
		c.irqPending = false
		if !c.Regs.GetFlag(FlagInterruptDisable) {
			c.serviceInterrupt(vectorIRQ, false)
			c.Cycles += 7
			return 7, nil
		}
	}

	opByte := c.Bus.Read(c.Regs.PC)
	op, ok := opcodeTable[opByte]
	c.LastInvalid = !ok
	if !ok {
		// Dispatch is total: an unmapped byte is a one-byte,
		// zero-cycle no-op so the instruction stream keeps moving.
		c.Regs.PC++
		return 0, nil
	}

	startPC := c.Regs.PC
	c.Regs.PC++
	c.pageCrossed = false
	c.extraCycles = 0

	op.exec(c, op.mode)

	cycles := op.cycles
	if c.pageCrossed && pageCrossExtra(op.mode) {
		switch op.name {
		case "STA", "ASL", "LSR", "ROL", "ROR", "DEC", "INC",
			"DCM", "ISB", "SLO", "RLA", "SRE", "RRA":
			// Stores and read-modify-writes already include the
			// indexed cost in their base cycle count.
		default:
			cycles++
		}
	}
	cycles += c.extraCycles

	// If the instruction didn't redirect control flow (branch/jump/
	// call/return), advance past the remaining operand bytes; we
	// already consumed the opcode byte itself above.
	if c.Regs.PC == startPC+1 {
		c.Regs.PC += uint16(op.bytes) - 1
	}

	c.Cycles += uint64(cycles)
	return cycles, nil
}

// serviceInterrupt pushes PC and status (B synthesized per brk) and
// jumps to the handler at vector, setting the interrupt-disable flag.
func (c *CPU) serviceInterrupt(vector uint16, brk bool) {
	c.pushAddr(c.Regs.PC)
	c.pushStack(c.Regs.StatusForPush(brk))
	c.Regs.SetFlag(FlagInterruptDisable, true)
	c.Regs.PC = c.read16(vector)
}

func (c *CPU) pushStack(v uint8) {
	c.Bus.Write(stackPage+uint16(c.Regs.SP), v)
	c.Regs.SP--
}

func (c *CPU) popStack() uint8 {
	c.Regs.SP++
	return c.Bus.Read(stackPage + uint16(c.Regs.SP))
}

func (c *CPU) pushAddr(addr uint16) {
	c.pushStack(uint8(addr >> 8))
	c.pushStack(uint8(addr))
}

func (c *CPU) popAddr() uint16 {
	lo := uint16(c.popStack())
	hi := uint16(c.popStack())
	return hi<<8 | lo
}

// branch resolves the relative target and, if taken, jumps to it: +1
// cycle for the taken branch itself, +1 more if the target is on a
// different page than the branch's operand byte (the current PC).
func (c *CPU) branch(taken bool) {
	addr := c.operand(Relative)
	if !taken {
		return
	}
	c.extraCycles++
	if pageCrossed(c.Regs.PC, addr) {
		c.extraCycles++
	}
	c.Regs.PC = addr
}

// addWithCarry implements ADC's binary-mode addition, including carry
// in and signed overflow detection.
func (c *CPU) addWithCarry(b uint8) {
	carry := uint16(0)
	if c.Regs.GetFlag(FlagCarry) {
		carry = 1
	}
	sum := uint16(c.Regs.A) + uint16(b) + carry
	result := uint8(sum)

	c.Regs.SetFlag(FlagCarry, sum > 0xFF)
	c.Regs.SetFlag(FlagOverflow, (c.Regs.A^result)&(b^result)&0x80 != 0)
	c.Regs.A = result
	c.Regs.UpdateNZ(c.Regs.A)
}

func (c *CPU) compare(reg, b uint8) {
	c.Regs.UpdateNZ(reg - b)
	c.Regs.SetFlag(FlagCarry, reg >= b)
}

// --- Documented opcodes ---

func (c *CPU) adc(mode uint8) { c.addWithCarry(c.Bus.Read(c.operand(mode))) }
func (c *CPU) sbc(mode uint8) { c.addWithCarry(^c.Bus.Read(c.operand(mode))) }

func (c *CPU) and(mode uint8) {
	c.Regs.A &= c.Bus.Read(c.operand(mode))
	c.Regs.UpdateNZ(c.Regs.A)
}

func (c *CPU) asl(mode uint8) {
	old, updated := c.rmw(mode, func(v uint8) uint8 { return v << 1 })
	c.Regs.SetFlag(FlagCarry, old&0x80 != 0)
	c.Regs.UpdateNZ(updated)
}

func (c *CPU) lsr(mode uint8) {
	old, updated := c.rmw(mode, func(v uint8) uint8 { return v >> 1 })
	c.Regs.SetFlag(FlagCarry, old&0x01 != 0)
	c.Regs.UpdateNZ(updated)
}

func (c *CPU) rol(mode uint8) {
	carryIn := uint8(0)
	if c.Regs.GetFlag(FlagCarry) {
		carryIn = 1
	}
	old, updated := c.rmw(mode, func(v uint8) uint8 { return v<<1 | carryIn })
	c.Regs.SetFlag(FlagCarry, old&0x80 != 0)
	c.Regs.UpdateNZ(updated)
}

func (c *CPU) ror(mode uint8) {
	carryIn := uint8(0)
	if c.Regs.GetFlag(FlagCarry) {
		carryIn = 1
	}
	old, updated := c.rmw(mode, func(v uint8) uint8 { return v>>1 | carryIn<<7 })
	c.Regs.SetFlag(FlagCarry, old&0x01 != 0)
	c.Regs.UpdateNZ(updated)
}

// rmw applies f to the value addressed by mode (the accumulator for
// Accumulator mode, memory otherwise), writes the result back, and
// returns the before/after values so the caller can finish flag work.
func (c *CPU) rmw(mode uint8, f func(uint8) uint8) (old, updated uint8) {
	if mode == Accumulator {
		old = c.Regs.A
		updated = f(old)
		c.Regs.A = updated
		return
	}
	addr := c.operand(mode)
	old = c.Bus.Read(addr)
	updated = f(old)
	c.Bus.Write(addr, updated)
	return
}

func (c *CPU) bcc(_ uint8) { c.branch(!c.Regs.GetFlag(FlagCarry)) }
func (c *CPU) bcs(_ uint8) { c.branch(c.Regs.GetFlag(FlagCarry)) }
func (c *CPU) beq(_ uint8) { c.branch(c.Regs.GetFlag(FlagZero)) }
func (c *CPU) bmi(_ uint8) { c.branch(c.Regs.GetFlag(FlagNegative)) }
func (c *CPU) bne(_ uint8) { c.branch(!c.Regs.GetFlag(FlagZero)) }
func (c *CPU) bpl(_ uint8) { c.branch(!c.Regs.GetFlag(FlagNegative)) }
func (c *CPU) bvc(_ uint8) { c.branch(!c.Regs.GetFlag(FlagOverflow)) }
func (c *CPU) bvs(_ uint8) { c.branch(c.Regs.GetFlag(FlagOverflow)) }

func (c *CPU) bit(mode uint8) {
	v := c.Bus.Read(c.operand(mode))
	c.Regs.SetFlag(FlagZero, v&c.Regs.A == 0)
	c.Regs.SetFlag(FlagOverflow, v&FlagOverflow != 0)
	c.Regs.SetFlag(FlagNegative, v&FlagNegative != 0)
}

func (c *CPU) brk(_ uint8) {
	c.Regs.PC++ // BRK's signature byte is skipped by convention
	c.serviceInterrupt(vectorBRK, true)
}

func (c *CPU) clc(_ uint8) { c.Regs.SetFlag(FlagCarry, false) }
func (c *CPU) cld(_ uint8) { c.Regs.SetFlag(FlagDecimal, false) }
func (c *CPU) cli(_ uint8) { c.Regs.SetFlag(FlagInterruptDisable, false) }
func (c *CPU) clv(_ uint8) { c.Regs.SetFlag(FlagOverflow, false) }
func (c *CPU) sec(_ uint8) { c.Regs.SetFlag(FlagCarry, true) }
func (c *CPU) sed(_ uint8) { c.Regs.SetFlag(FlagDecimal, true) }
func (c *CPU) sei(_ uint8) { c.Regs.SetFlag(FlagInterruptDisable, true) }

func (c *CPU) cmp(mode uint8) { c.compare(c.Regs.A, c.Bus.Read(c.operand(mode))) }
func (c *CPU) cpx(mode uint8) { c.compare(c.Regs.X, c.Bus.Read(c.operand(mode))) }
func (c *CPU) cpy(mode uint8) { c.compare(c.Regs.Y, c.Bus.Read(c.operand(mode))) }

func (c *CPU) dec(mode uint8) {
	addr := c.operand(mode)
	v := c.Bus.Read(addr) - 1
	c.Bus.Write(addr, v)
	c.Regs.UpdateNZ(v)
}

func (c *CPU) inc(mode uint8) {
	addr := c.operand(mode)
	v := c.Bus.Read(addr) + 1
	c.Bus.Write(addr, v)
	c.Regs.UpdateNZ(v)
}

func (c *CPU) dex(_ uint8) { c.Regs.X--; c.Regs.UpdateNZ(c.Regs.X) }
func (c *CPU) dey(_ uint8) { c.Regs.Y--; c.Regs.UpdateNZ(c.Regs.Y) }
func (c *CPU) inx(_ uint8) { c.Regs.X++; c.Regs.UpdateNZ(c.Regs.X) }
func (c *CPU) iny(_ uint8) { c.Regs.Y++; c.Regs.UpdateNZ(c.Regs.Y) }

func (c *CPU) eor(mode uint8) {
	c.Regs.A ^= c.Bus.Read(c.operand(mode))
	c.Regs.UpdateNZ(c.Regs.A)
}

func (c *CPU) ora(mode uint8) {
	c.Regs.A |= c.Bus.Read(c.operand(mode))
	c.Regs.UpdateNZ(c.Regs.A)
}

func (c *CPU) jmp(mode uint8) { c.Regs.PC = c.operand(mode) }

// jmpIndirect reproduces the page-wrap bug documented in addressing.go.
func (c *CPU) jmpIndirect(_ uint8) {
	ptr := c.read16(c.Regs.PC)
	c.Regs.PC = c.read16IndirectBug(ptr)
}

func (c *CPU) jsr(mode uint8) {
	target := c.operand(mode)
	c.pushAddr(c.Regs.PC + 1) // return address is the last byte of JSR's operand
	c.Regs.PC = target
}

func (c *CPU) rts(_ uint8) { c.Regs.PC = c.popAddr() + 1 }

func (c *CPU) rti(_ uint8) {
	c.Regs.RestoreStatus(c.popStack())
	c.Regs.PC = c.popAddr()
}

func (c *CPU) lda(mode uint8) { c.Regs.A = c.Bus.Read(c.operand(mode)); c.Regs.UpdateNZ(c.Regs.A) }
func (c *CPU) ldx(mode uint8) { c.Regs.X = c.Bus.Read(c.operand(mode)); c.Regs.UpdateNZ(c.Regs.X) }
func (c *CPU) ldy(mode uint8) { c.Regs.Y = c.Bus.Read(c.operand(mode)); c.Regs.UpdateNZ(c.Regs.Y) }

func (c *CPU) sta(mode uint8) { c.Bus.Write(c.operand(mode), c.Regs.A) }
func (c *CPU) stx(mode uint8) { c.Bus.Write(c.operand(mode), c.Regs.X) }
func (c *CPU) sty(mode uint8) { c.Bus.Write(c.operand(mode), c.Regs.Y) }

func (c *CPU) nop(mode uint8) {
	if mode != Implicit {
		c.operand(mode) // the bus read happens on real hardware even though the value is discarded
	}
}

func (c *CPU) pha(_ uint8) { c.pushStack(c.Regs.A) }
func (c *CPU) php(_ uint8) { c.pushStack(c.Regs.StatusForPush(true)) }
func (c *CPU) pla(_ uint8) { c.Regs.A = c.popStack(); c.Regs.UpdateNZ(c.Regs.A) }
func (c *CPU) plp(_ uint8) { c.Regs.RestoreStatus(c.popStack()) }

func (c *CPU) tax(_ uint8) { c.Regs.X = c.Regs.A; c.Regs.UpdateNZ(c.Regs.X) }
func (c *CPU) tay(_ uint8) { c.Regs.Y = c.Regs.A; c.Regs.UpdateNZ(c.Regs.Y) }
func (c *CPU) tsx(_ uint8) { c.Regs.X = c.Regs.SP; c.Regs.UpdateNZ(c.Regs.X) }
func (c *CPU) txa(_ uint8) { c.Regs.A = c.Regs.X; c.Regs.UpdateNZ(c.Regs.A) }
func (c *CPU) txs(_ uint8) { c.Regs.SP = c.Regs.X }
func (c *CPU) tya(_ uint8) { c.Regs.A = c.Regs.Y; c.Regs.UpdateNZ(c.Regs.A) }

// --- Illegal/undocumented opcodes ---

func (c *CPU) lax(mode uint8) {
	v := c.Bus.Read(c.operand(mode))
	c.Regs.A, c.Regs.X = v, v
	c.Regs.UpdateNZ(v)
}

func (c *CPU) sax(mode uint8) {
	c.Bus.Write(c.operand(mode), c.Regs.A&c.Regs.X)
}

// dcm (DCP): decrement memory, then compare against A.
func (c *CPU) dcm(mode uint8) {
	addr := c.operand(mode)
	v := c.Bus.Read(addr) - 1
	c.Bus.Write(addr, v)
	c.compare(c.Regs.A, v)
}

// isb (ISC): increment memory, then subtract from A with borrow.
func (c *CPU) isb(mode uint8) {
	addr := c.operand(mode)
	v := c.Bus.Read(addr) + 1
	c.Bus.Write(addr, v)
	c.addWithCarry(^v)
}

// slo: ASL memory, then OR the result into A.
func (c *CPU) slo(mode uint8) {
	addr := c.operand(mode)
	old := c.Bus.Read(addr)
	v := old << 1
	c.Bus.Write(addr, v)
	c.Regs.SetFlag(FlagCarry, old&0x80 != 0)
	c.Regs.A |= v
	c.Regs.UpdateNZ(c.Regs.A)
}

// rla: ROL memory, then AND the result into A.
func (c *CPU) rla(mode uint8) {
	carryIn := uint8(0)
	if c.Regs.GetFlag(FlagCarry) {
		carryIn = 1
	}
	addr := c.operand(mode)
	old := c.Bus.Read(addr)
	v := old<<1 | carryIn
	c.Bus.Write(addr, v)
	c.Regs.SetFlag(FlagCarry, old&0x80 != 0)
	c.Regs.A &= v
	c.Regs.UpdateNZ(c.Regs.A)
}

// sre: LSR memory, then EOR the result into A.
func (c *CPU) sre(mode uint8) {
	addr := c.operand(mode)
	old := c.Bus.Read(addr)
	v := old >> 1
	c.Bus.Write(addr, v)
	c.Regs.SetFlag(FlagCarry, old&0x01 != 0)
	c.Regs.A ^= v
	c.Regs.UpdateNZ(c.Regs.A)
}

// rra: ROR memory, then ADC the result into A.
func (c *CPU) rra(mode uint8) {
	carryIn := uint8(0)
	if c.Regs.GetFlag(FlagCarry) {
		carryIn = 1
	}
	addr := c.operand(mode)
	old := c.Bus.Read(addr)
	v := old>>1 | carryIn<<7
	c.Bus.Write(addr, v)
	c.Regs.SetFlag(FlagCarry, old&0x01 != 0)
	c.addWithCarry(v)
}
