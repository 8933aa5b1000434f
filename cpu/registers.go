// Package cpu implements the MOS 6502-derived CPU used as the core of
// the emulator: architectural registers, the 13 addressing modes, the
// full opcode table (documented plus the common illegal opcodes), and
// the fetch-decode-execute loop with interrupt handling.
//
// https://www.nesdev.org/obelisk-6502-guide/registers.html
package cpu

import "fmt"

// Processor status flag bits. Bit 0 is least significant.
const (
	FlagCarry            = 1 << 0 // C
	FlagZero             = 1 << 1 // Z
	FlagInterruptDisable = 1 << 2 // I
	FlagDecimal          = 1 << 3 // D
	FlagBreak            = 1 << 4 // B - never physically stored, synthesized on push
	FlagUnused           = 1 << 5 // U - always observed as 1
	FlagOverflow         = 1 << 6 // V
	FlagNegative         = 1 << 7 // N
)

// Registers holds the architectural state of the 6502: the three
// 8-bit general registers, the stack pointer, the program counter and
// the processor status byte. No flag update is ever a silent side
// effect of a register read; callers that want Z/N recomputed call
// UpdateNZ explicitly.
type Registers struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       uint8
}

// Reset puts the registers into the documented power-up/reset state:
// P = 0x24 (I set, U set), SP = 0xFD. PC is set by the caller once the
// reset vector has been read from the bus.
func (r *Registers) Reset() {
	r.P = FlagUnused | FlagInterruptDisable
	r.SP = 0xFD
}

// UpdateNZ sets the Zero flag iff value == 0 and the Negative flag iff
// bit 7 of value is set. This is the single point through which every
// instruction that affects Z/N routes.
func (r *Registers) UpdateNZ(value uint8) {
	r.SetFlag(FlagZero, value == 0)
	r.SetFlag(FlagNegative, value&0x80 != 0)
}

// SetFlag sets or clears the bits in mask depending on cond.
func (r *Registers) SetFlag(mask uint8, cond bool) {
	if cond {
		r.P |= mask
	} else {
		r.P &^= mask
	}
}

// GetFlag reports whether every bit in mask is set in P.
func (r *Registers) GetFlag(mask uint8) bool {
	return r.P&mask == mask
}

// StatusForPush returns P with U forced to 1 and B set according to
// brk: BRK and PHP push B=1, hardware interrupts (NMI/IRQ) push B=0.
// B itself never lives in P outside of this synthesized byte.
func (r *Registers) StatusForPush(brk bool) uint8 {
	p := r.P | FlagUnused
	if brk {
		p |= FlagBreak
	} else {
		p &^= FlagBreak
	}
	return p
}

// RestoreStatus loads P from a popped byte, forcing U to 1 and
// discarding whatever B bit happened to be stored (B is not a real
// flag and is never retained across PLP/RTI).
func (r *Registers) RestoreStatus(p uint8) {
	r.P = (p | FlagUnused) &^ FlagBreak
}

func (r *Registers) String() string {
	flags := "NV-BDIZC"
	out := []byte(flags)
	bits := []uint8{FlagNegative, FlagOverflow, FlagUnused, FlagBreak, FlagDecimal, FlagInterruptDisable, FlagZero, FlagCarry}
	for i, b := range bits {
		if r.P&b == 0 {
			out[i] = '.'
		}
	}
	return fmt.Sprintf("A:%02X X:%02X Y:%02X SP:%02X PC:%04X P:%s", r.A, r.X, r.Y, r.SP, r.PC, out)
}
