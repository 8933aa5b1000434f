package cpu

import "fmt"

// instruction describes one opcode byte's decode and execution: which
// addressing mode feeds it, how many operand bytes it consumes, its
// base cycle cost, and the handler that carries out its effect.
type instruction struct {
	name   string
	mode   uint8
	bytes  uint8
	cycles uint8
	exec   func(c *CPU, mode uint8)
}

func (i instruction) String() string {
	return fmt.Sprintf("{%s, %s}", i.name, modeNames[i.mode])
}

// opcodeTable maps every opcode byte the core understands to its
// instruction entry, including the handful of illegal/undocumented
// opcodes common enough to matter for real cartridges and the JSON
// conformance vectors: LAX, SAX, DCP (DCM), ISB, SLO, RLA, SRE, RRA and
// the $EB USBC alias of SBC immediate.
// https://www.nesdev.org/obelisk-6502-guide/reference.html
// https://www.nesdev.org/6502_cpu.txt (undocumented opcodes)
var opcodeTable = map[uint8]instruction{
	0x69: {"ADC", Immediate, 2, 2, (*CPU).adc},
	0x65: {"ADC", ZeroPage, 2, 3, (*CPU).adc},
	0x75: {"ADC", ZeroPageX, 2, 4, (*CPU).adc},
	0x6D: {"ADC", Absolute, 3, 4, (*CPU).adc},
	0x7D: {"ADC", AbsoluteX, 3, 4, (*CPU).adc},
	0x79: {"ADC", AbsoluteY, 3, 4, (*CPU).adc},
	0x61: {"ADC", IndirectX, 2, 6, (*CPU).adc},
	0x71: {"ADC", IndirectY, 2, 5, (*CPU).adc},

	0x29: {"AND", Immediate, 2, 2, (*CPU).and},
	0x25: {"AND", ZeroPage, 2, 3, (*CPU).and},
	0x35: {"AND", ZeroPageX, 2, 4, (*CPU).and},
	0x2D: {"AND", Absolute, 3, 4, (*CPU).and},
	0x3D: {"AND", AbsoluteX, 3, 4, (*CPU).and},
	0x39: {"AND", AbsoluteY, 3, 4, (*CPU).and},
	0x21: {"AND", IndirectX, 2, 6, (*CPU).and},
	0x31: {"AND", IndirectY, 2, 5, (*CPU).and},

	0x0A: {"ASL", Accumulator, 1, 2, (*CPU).asl},
	0x06: {"ASL", ZeroPage, 2, 5, (*CPU).asl},
	0x16: {"ASL", ZeroPageX, 2, 6, (*CPU).asl},
	0x0E: {"ASL", Absolute, 3, 6, (*CPU).asl},
	0x1E: {"ASL", AbsoluteX, 3, 7, (*CPU).asl},

	0x90: {"BCC", Relative, 2, 2, (*CPU).bcc},
	0xB0: {"BCS", Relative, 2, 2, (*CPU).bcs},
	0xF0: {"BEQ", Relative, 2, 2, (*CPU).beq},
	0x24: {"BIT", ZeroPage, 2, 3, (*CPU).bit},
	0x2C: {"BIT", Absolute, 3, 4, (*CPU).bit},
	0x30: {"BMI", Relative, 2, 2, (*CPU).bmi},
	0xD0: {"BNE", Relative, 2, 2, (*CPU).bne},
	0x10: {"BPL", Relative, 2, 2, (*CPU).bpl},
	0x00: {"BRK", Implicit, 2, 7, (*CPU).brk},
	0x50: {"BVC", Relative, 2, 2, (*CPU).bvc},
	0x70: {"BVS", Relative, 2, 2, (*CPU).bvs},

	0x18: {"CLC", Implicit, 1, 2, (*CPU).clc},
	0xD8: {"CLD", Implicit, 1, 2, (*CPU).cld},
	0x58: {"CLI", Implicit, 1, 2, (*CPU).cli},
	0xB8: {"CLV", Implicit, 1, 2, (*CPU).clv},

	0xC9: {"CMP", Immediate, 2, 2, (*CPU).cmp},
	0xC5: {"CMP", ZeroPage, 2, 3, (*CPU).cmp},
	0xD5: {"CMP", ZeroPageX, 2, 4, (*CPU).cmp},
	0xCD: {"CMP", Absolute, 3, 4, (*CPU).cmp},
	0xDD: {"CMP", AbsoluteX, 3, 4, (*CPU).cmp},
	0xD9: {"CMP", AbsoluteY, 3, 4, (*CPU).cmp},
	0xC1: {"CMP", IndirectX, 2, 6, (*CPU).cmp},
	0xD1: {"CMP", IndirectY, 2, 5, (*CPU).cmp},

	0xE0: {"CPX", Immediate, 2, 2, (*CPU).cpx},
	0xE4: {"CPX", ZeroPage, 2, 3, (*CPU).cpx},
	0xEC: {"CPX", Absolute, 3, 4, (*CPU).cpx},
	0xC0: {"CPY", Immediate, 2, 2, (*CPU).cpy},
	0xC4: {"CPY", ZeroPage, 2, 3, (*CPU).cpy},
	0xCC: {"CPY", Absolute, 3, 4, (*CPU).cpy},

	0xC6: {"DEC", ZeroPage, 2, 5, (*CPU).dec},
	0xD6: {"DEC", ZeroPageX, 2, 6, (*CPU).dec},
	0xCE: {"DEC", Absolute, 3, 6, (*CPU).dec},
	0xDE: {"DEC", AbsoluteX, 3, 7, (*CPU).dec},
	0xCA: {"DEX", Implicit, 1, 2, (*CPU).dex},
	0x88: {"DEY", Implicit, 1, 2, (*CPU).dey},

	0x49: {"EOR", Immediate, 2, 2, (*CPU).eor},
	0x45: {"EOR", ZeroPage, 2, 3, (*CPU).eor},
	0x55: {"EOR", ZeroPageX, 2, 4, (*CPU).eor},
	0x4D: {"EOR", Absolute, 3, 4, (*CPU).eor},
	0x5D: {"EOR", AbsoluteX, 3, 4, (*CPU).eor},
	0x59: {"EOR", AbsoluteY, 3, 4, (*CPU).eor},
	0x41: {"EOR", IndirectX, 2, 6, (*CPU).eor},
	0x51: {"EOR", IndirectY, 2, 5, (*CPU).eor},

	0xE6: {"INC", ZeroPage, 2, 5, (*CPU).inc},
	0xF6: {"INC", ZeroPageX, 2, 6, (*CPU).inc},
	0xEE: {"INC", Absolute, 3, 6, (*CPU).inc},
	0xFE: {"INC", AbsoluteX, 3, 7, (*CPU).inc},
	0xE8: {"INX", Implicit, 1, 2, (*CPU).inx},
	0xC8: {"INY", Implicit, 1, 2, (*CPU).iny},

	0x4C: {"JMP", Absolute, 3, 3, (*CPU).jmp},
	0x6C: {"JMP", Indirect, 3, 5, (*CPU).jmpIndirect},
	0x20: {"JSR", Absolute, 3, 6, (*CPU).jsr},

	0xA9: {"LDA", Immediate, 2, 2, (*CPU).lda},
	0xA5: {"LDA", ZeroPage, 2, 3, (*CPU).lda},
	0xB5: {"LDA", ZeroPageX, 2, 4, (*CPU).lda},
	0xAD: {"LDA", Absolute, 3, 4, (*CPU).lda},
	0xBD: {"LDA", AbsoluteX, 3, 4, (*CPU).lda},
	0xB9: {"LDA", AbsoluteY, 3, 4, (*CPU).lda},
	0xA1: {"LDA", IndirectX, 2, 6, (*CPU).lda},
	0xB1: {"LDA", IndirectY, 2, 5, (*CPU).lda},

	0xA2: {"LDX", Immediate, 2, 2, (*CPU).ldx},
	0xA6: {"LDX", ZeroPage, 2, 3, (*CPU).ldx},
	0xB6: {"LDX", ZeroPageY, 2, 4, (*CPU).ldx},
	0xAE: {"LDX", Absolute, 3, 4, (*CPU).ldx},
	0xBE: {"LDX", AbsoluteY, 3, 4, (*CPU).ldx},

	0xA0: {"LDY", Immediate, 2, 2, (*CPU).ldy},
	0xA4: {"LDY", ZeroPage, 2, 3, (*CPU).ldy},
	0xB4: {"LDY", ZeroPageX, 2, 4, (*CPU).ldy},
	0xAC: {"LDY", Absolute, 3, 4, (*CPU).ldy},
	0xBC: {"LDY", AbsoluteX, 3, 4, (*CPU).ldy},

	0x4A: {"LSR", Accumulator, 1, 2, (*CPU).lsr},
	0x46: {"LSR", ZeroPage, 2, 5, (*CPU).lsr},
	0x56: {"LSR", ZeroPageX, 2, 6, (*CPU).lsr},
	0x4E: {"LSR", Absolute, 3, 6, (*CPU).lsr},
	0x5E: {"LSR", AbsoluteX, 3, 7, (*CPU).lsr},

	0x04: {"NOP", ZeroPage, 2, 3, (*CPU).nop},
	0x44: {"NOP", ZeroPage, 2, 3, (*CPU).nop},
	0x64: {"NOP", ZeroPage, 2, 3, (*CPU).nop},
	0x0C: {"NOP", Absolute, 3, 4, (*CPU).nop},
	0x14: {"NOP", ZeroPageX, 2, 4, (*CPU).nop},
	0x34: {"NOP", ZeroPageX, 2, 4, (*CPU).nop},
	0x54: {"NOP", ZeroPageX, 2, 4, (*CPU).nop},
	0x74: {"NOP", ZeroPageX, 2, 4, (*CPU).nop},
	0xD4: {"NOP", ZeroPageX, 2, 4, (*CPU).nop},
	0xF4: {"NOP", ZeroPageX, 2, 4, (*CPU).nop},
	0xEA: {"NOP", Implicit, 1, 2, (*CPU).nop},
	0x1A: {"NOP", Implicit, 1, 2, (*CPU).nop},
	0x3A: {"NOP", Implicit, 1, 2, (*CPU).nop},
	0x5A: {"NOP", Implicit, 1, 2, (*CPU).nop},
	0xDA: {"NOP", Implicit, 1, 2, (*CPU).nop},
	0x80: {"NOP", Immediate, 2, 2, (*CPU).nop},
	0x1C: {"NOP", AbsoluteX, 3, 4, (*CPU).nop},
	0x3C: {"NOP", AbsoluteX, 3, 4, (*CPU).nop},
	0x5C: {"NOP", AbsoluteX, 3, 4, (*CPU).nop},
	0x7C: {"NOP", AbsoluteX, 3, 4, (*CPU).nop},
	0xDC: {"NOP", AbsoluteX, 3, 4, (*CPU).nop},
	0xFC: {"NOP", AbsoluteX, 3, 4, (*CPU).nop},

	0x09: {"ORA", Immediate, 2, 2, (*CPU).ora},
	0x05: {"ORA", ZeroPage, 2, 3, (*CPU).ora},
	0x15: {"ORA", ZeroPageX, 2, 4, (*CPU).ora},
	0x0D: {"ORA", Absolute, 3, 4, (*CPU).ora},
	0x1D: {"ORA", AbsoluteX, 3, 4, (*CPU).ora},
	0x19: {"ORA", AbsoluteY, 3, 4, (*CPU).ora},
	0x01: {"ORA", IndirectX, 2, 6, (*CPU).ora},
	0x11: {"ORA", IndirectY, 2, 5, (*CPU).ora},

	0x48: {"PHA", Implicit, 1, 3, (*CPU).pha},
	0x08: {"PHP", Implicit, 1, 3, (*CPU).php},
	0x68: {"PLA", Implicit, 1, 4, (*CPU).pla},
	0x28: {"PLP", Implicit, 1, 4, (*CPU).plp},

	0x2A: {"ROL", Accumulator, 1, 2, (*CPU).rol},
	0x26: {"ROL", ZeroPage, 2, 5, (*CPU).rol},
	0x36: {"ROL", ZeroPageX, 2, 6, (*CPU).rol},
	0x2E: {"ROL", Absolute, 3, 6, (*CPU).rol},
	0x3E: {"ROL", AbsoluteX, 3, 7, (*CPU).rol},

	0x6A: {"ROR", Accumulator, 1, 2, (*CPU).ror},
	0x66: {"ROR", ZeroPage, 2, 5, (*CPU).ror},
	0x76: {"ROR", ZeroPageX, 2, 6, (*CPU).ror},
	0x6E: {"ROR", Absolute, 3, 6, (*CPU).ror},
	0x7E: {"ROR", AbsoluteX, 3, 7, (*CPU).ror},

	0x40: {"RTI", Implicit, 1, 6, (*CPU).rti},
	0x60: {"RTS", Implicit, 1, 6, (*CPU).rts},

	0xE9: {"SBC", Immediate, 2, 2, (*CPU).sbc},
	0xEB: {"USBC", Immediate, 2, 2, (*CPU).sbc}, // undocumented SBC alias
	0xE5: {"SBC", ZeroPage, 2, 3, (*CPU).sbc},
	0xF5: {"SBC", ZeroPageX, 2, 4, (*CPU).sbc},
	0xED: {"SBC", Absolute, 3, 4, (*CPU).sbc},
	0xFD: {"SBC", AbsoluteX, 3, 4, (*CPU).sbc},
	0xF9: {"SBC", AbsoluteY, 3, 4, (*CPU).sbc},
	0xE1: {"SBC", IndirectX, 2, 6, (*CPU).sbc},
	0xF1: {"SBC", IndirectY, 2, 5, (*CPU).sbc},

	0x38: {"SEC", Implicit, 1, 2, (*CPU).sec},
	0xF8: {"SED", Implicit, 1, 2, (*CPU).sed},
	0x78: {"SEI", Implicit, 1, 2, (*CPU).sei},

	0x85: {"STA", ZeroPage, 2, 3, (*CPU).sta},
	0x95: {"STA", ZeroPageX, 2, 4, (*CPU).sta},
	0x8D: {"STA", Absolute, 3, 4, (*CPU).sta},
	0x9D: {"STA", AbsoluteX, 3, 5, (*CPU).sta},
	0x99: {"STA", AbsoluteY, 3, 5, (*CPU).sta},
	0x81: {"STA", IndirectX, 2, 6, (*CPU).sta},
	0x91: {"STA", IndirectY, 2, 6, (*CPU).sta},

	0x86: {"STX", ZeroPage, 2, 3, (*CPU).stx},
	0x96: {"STX", ZeroPageY, 2, 4, (*CPU).stx},
	0x8E: {"STX", Absolute, 3, 4, (*CPU).stx},
	0x84: {"STY", ZeroPage, 2, 3, (*CPU).sty},
	0x94: {"STY", ZeroPageX, 2, 4, (*CPU).sty},
	0x8C: {"STY", Absolute, 3, 4, (*CPU).sty},

	0xAA: {"TAX", Implicit, 1, 2, (*CPU).tax},
	0xA8: {"TAY", Implicit, 1, 2, (*CPU).tay},
	0xBA: {"TSX", Implicit, 1, 2, (*CPU).tsx},
	0x8A: {"TXA", Implicit, 1, 2, (*CPU).txa},
	0x9A: {"TXS", Implicit, 1, 2, (*CPU).txs},
	0x98: {"TYA", Implicit, 1, 2, (*CPU).tya},

	// Undocumented opcodes.
	0xA3: {"LAX", IndirectX, 2, 6, (*CPU).lax},
	0xA7: {"LAX", ZeroPage, 2, 3, (*CPU).lax},
	0xAF: {"LAX", Absolute, 3, 4, (*CPU).lax},
	0xB3: {"LAX", IndirectY, 2, 5, (*CPU).lax},
	0xB7: {"LAX", ZeroPageY, 2, 4, (*CPU).lax},
	0xBF: {"LAX", AbsoluteY, 3, 4, (*CPU).lax},

	0x83: {"SAX", IndirectX, 2, 6, (*CPU).sax},
	0x87: {"SAX", ZeroPage, 2, 3, (*CPU).sax},
	0x8F: {"SAX", Absolute, 3, 4, (*CPU).sax},
	0x97: {"SAX", ZeroPageY, 2, 4, (*CPU).sax},

	0xC7: {"DCM", ZeroPage, 2, 5, (*CPU).dcm},
	0xD7: {"DCM", ZeroPageX, 2, 6, (*CPU).dcm},
	0xCF: {"DCM", Absolute, 3, 6, (*CPU).dcm},
	0xDF: {"DCM", AbsoluteX, 3, 7, (*CPU).dcm},
	0xDB: {"DCM", AbsoluteY, 3, 7, (*CPU).dcm},
	0xC3: {"DCM", IndirectX, 2, 8, (*CPU).dcm},
	0xD3: {"DCM", IndirectY, 2, 8, (*CPU).dcm},

	0xE7: {"ISB", ZeroPage, 2, 5, (*CPU).isb},
	0xF7: {"ISB", ZeroPageX, 2, 6, (*CPU).isb},
	0xEF: {"ISB", Absolute, 3, 6, (*CPU).isb},
	0xFF: {"ISB", AbsoluteX, 3, 7, (*CPU).isb},
	0xFB: {"ISB", AbsoluteY, 3, 7, (*CPU).isb},
	0xE3: {"ISB", IndirectX, 2, 8, (*CPU).isb},
	0xF3: {"ISB", IndirectY, 2, 8, (*CPU).isb},

	0x07: {"SLO", ZeroPage, 2, 5, (*CPU).slo},
	0x17: {"SLO", ZeroPageX, 2, 6, (*CPU).slo},
	0x0F: {"SLO", Absolute, 3, 6, (*CPU).slo},
	0x1F: {"SLO", AbsoluteX, 3, 7, (*CPU).slo},
	0x1B: {"SLO", AbsoluteY, 3, 7, (*CPU).slo},
	0x03: {"SLO", IndirectX, 2, 8, (*CPU).slo},
	0x13: {"SLO", IndirectY, 2, 8, (*CPU).slo},

	0x27: {"RLA", ZeroPage, 2, 5, (*CPU).rla},
	0x37: {"RLA", ZeroPageX, 2, 6, (*CPU).rla},
	0x2F: {"RLA", Absolute, 3, 6, (*CPU).rla},
	0x3F: {"RLA", AbsoluteX, 3, 7, (*CPU).rla},
	0x3B: {"RLA", AbsoluteY, 3, 7, (*CPU).rla},
	0x23: {"RLA", IndirectX, 2, 8, (*CPU).rla},
	0x33: {"RLA", IndirectY, 2, 8, (*CPU).rla},

	0x47: {"SRE", ZeroPage, 2, 5, (*CPU).sre},
	0x57: {"SRE", ZeroPageX, 2, 6, (*CPU).sre},
	0x4F: {"SRE", Absolute, 3, 6, (*CPU).sre},
	0x5F: {"SRE", AbsoluteX, 3, 7, (*CPU).sre},
	0x5B: {"SRE", AbsoluteY, 3, 7, (*CPU).sre},
	0x43: {"SRE", IndirectX, 2, 8, (*CPU).sre},
	0x53: {"SRE", IndirectY, 2, 8, (*CPU).sre},

	0x67: {"RRA", ZeroPage, 2, 5, (*CPU).rra},
	0x77: {"RRA", ZeroPageX, 2, 6, (*CPU).rra},
	0x6F: {"RRA", Absolute, 3, 6, (*CPU).rra},
	0x7F: {"RRA", AbsoluteX, 3, 7, (*CPU).rra},
	0x7B: {"RRA", AbsoluteY, 3, 7, (*CPU).rra},
	0x63: {"RRA", IndirectX, 2, 8, (*CPU).rra},
	0x73: {"RRA", IndirectY, 2, 8, (*CPU).rra},
}

// pageCrossExtra reports whether mode is one of the indexed modes
// that costs an extra cycle when the indexed address crosses a page
// boundary, for opcodes that read (rather than read-modify-write) their
// operand. Read-modify-write and store opcodes always pay the indexed
// cost up front regardless of crossing, matching real hardware and the
// teacher's fixed per-opcode cycle counts above.
func pageCrossExtra(mode uint8) bool {
	switch mode {
	case AbsoluteX, AbsoluteY, IndirectY:
		return true
	default:
		return false
	}
}
