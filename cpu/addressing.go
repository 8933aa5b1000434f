package cpu

// Addressing modes, per https://www.nesdev.org/obelisk-6502-guide/addressing.html
// ZeroPageY is used by LDX/STX and by the undocumented SAX/LAX.
const (
	Implicit = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX // (zp,X) - indexed indirect
	IndirectY // (zp),Y - indirect indexed
)

var modeNames = map[uint8]string{
	Implicit: "IMPLICIT", Accumulator: "ACCUMULATOR", Immediate: "IMMEDIATE",
	ZeroPage: "ZEROPAGE", ZeroPageX: "ZEROPAGE_X", ZeroPageY: "ZEROPAGE_Y",
	Relative: "RELATIVE", Absolute: "ABSOLUTE", AbsoluteX: "ABSOLUTE_X",
	AbsoluteY: "ABSOLUTE_Y", Indirect: "INDIRECT", IndirectX: "INDIRECT_X",
	IndirectY: "INDIRECT_Y",
}

// pageCrossed reports whether a and b fall in different 256-byte pages.
func pageCrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

// read16 reads two consecutive bytes (low byte first) with ordinary
// address arithmetic - no wraparound quirks.
func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.Bus.Read(addr))
	hi := uint16(c.Bus.Read(addr + 1))
	return hi<<8 | lo
}

// read16ZeroPageWrapped reads a little-endian pointer entirely within
// zero page: the high byte wraps back to $00 instead of spilling into
// page 1. This is what the indexed-indirect (X) and indirect-indexed
// (Y) addressing modes use to build their pointer.
func (c *CPU) read16ZeroPageWrapped(zpAddr uint8) uint16 {
	lo := uint16(c.Bus.Read(uint16(zpAddr)))
	hi := uint16(c.Bus.Read(uint16(zpAddr + 1)))
	return hi<<8 | lo
}

// read16IndirectBug reproduces the 6502's JMP (addr) page-wrap bug:
// the high byte of the target is fetched from (addr & 0xFF00) |
// ((addr+1) & 0x00FF) rather than from addr+1, so an indirect vector
// stored at a page boundary (e.g. $02FF) never crosses into the next
// page for its high byte.
func (c *CPU) read16IndirectBug(addr uint16) uint16 {
	lo := uint16(c.Bus.Read(addr))
	hiAddr := (addr & 0xFF00) | ((addr + 1) & 0x00FF)
	hi := uint16(c.Bus.Read(hiAddr))
	return hi<<8 | lo
}

// operand resolves the effective address for mode, assuming PC points
// at the first operand byte (the opcode byte itself has already been
// consumed by the fetch). It never advances PC; the caller does that
// once per instruction based on the opcode's declared size. It records
// in c.pageCrossed whether resolving the address crossed a page
// boundary, which several addressing modes use to add a cycle.
func (c *CPU) operand(mode uint8) uint16 {
	var addr uint16
	var crossed bool
	switch mode {
	case Immediate:
		addr = c.Regs.PC
	case ZeroPage:
		addr = uint16(c.Bus.Read(c.Regs.PC))
	case ZeroPageX:
		addr = uint16(c.Bus.Read(c.Regs.PC) + c.Regs.X)
	case ZeroPageY:
		addr = uint16(c.Bus.Read(c.Regs.PC) + c.Regs.Y)
	case Absolute:
		addr = c.read16(c.Regs.PC)
	case AbsoluteX:
		base := c.read16(c.Regs.PC)
		addr = base + uint16(c.Regs.X)
		crossed = pageCrossed(base, addr)
	case AbsoluteY:
		base := c.read16(c.Regs.PC)
		addr = base + uint16(c.Regs.Y)
		crossed = pageCrossed(base, addr)
	case IndirectX:
		zp := c.Bus.Read(c.Regs.PC) + c.Regs.X
		addr = c.read16ZeroPageWrapped(zp)
	case IndirectY:
		zp := c.Bus.Read(c.Regs.PC)
		base := c.read16ZeroPageWrapped(zp)
		addr = base + uint16(c.Regs.Y)
		crossed = pageCrossed(base, addr)
	case Relative:
		offset := int8(c.Bus.Read(c.Regs.PC))
		addr = uint16(int32(c.Regs.PC+1) + int32(offset))
	default:
		panic("cpu: operand() called for an addressing mode with no memory operand")
	}
	c.pageCrossed = crossed
	return addr
}
