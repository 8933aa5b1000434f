package mappers

import "github.com/mjfarner/nescore/cartridge"

func init() {
	register(0, newNROM)
}

// nrom implements mapper 0: a single 16 KiB or 32 KiB PRG-ROM bank,
// mirrored into both halves of $8000-$FFFF when only 16 KiB is
// present, and either CHR-ROM or CHR-RAM with no bank switching.
// https://www.nesdev.org/wiki/NROM
type nrom struct {
	rom *cartridge.ROM
}

func newNROM(rom *cartridge.ROM) Mapper {
	return &nrom{rom: rom}
}

func (m *nrom) PrgRead(addr uint16) uint8 {
	offset := (addr - 0x8000) % uint16(len(m.rom.PRG))
	return m.rom.PRG[offset]
}

// PrgWrite is a no-op: NROM has no PRG-RAM and PRG-ROM isn't writable.
func (m *nrom) PrgWrite(addr uint16, val uint8) {}

func (m *nrom) ChrRead(addr uint16) uint8 {
	return m.rom.CHR[addr]
}

func (m *nrom) ChrWrite(addr uint16, val uint8) {
	if m.rom.CHRIsRAM {
		m.rom.CHR[addr] = val
	}
}

func (m *nrom) Mirroring() cartridge.Mirroring {
	return m.rom.Header.Mirroring()
}
