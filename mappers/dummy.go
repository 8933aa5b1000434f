package mappers

import "github.com/mjfarner/nescore/cartridge"

// Dummy is a flat, unbanked 64 KiB PRG/CHR mapper used by bus and PPU
// tests that want cartridge-shaped reads/writes without parsing a real
// iNES image. Mirroring is settable directly so mirroring-dependent
// tests don't need to round-trip through a cartridge.Header.
type Dummy struct {
	PRG        [0x10000]uint8
	CHR        [0x10000]uint8
	MirrorMode cartridge.Mirroring
}

func NewDummy() *Dummy {
	return &Dummy{}
}

func (d *Dummy) PrgRead(addr uint16) uint8       { return d.PRG[addr] }
func (d *Dummy) PrgWrite(addr uint16, val uint8) { d.PRG[addr] = val }
func (d *Dummy) ChrRead(addr uint16) uint8       { return d.CHR[addr] }
func (d *Dummy) ChrWrite(addr uint16, val uint8) { d.CHR[addr] = val }
func (d *Dummy) Mirroring() cartridge.Mirroring  { return d.MirrorMode }
