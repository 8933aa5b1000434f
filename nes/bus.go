package nes

import (
	"github.com/mjfarner/nescore/mappers"
	"github.com/mjfarner/nescore/ppu"
)

const (
	ramSize          = 0x0800 // 2 KiB built-in RAM
	ramMirrorEnd     = 0x1FFF
	ppuRegMirrorEnd  = 0x3FFF
	ioRegistersEnd   = 0x4020
	cartridgeSpaceLo = 0x4020
)

// Bus is the CPU's view of the full 16-bit address space:
// https://www.nesdev.org/wiki/CPU_memory_map
// It implements cpu.Bus for the CPU and ppu.Bus for the PPU (CHR
// access and mirroring are delegated straight to the mapper; NMI
// delivery is delegated to the CPU).
type Bus struct {
	cpu        cpuRef
	ram        [ramSize]uint8
	ppu        *ppu.PPU
	mapper     mappers.Mapper
	controller *Controller

	// dmaCycles accumulates the cost of any OAMDMA transfer
	// triggered by a write since the last drain; the driver loop
	// charges it against the CPU's cycle budget.
	dmaCycles int
}

// cpuRef is the narrow slice of *cpu.CPU the bus needs: just enough
// to deliver an NMI. Keeping it an interface instead of importing
// the concrete type avoids a dependency cycle (cpu.Bus already
// points the other way).
type cpuRef interface {
	TriggerNMI()
}

func newBus(c cpuRef, p *ppu.PPU, m mappers.Mapper, ctrl *Controller) *Bus {
	return &Bus{cpu: c, ppu: p, mapper: m, controller: ctrl}
}

// TriggerNMI satisfies ppu.Bus by forwarding to the CPU. The PPU does
// not call it: PPU.Step reports a VBlank NMI through its return value
// and the Console delivers it to the CPU.
func (b *Bus) TriggerNMI() { b.cpu.TriggerNMI() }

// ChrRead/ChrWrite/Mirroring satisfy ppu.Bus by delegating straight
// to the cartridge mapper.
func (b *Bus) ChrRead(addr uint16) uint8       { return b.mapper.ChrRead(addr) }
func (b *Bus) ChrWrite(addr uint16, val uint8) { b.mapper.ChrWrite(addr, val) }
func (b *Bus) Mirroring() uint8                { return uint8(b.mapper.Mirroring()) }

// Read satisfies cpu.Bus.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr <= ramMirrorEnd:
		return b.ram[addr&(ramSize-1)]
	case addr <= ppuRegMirrorEnd:
		return b.ppu.ReadReg(0x2000 + (addr & 0x0007))
	case addr == 0x4016:
		return b.controller.Read()
	case addr == 0x4017:
		// Second controller port; this core wires one pad only.
		return 0
	case addr < ioRegistersEnd:
		return 0
	default:
		return b.mapper.PrgRead(addr)
	}
}

// Write satisfies cpu.Bus.
func (b *Bus) Write(addr uint16, val uint8) {
	switch {
	case addr <= ramMirrorEnd:
		b.ram[addr&(ramSize-1)] = val
	case addr <= ppuRegMirrorEnd:
		b.ppu.WriteReg(0x2000+(addr&0x0007), val)
	case addr == ppu.OAMDMA:
		b.runOAMDMA(val)
	case addr == 0x4016:
		b.controller.Write(val)
	case addr < ioRegistersEnd:
		// APU and the second controller port are out of scope.
	default:
		b.mapper.PrgWrite(addr, val)
	}
}

// runOAMDMA copies the 256-byte page starting at val*0x100 into OAM
// and charges the transfer's CPU cost: 513 cycles, plus one more on
// an odd CPU cycle. This core doesn't track CPU cycle parity at the
// bus level, so it charges 513 unconditionally, which spec.md §4.7
// explicitly permits.
func (b *Bus) runOAMDMA(page uint8) {
	base := uint16(page) << 8
	buf := make([]uint8, 256)
	for i := range buf {
		buf[i] = b.Read(base + uint16(i))
	}
	b.ppu.WriteOAMDMA(buf)
	b.dmaCycles += 513
}

// DrainDMACycles returns and clears the CPU cycles owed to any
// OAMDMA transfers since the last call.
func (b *Bus) DrainDMACycles() int {
	c := b.dmaCycles
	b.dmaCycles = 0
	return c
}
