package nes

import (
	"github.com/mjfarner/nescore/cpu"
	"github.com/mjfarner/nescore/ppu"
)

// Snapshot is a plain value capturing everything needed to restore a
// Console to an identical CPU-visible and PPU-visible state: the
// architectural registers, the console's internal 2 KiB work RAM (the
// only RAM the CPU bus itself owns; PRG/CHR is mapper-owned and not
// part of a snapshot), the full PPU state (registers, v/t/x/w latches,
// OAM, VRAM, palette), and the controller's shift register. Snapshot
// holds no pointers back into the live Console, so mutating the
// console after taking one never mutates the snapshot.
type Snapshot struct {
	Regs cpu.Registers
	RAM  [ramSize]uint8
	PPU  ppu.State

	ControllerStrobe  bool
	ControllerLatch   uint8
	ControllerIdx     uint8
	ControllerPressed [numButtons]bool
}

// Snapshot captures the console's current full state.
func (c *Console) Snapshot() Snapshot {
	return Snapshot{
		Regs: c.CPU.Regs,
		RAM:  c.bus.ram,
		PPU:  c.PPU.State(),

		ControllerStrobe:  c.Controller.strobe,
		ControllerLatch:   c.Controller.buttons,
		ControllerIdx:     c.Controller.idx,
		ControllerPressed: c.Controller.pressed,
	}
}

// Restore puts the console into the state captured by s.
func (c *Console) Restore(s Snapshot) {
	c.CPU.Regs = s.Regs
	c.bus.ram = s.RAM
	c.PPU.SetState(s.PPU)

	c.Controller.strobe = s.ControllerStrobe
	c.Controller.buttons = s.ControllerLatch
	c.Controller.idx = s.ControllerIdx
	c.Controller.pressed = s.ControllerPressed
}
