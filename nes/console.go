package nes

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/mjfarner/nescore/cartridge"
	"github.com/mjfarner/nescore/cpu"
	"github.com/mjfarner/nescore/mappers"
	"github.com/mjfarner/nescore/ppu"
)

// cpuCyclesPerScanline is floor(341/3): the driver loop's fixed CPU
// cycle budget per PPU scanline tick, per spec.md §4.8.
const cpuCyclesPerScanline = 341 / 3

const scanlinesPerFrame = 262 // -1 through 260 inclusive

// Console wires a CPU, PPU, cartridge mapper, and controller into a
// runnable machine and drives them in lockstep: a fixed CPU cycle
// budget per PPU scanline, with NMI delivered at the scanline that
// enters VBlank when PPUCTRL requests it.
type Console struct {
	CPU        *cpu.CPU
	PPU        *ppu.PPU
	Controller *Controller

	bus    *Bus
	mapper mappers.Mapper

	// carry is the leftover from the previous scanline's budget:
	// CPU cycles under RunFrame, PPU dots under StepInstruction.
	carry int
}

// New builds a console with no cartridge loaded; LoadCartridge must
// be called before Reset/RunFrame.
func New() *Console {
	return &Console{Controller: &Controller{}}
}

// LoadCartridge parses an iNES image and wires its mapper into the
// console's buses, replacing any cartridge already loaded.
func (c *Console) LoadCartridge(r io.Reader) error {
	rom, err := cartridge.Load(r)
	if err != nil {
		return fmt.Errorf("nes: loading cartridge: %w", err)
	}
	m, err := mappers.New(rom.Header.MapperNum(), rom)
	if err != nil {
		return fmt.Errorf("nes: %w", err)
	}
	c.mapper = m

	c.PPU = ppu.New(nil) // bus assigned below, once it can reference the PPU back
	c.CPU = cpu.New(nil)
	c.bus = newBus(c.CPU, c.PPU, m, c.Controller)
	c.CPU.Bus = c.bus
	c.PPU.SetBus(c.bus)

	return nil
}

// Reset puts the CPU and PPU into their power-on/reset state.
func (c *Console) Reset() {
	c.CPU.Reset()
	c.PPU.Reset()
	c.carry = 0
}

// SetButton forwards a button press/release to the wired controller.
func (c *Console) SetButton(id Button, pressed bool) {
	c.Controller.SetButton(id, pressed)
}

// Framebuffer returns the PPU's live frame buffer (see
// ppu.PPU.Framebuffer); after RunFrame returns it holds a full frame.
func (c *Console) Framebuffer() []ppu.Color {
	return c.PPU.Framebuffer()
}

// StepInstruction runs exactly one CPU instruction, counts three PPU
// dots per CPU cycle spent, and ticks the PPU one scanline for every
// 341 dots accumulated (the remainder stays in carry, counted in dots
// rather than the CPU cycles RunFrame keeps there). It returns the CPU
// cycle count and whether it crossed into VBlank and requested an NMI.
func (c *Console) StepInstruction() (cycles uint8, nmi bool, err error) {
	cycles, err = c.CPU.Step()
	if err != nil {
		return cycles, false, err
	}
	if extra := c.bus.DrainDMACycles(); extra > 0 {
		cycles += uint8(extra)
	}

	c.carry += int(cycles) * 3
	for c.carry >= 341 {
		c.carry -= 341
		if c.PPU.Step() {
			c.CPU.TriggerNMI()
			nmi = true
		}
	}
	return cycles, nmi, nil
}

// RunFrame runs the console for exactly one full frame (262
// scanlines) using the fixed CPU-cycles-per-scanline budget
// described in spec.md §4.8, and returns the resulting framebuffer.
func (c *Console) RunFrame() []ppu.Color {
	for i := 0; i < scanlinesPerFrame; i++ {
		c.runScanline()
	}
	return c.Framebuffer()
}

func (c *Console) runScanline() {
	budget := cpuCyclesPerScanline + c.carry
	spent := 0
	for spent < budget {
		cycles, err := c.CPU.Step()
		if err != nil {
			// Dispatch is total (cpu.Step never actually returns
			// this for a valid Bus), but guard against a future
			// change rather than spinning forever.
			break
		}
		spent += int(cycles)
		spent += c.bus.DrainDMACycles()
	}
	c.carry = spent - budget

	if c.PPU.Step() {
		c.CPU.TriggerNMI()
	}
}

// Run drives RunFrame continuously until ctx is canceled, suitable
// for running the emulation loop on its own goroutine while a
// presentation layer polls Framebuffer() on a timer of its own.
func (c *Console) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				c.RunFrame()
			}
		}
	})
	return g.Wait()
}
