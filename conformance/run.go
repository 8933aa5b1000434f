package conformance

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"

	"github.com/mjfarner/nescore/cpu"
)

// maskU forces bit 5, the unused flag, to 1 on both sides of a
// comparison, per spec.md §6's "ignoring bit U" rule.
func maskU(p uint8) uint8 {
	return p | cpu.FlagUnused
}

// Run pokes tc.Initial into c (replacing its Bus with a fresh flat
// Bus), steps exactly one instruction, and reports every field where
// the resulting state disagrees with tc.Final. A nil error means the
// case passed.
func Run(c *cpu.CPU, tc Case) error {
	bus := &Bus{}
	for _, kv := range tc.Initial.RAM {
		bus.mem[uint16(kv[0])] = uint8(kv[1])
	}
	c.Bus = bus
	c.Regs.PC = tc.Initial.PC
	c.Regs.SP = tc.Initial.S
	c.Regs.A = tc.Initial.A
	c.Regs.X = tc.Initial.X
	c.Regs.Y = tc.Initial.Y
	c.Regs.P = maskU(tc.Initial.P)

	if _, err := c.Step(); err != nil {
		return fmt.Errorf("conformance: case %q: step: %w", tc.Name, err)
	}

	got := cpu.Registers{
		PC: c.Regs.PC, SP: c.Regs.SP,
		A: c.Regs.A, X: c.Regs.X, Y: c.Regs.Y,
		P: maskU(c.Regs.P),
	}
	want := cpu.Registers{
		PC: tc.Final.PC, SP: tc.Final.S,
		A: tc.Final.A, X: tc.Final.X, Y: tc.Final.Y,
		P: maskU(tc.Final.P),
	}

	var diffs []string
	if d := deep.Equal(want, got); d != nil {
		diffs = append(diffs, d...)
	}

	for _, kv := range tc.Final.RAM {
		addr, want := uint16(kv[0]), uint8(kv[1])
		if got := bus.mem[addr]; got != want {
			diffs = append(diffs, fmt.Sprintf("ram[%#04x]: got %#02x, want %#02x", addr, got, want))
		}
	}

	if d := deep.Equal(tc.Cycles, bus.trace); d != nil {
		diffs = append(diffs, d...)
	}

	if len(diffs) > 0 {
		return fmt.Errorf("conformance: case %q failed:\n%s\ngot registers: %s\nwant registers: %s",
			tc.Name, strings.Join(diffs, "\n"), spew.Sdump(got), spew.Sdump(want))
	}
	return nil
}
