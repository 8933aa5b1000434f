package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatMem is a flat 64 KiB RAM implementing Bus, standing in for a
// real address-decoded bus in tests that only exercise the CPU.
type flatMem struct {
	data [65536]uint8
}

func (m *flatMem) Read(addr uint16) uint8       { return m.data[addr] }
func (m *flatMem) Write(addr uint16, val uint8) { m.data[addr] = val }

func newTestCPU() (*CPU, *flatMem) {
	m := &flatMem{}
	c := New(m)
	return c, m
}

func TestLDAImmediateZero(t *testing.T) {
	c, m := newTestCPU()
	c.Regs.PC, c.Regs.A, c.Regs.P = 0x0400, 0xFF, 0x24
	m.data[0x0400], m.data[0x0401] = 0xA9, 0x00

	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(2), cycles)
	assert.Equal(t, uint8(0x00), c.Regs.A)
	assert.True(t, c.Regs.GetFlag(FlagZero))
	assert.False(t, c.Regs.GetFlag(FlagNegative))
	assert.Equal(t, uint8(0x26), c.Regs.P)
	assert.Equal(t, uint16(0x0402), c.Regs.PC)
}

func TestADCOverflow(t *testing.T) {
	c, m := newTestCPU()
	c.Regs.PC, c.Regs.A, c.Regs.P = 0x0400, 0x50, 0x00
	m.data[0x0400], m.data[0x0401] = 0x69, 0x50

	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(2), cycles)
	assert.Equal(t, uint8(0xA0), c.Regs.A)
	assert.False(t, c.Regs.GetFlag(FlagCarry))
	assert.True(t, c.Regs.GetFlag(FlagOverflow))
	assert.True(t, c.Regs.GetFlag(FlagNegative))
	assert.False(t, c.Regs.GetFlag(FlagZero))
}

func TestIndirectJMPPageWrapBug(t *testing.T) {
	c, m := newTestCPU()
	c.Regs.PC = 0x8000
	m.data[0x8000], m.data[0x8001], m.data[0x8002] = 0x6C, 0xFF, 0x02
	m.data[0x02FF] = 0x34
	m.data[0x0200] = 0x12 // high byte is read from $0200, not $0300
	m.data[0x0300] = 0x56

	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(5), cycles)
	assert.Equal(t, uint16(0x1234), c.Regs.PC)
}

func TestBranchPageCross(t *testing.T) {
	c, m := newTestCPU()
	c.Regs.PC = 0x00FE
	c.Regs.SetFlag(FlagCarry, true)
	m.data[0x00FE], m.data[0x00FF] = 0xB0, 0x02 // BCS +2

	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(4), cycles) // 2 base + 1 taken + 1 page cross
	assert.Equal(t, uint16(0x0102), c.Regs.PC)
}

func TestBRKRTIRoundTrip(t *testing.T) {
	c, m := newTestCPU()
	c.Regs.PC, c.Regs.SP, c.Regs.P = 0x8000, 0xFD, 0x00
	m.data[0x8000] = 0x00 // BRK
	m.data[0xFFFE], m.data[0xFFFF] = 0x00, 0xC0

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xC000), c.Regs.PC)
	assert.True(t, c.Regs.GetFlag(FlagInterruptDisable))

	pushedP := m.data[0x01FB]
	assert.NotZero(t, pushedP&FlagBreak)
	assert.NotZero(t, pushedP&FlagUnused)
	assert.Equal(t, uint8(0x80), m.data[0x01FD]) // PCH
	assert.Equal(t, uint8(0x02), m.data[0x01FC]) // PCL

	m.data[0xC000] = 0x40 // RTI
	_, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x8002), c.Regs.PC)
	assert.Zero(t, c.Regs.P&FlagBreak)
	assert.NotZero(t, c.Regs.P&FlagUnused)
}

func TestDispatchIsTotalOnUnmappedOpcode(t *testing.T) {
	c, m := newTestCPU()
	c.Regs.PC = 0x8000
	m.data[0x8000] = 0x02 // no opcodeTable entry (halt opcode on some cores; here, a no-op)

	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0), cycles)
	assert.Equal(t, uint16(0x8001), c.Regs.PC)
	assert.True(t, c.LastInvalid)

	m.data[0x8001] = 0xEA // NOP
	cycles, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(2), cycles)
	assert.False(t, c.LastInvalid)
}

func TestResetLoadsVectorAndPowerOnState(t *testing.T) {
	c, m := newTestCPU()
	m.data[0xFFFC], m.data[0xFFFD] = 0x00, 0x90

	c.Reset()
	assert.Equal(t, uint16(0x9000), c.Regs.PC)
	assert.Equal(t, uint8(0xFD), c.Regs.SP)
	assert.True(t, c.Regs.GetFlag(FlagInterruptDisable))
}

func TestNMIServicedBeforeNextInstruction(t *testing.T) {
	c, m := newTestCPU()
	c.Regs.PC, c.Regs.SP = 0x8000, 0xFD
	m.data[0xFFFA], m.data[0xFFFB] = 0x00, 0xD0
	m.data[0x8000] = 0xEA // NOP, should not run this step

	c.TriggerNMI()
	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(7), cycles)
	assert.Equal(t, uint16(0xD000), c.Regs.PC)
}

func TestStackPushPopIsIdentity(t *testing.T) {
	c, _ := newTestCPU()
	c.Regs.SP = 0xFD
	startSP := c.Regs.SP
	c.pushStack(0x42)
	assert.Equal(t, uint8(0x42), c.popStack())
	assert.Equal(t, startSP, c.Regs.SP)
}

func TestIllegalOpcodeLAX(t *testing.T) {
	c, m := newTestCPU()
	c.Regs.PC = 0x8000
	m.data[0x8000], m.data[0x8001] = 0xA7, 0x10 // LAX zp
	m.data[0x0010] = 0x77

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x77), c.Regs.A)
	assert.Equal(t, uint8(0x77), c.Regs.X)
}

func TestIllegalOpcodeSLO(t *testing.T) {
	c, m := newTestCPU()
	c.Regs.PC, c.Regs.A = 0x8000, 0x01
	m.data[0x8000], m.data[0x8001] = 0x07, 0x10 // SLO zp
	m.data[0x0010] = 0x81

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x02), m.data[0x0010])
	assert.True(t, c.Regs.GetFlag(FlagCarry))
	assert.Equal(t, uint8(0x03), c.Regs.A) // 0x01 | 0x02
}
