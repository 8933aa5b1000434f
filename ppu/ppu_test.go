package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBus is a minimal Bus: flat CHR memory, settable mirroring, and
// an NMI flag the tests can observe instead of a real CPU.
type testBus struct {
	chr          [0x2000]uint8
	mirrorMode   uint8
	nmiTriggered bool
}

func (tb *testBus) ChrRead(addr uint16) uint8       { return tb.chr[addr] }
func (tb *testBus) ChrWrite(addr uint16, val uint8) { tb.chr[addr] = val }
func (tb *testBus) Mirroring() uint8                { return tb.mirrorMode }
func (tb *testBus) TriggerNMI()                     { tb.nmiTriggered = true }

func TestWriteRegPPUCTRLSetsNametableSelect(t *testing.T) {
	p := New(&testBus{})
	p.WriteReg(PPUCTRL, 0b10)
	assert.Equal(t, uint16(0), p.t.nametableX())
	assert.Equal(t, uint16(1), p.t.nametableY())
	assert.False(t, p.generateNMI())

	p.WriteReg(PPUCTRL, 0x80)
	assert.True(t, p.generateNMI())
}

func TestWriteRegPPUSCROLLTogglesLatch(t *testing.T) {
	p := New(&testBus{})

	p.WriteReg(PPUSCROLL, 0b01111101) // coarseX=15, fineX=5
	assert.Equal(t, uint16(15), p.t.coarseX())
	assert.Equal(t, uint8(5), p.x)
	assert.True(t, p.w)

	p.WriteReg(PPUSCROLL, 0b01101011) // coarseY=13, fineY=3
	assert.Equal(t, uint16(13), p.t.coarseY())
	assert.Equal(t, uint16(3), p.t.fineY())
	assert.False(t, p.w)
}

func TestWriteRegPPUADDRCopiesIntoVOnSecondWrite(t *testing.T) {
	p := New(&testBus{})

	p.WriteReg(PPUADDR, 0x21)
	assert.True(t, p.w)
	assert.NotEqual(t, uint16(0x2100), p.v.data, "v must not update until the second write")

	p.WriteReg(PPUADDR, 0x05)
	assert.False(t, p.w)
	assert.Equal(t, uint16(0x2105), p.v.data)
}

func TestReadRegPPUSTATUSClearsVBlankAndLatch(t *testing.T) {
	p := New(&testBus{})
	p.status = STATUS_VERTICAL_BLANK | STATUS_SPRITE_0_HIT
	p.w = true

	got := p.ReadReg(PPUSTATUS)
	assert.Equal(t, STATUS_VERTICAL_BLANK|STATUS_SPRITE_0_HIT, int(got))
	assert.False(t, p.w)
	assert.Equal(t, uint8(0), p.status&STATUS_VERTICAL_BLANK)
}

func TestPPUDATAReadIsBufferedOneStepBehind(t *testing.T) {
	bus := &testBus{}
	p := New(bus)

	p.WriteReg(PPUADDR, 0x23)
	p.WriteReg(PPUADDR, 0x05) // v = 0x2305, a nametable address
	p.vramWrite(0x2305, 0xAB)
	p.v.data = 0x2305

	first := p.ReadReg(PPUDATA)
	assert.Equal(t, uint8(0), first, "first read returns the stale buffer, not 0xAB yet")

	second := p.ReadReg(PPUDATA)
	assert.Equal(t, uint8(0xAB), second)
}

func TestPPUDATAWriteIncrementsVByCtrlStep(t *testing.T) {
	p := New(&testBus{})
	p.v.data = 0x2000
	p.ctrl = CTRL_VRAM_ADD_INCREMENT

	p.WriteReg(PPUDATA, 0x11)
	assert.Equal(t, uint16(0x2020), p.v.data)
}

func TestOAMDATAWritePostIncrementsAddr(t *testing.T) {
	p := New(&testBus{})
	p.WriteReg(OAMADDR, 0xFF)
	p.WriteReg(OAMDATA, 0x42)
	assert.Equal(t, uint8(0), p.oamAddr, "post-increment wraps mod 256")
	assert.Equal(t, uint8(0x42), p.oamData[0xFF])
}

func TestReadOAMDATAMasksUnimplementedAttributeBits(t *testing.T) {
	p := New(&testBus{})
	p.oamData[2] = 0b11011111 // bits 2-4 set, don't exist in hardware
	p.oamAddr = 2

	assert.Equal(t, uint8(0b11000011), p.ReadReg(OAMDATA))
}

func TestReadOAMDATANonAttributeByteIsUnmasked(t *testing.T) {
	p := New(&testBus{})
	p.oamData[0] = 0xAB
	p.oamAddr = 0

	assert.Equal(t, uint8(0xAB), p.ReadReg(OAMDATA))
}

func TestWriteOAMDMACopies256BytesWithWrap(t *testing.T) {
	p := New(&testBus{})
	p.oamAddr = 0xFE

	page := make([]uint8, 256)
	for i := range page {
		page[i] = uint8(i)
	}
	p.WriteOAMDMA(page)

	assert.Equal(t, uint8(0), p.oamData[0xFE])
	assert.Equal(t, uint8(1), p.oamData[0xFF])
	assert.Equal(t, uint8(2), p.oamData[0x00], "the transfer wraps OAM index mod 256")
}

func TestNametableMirrorHorizontal(t *testing.T) {
	// $2000 and $2400 share one physical bank; $2800 and $2C00 share
	// the other.
	a := nametableMirror(0x2000, MIRROR_HORIZONTAL)
	b := nametableMirror(0x2400, MIRROR_HORIZONTAL)
	assert.Equal(t, a, b)

	c := nametableMirror(0x2800, MIRROR_HORIZONTAL)
	assert.NotEqual(t, a, c)
}

func TestNametableMirrorVertical(t *testing.T) {
	a := nametableMirror(0x2000, MIRROR_VERTICAL)
	b := nametableMirror(0x2800, MIRROR_VERTICAL)
	assert.Equal(t, a, b)

	c := nametableMirror(0x2400, MIRROR_VERTICAL)
	assert.NotEqual(t, a, c)
}

func TestPaletteMirrorBackdropEntries(t *testing.T) {
	assert.Equal(t, uint16(0x00), paletteMirror(0x10))
	assert.Equal(t, uint16(0x04), paletteMirror(0x14))
	assert.Equal(t, uint16(0x01), paletteMirror(0x01), "non-mirrored entries pass through")
}

func TestStepEntersVBlankAndRequestsNMIWhenEnabled(t *testing.T) {
	bus := &testBus{}
	p := New(bus)
	p.ctrl = CTRL_GENERATE_NMI
	p.scanline = 241

	nmi := p.Step()
	assert.True(t, nmi)
	assert.NotEqual(t, uint8(0), p.status&STATUS_VERTICAL_BLANK)
}

func TestStepWrapsScanlineAfter260(t *testing.T) {
	p := New(&testBus{})
	p.scanline = 260
	p.Step()
	assert.Equal(t, int16(-1), p.scanline)
}

func TestPreRenderClearsStatusFlags(t *testing.T) {
	p := New(&testBus{})
	p.scanline = -1
	p.status = STATUS_VERTICAL_BLANK | STATUS_SPRITE_OVERFLOW | STATUS_SPRITE_0_HIT
	p.Step()
	assert.Equal(t, uint8(0), p.status)
}

func TestRenderScanlineProducesNonBlackFrameWhenEnabled(t *testing.T) {
	bus := &testBus{}
	// A tile index of 1 with a solid (all-1) low bitplane at row 0
	// of pattern table 0.
	bus.chr[16] = 0xFF // tile 1, plane lo, row 0
	p := New(bus)
	p.mask = MASK_SHOW_BACKGROUND
	p.vram[0] = 1 // nametable entry at tile (0,0) -> tile index 1
	p.palette[1] = 0x16

	p.renderScanline(0)

	require.NotEqual(t, Color{}, p.frame[0])
}
