package cartridge

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildROM(prgBlocks, chrBlocks, flags6, flags7 byte, trainer bool) []byte {
	var buf bytes.Buffer
	buf.WriteString(inesMagic)
	buf.WriteByte(prgBlocks)
	buf.WriteByte(chrBlocks)
	buf.WriteByte(flags6)
	buf.WriteByte(flags7)
	buf.Write(make([]byte, 8)) // bytes 8-15 unused by this core

	if trainer {
		buf.Write(make([]byte, trainerSize))
	}
	prg := make([]byte, int(prgBlocks)*prgBlockSize)
	for i := range prg {
		prg[i] = byte(i)
	}
	buf.Write(prg)

	if chrBlocks > 0 {
		chr := make([]byte, int(chrBlocks)*chrBlockSize)
		for i := range chr {
			chr[i] = byte(0xFF - i%256)
		}
		buf.Write(chr)
	}
	return buf.Bytes()
}

func TestLoadRejectsBadMagic(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("NOPE0000000000000000")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadHeader)
}

func TestLoadParsesHeaderAndBanks(t *testing.T) {
	rom, err := Load(bytes.NewReader(buildROM(1, 1, 0, 0, false)))
	require.NoError(t, err)
	assert.Len(t, rom.PRG, prgBlockSize)
	assert.Len(t, rom.CHR, chrBlockSize)
	assert.False(t, rom.CHRIsRAM)
	assert.Equal(t, MirrorHorizontal, rom.Header.Mirroring())
}

func TestLoadZeroCHRBlocksAllocatesCHRRAM(t *testing.T) {
	rom, err := Load(bytes.NewReader(buildROM(1, 0, 0, 0, false)))
	require.NoError(t, err)
	assert.True(t, rom.CHRIsRAM)
	assert.Len(t, rom.CHR, chrBlockSize)
}

func TestLoadSkipsTrainer(t *testing.T) {
	rom, err := Load(bytes.NewReader(buildROM(1, 1, 0x04, 0, true)))
	require.NoError(t, err)
	assert.Equal(t, byte(0), rom.PRG[0]) // trainer bytes consumed, PRG starts clean
}

func TestHeaderMirroringModes(t *testing.T) {
	assert.Equal(t, MirrorHorizontal, Header{Flags6: 0x00}.Mirroring())
	assert.Equal(t, MirrorVertical, Header{Flags6: 0x01}.Mirroring())
	assert.Equal(t, MirrorFourScreen, Header{Flags6: 0x08}.Mirroring())
}

func TestHeaderMapperNum(t *testing.T) {
	h := Header{Flags6: 0x10, Flags7: 0x20} // low nibble 1, high nibble 2 -> mapper 0x21
	assert.Equal(t, uint16(0x21), h.MapperNum())
}
