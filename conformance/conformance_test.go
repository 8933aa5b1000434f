package conformance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjfarner/nescore/cpu"
)

// ldaImmediateZero is spec.md §8 scenario 1: LDA #$00 with A=$FF,
// P=$24 sets Z and clears N, advancing PC by 2 in 2 cycles.
func ldaImmediateZero() Case {
	return Case{
		Name: "a9 00 - LDA immediate zero",
		Initial: State{
			PC: 0x0400, S: 0xFD, A: 0xFF, X: 0, Y: 0, P: 0x24,
			RAM: [][2]int{{0x0400, 0xA9}, {0x0401, 0x00}},
		},
		Final: State{
			PC: 0x0402, S: 0xFD, A: 0x00, X: 0, Y: 0, P: 0x26,
			RAM: [][2]int{{0x0400, 0xA9}, {0x0401, 0x00}},
		},
		Cycles: []BusAccess{
			{Addr: 0x0400, Val: 0xA9, Kind: "read"},
			{Addr: 0x0401, Val: 0x00, Kind: "read"},
		},
	}
}

// adcOverflow is spec.md §8 scenario 2: ADC #$50 with A=$50, C=0
// produces A=$A0, C=0, V=1, N=1, Z=0 in 2 cycles.
func adcOverflow() Case {
	return Case{
		Name: "69 50 - ADC overflow",
		Initial: State{
			PC: 0x0400, S: 0xFD, A: 0x50, X: 0, Y: 0, P: 0x00,
			RAM: [][2]int{{0x0400, 0x69}, {0x0401, 0x50}},
		},
		Final: State{
			PC: 0x0402, S: 0xFD, A: 0xA0, X: 0, Y: 0, P: 0xC0,
			RAM: [][2]int{{0x0400, 0x69}, {0x0401, 0x50}},
		},
		Cycles: []BusAccess{
			{Addr: 0x0400, Val: 0x69, Kind: "read"},
			{Addr: 0x0401, Val: 0x50, Kind: "read"},
		},
	}
}

func TestRunLDAImmediateZero(t *testing.T) {
	c := cpu.New(nil)
	err := Run(c, ldaImmediateZero())
	assert.NoError(t, err)
}

func TestRunADCOverflow(t *testing.T) {
	c := cpu.New(nil)
	err := Run(c, adcOverflow())
	assert.NoError(t, err)
}

func TestRunReportsEveryDivergence(t *testing.T) {
	tc := ldaImmediateZero()
	tc.Final.A = 0x11 // deliberately wrong
	tc.Final.P = 0x11 // deliberately wrong
	c := cpu.New(nil)
	err := Run(c, tc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "A")
	assert.Contains(t, err.Error(), "P")
}

func TestLoadCases(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a9.json")
	const doc = `[
		{
			"name": "a9 00",
			"initial": {"pc": 1024, "s": 253, "a": 255, "x": 0, "y": 0, "p": 36, "ram": [[1024, 169], [1025, 0]]},
			"final":   {"pc": 1026, "s": 253, "a": 0,   "x": 0, "y": 0, "p": 38, "ram": [[1024, 169], [1025, 0]]},
			"cycles": [[1024, 169, "read"], [1025, 0, "read"]]
		}
	]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cases, err := LoadCases(path)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "a9 00", cases[0].Name)
	assert.Equal(t, uint16(1024), cases[0].Initial.PC)
	assert.Equal(t, "read", cases[0].Cycles[0].Kind)

	c := cpu.New(nil)
	assert.NoError(t, Run(c, cases[0]))
}

func TestLoadCasesMissingFile(t *testing.T) {
	_, err := LoadCases(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
