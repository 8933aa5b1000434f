package ppu

// loopy struct will store v and t (loopy registers) and allow
// extracting and setting the various components as described below:
// yyy NN YYYYY XXXXX
// ||| || ||||| +++++-- coarse X scroll
// ||| || +++++-------- coarse Y scroll
// ||| ++-------------- nametable select
// +++----------------- fine Y scroll
type loopy struct {
	data uint16 // only 15 bits used
}

func (l *loopy) coarseX() uint16 {
	return l.data & 0x001F
}

func (l *loopy) setCoarseX(n uint16) {
	l.data = (l.data & 0xFFE0) | (n & 0x001F)
}

// incrementCoarseX wraps coarse X at 32 and toggles the horizontal
// nametable bit on wrap, matching the per-tile fetch advance during
// background rendering.
func (l *loopy) incrementCoarseX() {
	if l.coarseX() == 31 {
		l.setCoarseX(0)
		l.toggleNametableX()
	} else {
		l.data += 1
	}
}

func (l *loopy) coarseY() uint16 {
	return (l.data & 0x03E0) >> 5
}

func (l *loopy) setCoarseY(n uint16) {
	l.data = (l.data & 0xFC1F) | ((n & 0x001F) << 5)
}

func (l *loopy) nametableX() uint16 {
	return (l.data & 0x0400) >> 10
}

func clearBit(n, pos uint16) uint16 {
	return n &^ (uint16(1) << (pos - 1))
}

func (l *loopy) toggleNametableX() {
	if l.nametableX() == 1 {
		l.data = clearBit(l.data, 11)
	} else {
		l.data |= (uint16(1) << 10)
	}
}

func (l *loopy) nametableY() uint16 {
	return (l.data & 0x0800) >> 11
}

func (l *loopy) toggleNametableY() {
	if l.nametableY() == 1 {
		l.data = clearBit(l.data, 12)
	} else {
		l.data |= (uint16(1) << 11)
	}
}

// setNametableSelect sets both nametable bits at once from PPUCTRL
// bits 0-1.
func (l *loopy) setNametableSelect(n uint16) {
	l.data = (l.data & 0xF3FF) | ((n & 0x0003) << 10)
}

func (l *loopy) fineY() uint16 {
	return (l.data & 0x7000) >> 12
}

func (l *loopy) setFineY(n uint16) {
	l.data = (l.data & 0x8FFF) | ((n & 0x0007) << 12)
}

// incrementY advances fine Y, carrying into coarse Y with the two odd
// wrap cases real hardware has: coarse Y 29 wraps to 0 and toggles
// the vertical nametable bit, since row 29 is the last row of
// on-screen tiles; coarse Y 31 wraps to 0 without toggling, which
// only happens if software wrote an out-of-range value into v.
func (l *loopy) incrementY() {
	if l.fineY() < 7 {
		l.setFineY(l.fineY() + 1)
		return
	}
	l.setFineY(0)
	switch l.coarseY() {
	case 29:
		l.setCoarseY(0)
		l.toggleNametableY()
	case 31:
		l.setCoarseY(0)
	default:
		l.setCoarseY(l.coarseY() + 1)
	}
}

// copyX copies the horizontal position fields (coarse X, nametable X)
// from src into l; done at the end of each scanline's fetch.
func (l *loopy) copyX(src *loopy) {
	l.data = (l.data & 0xFBE0) | (src.data & 0x041F)
}

// copyY copies the vertical position fields (coarse Y, fine Y,
// nametable Y) from src into l; done once per frame on the
// pre-render line.
func (l *loopy) copyY(src *loopy) {
	l.data = (l.data & 0x841F) | (src.data & 0x7BE0)
}
