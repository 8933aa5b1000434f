package ppu

// Color is one RGBA pixel, stored as four bytes so framebuffers can
// be handed to image.RGBA or an ebiten.Image without conversion.
type Color [4]uint8

func newColor(r, g, b uint8) Color {
	return Color{r, g, b, 0xff}
}

// SYSTEM_PALETTE is the fixed 64-entry NES master palette. Index is
// the 6-bit value stored in a palette RAM entry; the RGB values are
// the commonly used 2C02 palette and are bit-exact regardless of
// which emulator table they were sourced from, since every popular
// table agrees on these values.
var SYSTEM_PALETTE = [64]Color{
	newColor(0x80, 0x80, 0x80), newColor(0x00, 0x3D, 0xA6), newColor(0x00, 0x12, 0xB0), newColor(0x44, 0x00, 0x96), newColor(0xA1, 0x00, 0x5E),
	newColor(0xC7, 0x00, 0x28), newColor(0xBA, 0x06, 0x00), newColor(0x8C, 0x17, 0x00), newColor(0x5C, 0x2F, 0x00), newColor(0x10, 0x45, 0x00),
	newColor(0x05, 0x4A, 0x00), newColor(0x00, 0x47, 0x2E), newColor(0x00, 0x41, 0x66), newColor(0x00, 0x00, 0x00), newColor(0x05, 0x05, 0x05),
	newColor(0x05, 0x05, 0x05), newColor(0xC7, 0xC7, 0xC7), newColor(0x00, 0x77, 0xFF), newColor(0x21, 0x55, 0xFF), newColor(0x82, 0x37, 0xFA),
	newColor(0xEB, 0x2F, 0xB5), newColor(0xFF, 0x29, 0x50), newColor(0xFF, 0x22, 0x00), newColor(0xD6, 0x32, 0x00), newColor(0xC4, 0x62, 0x00),
	newColor(0x35, 0x80, 0x00), newColor(0x05, 0x8F, 0x00), newColor(0x00, 0x8A, 0x55), newColor(0x00, 0x99, 0xCC), newColor(0x21, 0x21, 0x21),
	newColor(0x09, 0x09, 0x09), newColor(0x09, 0x09, 0x09), newColor(0xFF, 0xFF, 0xFF), newColor(0x0F, 0xD7, 0xFF), newColor(0x69, 0xA2, 0xFF),
	newColor(0xD4, 0x80, 0xFF), newColor(0xFF, 0x45, 0xF3), newColor(0xFF, 0x61, 0x8B), newColor(0xFF, 0x88, 0x33), newColor(0xFF, 0x9C, 0x12),
	newColor(0xFA, 0xBC, 0x20), newColor(0x9F, 0xE3, 0x0E), newColor(0x2B, 0xF0, 0x35), newColor(0x0C, 0xF0, 0xA4), newColor(0x05, 0xFB, 0xFF),
	newColor(0x5E, 0x5E, 0x5E), newColor(0x0D, 0x0D, 0x0D), newColor(0x0D, 0x0D, 0x0D), newColor(0xFF, 0xFF, 0xFF), newColor(0xA6, 0xFC, 0xFF),
	newColor(0xB3, 0xEC, 0xFF), newColor(0xDA, 0xAB, 0xEB), newColor(0xFF, 0xA8, 0xF9), newColor(0xFF, 0xAB, 0xB3), newColor(0xFF, 0xD2, 0xB0),
	newColor(0xFF, 0xEF, 0xA6), newColor(0xFF, 0xF7, 0x9C), newColor(0xD7, 0xE8, 0x95), newColor(0xA6, 0xED, 0xAF), newColor(0xA2, 0xF2, 0xDA),
	newColor(0x99, 0xFF, 0xFC), newColor(0xDD, 0xDD, 0xDD), newColor(0x11, 0x11, 0x11), newColor(0x11, 0x11, 0x11),
}
