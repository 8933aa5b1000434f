package conformance

// Bus is a flat, all-RAM 64 KiB address space with no PPU, mapper, or
// MMIO side effects: the all-zero bus with no cartridge that spec.md
// §9 requires the core be instantiable against for single-step JSON
// tests. Every access is recorded so Run can diff the observed
// read/write trace against a case's expected cycle log.
type Bus struct {
	mem   [65536]uint8
	trace []BusAccess
}

func (b *Bus) Read(addr uint16) uint8 {
	v := b.mem[addr]
	b.trace = append(b.trace, BusAccess{Addr: addr, Val: v, Kind: "read"})
	return v
}

func (b *Bus) Write(addr uint16, val uint8) {
	b.mem[addr] = val
	b.trace = append(b.trace, BusAccess{Addr: addr, Val: val, Kind: "write"})
}
