// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package six502

// RAM is a flat 64 KiB bus with no devices attached.
type RAM [0x10000]uint8

func (m *RAM) Load(addr uint16) uint8 {
	return m[addr]
}

func (m *RAM) Store(addr uint16, v uint8) {
	m[addr] = v
}

// Put copies b into memory starting at origin, wrapping at the end of the
// address space, and returns the address following the last byte.
func (m *RAM) Put(origin uint16, b ...uint8) uint16 {
	for _, v := range b {
		m[origin] = v
		origin++
	}
	return origin
}
