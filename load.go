// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package six502

// Load resolves the operand of mode and returns it together with whether
// indexing crossed a page. All cycles are spent before Load returns,
// including the fix-up read of a page crossing AbsoluteX, AbsoluteY or
// IndirectIndexed access, so the flag is informational.
//
//	Accumulator     1 cycle, no bus transaction, returns A
//	Absolute        3 cycles
//	AbsoluteX/Y     3 cycles, 4 when the page is crossed
//	Immediate       1 cycle
//	ZeroPage        2 cycles
//	ZeroPageX/Y     3 cycles, wraps inside page zero
//	IndexedIndirect 5 cycles, pointer wraps inside page zero
//	IndirectIndexed 4 cycles, 5 when the page is crossed
//	Implied         1 cycle, no bus transaction, returns 0
//	Relative        a taken branch, see Branch; returns the raw offset
//
// Load panics with *UnsupportedModeError for Indirect and None.
func (c *CPU) Load(mode Mode) (uint8, bool) {
	r := c.Begin(mode, AccessRead, 0)
	r.Run(c)
	return r.Value(), r.PageCrossed()
}
