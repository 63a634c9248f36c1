// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package six502

// Store writes v to the operand of mode and reports whether indexing crossed
// a page. Unlike Load, the indexed modes AbsoluteX, AbsoluteY and
// IndirectIndexed always spend the fix-up cycle: the CPU cannot know whether
// the high byte needs a carry before it commits to the write, so it always
// reads the un-carried address first.
//
// An Accumulator store writes A and takes no cycle. Immediate, Implied,
// Relative, Indirect and None panic with *UnsupportedModeError.
func (c *CPU) Store(mode Mode, v uint8) bool {
	r := c.Begin(mode, AccessWrite, v)
	r.Run(c)
	return r.PageCrossed()
}

// Modify reads the operand of mode, writes it back unchanged, then writes
// fn's result, the way INC, DEC and the shifts do. Like Store, the indexed
// modes always spend the fix-up cycle. Modify returns the value written and
// whether indexing crossed a page. In Accumulator mode it takes one cycle
// and never touches the bus.
func (c *CPU) Modify(mode Mode, fn func(uint8) uint8) (uint8, bool) {
	r := c.BeginModify(mode, fn)
	r.Run(c)
	return r.Value(), r.PageCrossed()
}
