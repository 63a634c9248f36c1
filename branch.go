// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package six502

// Branch resolves the offset of a relative branch. Counting the opcode fetch,
// a branch takes 2 cycles when not taken, 3 when taken to the same page and
// 4 when the target is on another page. The page is compared against PC
// after the offset has been fetched. Branch reports whether the target
// crossed a page; a branch that is not taken never does.
func (c *CPU) Branch(taken bool) bool {
	r := c.BeginBranch(taken)
	r.Run(c)
	return r.PageCrossed()
}
