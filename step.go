// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package six502

//==============================================================================
// Micro-steps
//==============================================================================

// Phase names the micro-step a Resolution will run on its next cycle.
type Phase uint8

const (
	PhaseIdle         = Phase(iota) // Dead cycle, no bus transaction
	PhaseFetchOperand               // Fetch immediate operand or branch offset
	PhaseFetchLow                   // Fetch address low byte (or zero page address)
	PhaseFetchHigh                  // Fetch address high byte, add index to low byte
	PhaseIndex                      // Dummy read at zero page base while adding index
	PhasePointerLow                 // Read pointer low byte from zero page
	PhasePointerHigh                // Read pointer high byte from zero page
	PhaseFixup                      // Dummy read at un-carried address, fix high byte
	PhaseRead                       // Read the operand
	PhaseDummyWrite                 // Write the unmodified operand back
	PhaseWrite                      // Write the operand
	PhaseBranch                     // Add offset to PC
	PhaseBranchFixup                // Fix PC high byte after a page crossing branch
	PhaseDone                       // Nothing left to do
)

var phaseNames = [...]string{
	PhaseIdle:         "idle",
	PhaseFetchOperand: "fetch operand",
	PhaseFetchLow:     "fetch low byte",
	PhaseFetchHigh:    "fetch high byte",
	PhaseIndex:        "index",
	PhasePointerLow:   "pointer low byte",
	PhasePointerHigh:  "pointer high byte",
	PhaseFixup:        "fix-up",
	PhaseRead:         "read",
	PhaseDummyWrite:   "dummy write",
	PhaseWrite:        "write",
	PhaseBranch:       "branch",
	PhaseBranchFixup:  "branch fix-up",
	PhaseDone:         "done",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "invalid"
}

//==============================================================================
// Resolution
//==============================================================================

// Resolution is one operand access broken into cycles. Each call to Step runs
// exactly one cycle on the CPU, so a driver can interleave it with other
// chips. The effective address is computed by the same micro-steps for every
// access kind; only the fix-up decision and the final bus transactions differ.
type Resolution struct {
	mode   Mode
	access Access
	start  Phase

	fn     func(uint8) uint8 // for AccessModify
	taken  bool              // for Relative
	input  uint8             // value to store
	phase  Phase
	zp     uint8 // zero page address or pointer
	ptr    uint8 // pointer low byte read from zero page
	lo, hi uint8 // effective address, high byte not yet carried
	addr   uint16
	value  uint8
	cross  bool
}

// Begin prepares a resolution of mode for access. v is the value to store and
// is ignored for other access kinds. An Accumulator store has no cycles: A is
// written here and the returned resolution is already done.
//
// Begin panics with *UnsupportedModeError if the mode cannot serve access.
func (c *CPU) Begin(mode Mode, access Access, v uint8) *Resolution {
	if !mode.Supports(access) {
		unsupported(mode, access)
	}
	r := &Resolution{mode: mode, access: access, input: v, taken: true}
	r.start = startPhase(mode, access)
	r.Reset()
	if r.start == PhaseDone {
		// Accumulator store
		c.A = v
		r.value = v
	}
	return r
}

// BeginModify prepares a read-modify-write of mode. fn computes the value
// written back from the value read.
func (c *CPU) BeginModify(mode Mode, fn func(uint8) uint8) *Resolution {
	r := c.Begin(mode, AccessModify, 0)
	r.fn = fn
	return r
}

// BeginBranch prepares a relative branch. A branch that is not taken only
// fetches its offset.
func (c *CPU) BeginBranch(taken bool) *Resolution {
	r := c.Begin(Relative, AccessRead, 0)
	r.taken = taken
	return r
}

func startPhase(mode Mode, access Access) Phase {
	switch mode {
	case Accumulator:
		if access == AccessWrite {
			return PhaseDone
		}
		return PhaseIdle
	case Implied:
		return PhaseIdle
	case Immediate, Relative:
		return PhaseFetchOperand
	}
	return PhaseFetchLow
}

// Reset rewinds r to its first micro-step so it can be run again.
func (r *Resolution) Reset() {
	r.phase = r.start
	r.zp, r.ptr, r.lo, r.hi = 0, 0, 0, 0
	r.addr = 0
	r.value = r.input
	r.cross = false
}

func (r *Resolution) Mode() Mode     { return r.mode }
func (r *Resolution) Access() Access { return r.access }

// Phase returns the micro-step the next call to Step will run.
func (r *Resolution) Phase() Phase { return r.phase }

// Done reports whether every cycle has been run.
func (r *Resolution) Done() bool { return r.phase == PhaseDone }

// Value is the operand read by a load, the byte written by a store, or the
// result written back by a read-modify-write. For Relative it is the raw
// branch offset.
func (r *Resolution) Value() uint8 { return r.value }

// Address is the effective address once it has been computed.
func (r *Resolution) Address() uint16 { return r.addr }

// PageCrossed reports whether indexing carried into the high byte, or whether
// a branch landed on another page.
func (r *Resolution) PageCrossed() bool { return r.cross }

// Step runs the next cycle and reports whether the resolution is complete.
// Stepping a completed resolution does nothing.
func (r *Resolution) Step(c *CPU) bool {
	if r.phase == PhaseDone {
		return true
	}
	c.begin(r.phase)
	r.step(c)
	c.end()
	return r.phase == PhaseDone
}

// Run steps r to completion.
func (r *Resolution) Run(c *CPU) {
	for !r.Step(c) {
	}
}

func (r *Resolution) step(c *CPU) {
	switch r.phase {
	case PhaseIdle:
		if r.mode == Accumulator {
			r.value = c.A
			if r.access == AccessModify {
				r.value = r.apply(c.A)
				c.A = r.value
			}
		} else {
			r.value = 0
		}
		r.phase = PhaseDone

	case PhaseFetchOperand:
		r.value = c.loadU8BumpPC()
		if r.mode == Relative && r.taken {
			r.phase = PhaseBranch
		} else {
			r.phase = PhaseDone
		}

	case PhaseFetchLow:
		r.zp = c.loadU8BumpPC()
		switch r.mode {
		case ZeroPage:
			r.effective(r.zp, 0)
		case ZeroPageX, ZeroPageY, IndexedIndirect:
			r.phase = PhaseIndex
		case IndirectIndexed:
			r.phase = PhasePointerLow
		default:
			r.lo = r.zp
			r.phase = PhaseFetchHigh
		}

	case PhaseFetchHigh:
		r.hi = c.loadU8BumpPC()
		switch r.mode {
		case AbsoluteX:
			r.index(c.X)
		case AbsoluteY:
			r.index(c.Y)
		default:
			r.effective(r.lo, r.hi)
		}

	case PhaseIndex:
		c.read(uint16(r.zp))
		switch r.mode {
		case ZeroPageX:
			r.effective(r.zp+c.X, 0)
		case ZeroPageY:
			r.effective(r.zp+c.Y, 0)
		default:
			r.zp += c.X
			r.phase = PhasePointerLow
		}

	case PhasePointerLow:
		r.ptr = c.read(uint16(r.zp))
		r.phase = PhasePointerHigh

	case PhasePointerHigh:
		r.hi = c.read(uint16(r.zp + 1))
		r.lo = r.ptr
		if r.mode == IndirectIndexed {
			r.index(c.Y)
		} else {
			r.effective(r.lo, r.hi)
		}

	case PhaseFixup:
		c.read(r.addr)
		if r.cross {
			r.addr += 0x100
		}
		r.phase = r.final()

	case PhaseRead:
		r.value = c.read(r.addr)
		if r.access == AccessModify {
			r.phase = PhaseDummyWrite
		} else {
			r.phase = PhaseDone
		}

	case PhaseDummyWrite:
		c.write(r.addr, r.value)
		r.value = r.apply(r.value)
		r.phase = PhaseWrite

	case PhaseWrite:
		c.write(r.addr, r.value)
		r.phase = PhaseDone

	case PhaseBranch:
		pc := c.PC
		c.PC = pc + uint16(int8(r.value))
		r.cross = pc&0xff00 != c.PC&0xff00
		if r.cross {
			r.phase = PhaseBranchFixup
		} else {
			r.phase = PhaseDone
		}

	case PhaseBranchFixup:
		r.phase = PhaseDone
	}
}

// effective latches a final address that needs no carry.
func (r *Resolution) effective(lo, hi uint8) {
	r.lo, r.hi = lo, hi
	r.addr = uint16(hi)<<8 | uint16(lo)
	r.phase = r.final()
}

// index adds i to the low byte. The high byte is left as is; PhaseFixup
// carries into it. Reads only pay for the fix-up when the low byte overflows.
func (r *Resolution) index(i uint8) {
	sum := uint16(r.lo) + uint16(i)
	r.cross = sum > 0xff
	r.lo = uint8(sum)
	r.addr = uint16(r.hi)<<8 | uint16(r.lo)
	if r.cross || r.access != AccessRead {
		r.phase = PhaseFixup
	} else {
		r.phase = r.final()
	}
}

func (r *Resolution) apply(v uint8) uint8 {
	if r.fn == nil {
		return v
	}
	return r.fn(v)
}

func (r *Resolution) final() Phase {
	if r.access == AccessWrite {
		return PhaseWrite
	}
	return PhaseRead
}
