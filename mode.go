// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package six502

//==============================================================================
// Addressing modes
//==============================================================================

// Mode is an addressing mode.
type Mode uint8

const (
	Accumulator     = Mode(iota) // A
	Absolute                     // $HHLL
	AbsoluteX                    // $HHLL,X
	AbsoluteY                    // $HHLL,Y
	Immediate                    // #$BB
	ZeroPage                     // $LL
	ZeroPageX                    // $LL,X
	ZeroPageY                    // $LL,Y
	IndexedIndirect              // ($LL,X)
	IndirectIndexed              // ($LL),Y
	Implied                      //
	Relative                     // $BB, signed offset from PC
	Indirect                     // ($HHLL), reserved
	None                         // No mode
)

var modeNames = [...]string{
	Accumulator:     "accumulator",
	Absolute:        "absolute",
	AbsoluteX:       "absolute,X",
	AbsoluteY:       "absolute,Y",
	Immediate:       "immediate",
	ZeroPage:        "zeropage",
	ZeroPageX:       "zeropage,X",
	ZeroPageY:       "zeropage,Y",
	IndexedIndirect: "(zeropage,X)",
	IndirectIndexed: "(zeropage),Y",
	Implied:         "implied",
	Relative:        "relative",
	Indirect:        "(absolute)",
	None:            "none",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "invalid"
}

// Cycles spent by a load in mode m, not counting the opcode fetch and any
// page crossing penalty. For Relative this is a branch that is not taken.
// Unsupported modes report 0.
func (m Mode) Cycles() int {
	switch m {
	case Accumulator, Implied, Immediate, Relative:
		return 1
	case ZeroPage:
		return 2
	case Absolute, AbsoluteX, AbsoluteY, ZeroPageX, ZeroPageY:
		return 3
	case IndirectIndexed:
		return 4
	case IndexedIndirect:
		return 5
	}
	return 0
}

// StoreCycles spent by a store in mode m, not counting the opcode fetch.
// Indexed stores always pay for the fix-up cycle.
func (m Mode) StoreCycles() int {
	switch m {
	case Accumulator:
		return 0
	case AbsoluteX, AbsoluteY, IndirectIndexed:
		return m.Cycles() + 1
	case Immediate, Implied, Relative:
		return 0
	}
	return m.Cycles()
}

// ModifyCycles spent by a read-modify-write in mode m, not counting the opcode
// fetch.
func (m Mode) ModifyCycles() int {
	switch m {
	case Accumulator:
		return 1
	case Immediate, Implied, Relative:
		return 0
	}
	return m.StoreCycles() + 2
}

//==============================================================================
// Access kinds
//==============================================================================

// Access is what a resolution does with its operand.
type Access uint8

const (
	AccessRead   = Access(iota) // Load the operand
	AccessWrite                 // Store a value to the operand
	AccessModify                // Load, write back unchanged, then store the result
)

func (a Access) String() string {
	switch a {
	case AccessRead:
		return "load"
	case AccessWrite:
		return "store"
	case AccessModify:
		return "modify"
	}
	return "invalid"
}

// Supports reports whether mode m can be resolved for access a.
func (m Mode) Supports(a Access) bool {
	switch m {
	case Accumulator, Absolute, AbsoluteX, AbsoluteY,
		ZeroPage, ZeroPageX, ZeroPageY, IndexedIndirect, IndirectIndexed:
		return a <= AccessModify
	case Immediate, Implied, Relative:
		return a == AccessRead
	}
	return false
}
