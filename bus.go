// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package six502

// Bus is the byte-wide memory bus the CPU is wired to. Implementations cover
// the whole 16-bit address space and never fail; open bus, mirroring and
// read-only regions are their own business. Load and Store do not advance the
// cycle counter.
type Bus interface {
	Load(addr uint16) uint8
	Store(addr uint16, v uint8)
}

// BusKind tells what a cycle did with the bus.
type BusKind uint8

const (
	BusIdle  = BusKind(iota) // No transaction
	BusRead                  // Read from address
	BusWrite                 // Write to address
)

func (k BusKind) String() string {
	switch k {
	case BusIdle:
		return "idle"
	case BusRead:
		return "read"
	case BusWrite:
		return "write"
	}
	return "invalid"
}

// Cycle describes one completed clock cycle.
type Cycle struct {
	N     uint64  // Value of CPU.Cycles for this cycle
	Phase Phase   // Micro-step that ran during the cycle
	Kind  BusKind // Bus transaction, if any
	Addr  uint16
	Value uint8
}

// Observer is notified after each cycle, which is where a machine steps the
// chips that run in lockstep with the CPU.
type Observer interface {
	ObserveCycle(Cycle)
}
