// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause

// Package six502 resolves MOS 6502 addressing modes one bus cycle at a time.
//
// Every resolution is a sequence of cycles. A cycle either performs a single
// byte-wide bus transaction (an atom) or none at all (a tick). Other emulated
// chips can be stepped between cycles by attaching an Observer or by driving a
// Resolution with Step.
package six502

import "fmt"

//==============================================================================
// State
//==============================================================================

// CPU holds the processor state touched by operand resolution. A CPU must only
// be used from one goroutine at a time.
type CPU struct {
	// Registers ---------------------------------------------------------------
	A  uint8  // Accumulator
	X  uint8  // X register
	Y  uint8  // Y register
	S  uint8  // Stack pointer
	P  uint8  // Processor status
	PC uint16 // Program counter

	// Bus latches -------------------------------------------------------------
	Addr uint16 // Last address driven on the address bus
	Data uint8  // Last byte seen on the data bus

	// Cycles is the number of cycles executed so far.
	Cycles uint64

	bus      Bus
	observer Observer

	inCycle bool
	cur     Cycle
}

// Power-on register values, matching the state nestest expects.
const (
	InitialPC = 0xc000
	InitialS  = 0xfd
	InitialP  = 0x24
)

// New returns a CPU attached to bus.
func New(bus Bus) *CPU {
	return &CPU{
		S:   InitialS,
		P:   InitialP,
		PC:  InitialPC,
		bus: bus,
	}
}

// Attach registers an observer that is notified after every cycle. Passing
// nil detaches the current observer.
func (c *CPU) Attach(o Observer) {
	c.observer = o
}

func (c *CPU) String() string {
	return fmt.Sprintf("PC:%04X A:%02X X:%02X Y:%02X S:%02X P:%02X AB:%04X DB:%02X CY:%d",
		c.PC, c.A, c.X, c.Y, c.S, c.P, c.Addr, c.Data, c.Cycles)
}

//==============================================================================
// Clock
//==============================================================================

// Tick spends one cycle without touching the bus.
func (c *CPU) Tick() {
	c.begin(PhaseIdle)
	c.end()
}

// begin opens a new cycle. Until the matching end, at most one bus
// transaction may be issued.
func (c *CPU) begin(phase Phase) {
	if c.inCycle {
		panic("six502: cycle started while another cycle is in progress")
	}
	c.inCycle = true
	c.Cycles++
	c.cur = Cycle{N: c.Cycles, Phase: phase}
}

func (c *CPU) end() {
	c.inCycle = false
	if c.observer != nil {
		c.observer.ObserveCycle(c.cur)
	}
}

// claim reserves the bus for the current cycle.
func (c *CPU) claim(kind BusKind, addr uint16) {
	if !c.inCycle {
		panic("six502: bus access outside of a cycle")
	}
	if c.cur.Kind != BusIdle {
		panic(fmt.Sprintf("six502: second bus transaction in cycle %d (%s)", c.cur.N, c.cur.Phase))
	}
	c.cur.Kind = kind
	c.cur.Addr = addr
	c.Addr = addr
}

//==============================================================================
// Memory bus
//==============================================================================

func (c *CPU) read(addr uint16) uint8 {
	c.claim(BusRead, addr)
	v := c.bus.Load(addr)
	c.Data = v
	c.cur.Value = v
	return v
}

func (c *CPU) write(addr uint16, v uint8) {
	c.claim(BusWrite, addr)
	c.bus.Store(addr, v)
	c.Data = v
	c.cur.Value = v
}

// loadU8BumpPC fetches the byte at PC and then advances PC.
func (c *CPU) loadU8BumpPC() uint8 {
	v := c.read(c.PC)
	c.PC++
	return v
}
