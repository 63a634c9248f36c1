// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package netbus

import (
	"github.com/OLUWAMUYIWA/six502"
)

//==============================================================================
// Memory bus
//==============================================================================

// openBus is what a read returns once the connection has failed.
const openBus = 0xff

// remoteBus forwards every bus transaction of the CPU to the client as an
// event and waits for its answer. The six502.Bus interface has no error
// return, so the first transport error is kept and every later transaction
// becomes a no-op; the session checks err once the resolution is over.
type remoteBus struct {
	conn  clientConn
	trace bool
	err   error
}

var _ six502.Bus = (*remoteBus)(nil)
var _ six502.Observer = (*remoteBus)(nil)

func (bus *remoteBus) Load(addr uint16) uint8 {
	if bus.err != nil {
		return openBus
	}
	v, err := bus.eventReadBus(addr)
	if err != nil {
		bus.err = err
		return openBus
	}
	return v
}

func (bus *remoteBus) Store(addr uint16, v uint8) {
	if bus.err != nil {
		return
	}
	bus.err = bus.eventWriteBus(addr, v)
}

// ObserveCycle reports the cycle to the client when tracing is enabled.
func (bus *remoteBus) ObserveCycle(c six502.Cycle) {
	if !bus.trace || bus.err != nil {
		return
	}
	bus.err = bus.eventTraceCycle(c)
}

func (bus *remoteBus) eventReadBus(addr uint16) (uint8, error) {
	// Send event --------------------------------------------------------------
	event := newNetEvent(netOpbyteEventReadBus, 2)
	event.appendW(addr)
	if err := bus.conn.out(event); err != nil {
		return 0, err
	}
	// Receive response --------------------------------------------------------
	if err := expectAckOrFail(bus.conn); err != nil {
		return 0, err
	}
	return bus.conn.inB()
}
func (bus *remoteBus) eventWriteBus(addr uint16, v uint8) error {
	// Send event --------------------------------------------------------------
	event := newNetEvent(netOpbyteEventWriteBus, 3)
	event.appendW(addr)
	event.appendB(v)
	if err := bus.conn.out(event); err != nil {
		return err
	}
	// Receive response --------------------------------------------------------
	return expectAckOrFail(bus.conn)
}
func (bus *remoteBus) eventTraceCycle(c six502.Cycle) error {
	// Send event --------------------------------------------------------------
	name := c.Phase.String()
	event := newNetEvent(netOpbyteEventTraceCycle, 8+1+1+2+1+1+len(name))
	event.appendQ(c.N)
	event.appendB(uint8(c.Phase))
	event.appendB(uint8(c.Kind))
	event.appendW(c.Addr)
	event.appendB(c.Value)
	event.appendS(name)
	if err := bus.conn.out(event); err != nil {
		return err
	}
	// Receive response --------------------------------------------------------
	return expectAckOrFail(bus.conn)
}
