// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package netbus

import (
	"encoding/binary"
	"fmt"
)

//==============================================================================
// Networking
//==============================================================================

// Every message(request or response) starts with header byte telling what kind of message it's sending
// Note that commands always come from the client
type netOpbyte uint8

const (
	// 0x - Response type.
	// Every response starts with this byte,
	netOpbyteAck  = netOpbyte(0x00) // Acknowledged
	netOpbyteFail = netOpbyte(0x01) // Failed

	// 1x - General commands
	netOpbyteBye          = netOpbyte(0x10) // Close the connection
	netOpbyteTraceExecOn  = netOpbyte(0x11) // Trace Execution - Enable
	netOpbyteTraceExecOff = netOpbyte(0x12) // Trace Execution - Disable
	netOpbyteStep         = netOpbyte(0x1f) // Run one cycle of the pending resolution

	// 2x - CPU state manipulation commands
	netOpbyteWriteA      = netOpbyte(0x20) // Accumulator write
	netOpbyteReadA       = netOpbyte(0x21) // Accumulator read
	netOpbyteWriteX      = netOpbyte(0x22) // X Register write
	netOpbyteReadX       = netOpbyte(0x23) // X Register read
	netOpbyteWriteY      = netOpbyte(0x24) // Y Register write
	netOpbyteReadY       = netOpbyte(0x25) // Y Register read
	netOpbyteWriteS      = netOpbyte(0x26) // Stack pointer write
	netOpbyteReadS       = netOpbyte(0x27) // Stack pointer read
	netOpbyteWriteP      = netOpbyte(0x28) // P write
	netOpbyteReadP       = netOpbyte(0x29) // P read
	netOpbyteWritePc     = netOpbyte(0x2a) // PC write
	netOpbyteReadPc      = netOpbyte(0x2b) // PC read
	netOpbyteReadCycles  = netOpbyte(0x2d) // Cycle counter read
	netOpbyteReadAddrBus = netOpbyte(0x2e) // Address bus latch read

	// 3x - Operand resolution commands
	netOpbyteLoad       = netOpbyte(0x30) // Load operand: mode
	netOpbyteStore      = netOpbyte(0x31) // Store operand: mode, value
	netOpbyteBranch     = netOpbyte(0x32) // Relative branch: taken
	netOpbyteBeginLoad  = netOpbyte(0x33) // Start a stepped load: mode
	netOpbyteBeginStore = netOpbyte(0x34) // Start a stepped store: mode, value

	// 8x - Server events
	// When client receives one of these, it should respond to it accordingly.
	netOpbyteEventReadBus    = netOpbyte(0x80) // Read from address
	netOpbyteEventWriteBus   = netOpbyte(0x81) // Write to address
	netOpbyteEventTraceCycle = netOpbyte(0x82) // Event for Trace Execution, one per cycle
)

type sendBuf struct {
	buf  []uint8
	dest []uint8
}

func newNetEvent(typ netOpbyte, restLen int) sendBuf {
	buf := make([]uint8, restLen+1)
	buf[0] = uint8(typ)
	return sendBuf{buf: buf, dest: buf[1:]}
}
func newNetAckResponse(restLen int) sendBuf {
	buf := make([]uint8, restLen+1)
	buf[0] = uint8(netOpbyteAck)
	return sendBuf{buf: buf, dest: buf[1:]}
}
func newNetFailResponse() sendBuf {
	buf := make([]uint8, 1)
	buf[0] = uint8(netOpbyteFail)
	return sendBuf{buf: buf, dest: buf[1:]}
}

func (b *sendBuf) appendB(v uint8) {
	b.dest[0] = v
	b.dest = b.dest[1:]
}
func (b *sendBuf) appendBool(v bool) {
	if v {
		b.appendB(1)
	} else {
		b.appendB(0)
	}
}
func (b *sendBuf) appendW(v uint16) {
	binary.BigEndian.PutUint16(b.dest[0:2], v)
	b.dest = b.dest[2:]
}
func (b *sendBuf) appendQ(v uint64) {
	binary.BigEndian.PutUint64(b.dest[0:8], v)
	b.dest = b.dest[8:]
}
func (b *sendBuf) appendS(s string) {
	if 255 < len(s) {
		panic("string cannot be sent because it's too long(max: 255 bytes)")
	}
	b.appendB(byte(len(s)))
	for i := 0; i < len(s); i++ {
		b.dest[0] = s[i]
		b.dest = b.dest[1:]
	}
}

// checkFull makes sure we were not wasting more space by accident.
func (b *sendBuf) checkFull() {
	if len(b.dest) != 0 {
		panic("too many bytes were allocated")
	}
}

// clientConn is one side of a client connection, independent of transport.
type clientConn interface {
	close()
	out(b sendBuf) error
	inB() (uint8, error)
	inW() (uint16, error)
}

func expectAckOrFail(conn clientConn) error {
	ackByte, err := conn.inB()
	if err != nil {
		return err
	}
	switch netOpbyte(ackByte) {
	case netOpbyteAck:
		return nil
	case netOpbyteFail:
		return fmt.Errorf("communication error: expected ACK(%#x) got FAIL(%#x)", netOpbyteAck, netOpbyteFail)
	default:
		return fmt.Errorf("communication error: expected ACK(%#x) or FAIL(%#x), got %#x", netOpbyteAck, netOpbyteFail, ackByte)
	}
}
