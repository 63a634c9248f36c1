// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package netbus

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/OLUWAMUYIWA/six502"
	"github.com/gorilla/websocket"
)

// wire is the client end of a connection.
type wire interface {
	write(b []byte) error
	readByte() (byte, error)
}

type pipeWire struct {
	conn   net.Conn
	reader *bufio.Reader
}

func (w *pipeWire) write(b []byte) error {
	_, err := w.conn.Write(b)
	return err
}
func (w *pipeWire) readByte() (byte, error) {
	return w.reader.ReadByte()
}

type wsWire struct {
	conn *websocket.Conn
	buf  []byte
}

func (w *wsWire) write(b []byte) error {
	return w.conn.WriteMessage(websocket.BinaryMessage, b)
}
func (w *wsWire) readByte() (byte, error) {
	for len(w.buf) == 0 {
		_, msg, err := w.conn.ReadMessage()
		if err != nil {
			return 0, err
		}
		w.buf = append(w.buf, msg...)
	}
	b := w.buf[0]
	w.buf = w.buf[1:]
	return b, nil
}

type traceEvent struct {
	n     uint64
	phase six502.Phase
	kind  six502.BusKind
	addr  uint16
	value uint8
	name  string
}

// testClient plays the bus: it answers read and write events from mem and
// records every transaction.
type testClient struct {
	t      *testing.T
	w      wire
	mem    six502.RAM
	ops    []string
	traces []traceEvent

	// failReads makes the client answer read events with FAIL.
	failReads bool
}

// newPipeClient starts a session on one end of a pipe and returns a client
// for the other end.
func newPipeClient(t *testing.T, cfg Config) *testClient {
	t.Helper()
	server, client := net.Pipe()
	client.SetDeadline(time.Now().Add(5 * time.Second))
	done := make(chan struct{})
	go func() {
		defer close(done)
		serveTCPClient(server, cfg)
	}()
	t.Cleanup(func() {
		client.Close()
		<-done
	})
	return &testClient{t: t, w: &pipeWire{conn: client, reader: bufio.NewReader(client)}}
}

func (c *testClient) send(b ...byte) {
	c.t.Helper()
	if err := c.w.write(b); err != nil {
		c.t.Fatalf("send %x: %v", b, err)
	}
}

func (c *testClient) readB() byte {
	c.t.Helper()
	b, err := c.w.readByte()
	if err != nil {
		c.t.Fatalf("read: %v", err)
	}
	return b
}

func (c *testClient) readW() uint16 {
	c.t.Helper()
	return uint16(c.readB())<<8 | uint16(c.readB())
}

func (c *testClient) readQ() uint64 {
	c.t.Helper()
	var b [8]byte
	for i := range b {
		b[i] = c.readB()
	}
	return binary.BigEndian.Uint64(b[:])
}

// await answers server events until the response to the last command
// arrives, and reports whether it was an ACK.
func (c *testClient) await() bool {
	c.t.Helper()
	for {
		switch netOpbyte(c.readB()) {
		case netOpbyteAck:
			return true
		case netOpbyteFail:
			return false
		case netOpbyteEventReadBus:
			addr := c.readW()
			c.ops = append(c.ops, fmt.Sprintf("R %04X", addr))
			if c.failReads {
				c.send(uint8(netOpbyteFail))
				continue
			}
			c.send(uint8(netOpbyteAck), c.mem.Load(addr))
		case netOpbyteEventWriteBus:
			addr := c.readW()
			v := c.readB()
			c.ops = append(c.ops, fmt.Sprintf("W %04X", addr))
			c.mem.Store(addr, v)
			c.send(uint8(netOpbyteAck))
		case netOpbyteEventTraceCycle:
			ev := traceEvent{n: c.readQ()}
			ev.phase = six502.Phase(c.readB())
			ev.kind = six502.BusKind(c.readB())
			ev.addr = c.readW()
			ev.value = c.readB()
			name := make([]byte, c.readB())
			for i := range name {
				name[i] = c.readB()
			}
			ev.name = string(name)
			c.traces = append(c.traces, ev)
			c.send(uint8(netOpbyteAck))
		default:
			c.t.Fatalf("unexpected message from server")
		}
	}
}

func (c *testClient) mustAck(what string) {
	c.t.Helper()
	if !c.await() {
		c.t.Fatalf("%s: got FAIL", what)
	}
}

func (c *testClient) writePC(pc uint16) {
	c.t.Helper()
	c.send(uint8(netOpbyteWritePc), uint8(pc>>8), uint8(pc))
	c.mustAck("WritePc")
}

func (c *testClient) readPC() uint16 {
	c.t.Helper()
	c.send(uint8(netOpbyteReadPc))
	c.mustAck("ReadPc")
	return c.readW()
}

func (c *testClient) readCycles() uint64 {
	c.t.Helper()
	c.send(uint8(netOpbyteReadCycles))
	c.mustAck("ReadCycles")
	return c.readQ()
}

func (c *testClient) load(mode six502.Mode) (uint8, bool) {
	c.t.Helper()
	c.send(uint8(netOpbyteLoad), uint8(mode))
	c.mustAck("Load " + mode.String())
	return c.readB(), c.readB() != 0
}

func (c *testClient) assertOps(want ...string) {
	c.t.Helper()
	if strings.Join(c.ops, ",") != strings.Join(want, ",") {
		c.t.Errorf("bus transactions = %v, want %v", c.ops, want)
	}
	c.ops = nil
}

// expectClosed checks that the server hung up.
func (c *testClient) expectClosed() {
	c.t.Helper()
	if _, err := c.w.readByte(); err != io.EOF {
		c.t.Errorf("read after abort = %v, want EOF", err)
	}
}
