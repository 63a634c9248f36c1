// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package netbus

import (
	"errors"
	"fmt"
	"log"

	"github.com/OLUWAMUYIWA/six502"
)

const (
	debugNetmsg = false
)

//==============================================================================
// State
//==============================================================================

// clientContext is the emulation session of one client. The CPU is owned by
// the goroutine serving the connection.
type clientContext struct {
	logger *log.Logger
	conn   clientConn
	bus    *remoteBus
	cpu    *six502.CPU

	// pending is the resolution driven by netOpbyteStep.
	pending *six502.Resolution
}

func newClientContext(logger *log.Logger, conn clientConn, cfg Config) *clientContext {
	bus := &remoteBus{conn: conn, trace: cfg.Trace}
	cpu := six502.New(bus)
	cpu.Attach(bus)
	return &clientContext{
		logger: logger,
		conn:   conn,
		bus:    bus,
		cpu:    cpu,
	}
}

// serve handles commands until the client says bye or the session fails.
func (ctx *clientContext) serve(closed func() bool) {
	for !closed() {
		err := ctx.serveNextCmd()
		if err != nil {
			ctx.logger.Printf("Closing client connection due to an error: %v", err)
			break
		}
	}
}

func (ctx *clientContext) serveNextCmd() error {
	logger := ctx.logger
	cpu := ctx.cpu

	hdrByte, err := ctx.conn.inB()
	if err != nil {
		return err
	}
	switch netOpbyte(hdrByte) {
	case netOpbyteBye:
		if debugNetmsg {
			logger.Printf("Bye")
		}
		ctx.conn.close()

	case netOpbyteTraceExecOn:
		if debugNetmsg {
			logger.Printf("TraceExecOn")
		}
		ctx.bus.trace = true
		return ctx.outAck()

	case netOpbyteTraceExecOff:
		if debugNetmsg {
			logger.Printf("TraceExecOff")
		}
		ctx.bus.trace = false
		return ctx.outAck()

	case netOpbyteStep:
		if debugNetmsg {
			logger.Printf("Step")
		}
		if ctx.pending == nil {
			logger.Printf("Step without a pending resolution")
			return ctx.outFail()
		}
		r := ctx.pending
		var done bool
		if err := ctx.resolve(func() { done = r.Step(cpu) }); err != nil {
			return err
		}
		if done {
			ctx.pending = nil
		}
		res := newNetAckResponse(3)
		res.appendBool(done)
		res.appendB(r.Value())
		res.appendBool(r.PageCrossed())
		return ctx.conn.out(res)

	// Registers ---------------------------------------------------------------
	case netOpbyteWriteA, netOpbyteWriteX, netOpbyteWriteY, netOpbyteWriteS, netOpbyteWriteP:
		val, err := ctx.conn.inB()
		if err != nil {
			return err
		}
		if debugNetmsg {
			logger.Printf("Write register %#x <- %#x", hdrByte, val)
		}
		*ctx.register(netOpbyte(hdrByte)) = val
		return ctx.outAck()

	case netOpbyteReadA, netOpbyteReadX, netOpbyteReadY, netOpbyteReadS, netOpbyteReadP:
		if debugNetmsg {
			logger.Printf("Read register %#x", hdrByte)
		}
		res := newNetAckResponse(1)
		res.appendB(*ctx.register(netOpbyte(hdrByte) - 1))
		return ctx.conn.out(res)

	case netOpbyteWritePc:
		val, err := ctx.conn.inW()
		if err != nil {
			return err
		}
		if debugNetmsg {
			logger.Printf("WritePc %#x", val)
		}
		cpu.PC = val
		return ctx.outAck()

	case netOpbyteReadPc:
		if debugNetmsg {
			logger.Printf("ReadPc")
		}
		res := newNetAckResponse(2)
		res.appendW(cpu.PC)
		return ctx.conn.out(res)

	case netOpbyteReadCycles:
		if debugNetmsg {
			logger.Printf("ReadCycles")
		}
		res := newNetAckResponse(8)
		res.appendQ(cpu.Cycles)
		return ctx.conn.out(res)

	case netOpbyteReadAddrBus:
		if debugNetmsg {
			logger.Printf("ReadAddrBus")
		}
		res := newNetAckResponse(2)
		res.appendW(cpu.Addr)
		return ctx.conn.out(res)

	// Operand resolution ------------------------------------------------------
	case netOpbyteLoad:
		mode, err := ctx.inMode()
		if err != nil {
			return err
		}
		if debugNetmsg {
			logger.Printf("Load %s", mode)
		}
		var (
			val     uint8
			crossed bool
		)
		if err := ctx.resolve(func() { val, crossed = cpu.Load(mode) }); err != nil {
			return err
		}
		res := newNetAckResponse(2)
		res.appendB(val)
		res.appendBool(crossed)
		return ctx.conn.out(res)

	case netOpbyteStore:
		mode, err := ctx.inMode()
		if err != nil {
			return err
		}
		val, err := ctx.conn.inB()
		if err != nil {
			return err
		}
		if debugNetmsg {
			logger.Printf("Store %s %#x", mode, val)
		}
		var crossed bool
		if err := ctx.resolve(func() { crossed = cpu.Store(mode, val) }); err != nil {
			return err
		}
		res := newNetAckResponse(1)
		res.appendBool(crossed)
		return ctx.conn.out(res)

	case netOpbyteBranch:
		taken, err := ctx.conn.inB()
		if err != nil {
			return err
		}
		if debugNetmsg {
			logger.Printf("Branch taken=%t", taken != 0)
		}
		var crossed bool
		if err := ctx.resolve(func() { crossed = cpu.Branch(taken != 0) }); err != nil {
			return err
		}
		res := newNetAckResponse(1)
		res.appendBool(crossed)
		return ctx.conn.out(res)

	case netOpbyteBeginLoad, netOpbyteBeginStore:
		mode, err := ctx.inMode()
		if err != nil {
			return err
		}
		access := six502.AccessRead
		var val uint8
		if netOpbyte(hdrByte) == netOpbyteBeginStore {
			access = six502.AccessWrite
			if val, err = ctx.conn.inB(); err != nil {
				return err
			}
		}
		if debugNetmsg {
			logger.Printf("Begin %s %s", access, mode)
		}
		if err := ctx.resolve(func() { ctx.pending = cpu.Begin(mode, access, val) }); err != nil {
			return err
		}
		return ctx.outAck()

	default:
		logger.Printf("Unrecognized message type %x", hdrByte)
		return ctx.outFail()
	}
	return nil
}

func (ctx *clientContext) register(op netOpbyte) *uint8 {
	switch op {
	case netOpbyteWriteA:
		return &ctx.cpu.A
	case netOpbyteWriteX:
		return &ctx.cpu.X
	case netOpbyteWriteY:
		return &ctx.cpu.Y
	case netOpbyteWriteS:
		return &ctx.cpu.S
	case netOpbyteWriteP:
		return &ctx.cpu.P
	}
	panic(fmt.Sprintf("opbyte %#x does not name a register", op))
}

func (ctx *clientContext) inMode() (six502.Mode, error) {
	v, err := ctx.conn.inB()
	return six502.Mode(v), err
}

// resolve runs fn, which drives the CPU, and turns the two ways a resolution
// can abort into an error that ends the session: a mode the resolver cannot
// serve, which is answered with FAIL, and a transport failure on the bus.
func (ctx *clientContext) resolve(fn func()) (err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		var ue *six502.UnsupportedModeError
		e, ok := v.(error)
		if !ok || !errors.As(e, &ue) {
			panic(v)
		}
		ctx.pending = nil
		if ferr := ctx.outFail(); ferr != nil {
			err = ferr
			return
		}
		err = fmt.Errorf("emulation aborted: %w", ue)
	}()
	fn()
	if ctx.bus.err != nil {
		return fmt.Errorf("bus transaction failed: %w", ctx.bus.err)
	}
	return nil
}

func (ctx *clientContext) outAck() error {
	return ctx.conn.out(newNetAckResponse(0))
}
func (ctx *clientContext) outFail() error {
	return ctx.conn.out(newNetFailResponse())
}
