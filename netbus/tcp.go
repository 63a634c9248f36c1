// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package netbus

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
)

type tcpClientConn struct {
	conn   net.Conn
	reader *bufio.Reader
	closed bool
}

// ServeTCP accepts clients on cfg.TCPAddr until ctx is done.
func ServeTCP(ctx context.Context, cfg Config) error {
	listener, err := net.Listen("tcp", cfg.TCPAddr)
	if err != nil {
		return fmt.Errorf("failed to listen to connection -- %w", err)
	}
	log.Printf("Started TCP server at %s", listener.Addr())
	return serveTCPListener(ctx, listener, cfg)
}

func serveTCPListener(ctx context.Context, listener net.Listener, cfg Config) error {
	stop := context.AfterFunc(ctx, func() { listener.Close() })
	defer stop()
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				log.Printf("Stopped TCP server at %s", listener.Addr())
				return nil
			}
			log.Printf("Failed to accept to connection -- %v", err)
			continue
		}
		log.Printf("New client connection from %s", conn.RemoteAddr().String())
		go serveTCPClient(conn, cfg)
	}
}

func serveTCPClient(conn net.Conn, cfg Config) {
	clientConn := tcpClientConn{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}
	logger := log.New(log.Writer(), fmt.Sprintf("[client/%s] ", conn.RemoteAddr()), log.Flags())
	ctx := newClientContext(logger, &clientConn, cfg)
	ctx.serve(func() bool { return clientConn.closed })
	ctx.logger.Printf("Closing client connection")
	conn.Close()
	ctx.logger.Printf("Closed client connection")
}

func (conn *tcpClientConn) close() {
	conn.closed = true
}
func (conn *tcpClientConn) out(b sendBuf) error {
	b.checkFull()
	_, err := conn.conn.Write(b.buf)
	return err
}

func (conn *tcpClientConn) inB() (uint8, error) {
	return conn.reader.ReadByte()
}
func (conn *tcpClientConn) inW() (uint16, error) {
	bytes := [2]uint8{}
	_, err := io.ReadFull(conn.reader, bytes[:])
	if err != nil {
		return 0, err
	}
	res := (uint16(bytes[0]) << 8) | uint16(bytes[1])
	return res, nil
}
