// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package netbus

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type wsClientConn struct {
	conn   *websocket.Conn
	closed bool
	msgBuf []uint8
}

var wsUpgrader = websocket.Upgrader{} // use default options

// Handler returns the HTTP handler serving WebSocket clients on cfg.WSPath,
// and the files of cfg.StaticDir on "/" when it is set.
func Handler(cfg Config) http.Handler {
	mux := http.NewServeMux()
	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}
	mux.HandleFunc(cfg.WSPath, func(w http.ResponseWriter, r *http.Request) {
		serveWsClient(w, r, cfg)
	})
	return mux
}

// ServeWS serves Handler(cfg) on cfg.WSAddr until ctx is done.
func ServeWS(ctx context.Context, cfg Config) error {
	server := &http.Server{
		Addr:              cfg.WSAddr,
		Handler:           Handler(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}
	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	})
	defer stop()
	log.Printf("Started HTTP(WebSocket) server at %s%s", cfg.WSAddr, cfg.WSPath)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Printf("Stopped HTTP(WebSocket) server at %s", cfg.WSAddr)
	return nil
}

func serveWsClient(w http.ResponseWriter, r *http.Request, cfg Config) {
	log.Printf("New client connection from %s", r.RemoteAddr)
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Print("websocket upgrade error:", err)
		return
	}
	defer conn.Close()

	clientConn := wsClientConn{
		conn: conn,
	}
	logger := log.New(log.Writer(), fmt.Sprintf("[client/%s] ", conn.RemoteAddr()), log.Flags())
	ctx := newClientContext(logger, &clientConn, cfg)
	ctx.serve(func() bool { return clientConn.closed })
	ctx.logger.Printf("Closing client connection")
	conn.Close()
	ctx.logger.Printf("Closed client connection")
}

func (conn *wsClientConn) close() {
	conn.closed = true
}
func (conn *wsClientConn) out(b sendBuf) error {
	b.checkFull()
	return conn.conn.WriteMessage(websocket.BinaryMessage, b.buf)
}
func (conn *wsClientConn) recvMsg() error {
	tp, msg, err := conn.conn.ReadMessage()
	if err != nil {
		return err
	}
	if tp != websocket.BinaryMessage {
		return errors.New("expected binary message, got something else")
	}
	conn.msgBuf = append(conn.msgBuf, msg...)
	return nil
}
func (conn *wsClientConn) inB() (uint8, error) {
	for len(conn.msgBuf) < 1 {
		if err := conn.recvMsg(); err != nil {
			return 0, err
		}
	}
	res := conn.msgBuf[0]
	conn.msgBuf = conn.msgBuf[1:]
	return res, nil
}
func (conn *wsClientConn) inW() (uint16, error) {
	for len(conn.msgBuf) < 2 {
		if err := conn.recvMsg(); err != nil {
			return 0, err
		}
	}
	res := (uint16(conn.msgBuf[0]) << 8) | uint16(conn.msgBuf[1])
	conn.msgBuf = conn.msgBuf[2:]
	return res, nil
}
