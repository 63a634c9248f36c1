// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause

// Package netbus serves six502 CPUs whose memory bus lives on the other side
// of a network connection. Each client gets its own CPU; every bus
// transaction the CPU makes is sent to the client as an event and blocks
// until the client answers, so a test harness can check the exact sequence of
// reads and writes, cycle by cycle.
package netbus

// Config controls the listeners.
type Config struct {
	TCPAddr   string // Address of the raw TCP listener, empty to disable
	WSAddr    string // Address of the HTTP(WebSocket) listener, empty to disable
	WSPath    string // Path the WebSocket endpoint is mounted on
	StaticDir string // Directory served at "/" next to the WebSocket, empty for none
	Trace     bool   // Start every session with cycle tracing enabled
}

// DefaultConfig listens for TCP on the 6502 port and serves WebSocket clients
// on the port after it.
func DefaultConfig() Config {
	return Config{
		TCPAddr: "127.0.0.1:6502",
		WSAddr:  "127.0.0.1:6503",
		WSPath:  "/six502",
	}
}
