// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause

// Command six502d serves six502 CPUs to remote bus clients over TCP and
// WebSocket.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/OLUWAMUYIWA/six502/netbus"
)

func main() {
	cfg := netbus.DefaultConfig()
	flag.StringVar(&cfg.TCPAddr, "tcp", cfg.TCPAddr, "TCP listen address, empty to disable")
	flag.StringVar(&cfg.WSAddr, "ws", cfg.WSAddr, "HTTP(WebSocket) listen address, empty to disable")
	flag.StringVar(&cfg.WSPath, "ws-path", cfg.WSPath, "WebSocket endpoint path")
	flag.StringVar(&cfg.StaticDir, "www", cfg.StaticDir, "directory served next to the WebSocket endpoint")
	flag.BoolVar(&cfg.Trace, "trace", cfg.Trace, "send a trace event for every cycle")
	flag.Parse()

	if cfg.TCPAddr == "" && cfg.WSAddr == "" {
		log.Fatalf("Nothing to serve: both -tcp and -ws are empty")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	if cfg.TCPAddr != "" {
		g.Go(func() error { return netbus.ServeTCP(ctx, cfg) })
	}
	if cfg.WSAddr != "" {
		g.Go(func() error { return netbus.ServeWS(ctx, cfg) })
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Server failed -- %v", err)
	}
}
