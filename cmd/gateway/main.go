package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mmcdole/fotofindr/internal/gateway"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var (
		showVersion bool
		listenAddr  string
		origin      string
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&listenAddr, "listen", envOr("GATEWAY_LISTEN", ":8787"), "address to listen on")
	flag.StringVar(&origin, "origin", envOr("GATEWAY_ORIGIN", "http://localhost:8000"), "backend origin to forward to")
	flag.Parse()

	if showVersion {
		fmt.Printf("fotofindr-gateway %s\n", Version)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	logger.Info("starting gateway", "version", Version, "listen", listenAddr, "origin", origin)

	proxy := gateway.NewProxy(origin, logger)
	if err := proxy.Router().Run(listenAddr); err != nil {
		logger.Error("gateway stopped", "error", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
