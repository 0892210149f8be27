package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/modsim-lab/modsim/internal/modem"
	"github.com/modsim-lab/modsim/internal/server"
)

func main() {
	addr := flag.String("addr", "0.0.0.0:8080", "Server address")
	staticDir := flag.String("static", "./web/static", "Static file directory")
	scheme := flag.String("scheme", "QPSK", "Initial modulation scheme")
	snrDB := flag.Float64("snr", 6.0, "Initial Eb/N0 in dB")
	seed := flag.Int64("seed", 0, "RNG seed, 0 picks one from the clock")
	retention := flag.Int("retention", server.DefaultRetention, "Received samples kept for scatter displays")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	mod, err := modem.ParseModulation(*scheme)
	if err != nil {
		logger.Fatal("invalid scheme", zap.Error(err))
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	// Create handlers and server
	handlers := server.NewHandlers(server.Config{
		Scheme:    mod,
		EbN0DB:    *snrDB,
		Seed:      *seed,
		Retention: *retention,
	}, logger)
	srv := server.NewServer(*addr, handlers, *staticDir, logger)

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		logger.Sync()
		os.Exit(0)
	}()

	// Start server
	if err := srv.Start(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
