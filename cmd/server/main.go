package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/adrianliechti/redactor/config"
	"github.com/adrianliechti/redactor/pkg/jobs/memory"
	"github.com/adrianliechti/redactor/pkg/otel"
	"github.com/adrianliechti/redactor/server"
)

var version = "dev"

func main() {
	configFlag := flag.String("config", "config.yaml", "config file")
	addressFlag := flag.String("address", "", "listen address")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := otel.Setup(ctx, "redactor", version)

	if err != nil {
		slog.Error("failed to set up telemetry", "error", err)
	}

	if shutdown != nil {
		defer shutdown(context.WithoutCancel(ctx))
	}

	cfg, err := config.Parse(*configFlag)

	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *addressFlag != "" {
		cfg.Address = *addressFlag
	}

	s, err := server.New(cfg, memory.New())

	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	if err := s.ListenAndServe(ctx); err != nil {
		slog.Error("server failed", "error", err)
	}
}
