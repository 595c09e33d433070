package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"tsn-cnc/internal/app"
	"tsn-cnc/internal/comms"
	"tsn-cnc/internal/config"
	"tsn-cnc/internal/credstore"
	"tsn-cnc/internal/db"
	"tsn-cnc/internal/netstate"
	"tsn-cnc/internal/poller"
	"tsn-cnc/internal/transport"
	"tsn-cnc/internal/web"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn("config", "problem", w)
	}

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("database unavailable", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	client := transport.NewSNMP(transport.Options{Retries: cfg.Retries, Timeout: cfg.Timeout}, logger)
	backend := app.New(credstore.New(conn), comms.New(client, logger), netstate.NewRegistry(), logger)

	// Initial load before the API accepts requests
	if err := backend.Reload(); err != nil {
		logger.Warn("initial load incomplete", "error", err)
	}

	bg := poller.New(backend, logger)
	if err := bg.Start(cfg.RefreshSchedule); err != nil {
		logger.Error("invalid refresh schedule", "schedule", cfg.RefreshSchedule, "error", err)
		os.Exit(1)
	}

	auth, err := web.NewAuth(cfg.Password)
	if err != nil {
		logger.Error("api password unusable", "error", err)
		os.Exit(1)
	}

	server := fiber.New(fiber.Config{
		Views:                 web.NewEngine(),
		DisableStartupMessage: true,
	})
	web.SetupRoutes(server, backend, auth, logger)

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")
		bg.Stop()
		_ = server.Shutdown()
	}()

	logger.Info("server running", "addr", "http://"+cfg.Addr())
	if err := server.Listen(cfg.Addr()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
