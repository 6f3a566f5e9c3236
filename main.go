package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/FACorreiaa/masir/internal/pkg/config"
	"github.com/FACorreiaa/masir/internal/server"
	"github.com/FACorreiaa/masir/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(logger.ParseLevel(cfg.LogLevel), zap.String("service", cfg.Observability.ServiceName)); err != nil {
		return err
	}
	defer func() { _ = logger.Log.Sync() }()
	l := logger.Log

	otelShutdown, err := server.InitObservability(cfg.Observability, l)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			l.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	srv, err := server.New(context.Background(), cfg, l)
	if err != nil {
		return err
	}
	defer srv.Close()

	srv.SetRouter(server.SetupRouter(srv.Dependencies(), srv.Limiter()))

	var pprofServer *http.Server
	if cfg.Observability.PprofAddr != "" {
		pprofServer = server.StartPprofServer(cfg.Observability.PprofAddr, l)
	}

	httpServer, err := srv.HTTPServer()
	if err != nil {
		return err
	}

	done := make(chan struct{})
	go server.GracefulShutdown(httpServer, l, done, pprofServer)

	l.Info("Server starting", zap.String("port", cfg.ServerPort))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("Server error", zap.Error(err))
		return err
	}

	<-done
	l.Info("Graceful shutdown complete")
	return nil
}
