// Command jersey-rota serves the players and jersey washes HTTP API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/jersey-rota/internal/config"
	"github.com/deppfellow/jersey-rota/internal/handler"
	"github.com/deppfellow/jersey-rota/internal/logger"
	"github.com/deppfellow/jersey-rota/internal/repository"
	"github.com/deppfellow/jersey-rota/internal/router"
	"github.com/deppfellow/jersey-rota/internal/server"
	"github.com/deppfellow/jersey-rota/internal/service"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize New Relic")
	}

	appLogger := logger.NewLoggerWithService(cfg.Observability, loggerService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(cfg, &appLogger, loggerService)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize server")
	}

	if cfg.Database.AutoMigrate {
		if err := srv.DB.Migrate(ctx); err != nil {
			appLogger.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	services, err := service.NewService(srv, repository.NewRepositories(srv))
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to create services")
	}

	r := router.NewRouter(srv, handler.NewHandlers(srv, services))
	srv.SetupHTTPServer(r)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			appLogger.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
		return
	case <-ctx.Done():
	}

	appLogger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server exited properly")
}
