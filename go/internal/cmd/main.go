package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/matchbook/go/internal/gateway"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	setupLogging(getEnv("LOG_LEVEL", "info"))

	config, err := loadConfig(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slot, err := setupStorage(ctx, config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up storage")
	}
	defer slot.Close()

	connectionManager := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	publisher, closeEvents, err := setupEvents(config, connectionManager)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up events")
	}
	defer closeEvents()

	services, err := setupServices(ctx, config, slot, publisher, connectionManager)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up services")
	}

	go connectionManager.Start(ctx)

	server := setupServer(config, services)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("storage", config.Storage.Driver).
			Str("location", config.Store.Location).
			Msg("matchbook server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	log.Info().Msg("matchbook shutdown complete")
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
