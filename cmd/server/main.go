package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "callbridge/internal/adapters/http"
	"callbridge/internal/app"
	"callbridge/internal/app/orch"
	"callbridge/internal/auth"
	"callbridge/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	secret := cfg.MediaTokenSecret
	if secret == "" {
		// Ephemeral secret: credentials stop validating across restarts.
		secret = uuid.NewString()
		log.Warn().Msg("media_token_secret not set, using ephemeral secret")
	}
	creds, err := auth.NewManager(secret, cfg.MediaTokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init credential issuer")
	}

	o := &orch.Orchestrator{
		Presence: app.NewPresenceRegistry(),
		Sessions: app.NewSessionStore(),
		Rooms:    app.NewRoomTable(),
		Relay:    app.NewRelay(),
		Creds:    creds,
	}

	go o.RunSweeper(ctx, cfg.SweepInterval, cfg.RoomTTL)

	r := router.SetupRouter(ctx, cfg, o)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("callbridge server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
