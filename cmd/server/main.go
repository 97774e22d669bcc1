package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/openmeet/salas/internal/adapters/http"
	"github.com/openmeet/salas/internal/adapters/natsbus"
	"github.com/openmeet/salas/internal/adapters/storage"
	"github.com/openmeet/salas/internal/app"
	"github.com/openmeet/salas/internal/auth"
	"github.com/openmeet/salas/internal/config"
	"github.com/openmeet/salas/internal/core"
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

	var (
		roomStore core.RoomStore
		userStore core.UserStore
	)
	if cfg.MongoURI != "" {
		mongoStore, err := storage.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongodb")
		}
		defer func() {
			closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer closeCancel()
			_ = mongoStore.Close(closeCtx)
		}()
		roomStore, userStore = mongoStore, mongoStore
	} else {
		log.Warn().Msg("no mongo_uri configured, using in-memory store")
		memStore := storage.NewMemoryStore()
		roomStore, userStore = memStore, memStore
	}

	var bus core.Bus
	if cfg.NatsURL != "" {
		natsBus, err := natsbus.Connect(cfg.NatsURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to nats")
		}
		defer natsBus.Close()
		bus = natsBus
	} else {
		bus = app.NewLocalBus()
	}

	registry := app.NewRegistry(roomStore)
	relay := app.NewRelay(bus, app.SimplePolicy{})
	tokens := auth.NewTokenService(cfg.Secret, cfg.TokenTTL)
	authSvc := auth.NewService(userStore, tokens)

	r := router.SetupRouter(ctx, cfg, &router.API{
		Registry: registry,
		Relay:    relay,
		Auth:     authSvc,
		Tokens:   tokens,
	})
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Salas server started")
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
