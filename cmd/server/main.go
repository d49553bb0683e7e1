package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/peerline/peerline/internal/adapter/driven/identity"
	"github.com/peerline/peerline/internal/adapter/driven/notify/noop"
	"github.com/peerline/peerline/internal/adapter/driven/notify/webhook"
	"github.com/peerline/peerline/internal/adapter/driven/persistence/memory"
	"github.com/peerline/peerline/internal/adapter/driven/persistence/postgres"
	"github.com/peerline/peerline/internal/adapter/driving/httpapi"
	"github.com/peerline/peerline/internal/config"
	"github.com/peerline/peerline/internal/core/port"
	"github.com/peerline/peerline/internal/core/service"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to load config")
	}

	l := newLogger(cfg.Log)
	zlog.Logger = l

	// User store: Postgres when configured, in-memory otherwise.
	var users port.UserRepository
	if cfg.UsesDatabase() {
		pool, err := postgres.Connect(context.Background(), cfg.Database)
		if err != nil {
			l.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer pool.Close()
		users = postgres.NewUserRepository(pool)
	} else {
		l.Warn().Msg("No database configured, user store is in-memory")
		users = memory.NewUserRepository()
	}

	tokens := identity.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	var verifier port.TokenVerifier
	if cfg.Auth.Enabled {
		verifier = tokens
	}

	var notifier port.CallNotifier
	if cfg.Notify.WebhookURL != "" {
		notifier = webhook.NewNotifier(cfg.Notify.WebhookURL, cfg.Notify.Timeout)
	} else {
		notifier = noop.NewNotifier()
	}

	iceServers, err := cfg.ICE.Servers()
	if err != nil {
		l.Fatal().Err(err).Msg("Invalid ICE config")
	}

	// Signaling core: one registry and room table per process, passed
	// explicitly to the handlers that need them.
	registry := service.NewConnectionRegistry()
	rooms := service.NewRoomTable(registry)
	router := service.NewSignalingRouter(registry, rooms)
	dispatcher := service.NewEventDispatcher(registry, rooms, router)

	accounts := service.NewAccountService(users, tokens)
	invites := service.NewInviteService(users, notifier)

	h := httpapi.NewHandler(accounts, invites, dispatcher, verifier, iceServers, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: h.NewRouter(),
	}

	go func() {
		l.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	l.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		l.Error().Err(err).Msg("Server forced to shutdown")
	}

	l.Info().Msg("Server exited")
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "json" {
		logger = zerolog.New(os.Stdout)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return logger.Level(level).With().Timestamp().Caller().Logger()
}
