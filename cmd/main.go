package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"telegraph_dispatch/internal/config"
	"telegraph_dispatch/internal/infrastructure"
	httpiface "telegraph_dispatch/internal/interfaces/http"
	"telegraph_dispatch/internal/repository"
	"telegraph_dispatch/internal/usecases"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := infrastructure.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("telegraph dispatch stopped")
	}
}

func run(cfg *config.Config, logger *zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	store, closeStore, err := repository.OpenBotStore(ctx, cfg.DB, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	if cfg.Redis.Addr != "" {
		cache, err := infrastructure.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer cache.Close()
		store = repository.NewBotCacheDecorator(store, cache, cfg.Redis.TTL, logger)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("credential cache enabled")
	}

	infrastructure.MustRegisterMetrics()

	// Telegram
	tgManager := infrastructure.NewTelegramBotManager(cfg.Telegram.APIEndpoint, cfg.Telegram.Timeout, logger)
	defer tgManager.DisconnectAll()

	botLimiter := infrastructure.NewMessageRateLimiter[int64](cfg.Telegram.BotRateLimit, 1)
	defer botLimiter.Close()
	clientLimiter := infrastructure.NewMessageRateLimiter[string](cfg.HTTP.RateLimit, cfg.HTTP.RateBurst)
	defer clientLimiter.Close()

	messenger := infrastructure.NewTelegramMessenger(tgManager, botLimiter, logger)

	// Usecases
	deps := httpiface.Dependencies{
		Dispatcher:    usecases.NewMessageDispatcher(store, messenger, cfg.MessageText, logger),
		Registry:      usecases.NewBotRegistry(store, tgManager, logger),
		Store:         store,
		Telegram:      tgManager,
		ClientLimiter: clientLimiter,
		Logger:        logger,
	}
	if cfg.AdminEnabled() {
		deps.Auth = usecases.NewAuthUsecase(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	}

	gin.SetMode(cfg.HTTP.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	httpiface.SetupRoutes(r, deps)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTP.Addr).Str("db", cfg.DB.Driver).Bool("admin", cfg.AdminEnabled()).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
