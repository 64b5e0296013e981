package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	storefront "github.com/goliatone/go-storefront"
)

const (
	bootTimeout     = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to a YAML config file; environment only when empty")
	flag.Parse()

	cfg := storefront.MustLoad(configPath)

	logger := newLogger(cfg)
	logger.Info("starting storefront, env: %s addr: %s", cfg.Env, cfg.Server.Addr())

	storefront.HashCost = cfg.Auth.HashCost

	ctx, cancel := context.WithTimeout(context.Background(), bootTimeout)
	defer cancel()

	persistence := storefront.NewPersistence(cfg.DB.DSN, logger)
	if err := persistence.Connect(ctx); err != nil {
		logger.Error("database connect failed: %v", err)
		os.Exit(1)
	}
	defer persistence.Close()

	if err := persistence.EnsureSchema(ctx); err != nil {
		logger.Error("schema setup failed: %v", err)
		os.Exit(1)
	}

	repo := storefront.NewRepositoryManager(persistence.DB())
	if err := repo.Validate(); err != nil {
		logger.Error("repository wiring invalid: %v", err)
		os.Exit(1)
	}

	tokens, err := storefront.NewTokenService(
		[]byte(cfg.Auth.AccessSecret),
		[]byte(cfg.Auth.RefreshSecret),
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
		cfg.Auth.Issuer,
		logger,
	)
	if err != nil {
		logger.Error("token service setup failed: %v", err)
		os.Exit(1)
	}

	provider := storefront.NewUserProvider(repo.Users()).WithLogger(logger)
	auther := storefront.NewAuthenticator(provider, tokens, repo).WithLogger(logger)
	server := storefront.NewServer(cfg, auther, repo, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(cfg.Server.Addr())
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("shutting down on signal: %s", sig)
	case err := <-errCh:
		if err != nil {
			logger.Error("listener failed: %v", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error: %v", err)
		os.Exit(1)
	}

	logger.Info("stopped")
}

// slogAdapter bridges the package logging surface onto slog
type slogAdapter struct {
	log *slog.Logger
}

func newLogger(cfg *storefront.Config) slogAdapter {
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slogAdapter{log: slog.New(handler)}
}

func (s slogAdapter) Debug(format string, args ...any) {
	s.log.Debug(fmt.Sprintf(format, args...))
}

func (s slogAdapter) Info(format string, args ...any) {
	s.log.Info(fmt.Sprintf(format, args...))
}

func (s slogAdapter) Warn(format string, args ...any) {
	s.log.Warn(fmt.Sprintf(format, args...))
}

func (s slogAdapter) Error(format string, args ...any) {
	s.log.Error(fmt.Sprintf(format, args...))
}
