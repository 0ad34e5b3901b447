// Package cli provides common initialization shared by the fpna binaries.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Karthikn9883/fpna-agent/internal/config"
	"github.com/Karthikn9883/fpna-agent/internal/log"
)

// Bootstrap loads configuration, builds the root logger, and validates.
// Exits the process when the configuration is unusable. Logs go to w so
// the one-shot CLI can keep stdout for answers.
func Bootstrap(component string, w io.Writer) (*config.Config, zerolog.Logger) {
	cfg := config.Load()
	logger := log.NewWithWriter(log.Config{
		Level:     cfg.LogLevel,
		Pretty:    cfg.LogPretty,
		Component: component,
	}, w)

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	return cfg, logger
}

// GracefulShutdown sets up signal handling. The returned context is
// cancelled after cleanup ran; done closes when shutdown finished.
func GracefulShutdown(logger zerolog.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}

		cancel()
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup ran.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
