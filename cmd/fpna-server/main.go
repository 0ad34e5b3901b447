package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/Karthikn9883/fpna-agent/internal/analysis"
	"github.com/Karthikn9883/fpna-agent/internal/cli"
	apphttp "github.com/Karthikn9883/fpna-agent/internal/http"
	"github.com/Karthikn9883/fpna-agent/internal/log"
	"github.com/Karthikn9883/fpna-agent/internal/services"
	"github.com/Karthikn9883/fpna-agent/internal/source"
)

func main() {
	cfg, logger := cli.Bootstrap(log.ComponentApp, os.Stdout)

	ctx := context.Background()

	loader, err := source.NewFactory(logger).CreateLoader(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("source", cfg.DataSource).Msg("failed to initialize data source")
	}

	datasets := services.NewDatasetService(loader, cfg.CacheTTL,
		log.WithComponent(logger, log.ComponentDataset))

	ds, _, err := datasets.Refresh(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load initial dataset")
	}
	logger.Info().
		Int("months", len(ds.Months())).
		Int("rows", ds.RowCount()).
		Int("cash_rows", ds.CashCount()).
		Msg("initial dataset loaded")

	var refresher *services.RefreshProcessor
	if cfg.RefreshInterval > 0 {
		refresher = services.NewRefreshProcessor(datasets,
			services.RefreshProcessorConfig{PollInterval: cfg.RefreshInterval},
			log.WithComponent(logger, log.ComponentRefresh))
		if err := refresher.Start(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to start refresh processor")
		}
	}

	srv := apphttp.New(apphttp.Config{
		Addr:      ":" + cfg.Port,
		AnswerTTL: cfg.CacheTTL,
		Log:       logger,
		Datasets:  datasets,
		Analysis:  analysis.New(log.WithComponent(logger, log.ComponentAnalysis), nil),
	})

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if refresher != nil {
			if err := refresher.Stop(ctx); err != nil {
				logger.Error().Err(err).Msg("refresh processor shutdown error")
			}
		}
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("server shutdown error")
		}
	})

	logger.Info().Str("port", cfg.Port).Str("source", cfg.DataSource).Msg("starting fpna server")
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Str("port", cfg.Port).Msg("server error")
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info().Msg("server stopped gracefully")
}
