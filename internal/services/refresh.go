package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// RefreshProcessorConfig holds configuration for the refresh processor
type RefreshProcessorConfig struct {
	// PollInterval is how often to re-check the source (default: 5m)
	PollInterval time.Duration
}

// DefaultRefreshProcessorConfig returns sensible defaults
func DefaultRefreshProcessorConfig() RefreshProcessorConfig {
	return RefreshProcessorConfig{
		PollInterval: 5 * time.Minute,
	}
}

// RefreshProcessor polls the data source on an interval and swaps the served
// dataset when its fingerprint changes. An unchanged source is a no-op.
type RefreshProcessor struct {
	datasets *DatasetService
	config   RefreshProcessorConfig
	log      zerolog.Logger

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewRefreshProcessor creates a new refresh processor
func NewRefreshProcessor(datasets *DatasetService, config RefreshProcessorConfig, logger zerolog.Logger) *RefreshProcessor {
	return &RefreshProcessor{
		datasets: datasets,
		config:   config,
		log:      logger,
	}
}

// Start begins the refresh loop. Returns an error if already running.
func (p *RefreshProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("refresh processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	p.log.Info().
		Dur("poll_interval", p.config.PollInterval).
		Msg("refresh processor started")

	return nil
}

// Stop gracefully stops the processor and waits for completion.
func (p *RefreshProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	// Signal stop
	close(p.stopCh)

	// Wait for completion or context cancellation
	select {
	case <-p.doneCh:
		p.log.Info().Msg("refresh processor stopped")
	case <-ctx.Done():
		p.log.Warn().Msg("refresh processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()

	return nil
}

// IsRunning returns whether the processor is currently running
func (p *RefreshProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// runLoop is the main polling loop
func (p *RefreshProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	// Refresh immediately on startup
	p.refresh(ctx)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

// refresh runs one poll cycle. Load or build failures keep the currently
// served dataset in place.
func (p *RefreshProcessor) refresh(ctx context.Context) {
	_, swapped, err := p.datasets.Refresh(ctx)
	if err != nil {
		p.log.Error().Err(err).Msg("refresh failed, keeping current dataset")
		return
	}
	if !swapped {
		p.log.Debug().Msg("source unchanged")
	}
}
