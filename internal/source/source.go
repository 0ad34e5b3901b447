package source

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Karthikn9883/fpna-agent/internal/config"
	"github.com/Karthikn9883/fpna-agent/internal/log"
	"github.com/Karthikn9883/fpna-agent/internal/sheets"
	"github.com/Karthikn9883/fpna-agent/internal/sheets/csv"
	"github.com/Karthikn9883/fpna-agent/internal/sheets/google"
	"github.com/Karthikn9883/fpna-agent/internal/sheets/memory"
)

// Type selects which adapter serves the four raw tables.
type Type string

const (
	Memory Type = "memory"
	CSV    Type = "csv"
	Sheets Type = "sheets"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the source type is valid
func (t Type) IsValid() bool {
	switch t {
	case Memory, CSV, Sheets:
		return true
	default:
		return false
	}
}

// Types returns all valid source types
func Types() []Type {
	return []Type{Memory, CSV, Sheets}
}

// Factory creates loaders based on configuration
type Factory struct {
	logger zerolog.Logger
}

// NewFactory creates a new source factory
func NewFactory(logger zerolog.Logger) *Factory {
	return &Factory{logger: logger}
}

// CreateLoader builds the loader the config names. The memory source
// ships with sample figures so the server can boot without I/O.
func (f *Factory) CreateLoader(ctx context.Context, cfg *config.Config) (sheets.Loader, error) {
	sourceType := Type(cfg.DataSource)
	if !sourceType.IsValid() {
		return nil, fmt.Errorf("invalid source type: %s", cfg.DataSource)
	}

	switch sourceType {
	case Memory:
		f.logger.Info().Msg("initialized memory source")
		return memory.NewSample(), nil

	case CSV:
		loader := csv.New(cfg.CSVDir, log.WithComponent(f.logger, log.ComponentCSV))
		f.logger.Info().Str("dir", cfg.CSVDir).Msg("initialized csv source")
		return loader, nil

	case Sheets:
		client, err := google.New(ctx, google.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
			CredentialsFile: cfg.GoogleCredentialsFile,
			ActualsTab:      cfg.ActualsTab,
			BudgetTab:       cfg.BudgetTab,
			FxTab:           cfg.FxTab,
			CashTab:         cfg.CashTab,
		}, log.WithComponent(f.logger, log.ComponentSheets))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets source: %w", err)
		}
		f.logger.Info().Str("spreadsheet", cfg.GoogleSpreadsheetID).Msg("initialized sheets source")
		return client, nil

	default:
		return nil, fmt.Errorf("unsupported source type: %s", sourceType)
	}
}
