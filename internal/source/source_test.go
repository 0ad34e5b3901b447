package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Karthikn9883/fpna-agent/internal/config"
)

func TestTypeIsValid(t *testing.T) {
	tests := []struct {
		t    Type
		want bool
	}{
		{Memory, true},
		{CSV, true},
		{Sheets, true},
		{Type("sqlite"), false},
		{Type(""), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.t.IsValid(), "type %q", tt.t)
	}
}

func TestCreateLoaderMemory(t *testing.T) {
	f := NewFactory(zerolog.Nop())

	loader, err := f.CreateLoader(context.Background(), &config.Config{DataSource: "memory"})
	require.NoError(t, err)

	tables, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, tables.Actuals)
	assert.NotEmpty(t, tables.Fx)
}

func TestCreateLoaderCSV(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"actuals.csv": "month,entity,account_category,amount\n2025-01,Co,Revenue,100\n",
		"budget.csv":  "month,entity,account_category,amount\n2025-01,Co,Revenue,90\n",
		"fx.csv":      "month,currency,rate_to_usd\n2025-01,USD,1.0\n",
		"cash.csv":    "month,entity,cash_usd\n2025-01,Co,1000\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	f := NewFactory(zerolog.Nop())
	loader, err := f.CreateLoader(context.Background(), &config.Config{DataSource: "csv", CSVDir: dir})
	require.NoError(t, err)

	tables, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, tables.Actuals, 1)
	assert.Len(t, tables.Cash, 1)
}

func TestCreateLoaderInvalidType(t *testing.T) {
	f := NewFactory(zerolog.Nop())

	_, err := f.CreateLoader(context.Background(), &config.Config{DataSource: "sqlite"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid source type: sqlite")
}

func TestCreateLoaderSheetsMissingCredentials(t *testing.T) {
	f := NewFactory(zerolog.Nop())

	_, err := f.CreateLoader(context.Background(), &config.Config{
		DataSource:          "sheets",
		GoogleSpreadsheetID: "test-id",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize Google Sheets source")
}
