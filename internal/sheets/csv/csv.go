package csv

import (
	"context"
	stdcsv "encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Karthikn9883/fpna-agent/internal/core"
	"github.com/Karthikn9883/fpna-agent/internal/sheets"
)

// File names of the directory contract, mirroring the four tabs.
const (
	ActualsFile = "actuals.csv"
	BudgetFile  = "budget.csv"
	FxFile      = "fx.csv"
	CashFile    = "cash.csv"
)

// Loader reads the four raw tables from CSV files in one directory.
type Loader struct {
	dir string
	log zerolog.Logger
}

var _ sheets.Loader = (*Loader)(nil)

func New(dir string, log zerolog.Logger) *Loader {
	return &Loader{dir: dir, log: log}
}

// Load reads and parses the four files concurrently. Any failure cancels
// the group and names the file that broke.
func (l *Loader) Load(ctx context.Context) (core.RawTables, error) {
	var tables core.RawTables

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := l.readLedger(ctx, ActualsFile)
		tables.Actuals = rows
		return err
	})
	g.Go(func() error {
		rows, err := l.readLedger(ctx, BudgetFile)
		tables.Budget = rows
		return err
	})
	g.Go(func() error {
		records, err := l.readFile(ctx, FxFile)
		if err != nil {
			return err
		}
		rows, err := sheets.ParseFxRows(records)
		if err != nil {
			return fmt.Errorf("%s: %w", FxFile, err)
		}
		tables.Fx = rows
		return nil
	})
	g.Go(func() error {
		records, err := l.readFile(ctx, CashFile)
		if err != nil {
			return err
		}
		rows, err := sheets.ParseCashRows(records)
		if err != nil {
			return fmt.Errorf("%s: %w", CashFile, err)
		}
		tables.Cash = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.RawTables{}, err
	}

	l.log.Debug().
		Str("dir", l.dir).
		Int("actuals", len(tables.Actuals)).
		Int("budget", len(tables.Budget)).
		Int("fx", len(tables.Fx)).
		Int("cash", len(tables.Cash)).
		Msg("loaded csv tables")
	return tables, nil
}

func (l *Loader) readLedger(ctx context.Context, name string) ([]core.LedgerRow, error) {
	records, err := l.readFile(ctx, name)
	if err != nil {
		return nil, err
	}
	rows, err := sheets.ParseLedgerRows(records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return rows, nil
}

func (l *Loader) readFile(ctx context.Context, name string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(l.dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := stdcsv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}
