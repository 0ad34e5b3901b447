package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/Karthikn9883/fpna-agent/internal/core"
	ports "github.com/Karthikn9883/fpna-agent/internal/sheets"
)

// Config selects the workbook and the four tabs. Credentials come as
// inline service-account JSON or a file path; inline wins when both are
// set.
type Config struct {
	SpreadsheetID   string
	CredentialsJSON string
	CredentialsFile string
	ActualsTab      string
	BudgetTab       string
	FxTab           string
	CashTab         string
}

func (c Config) withDefaults() Config {
	if c.ActualsTab == "" {
		c.ActualsTab = "actuals"
	}
	if c.BudgetTab == "" {
		c.BudgetTab = "budget"
	}
	if c.FxTab == "" {
		c.FxTab = "fx"
	}
	if c.CashTab == "" {
		c.CashTab = "cash"
	}
	return c
}

// Client loads the four raw tables from one Google Sheets workbook.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	actualsTab    string
	budgetTab     string
	fxTab         string
	cashTab       string
	log           zerolog.Logger
}

var _ ports.Loader = (*Client)(nil)

func New(ctx context.Context, cfg Config, log zerolog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	cfg = cfg.withDefaults()

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		actualsTab:    cfg.ActualsTab,
		budgetTab:     cfg.BudgetTab,
		fxTab:         cfg.FxTab,
		cashTab:       cfg.CashTab,
		log:           log,
	}, nil
}

// newSheetsService initializes a read-only Sheets service from
// service-account credentials.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	var credentialsJSON []byte
	switch {
	case cfg.CredentialsJSON != "":
		credentialsJSON = []byte(cfg.CredentialsJSON)
	case cfg.CredentialsFile != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Load fetches the four tabs concurrently and parses each against the
// column contract. Errors carry the tab and range that failed.
func (c *Client) Load(ctx context.Context) (core.RawTables, error) {
	if c.svc == nil {
		return core.RawTables{}, errors.New("sheets service not initialized")
	}

	var tables core.RawTables

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := c.readLedger(ctx, c.actualsTab)
		tables.Actuals = rows
		return err
	})
	g.Go(func() error {
		rows, err := c.readLedger(ctx, c.budgetTab)
		tables.Budget = rows
		return err
	})
	g.Go(func() error {
		records, err := c.readTab(ctx, c.fxTab)
		if err != nil {
			return err
		}
		rows, err := ports.ParseFxRows(records)
		if err != nil {
			return fmt.Errorf("tab %s: %w", c.fxTab, err)
		}
		tables.Fx = rows
		return nil
	})
	g.Go(func() error {
		records, err := c.readTab(ctx, c.cashTab)
		if err != nil {
			return err
		}
		rows, err := ports.ParseCashRows(records)
		if err != nil {
			return fmt.Errorf("tab %s: %w", c.cashTab, err)
		}
		tables.Cash = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.RawTables{}, err
	}

	c.log.Debug().
		Str("spreadsheet", c.spreadsheetID).
		Int("actuals", len(tables.Actuals)).
		Int("budget", len(tables.Budget)).
		Int("fx", len(tables.Fx)).
		Int("cash", len(tables.Cash)).
		Msg("loaded sheet tables")
	return tables, nil
}

func (c *Client) readLedger(ctx context.Context, tab string) ([]core.LedgerRow, error) {
	records, err := c.readTab(ctx, tab)
	if err != nil {
		return nil, err
	}
	rows, err := ports.ParseLedgerRows(records)
	if err != nil {
		return nil, fmt.Errorf("tab %s: %w", tab, err)
	}
	return rows, nil
}

// readTab pulls A:Z of one tab, wide enough for the contract's columns
// plus any extras a workbook carries.
func (c *Client) readTab(ctx context.Context, tab string) ([][]string, error) {
	rng := fmt.Sprintf("%s!A:Z", tab)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return toRecords(resp.Values), nil
}

// toRecords flattens the Sheets values matrix into trimmed strings; cells
// arrive as strings or numbers depending on the workbook's formatting.
func toRecords(values [][]interface{}) [][]string {
	records := make([][]string, len(values))
	for i, row := range values {
		record := make([]string, len(row))
		for j, v := range row {
			record[j] = strings.TrimSpace(fmt.Sprint(v))
		}
		records[i] = record
	}
	return records
}
