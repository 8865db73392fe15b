package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"titipsini/internal/cache"
	"titipsini/internal/core"
	"titipsini/internal/sources"
)

const (
	DefaultTransactionsSheet = "Transaksi"
	DefaultSeriesSheet       = "Grafik"
	defaultCacheTTL          = time.Minute
)

// Options configures a Client. Credentials are either inline JSON or a path
// to a service account key file.
type Options struct {
	SpreadsheetID      string
	TransactionsSheet  string
	SeriesSheet        string
	ServiceAccountJSON string
	ServiceAccountFile string
	CacheTTL           time.Duration
}

// valuesReader is the subset of the Sheets API the client needs.
type valuesReader interface {
	Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error)
}

type sheetsValues struct {
	svc *gsheet.Service
}

func (s sheetsValues) Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

type Client struct {
	values            valuesReader
	spreadsheetID     string
	transactionsSheet string
	seriesSheet       string
	ranges            *cache.LRUCache[[][]interface{}]
}

var (
	_ sources.TransactionSource = (*Client)(nil)
	_ sources.SeriesSource      = (*Client)(nil)
)

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	creds, err := loadCredentials(opts)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created",
		"spreadsheet_id", opts.SpreadsheetID,
		"transactions_sheet", opts.TransactionsSheet,
		"series_sheet", opts.SeriesSheet)

	return newClient(sheetsValues{svc: svc}, opts), nil
}

func newClient(values valuesReader, opts Options) *Client {
	if opts.TransactionsSheet == "" {
		opts.TransactionsSheet = DefaultTransactionsSheet
	}
	if opts.SeriesSheet == "" {
		opts.SeriesSheet = DefaultSeriesSheet
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	return &Client{
		values:            values,
		spreadsheetID:     opts.SpreadsheetID,
		transactionsSheet: opts.TransactionsSheet,
		seriesSheet:       opts.SeriesSheet,
		ranges:            cache.NewLRUCache[[][]interface{}](8, opts.CacheTTL),
	}
}

// loadCredentials falls back to GOOGLE_APPLICATION_CREDENTIALS when neither
// option is set.
func loadCredentials(opts Options) ([]byte, error) {
	file := opts.ServiceAccountFile
	if opts.ServiceAccountJSON == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	switch {
	case opts.ServiceAccountJSON != "":
		return []byte(opts.ServiceAccountJSON), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// Cache exposes the range cache for periodic cleanup.
func (c *Client) Cache() cache.Cleaner {
	return c.ranges
}

// ListTransactions implements sources.TransactionSource
func (c *Client) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	values, err := c.read(ctx, c.transactionsSheet+"!A:E")
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", c.transactionsSheet, err)
	}
	txs, skipped := parseTransactions(values)
	for _, e := range skipped {
		slog.WarnContext(ctx, "Skipping transaction row", "sheet", c.transactionsSheet, "error", e)
	}
	return txs, nil
}

// Series implements sources.SeriesSource
func (c *Client) Series(ctx context.Context, tr core.TimeRange) ([]core.SeriesPoint, error) {
	tr, _ = core.ParseTimeRange(tr.String())
	values, err := c.read(ctx, c.seriesSheet+"!A:E")
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", c.seriesSheet, err)
	}
	return parseSeries(values, tr), nil
}

func (c *Client) read(ctx context.Context, rng string) ([][]interface{}, error) {
	values, cached, err := c.ranges.GetOrLoad(rng, func() ([][]interface{}, error) {
		if c.values == nil {
			return nil, errors.New("sheets service not initialized")
		}
		return c.values.Get(ctx, c.spreadsheetID, rng)
	})
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "Sheet range read", "range", rng, "rows", len(values), "cached", cached)
	return values, nil
}
