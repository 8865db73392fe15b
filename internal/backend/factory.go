package backend

import (
	"context"
	"fmt"
	"log/slog"

	"titipsini/internal/cache"
	"titipsini/internal/core"
	gsheet "titipsini/internal/sources/google"
	"titipsini/internal/sources/memory"
	"titipsini/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	reload := func(ctx context.Context) (int, error) {
		return seedSQLite(ctx, repo, config.DataDirectory)
	}
	n, err := reload(ctx)
	if err != nil {
		repo.Close()
		return nil, err
	}

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"seeded_transactions", n)

	return &BackendResult{
		Type:    SQLiteBackend,
		Backend: repo,
		Cleanup: repo.Close,
		Reload:  reload,
	}, nil
}

// seedSQLite replaces the stored ledger with dataDir/transactions.txt when
// that file has rows. Without a seed file the migrated demo ledger stays.
func seedSQLite(ctx context.Context, repo *storage.SQLiteRepository, dataDir string) (int, error) {
	if dataDir == "" {
		return 0, nil
	}
	txs, err := memory.LoadSeed(dataDir)
	if err != nil {
		return 0, fmt.Errorf("read ledger seed %s: %w", memory.SeedPath(dataDir), err)
	}
	if len(txs) == 0 {
		return 0, nil
	}
	if err := repo.ReplaceTransactions(ctx, txs); err != nil {
		return 0, fmt.Errorf("seed SQLite ledger: %w", err)
	}
	return len(txs), nil
}

// sheetsBackend reads the ledger and chart from Sheets and the overview
// cards from the demo store.
type sheetsBackend struct {
	*gsheet.Client
	*memory.Store
}

func (b sheetsBackend) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return b.Client.ListTransactions(ctx)
}

func (b sheetsBackend) Series(ctx context.Context, tr core.TimeRange) ([]core.SeriesPoint, error) {
	return b.Client.Series(ctx, tr)
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:      config.GoogleSpreadsheetID,
		TransactionsSheet:  config.GoogleTransactionsSheet,
		SeriesSheet:        config.GoogleSeriesSheet,
		ServiceAccountJSON: config.GoogleServiceAccountJSON,
		ServiceAccountFile: config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "spreadsheet_id", config.GoogleSpreadsheetID)

	return &BackendResult{
		Type:    SheetsBackend,
		Backend: sheetsBackend{Client: cli, Store: memory.NewDemo()},
		Caches:  map[string]cache.Cleaner{"sheets_ranges": cli.Cache()},
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}

	store := memory.NewFromFiles(dataDir)

	f.logger.Info("Initialized memory backend", "data_directory", dataDir)

	return &BackendResult{
		Type:    MemoryBackend,
		Backend: store,
	}, nil
}
