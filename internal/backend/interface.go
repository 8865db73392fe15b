package backend

import (
	"context"

	"titipsini/internal/cache"
	"titipsini/internal/sources"
)

// Backend bundles every data port the dashboard reads from.
type Backend interface {
	sources.TransactionSource
	sources.SeriesSource
	sources.OverviewSource
}

// Pinger is implemented by backends that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Type    BackendType
	Backend Backend
	Cleanup CleanupFunc
	// Reload re-reads the ledger from its seed; nil when the backend has
	// nothing to reload.
	Reload func(ctx context.Context) (int, error)
	// Caches held by the backend, keyed by name, for periodic cleanup.
	Caches map[string]cache.Cleaner
}

// Close runs Cleanup if set.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Ping reports readiness; backends without a health check are always ready.
func (r *BackendResult) Ping(ctx context.Context) error {
	if p, ok := r.Backend.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	GoogleSpreadsheetID      string
	GoogleTransactionsSheet  string
	GoogleSeriesSheet        string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Memory backend specific
	DataDirectory string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
