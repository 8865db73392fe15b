package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"titipsini/internal/core"
	"titipsini/internal/sources"

	_ "modernc.org/sqlite"
)

var (
	_ sources.TransactionSource = (*SQLiteRepository)(nil)
	_ sources.SeriesSource      = (*SQLiteRepository)(nil)
	_ sources.OverviewSource    = (*SQLiteRepository)(nil)
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListTransactions implements sources.TransactionSource
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := rowToTransaction(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping invalid transaction row", "id", row.ID, "error", err)
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

// Series implements sources.SeriesSource
func (r *SQLiteRepository) Series(ctx context.Context, tr core.TimeRange) ([]core.SeriesPoint, error) {
	tr, _ = core.ParseTimeRange(tr.String())
	rows, err := r.queries.ListSeriesPoints(ctx, tr.String())
	if err != nil {
		return nil, fmt.Errorf("list series points (range=%s): %w", tr, err)
	}

	out := make([]core.SeriesPoint, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.SeriesPoint{
			Label:      row.Label,
			Elektronik: row.Elektronik,
			Dokumen:    row.Dokumen,
			Perhiasan:  row.Perhiasan,
		})
	}
	return out, nil
}

// Metrics implements sources.OverviewSource
func (r *SQLiteRepository) Metrics(ctx context.Context) ([]core.Metric, error) {
	rows, err := r.queries.ListMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}
	out := make([]core.Metric, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.Metric{Label: row.Label, Value: int(row.Value)})
	}
	return out, nil
}

// Reminders implements sources.OverviewSource
func (r *SQLiteRepository) Reminders(ctx context.Context) ([]core.Reminder, error) {
	rows, err := r.queries.ListReminders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	out := make([]core.Reminder, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.Reminder{Title: row.Title, Type: row.Type})
	}
	return out, nil
}

// ReplaceTransactions swaps the whole ledger for txs inside one database
// transaction, keeping txs order as the display order.
func (r *SQLiteRepository) ReplaceTransactions(ctx context.Context, txs []core.Transaction) error {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("transaction %q: %w", tx.ID, err)
		}
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	q := r.queries.WithTx(dbTx)
	if err := q.DeleteTransactions(ctx); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	for i, tx := range txs {
		if err := q.UpsertTransaction(ctx, TransactionRow{
			ID:        tx.ID,
			Position:  int64(i),
			Title:     tx.Title,
			Date:      tx.Date.String(),
			Direction: string(tx.Direction),
			Amount:    tx.Amount.Units,
		}); err != nil {
			return fmt.Errorf("insert transaction %q: %w", tx.ID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Ledger replaced in SQLite", "count", len(txs))
	return nil
}

// RecordLoginEvent stores a login audit event. Redelivered events with a
// known ID are ignored and reported as not inserted.
func (r *SQLiteRepository) RecordLoginEvent(ctx context.Context, ev LoginEventRow) (bool, error) {
	if ev.ID == "" {
		return false, fmt.Errorf("record login event: %w", core.ErrEmptyID)
	}
	n, err := r.queries.InsertLoginEvent(ctx, ev)
	if err != nil {
		return false, fmt.Errorf("insert login event %s: %w", ev.ID, err)
	}
	return n > 0, nil
}

// RecentLoginEvents returns the newest events first.
func (r *SQLiteRepository) RecentLoginEvents(ctx context.Context, limit int) ([]LoginEventRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.queries.ListRecentLoginEvents(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list login events: %w", err)
	}
	return rows, nil
}

func rowToTransaction(row TransactionRow) (core.Transaction, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	dir, err := core.ParseDirection(row.Direction)
	if err != nil {
		return core.Transaction{}, err
	}
	tx := core.Transaction{
		ID:        row.ID,
		Title:     row.Title,
		Date:      date,
		Direction: dir,
		Amount:    core.Money{Units: row.Amount},
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}
