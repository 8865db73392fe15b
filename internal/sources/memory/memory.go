package memory

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"titipsini/internal/core"
	"titipsini/internal/sources"
)

// Ensure interface conformance
var (
	_ sources.TransactionSource = (*Store)(nil)
	_ sources.SeriesSource      = (*Store)(nil)
	_ sources.OverviewSource    = (*Store)(nil)
)

type Store struct {
	mu        sync.RWMutex
	txs       []core.Transaction
	series    map[core.TimeRange][]core.SeriesPoint
	metrics   []core.Metric
	reminders []core.Reminder
}

// New returns a store holding the given ledger and the demo series,
// metrics and reminders.
func New(txs []core.Transaction) *Store {
	return &Store{
		txs: append([]core.Transaction(nil), txs...),
		series: map[core.TimeRange][]core.SeriesPoint{
			core.RangeWeek:  WeekSeries(),
			core.RangeMonth: MonthSeries(),
			core.RangeYear:  YearSeries(),
		},
		metrics:   DemoMetrics(),
		reminders: DemoReminders(),
	}
}

// NewDemo returns the store backed entirely by the demo literals.
func NewDemo() *Store {
	return New(DemoTransactions())
}

// NewFromFiles seeds the ledger from base/transactions.txt when present,
// falling back to the demo ledger. Each line is
// "ID|YYYY-MM-DD|in|amount|title"; blank lines and # comments are skipped.
func NewFromFiles(base string) *Store {
	txs, err := LoadSeed(base)
	if err != nil {
		slog.Warn("Ignoring transaction seed file", "path", SeedPath(base), "error", err)
	}
	if len(txs) == 0 {
		txs = DemoTransactions()
	}
	return New(txs)
}

// ListTransactions returns a copy of the ledger in source order.
func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Transaction(nil), s.txs...), nil
}

// Series returns a copy of the series for tr, month when tr is unknown.
func (s *Store) Series(_ context.Context, tr core.TimeRange) ([]core.SeriesPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pts, ok := s.series[tr]
	if !ok {
		pts = s.series[core.DefaultRange]
	}
	return append([]core.SeriesPoint(nil), pts...), nil
}

func (s *Store) Metrics(_ context.Context) ([]core.Metric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Metric(nil), s.metrics...), nil
}

func (s *Store) Reminders(_ context.Context) ([]core.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Reminder(nil), s.reminders...), nil
}

// SeedPath is the ledger seed file inside base.
func SeedPath(base string) string {
	return filepath.Join(base, "transactions.txt")
}

// LoadSeed reads base/transactions.txt. A missing file yields no
// transactions and no error.
func LoadSeed(base string) ([]core.Transaction, error) {
	return readTransactions(SeedPath(base))
}

func readTransactions(path string) ([]core.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []core.Transaction
	seen := map[string]struct{}{}
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tx, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if _, dup := seen[tx.ID]; dup {
			continue
		}
		seen[tx.ID] = struct{}{}
		out = append(out, tx)
	}
	return out, sc.Err()
}

func parseLine(line string) (core.Transaction, error) {
	parts := strings.SplitN(line, "|", 5)
	if len(parts) != 5 {
		return core.Transaction{}, fmt.Errorf("%w: want 5 fields, got %d", core.ErrInvalidTransaction, len(parts))
	}
	date, err := core.ParseDate(parts[1])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: date: %v", core.ErrInvalidTransaction, err)
	}
	dir, err := core.ParseDirection(parts[2])
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseRupiah(parts[3])
	if err != nil {
		return core.Transaction{}, err
	}
	tx := core.Transaction{
		ID:        strings.TrimSpace(parts[0]),
		Date:      date,
		Direction: dir,
		Amount:    core.Money{Units: amount},
		Title:     strings.TrimSpace(parts[4]),
	}
	return tx, tx.Validate()
}
