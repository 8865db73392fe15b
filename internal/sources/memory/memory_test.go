package memory

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"titipsini/internal/core"
)

func txIDs(txs []core.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, tx := range txs {
		out = append(out, tx.ID)
	}
	return out
}

func TestDemoWeekFilter(t *testing.T) {
	s := NewDemo()
	txs, err := s.ListTransactions(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := txIDs(core.FilterByRange(txs, DemoAnchor, core.RangeWeek))
	want := []string{"TRX-001", "TRX-002", "TRX-003", "TRX-004", "TRX-005", "TRX-006"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("week ids: got %v want %v", got, want)
	}
}

func TestDemoTotalsAndBalance(t *testing.T) {
	txs := DemoTransactions()
	opening := core.Money{Units: core.DefaultOpeningBalance}
	cases := []struct {
		tr       core.TimeRange
		in, out  int64
		balance  int64
	}{
		{core.RangeWeek, 990_000, 195_000, 3_795_000},
		{core.RangeMonth, 900_000, 75_000, 3_825_000},
		{core.RangeYear, 2_590_000, 1_195_000, 4_395_000},
	}
	for _, tc := range cases {
		t.Run(tc.tr.String(), func(t *testing.T) {
			totals := core.ComputeTotals(core.FilterByRange(txs, DemoAnchor, tc.tr))
			if totals.In.Units != tc.in || totals.Out.Units != tc.out {
				t.Fatalf("totals: got in=%d out=%d", totals.In.Units, totals.Out.Units)
			}
			bal := core.Balance(opening, totals)
			if bal.Units != tc.balance || bal.Units != opening.Units+totals.In.Units-totals.Out.Units {
				t.Fatalf("balance: got %d want %d", bal.Units, tc.balance)
			}
		})
	}
}

func TestSeriesSelection(t *testing.T) {
	s := NewDemo()
	ctx := context.Background()
	lens := map[core.TimeRange]int{core.RangeWeek: 7, core.RangeMonth: 30, core.RangeYear: 12}
	for tr, n := range lens {
		pts, err := s.Series(ctx, tr)
		if err != nil || len(pts) != n {
			t.Fatalf("%s: len=%d err=%v", tr, len(pts), err)
		}
	}
	week, _ := s.Series(ctx, core.RangeWeek)
	if week[0].Label != "Sen" || week[6].Label != "Min" {
		t.Fatalf("unexpected week labels: %q..%q", week[0].Label, week[6].Label)
	}
	fallback, _ := s.Series(ctx, core.TimeRange("decade"))
	month, _ := s.Series(ctx, core.RangeMonth)
	if !reflect.DeepEqual(fallback, month) {
		t.Fatalf("unknown range should fall back to month")
	}

	// Callers get copies.
	week[0].Elektronik = -1
	again, _ := s.Series(ctx, core.RangeWeek)
	if again[0].Elektronik == -1 {
		t.Fatalf("series storage was mutated through returned slice")
	}
}

func TestSeriesDeterministic(t *testing.T) {
	if !reflect.DeepEqual(YearSeries(), YearSeries()) {
		t.Fatalf("year series not deterministic")
	}
	if got := WeekSeries()[1]; got.Elektronik != 17 || got.Dokumen != 11 || got.Perhiasan != 12 {
		t.Fatalf("unexpected week point: %+v", got)
	}
}

func TestOverview(t *testing.T) {
	s := NewDemo()
	m, _ := s.Metrics(context.Background())
	r, _ := s.Reminders(context.Background())
	if len(m) != 4 || m[0].Label != "Mitra Aktif" || m[0].Value != 128 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
	if len(r) != 3 || r[2].Type != "audit" {
		t.Fatalf("unexpected reminders: %+v", r)
	}
}

func TestNewFromFilesSeedsAndDedupe(t *testing.T) {
	dir := t.TempDir()
	// No file -> demo ledger
	s := NewFromFiles(dir)
	txs, _ := s.ListTransactions(context.Background())
	if len(txs) != len(DemoTransactions()) {
		t.Fatalf("expected demo ledger when file missing, got %d", len(txs))
	}

	content := "# id|date|dir|amount|title\n" +
		"A|2025-04-01|masuk|Rp 10.000|Penitipan A\n" +
		"\n" +
		"B|2025-04-02|out|2500|Kurir\n" +
		"A|2025-04-03|in|1|Duplikat\n"
	if err := os.WriteFile(filepath.Join(dir, "transactions.txt"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s = NewFromFiles(dir)
	txs, _ = s.ListTransactions(context.Background())
	if got := txIDs(txs); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("unexpected ids: %v", got)
	}
	if txs[0].Amount.Units != 10_000 || txs[1].Direction != core.DirectionOut {
		t.Fatalf("unexpected parse: %+v", txs)
	}

	// Malformed file -> demo ledger
	if err := os.WriteFile(filepath.Join(dir, "transactions.txt"), []byte("broken line\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s = NewFromFiles(dir)
	txs, _ = s.ListTransactions(context.Background())
	if len(txs) != len(DemoTransactions()) {
		t.Fatalf("expected demo ledger for malformed file, got %d", len(txs))
	}
}
