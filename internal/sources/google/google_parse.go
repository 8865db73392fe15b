package google

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"titipsini/internal/core"
)

// Transaksi columns: ID, Tanggal, Judul, Arah, Jumlah.
const (
	colTxID = iota
	colTxDate
	colTxTitle
	colTxDirection
	colTxAmount
)

// Grafik columns: Rentang, Label, Elektronik, Dokumen, Perhiasan.
const (
	colSeriesRange = iota
	colSeriesLabel
	colSeriesElektronik
	colSeriesDokumen
	colSeriesPerhiasan
)

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006"}

// parseTransactions converts the Transaksi values matrix. Header and blank
// rows are skipped silently; malformed rows are skipped and reported.
func parseTransactions(values [][]interface{}) ([]core.Transaction, []error) {
	var (
		out     []core.Transaction
		skipped []error
		seen    = map[string]bool{}
	)
	for i, raw := range values {
		row := toStrings(raw)
		if isBlank(row) || isHeader(row, "id") {
			continue
		}
		tx, err := parseTransactionRow(row)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("row %d: %w", i+1, err))
			continue
		}
		if seen[tx.ID] {
			skipped = append(skipped, fmt.Errorf("row %d: duplicate id %q", i+1, tx.ID))
			continue
		}
		seen[tx.ID] = true
		out = append(out, tx)
	}
	return out, skipped
}

func parseTransactionRow(row []string) (core.Transaction, error) {
	date, err := parseSheetDate(safeGet(row, colTxDate))
	if err != nil {
		return core.Transaction{}, err
	}
	dir, err := core.ParseDirection(safeGet(row, colTxDirection))
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseRupiah(safeGet(row, colTxAmount))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount %q: %w", safeGet(row, colTxAmount), err)
	}
	tx := core.Transaction{
		ID:        safeGet(row, colTxID),
		Title:     safeGet(row, colTxTitle),
		Date:      date,
		Direction: dir,
		Amount:    core.Money{Units: amount},
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

// parseSeries returns the rows tagged with tr in sheet order. Values that do
// not parse count as zero.
func parseSeries(values [][]interface{}, tr core.TimeRange) []core.SeriesPoint {
	var out []core.SeriesPoint
	for _, raw := range values {
		row := toStrings(raw)
		if isBlank(row) || isHeader(row, "rentang") {
			continue
		}
		if !strings.EqualFold(safeGet(row, colSeriesRange), tr.String()) {
			continue
		}
		out = append(out, core.SeriesPoint{
			Label:      safeGet(row, colSeriesLabel),
			Elektronik: parseCount(safeGet(row, colSeriesElektronik)),
			Dokumen:    parseCount(safeGet(row, colSeriesDokumen)),
			Perhiasan:  parseCount(safeGet(row, colSeriesPerhiasan)),
		})
	}
	return out
}

func parseSheetDate(s string) (core.Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return core.Day(t), nil
		}
	}
	return core.Date{}, fmt.Errorf("invalid date %q", s)
}

func parseCount(s string) int64 {
	v, err := core.ParseRupiah(s)
	if err != nil {
		return 0
	}
	return v
}

func isHeader(row []string, first string) bool {
	return strings.EqualFold(safeGet(row, 0), first)
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		switch x := v.(type) {
		case nil:
		case string:
			out[i] = strings.TrimSpace(x)
		case float64:
			out[i] = strconv.FormatFloat(x, 'f', -1, 64)
		default:
			out[i] = strings.TrimSpace(fmt.Sprint(x))
		}
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx >= 0 && idx < len(arr) {
		return arr[idx]
	}
	return ""
}
