package core

import "strings"

const (
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
	RangeYear  TimeRange = "year"
)

// DefaultRange is used whenever a range is missing or unrecognised.
const DefaultRange = RangeMonth

// weekWindowDays is the inclusive distance from the anchor kept by RangeWeek.
const weekWindowDays = 7

// TimeRange is the week/month/year granularity selected on the dashboard.
type TimeRange string

// TimeRanges lists the selectable ranges in display order.
func TimeRanges() []TimeRange {
	return []TimeRange{RangeWeek, RangeMonth, RangeYear}
}

// ParseTimeRange returns the range named by s. Unknown values yield
// DefaultRange with ok=false.
func ParseTimeRange(s string) (tr TimeRange, ok bool) {
	switch TimeRange(strings.ToLower(strings.TrimSpace(s))) {
	case RangeWeek:
		return RangeWeek, true
	case RangeMonth:
		return RangeMonth, true
	case RangeYear:
		return RangeYear, true
	default:
		return DefaultRange, false
	}
}

func (tr TimeRange) String() string {
	return string(tr)
}

// Label is the Indonesian selector text.
func (tr TimeRange) Label() string {
	switch tr {
	case RangeWeek:
		return "Minggu"
	case RangeYear:
		return "Tahun"
	default:
		return "Bulan"
	}
}

// Contains reports whether day d falls in the range around anchor.
//
//	week:  |d - anchor| <= 7 whole days
//	month: same calendar month, year ignored
//	year:  same calendar year
func (tr TimeRange) Contains(anchor, d Date) bool {
	switch tr {
	case RangeWeek:
		diff := DaysBetween(anchor, d)
		if diff < 0 {
			diff = -diff
		}
		return diff <= weekWindowDays
	case RangeYear:
		return d.Year() == anchor.Year()
	default:
		return d.Month() == anchor.Month()
	}
}

// DaysBetween returns the number of whole calendar days from a to b.
func DaysBetween(a, b Date) int {
	da, db := Day(a.Time), Day(b.Time)
	return int(db.Sub(da.Time).Hours() / 24)
}

// FilterByRange returns the transactions whose date falls in tr around
// anchor. Source order is preserved and the input slice is not modified.
func FilterByRange(txs []Transaction, anchor Date, tr TimeRange) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if tr.Contains(anchor, tx.Date) {
			out = append(out, tx)
		}
	}
	return out
}
