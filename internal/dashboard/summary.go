package dashboard

import "titipsini/internal/core"

// Summary is the transaction side of the dashboard for one range.
type Summary struct {
	Range          core.TimeRange
	Anchor         core.Date
	Transactions   []core.Transaction
	Totals         core.Totals
	OpeningBalance core.Money
	Balance        core.Money
}

// Summarize filters txs around anchor and derives totals and balance.
func Summarize(txs []core.Transaction, anchor core.Date, tr core.TimeRange, opening core.Money) Summary {
	filtered := core.FilterByRange(txs, anchor, tr)
	totals := core.ComputeTotals(filtered)
	return Summary{
		Range:          tr,
		Anchor:         anchor,
		Transactions:   filtered,
		Totals:         totals,
		OpeningBalance: opening,
		Balance:        core.Balance(opening, totals),
	}
}

func (s Summary) clone() Summary {
	s.Transactions = append([]core.Transaction(nil), s.Transactions...)
	return s
}
