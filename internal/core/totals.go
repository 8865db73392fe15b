package core

// DefaultOpeningBalance is the balance the dashboard starts from.
const DefaultOpeningBalance int64 = 3_000_000

// Totals holds the incoming and outgoing sums of a transaction set.
type Totals struct {
	In  Money
	Out Money
}

// ComputeTotals sums amounts by direction. Transactions with an unknown
// direction are ignored.
func ComputeTotals(txs []Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Direction {
		case DirectionIn:
			t.In.Units += tx.Amount.Units
		case DirectionOut:
			t.Out.Units += tx.Amount.Units
		}
	}
	return t
}

// Net is In - Out.
func (t Totals) Net() Money {
	return Money{Units: t.In.Units - t.Out.Units}
}

// Balance applies the totals to an opening balance.
func Balance(opening Money, t Totals) Money {
	return Money{Units: opening.Units + t.In.Units - t.Out.Units}
}
