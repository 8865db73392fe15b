package sources

import (
	"context"

	"titipsini/internal/core"
)

// Ports for outbound data providers.
type (
	// TransactionSource returns the ledger shown in the dashboard summary.
	TransactionSource interface {
		// ListTransactions returns every transaction in source order.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// SeriesSource returns the consignment chart series for a range.
	SeriesSource interface {
		// Series returns the whole pre-built array for tr. Unknown ranges
		// fall back to the month series.
		Series(ctx context.Context, tr core.TimeRange) ([]core.SeriesPoint, error)
	}

	// OverviewSource provides the metric cards and system reminders.
	OverviewSource interface {
		Metrics(ctx context.Context) ([]core.Metric, error)
		Reminders(ctx context.Context) ([]core.Reminder, error)
	}
)
