// Package dashboard assembles the dashboard view model: the filtered
// transaction summary, the chart series for the selected range, and the
// overview cards.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"titipsini/internal/cache"
	"titipsini/internal/chart"
	"titipsini/internal/core"
	"titipsini/internal/sources"
)

// Config tunes a Service.
type Config struct {
	Anchor         core.Date
	OpeningBalance core.Money
	CacheSize      int
	CacheTTL       time.Duration
	LoadTimeout    time.Duration
}

// DefaultConfig matches the demo dataset.
func DefaultConfig() Config {
	return Config{
		Anchor:         core.NewDate(2025, 4, 6),
		OpeningBalance: core.Money{Units: core.DefaultOpeningBalance},
		CacheSize:      16,
		CacheTTL:       5 * time.Minute,
		LoadTimeout:    7 * time.Second,
	}
}

type Service struct {
	txs      sources.TransactionSource
	series   sources.SeriesSource
	overview sources.OverviewSource

	cfg       Config
	summaries *cache.LRUCache[Summary]
}

// RangeOption is one entry of the range selector.
type RangeOption struct {
	Range  core.TimeRange
	Label  string
	Active bool
	Query  string
}

// View is everything the dashboard page renders.
type View struct {
	Range     core.TimeRange
	Ranges    []RangeOption
	Summary   Summary
	Series    []core.SeriesPoint
	Chart     chart.Chart
	Legend    []chart.LegendEntry
	Metrics   []core.Metric
	Reminders []core.Reminder
}

func NewService(txs sources.TransactionSource, series sources.SeriesSource, overview sources.OverviewSource, cfg Config) *Service {
	def := DefaultConfig()
	if cfg.Anchor.IsZero() {
		cfg.Anchor = def.Anchor
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = def.CacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = def.LoadTimeout
	}
	return &Service{
		txs:       txs,
		series:    series,
		overview:  overview,
		cfg:       cfg,
		summaries: cache.NewLRUCache[Summary](cfg.CacheSize, cfg.CacheTTL),
	}
}

// Anchor is the date ranges are computed around.
func (s *Service) Anchor() core.Date {
	return s.cfg.Anchor
}

// Cache exposes the summary cache for periodic cleanup.
func (s *Service) Cache() cache.Cleaner {
	return s.summaries
}

// Invalidate drops cached summaries.
func (s *Service) Invalidate() {
	s.summaries.Purge()
}

// Summary returns the transaction summary for tr. Results are cached per
// range; callers receive their own copy of the transaction slice.
func (s *Service) Summary(ctx context.Context, tr core.TimeRange) (Summary, error) {
	key := tr.String() + "@" + s.cfg.Anchor.String()
	sum, cached, err := s.summaries.GetOrLoad(key, func() (Summary, error) {
		txs, err := s.txs.ListTransactions(ctx)
		if err != nil {
			return Summary{}, fmt.Errorf("list transactions: %w", err)
		}
		return Summarize(txs, s.cfg.Anchor, tr, s.cfg.OpeningBalance), nil
	})
	if err != nil {
		return Summary{}, err
	}
	if cached {
		slog.DebugContext(ctx, "Summary cache hit", "range", tr)
	}
	return sum.clone(), nil
}

// Series returns the chart series for tr.
func (s *Service) Series(ctx context.Context, tr core.TimeRange) ([]core.SeriesPoint, error) {
	pts, err := s.series.Series(ctx, tr)
	if err != nil {
		return nil, fmt.Errorf("read series (range=%s): %w", tr, err)
	}
	return pts, nil
}

// View loads the summary, series and overview concurrently. Summary and
// series failures fail the view; overview failures are logged and leave
// the cards empty.
func (s *Service) View(ctx context.Context, tr core.TimeRange, legend chart.Legend) (View, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.LoadTimeout)
	defer cancel()

	v := View{Range: tr, Ranges: rangeOptions(tr, legend)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sum, err := s.Summary(gctx, tr)
		v.Summary = sum
		return err
	})
	g.Go(func() error {
		pts, err := s.Series(gctx, tr)
		v.Series = pts
		return err
	})
	if s.overview != nil {
		g.Go(func() error {
			m, err := s.overview.Metrics(gctx)
			if err != nil {
				slog.WarnContext(gctx, "Metrics unavailable", "error", err)
				return nil
			}
			v.Metrics = m
			return nil
		})
		g.Go(func() error {
			r, err := s.overview.Reminders(gctx)
			if err != nil {
				slog.WarnContext(gctx, "Reminders unavailable", "error", err)
				return nil
			}
			v.Reminders = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return View{}, err
	}

	v.Chart = chart.Build(v.Series, legend)
	v.Legend = legend.Entries(tr)
	return v, nil
}

func rangeOptions(active core.TimeRange, legend chart.Legend) []RangeOption {
	out := make([]RangeOption, 0, 3)
	for _, tr := range core.TimeRanges() {
		out = append(out, RangeOption{
			Range:  tr,
			Label:  tr.Label(),
			Active: tr == active,
			Query:  legend.Query(tr),
		})
	}
	return out
}
