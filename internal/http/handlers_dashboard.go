package http

import (
	"net/http"

	"titipsini/internal/core"
	"titipsini/internal/dashboard"
	applog "titipsini/internal/log"
	"titipsini/internal/services"
)

const dashboardLoadError = "Gagal memuat data dashboard. Silakan coba lagi."

// dashboardContent feeds the dashboard page and its partials.
type dashboardContent struct {
	View       dashboard.View
	ChartTitle string
	Error      string
}

func chartTitle(tr core.TimeRange) string {
	switch tr {
	case core.RangeWeek:
		return "Penitipan 7 Hari"
	case core.RangeYear:
		return "Penitipan 12 Bulan"
	default:
		return "Penitipan 30 Hari"
	}
}

func (s *Server) logRangeFallback(r *http.Request, q DashboardQuery) {
	if !q.RangeKnown && r.URL.Query().Has("range") {
		applog.FromContext(r.Context()).DebugContext(r.Context(), "Unknown range, using default",
			"requested", r.URL.Query().Get("range"),
			applog.FieldRange, q.Range.String())
	}
}

// handleDashboard renders the main dashboard page. Source failures are
// logged and shown as an inline error; the shell still renders.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := ParseDashboardQuery(r.URL.Query())
	s.logRangeFallback(r, q)

	p := s.newPage(r, "Dashboard Admin", dashboardDescription)
	if q.SignedIn {
		p.Toast = &toastView{Kind: "success", Title: "Masuk", Description: services.DemoLoginNotice}
	}

	content := dashboardContent{ChartTitle: chartTitle(q.Range)}
	view, err := s.dashboard.View(ctx, q.Range, q.Legend)
	if err != nil {
		s.events.LogError(ctx, "Dashboard view failed", err, applog.ComponentDashboard, applog.OpRead,
			applog.NewFields().WithRange(q.Range.String()))
		content.Error = dashboardLoadError
	} else {
		content.View = view
	}
	p.Content = content

	s.render(w, r, http.StatusOK, "dashboard_page", p)
}

// handleSummaryPartial returns the transaction summary card body.
func (s *Server) handleSummaryPartial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := ParseDashboardQuery(r.URL.Query())
	s.logRangeFallback(r, q)

	sum, err := s.dashboard.Summary(ctx, q.Range)
	if err != nil {
		s.events.LogError(ctx, "Summary partial failed", err, applog.ComponentDashboard, applog.OpRead,
			applog.NewFields().WithRange(q.Range.String()))
		InternalServerError(dashboardLoadError).
			TriggerErrorNotification(dashboardLoadError).
			Write(w)
		return
	}

	content := dashboardContent{
		View:       dashboard.View{Range: q.Range, Summary: sum},
		ChartTitle: chartTitle(q.Range),
	}
	s.renderPartial(w, r, http.StatusOK, "dashboard_summary", content).
		TriggerDashboardRefresh(q.Range.String()).
		Write(w)
}

// handleChartPartial returns the chart card body with range selector and
// legend.
func (s *Server) handleChartPartial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := ParseDashboardQuery(r.URL.Query())
	s.logRangeFallback(r, q)

	view, err := s.dashboard.View(ctx, q.Range, q.Legend)
	if err != nil {
		s.events.LogError(ctx, "Chart partial failed", err, applog.ComponentDashboard, applog.OpRead,
			applog.NewFields().WithRange(q.Range.String()))
		InternalServerError(dashboardLoadError).
			TriggerErrorNotification(dashboardLoadError).
			Write(w)
		return
	}

	content := dashboardContent{View: view, ChartTitle: chartTitle(q.Range)}
	s.renderPartial(w, r, http.StatusOK, "dashboard_chart", content).Write(w)
}

type seriesResponse struct {
	Range  core.TimeRange     `json:"range"`
	Label  string             `json:"label"`
	Points []core.SeriesPoint `json:"points"`
}

// handleSeriesAPI returns the chart series for a range as JSON.
func (s *Server) handleSeriesAPI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := ParseDashboardQuery(r.URL.Query())
	s.logRangeFallback(r, q)

	pts, err := s.dashboard.Series(ctx, q.Range)
	if err != nil {
		s.events.LogError(ctx, "Series API failed", err, applog.ComponentDashboard, applog.OpRead,
			applog.NewFields().WithRange(q.Range.String()))
		NewHTMXResponse().
			Status(http.StatusInternalServerError).
			BodyJSON(map[string]string{"error": "series unavailable"}).
			Write(w)
		return
	}
	if pts == nil {
		pts = []core.SeriesPoint{}
	}

	NewHTMXResponse().
		Header("Cache-Control", "no-store").
		BodyJSON(seriesResponse{Range: q.Range, Label: q.Range.Label(), Points: pts}).
		Write(w)
}
