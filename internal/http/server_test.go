package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titipsini/internal/amqp"
	"titipsini/internal/chart"
	"titipsini/internal/core"
	"titipsini/internal/dashboard"
	applog "titipsini/internal/log"
	"titipsini/internal/services"
	"titipsini/internal/sources/memory"
)

var fixedNow = time.Date(2025, 4, 6, 9, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*amqp.LoginEvent
}

func (p *recordingPublisher) PublishLoginEvent(_ context.Context, ev *amqp.LoginEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type failingDashboard struct{}

func (failingDashboard) View(context.Context, core.TimeRange, chart.Legend) (dashboard.View, error) {
	return dashboard.View{}, errors.New("sheet unreachable")
}

func (failingDashboard) Summary(context.Context, core.TimeRange) (dashboard.Summary, error) {
	return dashboard.Summary{}, errors.New("sheet unreachable")
}

func (failingDashboard) Series(context.Context, core.TimeRange) ([]core.SeriesPoint, error) {
	return nil, errors.New("sheet unreachable")
}

func quietLogger() *applog.Logger {
	return applog.New(applog.Config{Level: slog.LevelError, Output: io.Discard})
}

func newTestServer(t *testing.T, mutate func(*Dependencies)) (*Server, *recordingPublisher) {
	t.Helper()
	store := memory.NewDemo()
	pub := &recordingPublisher{}
	deps := Dependencies{
		Dashboard:      dashboard.NewService(store, store, store, dashboard.DefaultConfig()),
		Auth:           services.NewAuthService(pub),
		Logger:         quietLogger(),
		LoginRateLimit: 100,
		Now:            func() time.Time { return fixedNow },
	}
	if mutate != nil {
		mutate(&deps)
	}
	srv := NewServer(":0", deps)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	require.NotNil(t, srv.templates, "templates must parse")
	return srv, pub
}

func do(srv *Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestRoutingTable(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	tests := []struct {
		path     string
		status   int
		contains []string
	}{
		{"/", http.StatusOK, []string{"<title>Login Super Admin • Titipsini.Com</title>", "Lupa kata sandi?", `name="password"`}},
		{"/dashboard", http.StatusOK, []string{"<title>Dashboard Admin • Titipsini.Com</title>", "Pengingat Sistem", "Mitra Aktif"}},
		{"/dashboard/profil", http.StatusOK, []string{"Halaman Profil akan segera hadir. Ini adalah tampilan demo untuk navigasi."}},
		{"/dashboard/pengguna", http.StatusOK, []string{"Halaman Pengguna akan segera hadir."}},
		{"/dashboard/data", http.StatusOK, []string{"Halaman Data akan segera hadir."}},
		{"/dashboard/pengembalian", http.StatusOK, []string{"Halaman Pengembalian akan segera hadir."}},
		{"/dashboard/vendor", http.StatusOK, []string{"<title>Vendor • Titipsini.Com</title>", `<h1 class="page-title">Vendor</h1>`}},
		{"/dashboard/pengaturan", http.StatusOK, []string{"Halaman Pengaturan akan segera hadir."}},
		{"/dashboard/", http.StatusNotFound, []string{"Halaman tidak ditemukan"}},
		{"/dashboard/vendor/", http.StatusNotFound, []string{"404"}},
		{"/Dashboard", http.StatusNotFound, []string{"404"}},
		{"/this/does/not/exist", http.StatusNotFound, []string{"/this/does/not/exist"}},
		{"/static/", http.StatusNotFound, []string{"404"}},
		{"/static/app.css", http.StatusOK, []string{".sidebar"}},
		{"/healthz", http.StatusOK, []string{`"status":"ok"`, `"requests_total"`}},
		{"/readyz", http.StatusOK, []string{`"status":"ready"`}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := do(srv, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.status, rr.Code)
			for _, want := range tt.contains {
				assert.Contains(t, rr.Body.String(), want)
			}
		})
	}
}

func TestNoRedirectsOnGet(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	paths := []string{
		"/", "/dashboard", "/dashboard/", "/dashboard/vendor", "/nope",
		"/static/index.html", "/static/sub/index.html", "/static/app.css/",
	}
	for _, path := range paths {
		rr := do(srv, http.MethodGet, path, nil)
		assert.Empty(t, rr.Header().Get("Location"), path)
		assert.False(t, rr.Code >= 300 && rr.Code < 400, "%s answered %d", path, rr.Code)
	}

	rr := do(srv, http.MethodGet, "/static/index.html", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEncodedSlashDoesNotMatchRoute(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rr := do(srv, http.MethodGet, "/dashboard%2Fvendor", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NotContains(t, rr.Body.String(), `<h1 class="page-title">Vendor</h1>`)
	assert.NotContains(t, rr.Body.String(), `aria-current="page"`)

	rr = do(srv, http.MethodGet, "/static%2Fapp.css", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rr := do(srv, http.MethodPost, "/dashboard", strings.NewReader(""))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET, HEAD", rr.Header().Get("Allow"))

	rr = do(srv, http.MethodDelete, "/", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET, HEAD, POST", rr.Header().Get("Allow"))
}

func TestHeadHasNoBody(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rr := do(srv, http.MethodHead, "/dashboard", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestSidebarNavigation(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	body := do(srv, http.MethodGet, "/dashboard/vendor", nil).Body.String()

	assert.Contains(t, body, `<a href="/dashboard/vendor" class="nav-link nav-link--active" aria-current="page">`)
	assert.Contains(t, body, `<a href="/dashboard" class="nav-link">`)
	assert.Equal(t, 1, strings.Count(body, "nav-link--active"))
	for _, label := range []string{"Dashboard", "Profil", "Pengguna", "Data", "Pengembalian", "Vendor", "Pengaturan", "Keluar"} {
		assert.Contains(t, body, `<span class="nav-link__label">`+label+`</span>`)
	}
	assert.Contains(t, body, "© 2025 Titipsini.Com")
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name      string
		form      url.Values
		status    int
		location  string
		errorText string
		published int
	}{
		{
			name:      "missing email",
			form:      url.Values{"password": {"rahasia"}},
			status:    http.StatusUnprocessableEntity,
			errorText: "Email wajib diisi.",
		},
		{
			name:      "blank email",
			form:      url.Values{"email": {"   "}, "password": {"rahasia"}},
			status:    http.StatusUnprocessableEntity,
			errorText: "Email wajib diisi.",
		},
		{
			name:      "missing password",
			form:      url.Values{"email": {"admin@titipsini.com"}},
			status:    http.StatusUnprocessableEntity,
			errorText: "Kata sandi wajib diisi.",
		},
		{
			name:      "demo bypass accepts any credentials",
			form:      url.Values{"email": {"admin@titipsini.com"}, "password": {"apa saja"}},
			status:    http.StatusSeeOther,
			location:  "/dashboard?masuk=1",
			published: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, pub := newTestServer(t, nil)
			rr := do(srv, http.MethodPost, "/", strings.NewReader(tt.form.Encode()))

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.location, rr.Header().Get("Location"))
			if tt.errorText != "" {
				assert.Contains(t, rr.Body.String(), tt.errorText)
				assert.Contains(t, rr.Body.String(), `<form method="post" action="/"`)
			}
			assert.Equal(t, tt.published, pub.count())
		})
	}
}

func TestLoginKeepsEmailOnError(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rr := do(srv, http.MethodPost, "/", strings.NewReader("email=admin%40titipsini.com"))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), `value="admin@titipsini.com"`)
}

func TestLoginRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, func(d *Dependencies) { d.LoginRateLimit = 2 })
	form := "email=a%40b.c&password=x"

	for i := 0; i < 2; i++ {
		rr := do(srv, http.MethodPost, "/", strings.NewReader(form))
		require.Equal(t, http.StatusSeeOther, rr.Code)
	}
	rr := do(srv, http.MethodPost, "/", strings.NewReader(form))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	assert.Contains(t, rr.Body.String(), "Terlalu banyak percobaan masuk.")

	// Reading the page is never throttled
	assert.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/", nil).Code)
}

func TestDashboardToastAfterLogin(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	body := do(srv, http.MethodGet, "/dashboard?masuk=1", nil).Body.String()
	assert.Contains(t, body, `<div class="toast__title">Masuk</div>`)
	assert.Contains(t, body, "Demo UI: autentikasi belum dihubungkan.")

	body = do(srv, http.MethodGet, "/dashboard", nil).Body.String()
	assert.NotContains(t, body, "data-toast")
}

func TestDashboardTotalsPerRange(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	tests := []struct {
		rangeName string
		in        string
		out       string
		net       string
		balance   string
		ids       []string
		excluded  []string
	}{
		{
			rangeName: "week",
			in:        "Rp 990.000",
			out:       "Rp 195.000",
			net:       "Rp 795.000",
			balance:   "Rp 3.795.000",
			ids:       []string{"TRX-001", "TRX-002", "TRX-003", "TRX-004", "TRX-005", "TRX-006"},
			excluded:  []string{"TRX-007", "TRX-011"},
		},
		{
			rangeName: "month",
			in:        "Rp 900.000",
			out:       "Rp 75.000",
			net:       "Rp 825.000",
			balance:   "Rp 3.825.000",
			ids:       []string{"TRX-001", "TRX-002", "TRX-003", "TRX-004"},
			excluded:  []string{"TRX-005"},
		},
		{
			rangeName: "year",
			in:        "Rp 2.590.000",
			out:       "Rp 1.195.000",
			net:       "Rp 1.395.000",
			balance:   "Rp 4.395.000",
			ids:       []string{"TRX-001", "TRX-010"},
			excluded:  []string{"TRX-011", "TRX-012"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.rangeName, func(t *testing.T) {
			rr := do(srv, http.MethodGet, "/dashboard?range="+tt.rangeName, nil)
			require.Equal(t, http.StatusOK, rr.Code)
			body := rr.Body.String()

			assert.Contains(t, body, `<dd data-total="in">`+tt.in+`</dd>`)
			assert.Contains(t, body, `<dd data-total="out">`+tt.out+`</dd>`)
			assert.Contains(t, body, `<dd data-total="net">`+tt.net+`</dd>`)
			assert.Contains(t, body, `<dd data-total="balance">`+tt.balance+`</dd>`)
			assert.Contains(t, body, "Rp 3.000.000")
			for _, id := range tt.ids {
				assert.Contains(t, body, `data-id="`+id+`"`)
			}
			for _, id := range tt.excluded {
				assert.NotContains(t, body, `data-id="`+id+`"`)
			}
		})
	}
}

func TestDashboardUnknownRangeFallsBackToMonth(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	body := do(srv, http.MethodGet, "/dashboard?range=decade", nil).Body.String()
	assert.Contains(t, body, `<dd data-total="balance">Rp 3.825.000</dd>`)
	assert.Contains(t, body, "Penitipan 30 Hari")
}

func TestDashboardLegendHide(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	all := do(srv, http.MethodGet, "/dashboard?range=week", nil).Body.String()
	for _, ch := range []string{"elektronik", "dokumen", "perhiasan"} {
		assert.Contains(t, all, `data-channel="`+ch+`"`)
	}

	hidden := do(srv, http.MethodGet, "/dashboard?range=week&hide=dokumen", nil).Body.String()
	assert.NotContains(t, hidden, `data-channel="dokumen"`)
	assert.Contains(t, hidden, `data-channel="elektronik"`)
	assert.Contains(t, hidden, `data-channel="perhiasan"`)
	assert.Contains(t, hidden, "legend__item--off")
	// Totals do not depend on the legend
	assert.Contains(t, hidden, `<dd data-total="balance">Rp 3.795.000</dd>`)
}

func TestDashboardDegradesOnSourceFailure(t *testing.T) {
	srv, _ := newTestServer(t, func(d *Dependencies) { d.Dashboard = failingDashboard{} })

	rr := do(srv, http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), dashboardLoadError)
	assert.Contains(t, rr.Body.String(), "nav-link--active")

	rr = do(srv, http.MethodGet, "/ui/dashboard/summary", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), dashboardLoadError)
	assert.Contains(t, rr.Header().Get("HX-Trigger"), "show-notification")

	rr = do(srv, http.MethodGet, "/ui/dashboard/chart?range=week", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), `role="alert"`)

	rr = do(srv, http.MethodGet, "/api/dashboard/series", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"series unavailable"}`, rr.Body.String())
}

func TestPartials(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rr := do(srv, http.MethodGet, "/ui/dashboard/summary?range=year", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `<dd data-total="balance">Rp 4.395.000</dd>`)
	assert.NotContains(t, rr.Body.String(), "<html")
	assert.Contains(t, rr.Header().Get("HX-Trigger"), "dashboard:refresh")

	rr = do(srv, http.MethodGet, "/ui/dashboard/chart?range=week&hide=perhiasan", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, "Penitipan 7 Hari")
	assert.NotContains(t, body, `data-channel="perhiasan"`)
	assert.Contains(t, body, `data-channel="dokumen"`)
}

func TestSeriesAPI(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	tests := []struct {
		query string
		want  core.TimeRange
		count int
		first string
	}{
		{"range=week", core.RangeWeek, 7, "Sen"},
		{"range=month", core.RangeMonth, 30, "1"},
		{"range=year", core.RangeYear, 12, "Jan"},
		{"", core.RangeMonth, 30, "1"},
	}
	for _, tt := range tests {
		t.Run(string(tt.want)+"_"+tt.query, func(t *testing.T) {
			rr := do(srv, http.MethodGet, "/api/dashboard/series?"+tt.query, nil)
			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp seriesResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Range)
			require.Len(t, resp.Points, tt.count)
			assert.Equal(t, tt.first, resp.Points[0].Label)
		})
	}
}

func TestReadiness(t *testing.T) {
	srv, _ := newTestServer(t, func(d *Dependencies) {
		d.Ready = func(context.Context) error { return errors.New("database is locked") }
	})

	rr := do(srv, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	var resp struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "ok", resp.Checks["templates"])
	assert.Contains(t, resp.Checks["backend"], "database is locked")
}

func TestMiddlewareHeaders(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	for _, path := range []string{"/", "/dashboard", "/missing"} {
		rr := do(srv, http.MethodGet, path, nil)
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"), path)
		assert.NotEmpty(t, rr.Header().Get("Content-Security-Policy"), path)
		assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"), path)
		assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"), path)
	}

	rr := do(srv, http.MethodGet, "/static/app.js", nil)
	assert.Equal(t, "public, max-age=3600", rr.Header().Get("Cache-Control"))
}
