package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"titipsini/internal/core"
	applog "titipsini/internal/log"
	"titipsini/internal/middleware/trace"
	"titipsini/internal/services"
)

const pageTitleSuffix = " • Titipsini.Com"

const (
	loginDescription     = "Login Super Admin Titipsini.Com – platform kemitraan penitipan barang dengan kasir, nota QR, dan pengingat otomatis."
	dashboardDescription = "Dashboard Admin Titipsini.Com – ringkasan operasional, transaksi harian, dan pengingat sistem."
)

// page is the data every full-page template receives.
type page struct {
	Title       string
	Description string
	Canonical   string
	Heading     string
	Nav         []navItem
	Year        int
	Toast       *toastView
	Content     any
}

type toastView struct {
	Kind        string
	Title       string
	Description string
}

type loginContent struct {
	Email string
	Error string
}

type notFoundContent struct {
	Path string
}

func (s *Server) newPage(r *http.Request, title, description string) page {
	return page{
		Title:       title + pageTitleSuffix,
		Description: description,
		Canonical:   canonicalURL(r),
		Heading:     title,
		Nav:         navFor(r.URL.EscapedPath()),
		Year:        s.now().Year(),
	}
}

// render executes a full page into a buffer first so a failing template
// never leaves a half-written response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	body, ok := s.execute(r.Context(), name, data)
	if !ok {
		InternalServerError("Gagal menampilkan halaman").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

// renderPartial writes a fragment for in-place swaps.
func (s *Server) renderPartial(w http.ResponseWriter, r *http.Request, status int, name string, data any) *HTMXResponseBuilder {
	body, ok := s.execute(r.Context(), name, data)
	if !ok {
		return InternalServerError("Gagal menampilkan bagian halaman")
	}
	return NewHTMXResponse().
		Status(status).
		Header("Cache-Control", "no-store").
		BodyHTML(string(body))
}

func (s *Server) execute(ctx context.Context, name string, data any) ([]byte, bool) {
	if s.templates == nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Templates not loaded", "template", name)
		return nil, false
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.events.LogError(ctx, "Template execution failed", err, applog.ComponentTemplate, applog.OpRender,
			applog.NewFields().WithOperation(name))
		return nil, false
	}
	return buf.Bytes(), true
}

// handleLogin renders the sign-in card and accepts its submission.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		s.handleLoginSubmit(w, r)
		return
	}
	s.renderLogin(w, r, http.StatusOK, loginContent{})
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, status int, content loginContent) {
	p := s.newPage(r, "Login Super Admin", loginDescription)
	p.Content = content
	s.render(w, r, status, "login_page", p)
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, err := ParseLoginForm(w, r)
	if err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Login body rejected", "error", err)
		s.renderLogin(w, r, http.StatusBadRequest, loginContent{Error: "Permintaan tidak valid."})
		return
	}

	res, err := s.auth.Login(ctx, services.LoginRequest{
		Email:      form.Email,
		Password:   form.Password,
		RemoteAddr: s.detector.ExtractClientIP(r),
		UserAgent:  r.Header.Get("User-Agent"),
		RequestID:  trace.GetRequestID(ctx),
	})
	if err != nil {
		status, msg := loginError(err)
		if status == http.StatusInternalServerError {
			s.events.LogError(ctx, "Login failed", err, applog.ComponentAuth, applog.OpLogin, nil)
		}
		s.renderLogin(w, r, status, loginContent{Email: form.Email, Error: msg})
		return
	}

	s.events.LogLogin(ctx, res.Email, res.EventID)
	http.Redirect(w, r, pathDashboard+"?masuk=1", http.StatusSeeOther)
}

func loginError(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrEmptyEmail):
		return http.StatusUnprocessableEntity, "Email wajib diisi."
	case errors.Is(err, core.ErrEmptyPassword):
		return http.StatusUnprocessableEntity, "Kata sandi wajib diisi."
	default:
		return http.StatusInternalServerError, "Gagal masuk. Silakan coba lagi."
	}
}

// handleLoginLimited answers throttled login submissions.
func (s *Server) handleLoginLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Login rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r))
	s.renderLogin(w, r, http.StatusTooManyRequests,
		loginContent{Error: "Terlalu banyak percobaan masuk. Silakan coba lagi nanti."})
}

// placeholderHandler renders a navigation target that has no content yet.
func (s *Server) placeholderHandler(title string) http.HandlerFunc {
	description := "Halaman " + title + " Titipsini.Com – tampilan demo untuk navigasi."
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, http.StatusOK, "placeholder_page", s.newPage(r, title, description))
	}
}

// handleNotFound renders the catch-all page for every unmatched path.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Route not found",
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)

	p := s.newPage(r, "Halaman Tidak Ditemukan", "Halaman yang Anda cari tidak ditemukan.")
	p.Content = notFoundContent{Path: r.URL.Path}
	s.render(w, r, http.StatusNotFound, "not_found_page", p)
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewHTMXResponse().
		BodyJSON(map[string]interface{}{
			"status":    "ok",
			"timestamp": s.now().Format(time.RFC3339),
			"uptime":    s.now().Sub(s.started).Round(time.Second).String(),
			"metrics":   s.metrics(),
		}).
		Write(w)
}

// metrics snapshots the request counters kept by the middleware chain.
func (s *Server) metrics() map[string]int64 {
	tm := s.tracer.GetMetrics()
	dm := s.detector.GetMetrics()
	rm := s.limiter.GetMetrics()
	return map[string]int64{
		"requests_total":         tm.TotalRequests,
		"response_time_avg_us":   tm.AverageResponseTime,
		"server_errors":          tm.ServerErrors,
		"suspicious_requests":    dm.SuspiciousRequests,
		"invalid_ip_attempts":    dm.InvalidIPAttempts,
		"login_rate_limited":     rm.TotalHits,
		"login_rate_limited_ips": rm.ClientCount,
	}
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]string)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", "error", err)
			checks["backend"] = "failed: " + err.Error()
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["backend"] = "ok"
		}
	}

	NewHTMXResponse().
		Status(httpStatus).
		BodyJSON(map[string]interface{}{
			"status":    status,
			"timestamp": s.now().Format(time.RFC3339),
			"checks":    checks,
		}).
		Write(w)
}
