package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"titipsini/internal/chart"
	"titipsini/internal/core"
	"titipsini/internal/dashboard"
	applog "titipsini/internal/log"
	"titipsini/internal/middleware/ratelimit"
	"titipsini/internal/middleware/security"
	"titipsini/internal/middleware/trace"
	"titipsini/internal/services"
	appweb "titipsini/web"
)

// DashboardService is the view model behind the dashboard pages.
type DashboardService interface {
	View(ctx context.Context, tr core.TimeRange, legend chart.Legend) (dashboard.View, error)
	Summary(ctx context.Context, tr core.TimeRange) (dashboard.Summary, error)
	Series(ctx context.Context, tr core.TimeRange) ([]core.SeriesPoint, error)
}

// Authenticator signs admins in.
type Authenticator interface {
	Login(ctx context.Context, req services.LoginRequest) (services.LoginResult, error)
}

// Dependencies wires a Server.
type Dependencies struct {
	Dashboard DashboardService
	Auth      Authenticator
	// Ready backs /readyz; nil means always ready.
	Ready  func(ctx context.Context) error
	Logger *applog.Logger
	// LoginRateLimit is the number of login submissions allowed per client
	// per minute.
	LoginRateLimit int
	Now            func() time.Time
}

type Server struct {
	http.Server
	templates *template.Template

	dashboard DashboardService
	auth      Authenticator
	ready     func(ctx context.Context) error

	logger   *applog.Logger
	events   *applog.StructuredLogger
	detector *security.Detector
	tracer   *trace.Middleware
	limiter  *ratelimit.Limiter

	now     func() time.Time
	started time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run http.Server.
func NewServer(addr string, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	now := deps.Now
	if now == nil {
		now = time.Now
	}
	auth := deps.Auth
	if auth == nil {
		auth = services.NewAuthService(nil)
	}

	s := &Server{
		Server:    http.Server{Addr: addr},
		dashboard: deps.Dashboard,
		auth:      auth,
		ready:     deps.Ready,
		logger:    logger,
		events:    applog.NewStructuredLogger(logger),
		detector:  security.NewDetector(logger),
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.LoginRateLimit}),
		now:       now,
		started:   now(),
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, logger)

	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	var static http.Handler
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static = security.StaticAssetMiddleware(3600)(
			http.StripPrefix(pathStatic, http.FileServer(http.FS(sub))))
	} else {
		logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	var h http.Handler = newRouter(s.routes(), static, s.handleNotFound)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = applog.RequestIDMiddleware(trace.RequestIDFromRequest)(h)
	h = applog.Middleware(logger)(h)
	h = s.detector.Middleware(h)
	h = s.tracer.Middleware(h)
	s.Handler = h

	return s
}

// Shutdown stops background routines and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
