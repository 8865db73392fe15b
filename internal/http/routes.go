package http

import (
	"net/http"
	"strings"
)

const (
	pathLogin     = "/"
	pathDashboard = "/dashboard"
	pathStatic    = "/static/"

	pathHealth         = "/healthz"
	pathReady          = "/readyz"
	pathSummaryPartial = "/ui/dashboard/summary"
	pathChartPartial   = "/ui/dashboard/chart"
	pathSeriesAPI      = "/api/dashboard/series"
)

type navItem struct {
	Path   string
	Label  string
	Icon   string
	Active bool
}

// navigation is the sidebar, in display order. Every entry except the
// dashboard itself renders the placeholder page.
var navigation = []navItem{
	{Path: pathDashboard, Label: "Dashboard", Icon: "dashboard"},
	{Path: "/dashboard/profil", Label: "Profil", Icon: "profil"},
	{Path: "/dashboard/pengguna", Label: "Pengguna", Icon: "pengguna"},
	{Path: "/dashboard/data", Label: "Data", Icon: "data"},
	{Path: "/dashboard/pengembalian", Label: "Pengembalian", Icon: "pengembalian"},
	{Path: "/dashboard/vendor", Label: "Vendor", Icon: "vendor"},
	{Path: "/dashboard/pengaturan", Label: "Pengaturan", Icon: "pengaturan"},
}

// navFor marks the entry whose path equals current.
func navFor(current string) []navItem {
	out := make([]navItem, len(navigation))
	copy(out, navigation)
	for i := range out {
		out[i].Active = out[i].Path == current
	}
	return out
}

// route is one exact-match entry of the routing table.
type route struct {
	path    string
	methods []string
	handler http.HandlerFunc
}

// router dispatches on the exact request path as sent, so encoded slashes
// never match a route. There is no prefix or trailing-slash matching apart
// from embedded static files; anything else goes to notFound.
type router struct {
	exact    map[string]route
	static   http.Handler
	notFound http.HandlerFunc
}

func newRouter(routes []route, static http.Handler, notFound http.HandlerFunc) *router {
	rt := &router{
		exact:    make(map[string]route, len(routes)),
		static:   static,
		notFound: notFound,
	}
	for _, r := range routes {
		if _, dup := rt.exact[r.path]; dup {
			panic("http: duplicate route " + r.path)
		}
		rt.exact[r.path] = r
	}
	return rt
}

func (rt *router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.EscapedPath()

	if rte, ok := rt.exact[path]; ok {
		if resp := RequireMethod(r, rte.methods...); resp != nil {
			resp.Write(w)
			return
		}
		rte.handler(w, r)
		return
	}

	if rt.static != nil && isStaticAsset(path) {
		if resp := RequireRead(r); resp != nil {
			resp.Write(w)
			return
		}
		rt.static.ServeHTTP(w, r)
		return
	}

	rt.notFound(w, r)
}

// isStaticAsset accepts file paths under /static/ only. Directory paths and
// index.html are left out because http.FileServer answers them with a
// redirect.
func isStaticAsset(path string) bool {
	if !strings.HasPrefix(path, pathStatic) || len(path) == len(pathStatic) {
		return false
	}
	return !strings.HasSuffix(path, "/") && !strings.HasSuffix(path, "/index.html")
}

var (
	readMethods  = []string{http.MethodGet, http.MethodHead}
	loginMethods = []string{http.MethodGet, http.MethodHead, http.MethodPost}
)

// routes builds the routing table.
func (s *Server) routes() []route {
	login := s.limiter.Middleware(s.detector.ExtractClientIP, s.handleLoginLimited, http.MethodPost)(
		http.HandlerFunc(s.handleLogin))

	table := []route{
		{path: pathLogin, methods: loginMethods, handler: login.ServeHTTP},
		{path: pathDashboard, methods: readMethods, handler: s.handleDashboard},
		{path: pathHealth, methods: readMethods, handler: s.handleHealth},
		{path: pathReady, methods: readMethods, handler: s.handleReady},
		{path: pathSummaryPartial, methods: readMethods, handler: s.handleSummaryPartial},
		{path: pathChartPartial, methods: readMethods, handler: s.handleChartPartial},
		{path: pathSeriesAPI, methods: readMethods, handler: s.handleSeriesAPI},
	}
	for _, item := range navigation {
		if item.Path == pathDashboard {
			continue
		}
		table = append(table, route{
			path:    item.Path,
			methods: readMethods,
			handler: s.placeholderHandler(item.Label),
		})
	}
	return table
}
