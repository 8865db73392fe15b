package http

import (
	"html/template"
	"net/http"
	"strings"

	"titipsini/internal/core"
)

// templateFuncs are the helpers available to every page and partial.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"rupiah":       core.FormatRupiah,
		"signedRupiah": signedRupiah,
		"formatDay":    core.FormatDay,
		"dashboardURL": dashboardURL,
	}
}

// signedRupiah prefixes the amount with + for incoming and - for outgoing
// transactions.
func signedRupiah(tx core.Transaction) string {
	if tx.Direction == core.DirectionOut {
		return "-" + core.FormatRupiah(tx.Amount)
	}
	return "+" + core.FormatRupiah(tx.Amount)
}

func dashboardURL(query string) string {
	if query == "" {
		return pathDashboard
	}
	return pathDashboard + "?" + query
}

// canonicalURL rebuilds the absolute URL of the current request.
func canonicalURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	if r.Host == "" {
		return r.URL.RequestURI()
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}
