// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data:
// the dashboard query string (range, legend, sign-in flag) and the login body,
// which may arrive form-encoded or as JSON.

package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"titipsini/internal/chart"
	"titipsini/internal/core"
)

// maxLoginBody caps the login request body.
const maxLoginBody = 16 << 10

// DashboardQuery is the request-scoped dashboard state.
type DashboardQuery struct {
	Range core.TimeRange
	// RangeKnown is false when the range was missing or unrecognised and
	// DefaultRange was used instead.
	RangeKnown bool
	Legend     chart.Legend
	// SignedIn is set by the login redirect and shows the welcome toast.
	SignedIn bool
}

// ParseDashboardQuery reads range, hide and masuk parameters.
func ParseDashboardQuery(query url.Values) DashboardQuery {
	tr, ok := core.ParseTimeRange(query.Get("range"))
	return DashboardQuery{
		Range:      tr,
		RangeKnown: ok,
		Legend:     chart.ParseLegend(query),
		SignedIn:   query.Get("masuk") == "1",
	}
}

// LoginForm holds the submitted credentials.
type LoginForm struct {
	Email    string
	Password string
}

// ParseLoginForm reads email and password from a form or JSON body.
func ParseLoginForm(w http.ResponseWriter, r *http.Request) (LoginForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLoginBody)
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return LoginForm{}, err
	}
	return LoginForm{
		Email:    p.Get("email"),
		Password: p.GetSecret("password"),
	}, nil
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(r.Body)
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if strings.HasPrefix(p.contentType, "application/json") || p.body[0] == '{' {
		p.jsonData = make(map[string]interface{})
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.jsonData = nil
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a sanitized, trimmed value from the parsed data.
func (p *RequestBodyParser) Get(key string) string {
	return strings.TrimSpace(sanitizeInput(p.raw(key)))
}

// GetSecret returns the value as submitted. Passwords keep their spaces.
func (p *RequestBodyParser) GetSecret(key string) string {
	return p.raw(key)
}

func (p *RequestBodyParser) raw(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return stringValue(val)
		}
		return ""
	}
	if p.formData != nil {
		return p.formData.Get(key)
	}
	return ""
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequireRead allows GET and HEAD.
func RequireRead(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodGet, http.MethodHead)
}
