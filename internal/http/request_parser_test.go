package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"titipsini/internal/core"
)

func TestParseDashboardQuery(t *testing.T) {
	tests := []struct {
		name      string
		query     url.Values
		wantRange core.TimeRange
		wantKnown bool
		hidden    []core.Channel
		signedIn  bool
	}{
		{
			name:      "defaults",
			query:     url.Values{},
			wantRange: core.RangeMonth,
		},
		{
			name:      "week with hidden channel",
			query:     url.Values{"range": {"week"}, "hide": {"dokumen"}},
			wantRange: core.RangeWeek,
			wantKnown: true,
			hidden:    []core.Channel{core.ChannelDokumen},
		},
		{
			name:      "unknown range falls back to month",
			query:     url.Values{"range": {"decade"}},
			wantRange: core.RangeMonth,
		},
		{
			name:      "unknown channels ignored",
			query:     url.Values{"range": {"YEAR"}, "hide": {"mobil", "perhiasan"}},
			wantRange: core.RangeYear,
			wantKnown: true,
			hidden:    []core.Channel{core.ChannelPerhiasan},
		},
		{
			name:      "login redirect flag",
			query:     url.Values{"masuk": {"1"}},
			wantRange: core.RangeMonth,
			signedIn:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ParseDashboardQuery(tt.query)
			if q.Range != tt.wantRange {
				t.Errorf("Range = %q, want %q", q.Range, tt.wantRange)
			}
			if q.RangeKnown != tt.wantKnown {
				t.Errorf("RangeKnown = %v, want %v", q.RangeKnown, tt.wantKnown)
			}
			if q.SignedIn != tt.signedIn {
				t.Errorf("SignedIn = %v, want %v", q.SignedIn, tt.signedIn)
			}
			got := q.Legend.Hidden()
			if len(got) != len(tt.hidden) {
				t.Fatalf("Hidden = %v, want %v", got, tt.hidden)
			}
			for i := range got {
				if got[i] != tt.hidden[i] {
					t.Errorf("Hidden[%d] = %q, want %q", i, got[i], tt.hidden[i])
				}
			}
		})
	}
}

func TestParseLoginForm(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        LoginForm
	}{
		{
			name:        "form encoded",
			contentType: "application/x-www-form-urlencoded",
			body:        "email=+admin%40titipsini.com+&password=+rahasia+",
			want:        LoginForm{Email: "admin@titipsini.com", Password: " rahasia "},
		},
		{
			name:        "json",
			contentType: "application/json",
			body:        `{"email": "admin@titipsini.com", "password": "rahasia"}`,
			want:        LoginForm{Email: "admin@titipsini.com", Password: "rahasia"},
		},
		{
			name:        "empty body",
			contentType: "application/x-www-form-urlencoded",
			body:        "",
			want:        LoginForm{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			got, err := ParseLoginForm(httptest.NewRecorder(), req)
			if err != nil {
				t.Fatalf("ParseLoginForm() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseLoginForm() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseLoginFormRejectsBadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
	req.Header.Set("Content-Type", "application/json")
	if _, err := ParseLoginForm(httptest.NewRecorder(), req); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}

func TestRequestBodyParser_ControlCharacters(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("email=adm%00in%40titipsini.com"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := p.Get("email"); got != "admin@titipsini.com" {
		t.Errorf("Get(email) = %q", got)
	}
}

func TestRequireMethod(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		allowed []string
		wantErr bool
	}{
		{"POST allowed", http.MethodPost, []string{http.MethodGet, http.MethodPost}, false},
		{"GET allowed", http.MethodGet, []string{http.MethodGet}, false},
		{"PUT not allowed", http.MethodPut, []string{http.MethodGet, http.MethodPost}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			result := RequireMethod(req, tt.allowed...)

			if tt.wantErr && result == nil {
				t.Error("Expected error response but got nil")
			}
			if !tt.wantErr && result != nil {
				t.Error("Expected nil but got error response")
			}
		})
	}

	if RequireRead(httptest.NewRequest(http.MethodHead, "/", nil)) != nil {
		t.Error("RequireRead should allow HEAD")
	}
	if RequireRead(httptest.NewRequest(http.MethodDelete, "/", nil)) == nil {
		t.Error("RequireRead should reject DELETE")
	}
}
