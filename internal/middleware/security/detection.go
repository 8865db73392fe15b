package security

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"

	applog "titipsini/internal/log"
)

var (
	suspiciousPatterns = []string{
		"../", "..\\", ".env", "wp-admin", "wp-login", "phpmyadmin",
		".php", ".git", ".ssh", "eval(", "javascript:", "<script",
		"union select", "etc/passwd", "cmd.exe",
	}
	suspiciousAgents = []string{
		"sqlmap", "nmap", "nikto", "gobuster", "dirb", "masscan", "zgrab",
	}
	unusualMethods = map[string]bool{"TRACE": true, "TRACK": true, "DEBUG": true, "CONNECT": true}
)

// DetectionMetrics tracks security detection events
type DetectionMetrics struct {
	SuspiciousRequests int64
	InvalidIPAttempts  int64
}

// Detector flags probing requests and resolves client IPs behind trusted
// proxies.
type Detector struct {
	suspicious     atomic.Int64
	invalidIP      atomic.Int64
	trustedProxies []*net.IPNet
	logger         *applog.Logger
}

func NewDetector(logger *applog.Logger) *Detector {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Detector{
		logger: logger.WithComponent(applog.ComponentSecurity),
		trustedProxies: []*net.IPNet{
			parseCIDR("127.0.0.0/8"),
			parseCIDR("10.0.0.0/8"),
			parseCIDR("172.16.0.0/12"),
			parseCIDR("192.168.0.0/16"),
		},
	}
}

func parseCIDR(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(fmt.Sprintf("failed to parse trusted proxy CIDR %s: %v", cidr, err))
	}
	return network
}

// DetectSuspiciousRequest reports whether r looks like a scan or an injection
// attempt.
func (d *Detector) DetectSuspiciousRequest(r *http.Request) bool {
	suspicious := unusualMethods[r.Method] || len(r.URL.String()) > 2048

	if !suspicious {
		path := strings.ToLower(r.URL.Path)
		query := strings.ToLower(r.URL.RawQuery)
		for _, p := range suspiciousPatterns {
			if strings.Contains(path, p) || strings.Contains(query, p) {
				suspicious = true
				break
			}
		}
	}
	if !suspicious {
		ua := strings.ToLower(r.Header.Get("User-Agent"))
		for _, a := range suspiciousAgents {
			if strings.Contains(ua, a) {
				suspicious = true
				break
			}
		}
	}
	if !suspicious && strings.Count(r.Header.Get("X-Forwarded-For"), ",") > 5 {
		suspicious = true
	}

	if suspicious {
		d.suspicious.Add(1)
	}
	return suspicious
}

// Middleware logs suspicious requests and lets them through; the router
// answers them like any other path.
func (d *Detector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if d.DetectSuspiciousRequest(r) {
			d.logger.WarnContext(r.Context(), "Suspicious request",
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				applog.FieldClientIP, d.ExtractClientIP(r),
				applog.FieldUserAgent, r.Header.Get("User-Agent"))
		}
		next.ServeHTTP(w, r)
	})
}

// ExtractClientIP extracts the real client IP, trusting forwarding headers
// only from private-network proxies.
func (d *Detector) ExtractClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	parsedDirectIP := net.ParseIP(directIP)
	if parsedDirectIP == nil {
		d.invalidIP.Add(1)
		return directIP
	}

	if d.isTrustedProxy(parsedDirectIP) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first := strings.TrimSpace(strings.Split(xff, ",")[0])
			if net.ParseIP(first) != nil {
				return first
			}
			d.invalidIP.Add(1)
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			if net.ParseIP(xri) != nil {
				return xri
			}
			d.invalidIP.Add(1)
		}
	}

	return directIP
}

func (d *Detector) isTrustedProxy(ip net.IP) bool {
	for _, network := range d.trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// GetMetrics returns current security metrics
func (d *Detector) GetMetrics() DetectionMetrics {
	return DetectionMetrics{
		SuspiciousRequests: d.suspicious.Load(),
		InvalidIPAttempts:  d.invalidIP.Load(),
	}
}
