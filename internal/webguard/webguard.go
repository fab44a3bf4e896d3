// package webguard classifies inbound requests by User-Agent.
//
// Public profile pages want crawlers for unfurls and SEO, but Meta's crawler
// family follows redirect and signing endpoints aggressively enough to burn
// through signed-link quotas, so those crawlers are blocked on sensitive
// prefixes only.
package webguard

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
)

// SensitivePrefixes are the route prefixes where Meta crawlers are blocked.
var SensitivePrefixes = []string{"/api/link/", "/api/sign/"}

// crawler is a known bot signature.
type crawler struct {
	signature string
	meta      bool
}

var crawlers = []crawler{
	{signature: "googlebot"},
	{signature: "bingbot"},
	{signature: "twitterbot"},
	{signature: "discordbot"},
	{signature: "linkedinbot"},
	{signature: "slackbot"},
	{signature: "facebookexternalhit", meta: true},
	{signature: "facebookcatalog", meta: true},
	{signature: "facebot", meta: true},
	{signature: "meta-externalagent", meta: true},
	{signature: "instagram", meta: true},
	{signature: "whatsapp", meta: true},
}

// nonBrowserClients are HTTP client signatures that no real browser carries.
var nonBrowserClients = []string{"curl", "wget", "python-requests", "go-http-client", "okhttp", "java/"}

// Verdict is the classification of one request.
type Verdict struct {
	IsBot       bool   `json:"is_bot"`
	IsMeta      bool   `json:"is_meta"`
	ShouldBlock bool   `json:"should_block"`
	Reason      string `json:"reason"`
	UserAgent   string `json:"user_agent"`
}

// Detect classifies a User-Agent against known crawler signatures.
//
// ShouldBlock is set only for Meta-owned crawlers on sensitive path prefixes;
// other bots are never blocked.
func Detect(userAgent, path string) Verdict {
	verdict := Verdict{Reason: "no crawler signature", UserAgent: userAgent}
	ua := strings.ToLower(userAgent)

	for _, c := range crawlers {
		if strings.Contains(ua, c.signature) {
			verdict.IsBot = true
			verdict.IsMeta = c.meta
			verdict.Reason = "matched crawler signature: " + c.signature
			break
		}
	}

	if verdict.IsMeta && hasSensitivePrefix(path) {
		verdict.ShouldBlock = true
	}

	return verdict
}

// DetectRequest classifies an inbound request.
func DetectRequest(r *http.Request) Verdict {
	return Detect(r.UserAgent(), r.URL.Path)
}

// Suspicious flags empty User-Agents and bare HTTP clients.
//
// A UA containing "mozilla" is given the benefit of the doubt even when a
// client signature also matches, since embedded webviews stack tokens.
func Suspicious(userAgent string) bool {
	ua := strings.ToLower(strings.TrimSpace(userAgent))
	if ua == "" {
		return true
	}
	if strings.Contains(ua, "mozilla") {
		return false
	}

	for _, client := range nonBrowserClients {
		if strings.Contains(ua, client) {
			return true
		}
	}

	return false
}

func hasSensitivePrefix(path string) bool {
	for _, prefix := range SensitivePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Middleware blocks requests whose [Verdict] says so, returning a 403 JSON body.
// Suspicious non-browser clients are logged but allowed through.
func Middleware(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			verdict := DetectRequest(r)

			if verdict.ShouldBlock {
				logger.Warn("blocked crawler", "path", r.URL.Path, "reason", verdict.Reason)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]string{"error": "Forbidden"})
				return
			}

			if Suspicious(r.UserAgent()) {
				logger.Debug("suspicious request", "path", r.URL.Path, "user_agent", r.UserAgent())
			}

			next.ServeHTTP(w, r)
		})
	}
}
