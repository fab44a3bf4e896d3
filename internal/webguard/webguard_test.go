package webguard

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/tonelink/internal/shared"
)

const chromeUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func TestDetect(t *testing.T) {
	t.Run("Meta Crawler", func(t *testing.T) {
		v := Detect("facebookexternalhit/1.1", "/maggie")
		if !v.IsBot {
			t.Error("expected facebookexternalhit to be a bot")
		}
		if !v.IsMeta {
			t.Error("expected facebookexternalhit to be Meta-owned")
		}
		if v.ShouldBlock {
			t.Error("Meta crawler should not be blocked on a profile page")
		}
	})

	t.Run("Meta Crawler On Sensitive Path", func(t *testing.T) {
		for _, path := range []string{"/api/link/abc", "/api/sign/abc"} {
			v := Detect("facebookexternalhit/1.1", path)
			if !v.ShouldBlock {
				t.Errorf("expected block on %s", path)
			}
		}
	})

	t.Run("Googlebot Is Not Meta", func(t *testing.T) {
		v := Detect("Googlebot/2.1 (+http://www.google.com/bot.html)", "/api/link/abc")
		if !v.IsBot {
			t.Error("expected Googlebot to be a bot")
		}
		if v.IsMeta {
			t.Error("Googlebot is not Meta-owned")
		}
		if v.ShouldBlock {
			t.Error("non-Meta bots are never blocked")
		}
	})

	t.Run("Browser UA Is Clean", func(t *testing.T) {
		v := Detect(chromeUA, "/api/link/abc")
		if v.IsBot || v.IsMeta || v.ShouldBlock {
			t.Errorf("expected clean verdict for browser UA, got %+v", v)
		}
	})

	t.Run("Case Insensitive", func(t *testing.T) {
		v := Detect("FACEBOOKEXTERNALHIT/1.1", "/api/sign/abc")
		if !v.ShouldBlock {
			t.Error("expected case-insensitive signature match")
		}
	})

	t.Run("Reason Names The Signature", func(t *testing.T) {
		v := Detect("WhatsApp/2.23.20", "/")
		if v.Reason != "matched crawler signature: whatsapp" {
			t.Errorf("unexpected reason %q", v.Reason)
		}
	})
}

func TestSuspicious(t *testing.T) {
	cases := []struct {
		name string
		ua   string
		want bool
	}{
		{"Empty UA", "", true},
		{"Whitespace UA", "   ", true},
		{"Curl", "curl/8.4.0", true},
		{"Wget", "Wget/1.21", true},
		{"Python Requests", "python-requests/2.31.0", true},
		{"Go HTTP Client", "Go-http-client/2.0", true},
		{"Chrome", chromeUA, false},
		{"Webview With Client Token", "Mozilla/5.0 (Linux; Android) okhttp-wrapped", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Suspicious(tc.ua); got != tc.want {
				t.Errorf("Suspicious(%q) = %v, want %v", tc.ua, got, tc.want)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	logger := shared.NewLogger(io.Discard)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(logger)(next)

	t.Run("Blocks Meta On Sensitive Prefix", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/link/abc", nil)
		req.Header.Set("User-Agent", "facebookexternalhit/1.1")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %s", ct)
		}
	})

	t.Run("Allows Googlebot", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/link/abc", nil)
		req.Header.Set("User-Agent", "Googlebot/2.1")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("Allows Meta On Profile Page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/maggie", nil)
		req.Header.Set("User-Agent", "facebookexternalhit/1.1")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})
}
