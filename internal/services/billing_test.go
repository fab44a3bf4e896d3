package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/tonelink/internal/models"
)

func TestBillingService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Empty BaseURL", func(t *testing.T) {
			srv := NewBillingService("", "key", nil)
			if srv.baseURL != "https://billing.tonelink.app" {
				t.Errorf("expected default baseURL, got %s", srv.baseURL)
			}
			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})
	})

	t.Run("Status", func(t *testing.T) {
		t.Run("Active Subscription", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/subscriptions/profile-1" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if auth := r.Header.Get("Authorization"); auth != "Bearer key" {
					t.Errorf("expected bearer auth, got %q", auth)
				}
				json.NewEncoder(w).Encode(map[string]any{
					"plan":   "pro",
					"status": "active",
				})
			}))
			defer server.Close()

			srv := NewBillingService(server.URL, "key", nil)
			status, err := srv.Status(context.Background(), "profile-1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if status.Plan != "pro" || status.Status != models.SubscriptionActive {
				t.Errorf("unexpected status %+v", status)
			}
			if status.Dunning {
				t.Error("active subscription should not be in dunning")
			}
		})

		t.Run("Past Due Sets Dunning", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"plan":   "pro",
					"status": "past_due",
				})
			}))
			defer server.Close()

			srv := NewBillingService(server.URL, "key", nil)
			status, err := srv.Status(context.Background(), "profile-1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !status.Dunning {
				t.Error("past_due subscription should be in dunning")
			}
		})

		t.Run("Dunning Flag From Upstream Is Ignored", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"plan":    "pro",
					"status":  "active",
					"dunning": true,
				})
			}))
			defer server.Close()

			srv := NewBillingService(server.URL, "key", nil)
			status, err := srv.Status(context.Background(), "profile-1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if status.Dunning {
				t.Error("dunning should be derived from status, not trusted upstream")
			}
		})

		t.Run("Empty Response Defaults To Free", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{})
			}))
			defer server.Close()

			srv := NewBillingService(server.URL, "key", nil)
			status, err := srv.Status(context.Background(), "profile-1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if status.Plan != "free" || status.Status != models.SubscriptionCanceled {
				t.Errorf("expected free/canceled defaults, got %+v", status)
			}
		})

		t.Run("Server Error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer server.Close()

			srv := NewBillingService(server.URL, "key", nil)
			if _, err := srv.Status(context.Background(), "profile-1"); err == nil {
				t.Error("expected error for 500 response")
			}
		})

		t.Run("Empty Profile ID", func(t *testing.T) {
			srv := NewBillingService("http://example.com", "key", nil)
			if _, err := srv.Status(context.Background(), ""); err == nil {
				t.Error("expected error for empty profile ID")
			}
		})
	})

	t.Run("CheckoutURL", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/subscriptions/profile-1/checkout" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if plan := r.URL.Query().Get("plan"); plan != "pro" {
				t.Errorf("expected plan=pro, got %q", plan)
			}
			json.NewEncoder(w).Encode(map[string]string{"url": "https://billing.example.com/checkout/xyz"})
		}))
		defer server.Close()

		srv := NewBillingService(server.URL, "key", nil)
		checkout, err := srv.CheckoutURL(context.Background(), "profile-1", "pro")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if checkout != "https://billing.example.com/checkout/xyz" {
			t.Errorf("unexpected checkout URL %s", checkout)
		}

		t.Run("Empty Plan", func(t *testing.T) {
			if _, err := srv.CheckoutURL(context.Background(), "profile-1", ""); err == nil {
				t.Error("expected error for empty plan")
			}
		})
	})

	t.Run("PortalURL", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/subscriptions/profile-1/portal" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(map[string]string{"url": "https://billing.example.com/portal/abc"})
		}))
		defer server.Close()

		srv := NewBillingService(server.URL, "key", nil)
		portal, err := srv.PortalURL(context.Background(), "profile-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if portal != "https://billing.example.com/portal/abc" {
			t.Errorf("unexpected portal URL %s", portal)
		}
	})
}
