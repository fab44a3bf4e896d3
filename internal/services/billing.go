// Billing service for the hosted subscription API
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/desertthunder/tonelink/internal/models"
	"github.com/desertthunder/tonelink/internal/shared"
)

// BillingService provides methods for querying the hosted billing API.
type BillingService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewBillingService creates a new billing service instance.
func NewBillingService(baseURL, apiKey string, client *http.Client) *BillingService {
	if baseURL == "" {
		baseURL = "https://billing.tonelink.app"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &BillingService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: client,
	}
}

// get performs an authenticated GET request and decodes the JSON response into result.
func (b *BillingService) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if b.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: billing API status %d: %s", shared.ErrAPIRequest, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Status retrieves the subscription status for a profile.
//
// A profile with no subscription on record is reported as a free plan rather
// than an error. Dunning is derived from the status so callers never have to
// compare status strings themselves.
func (b *BillingService) Status(ctx context.Context, profileID string) (*models.BillingStatus, error) {
	if profileID == "" {
		return nil, fmt.Errorf("%w: empty profile ID", shared.ErrInvalidInput)
	}

	var status models.BillingStatus
	path := "/v1/subscriptions/" + url.PathEscape(profileID)
	if err := b.get(ctx, path, &status); err != nil {
		return nil, err
	}

	if status.Plan == "" {
		status.Plan = "free"
	}
	if status.Status == "" {
		status.Status = models.SubscriptionCanceled
	}
	status.Dunning = status.Status == models.SubscriptionPastDue

	return &status, nil
}

// PortalURL retrieves a customer portal link for a profile to manage payment details.
func (b *BillingService) PortalURL(ctx context.Context, profileID string) (string, error) {
	if profileID == "" {
		return "", fmt.Errorf("%w: empty profile ID", shared.ErrInvalidInput)
	}

	var response struct {
		URL string `json:"url"`
	}

	path := "/v1/subscriptions/" + url.PathEscape(profileID) + "/portal"
	if err := b.get(ctx, path, &response); err != nil {
		return "", err
	}

	return response.URL, nil
}

// CheckoutURL retrieves a checkout link for a profile to start or change a paid plan.
func (b *BillingService) CheckoutURL(ctx context.Context, profileID, plan string) (string, error) {
	if profileID == "" {
		return "", fmt.Errorf("%w: empty profile ID", shared.ErrInvalidInput)
	}
	if plan == "" {
		return "", fmt.Errorf("%w: empty plan", shared.ErrInvalidInput)
	}

	var response struct {
		URL string `json:"url"`
	}

	path := "/v1/subscriptions/" + url.PathEscape(profileID) + "/checkout?plan=" + url.QueryEscape(plan)
	if err := b.get(ctx, path, &response); err != nil {
		return "", err
	}

	return response.URL, nil
}
