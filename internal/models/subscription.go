package models

import (
	"fmt"
	"time"
)

// Subscription statuses mirrored from the hosted billing API.
const (
	SubscriptionActive   = "active"
	SubscriptionTrialing = "trialing"
	SubscriptionPastDue  = "past_due" // dunning: payment failed, retries in flight
	SubscriptionCanceled = "canceled"
)

// Subscription is the locally cached billing state for a profile.
type Subscription struct {
	meta
	sequence         int
	profileID        string
	plan             string
	status           string
	currentPeriodEnd *time.Time
}

// NewSubscription creates a Subscription for profileID on the given plan.
func NewSubscription(sequence int, profileID, plan string) *Subscription {
	return &Subscription{
		meta:      newMeta(),
		sequence:  sequence,
		profileID: profileID,
		plan:      plan,
		status:    SubscriptionActive,
	}
}

func (s *Subscription) Sequence() int                { return s.sequence }
func (s *Subscription) ProfileID() string            { return s.profileID }
func (s *Subscription) Plan() string                 { return s.plan }
func (s *Subscription) Status() string               { return s.status }
func (s *Subscription) CurrentPeriodEnd() *time.Time { return s.currentPeriodEnd }

// Dunning reports whether the subscription is in the failed-payment retry window.
func (s *Subscription) Dunning() bool { return s.status == SubscriptionPastDue }

func (s *Subscription) SetPlan(plan string)              { s.plan = plan }
func (s *Subscription) SetCurrentPeriodEnd(t *time.Time) { s.currentPeriodEnd = t }

// SetStatus accepts one of the Subscription* status constants.
func (s *Subscription) SetStatus(status string) error {
	switch status {
	case SubscriptionActive, SubscriptionTrialing, SubscriptionPastDue, SubscriptionCanceled:
		s.status = status
		return nil
	default:
		return fmt.Errorf("unknown subscription status: %s", status)
	}
}

// Validate checks the subscription references a profile and carries a known status.
func (s *Subscription) Validate() error {
	if s.profileID == "" {
		return fmt.Errorf("profile ID is required")
	}
	if s.plan == "" {
		return fmt.Errorf("plan is required")
	}
	switch s.status {
	case SubscriptionActive, SubscriptionTrialing, SubscriptionPastDue, SubscriptionCanceled:
		return nil
	default:
		return fmt.Errorf("unknown subscription status: %s", s.status)
	}
}

// Artist is DSP artist metadata used by the search/connect flows.
type Artist struct {
	ID        string
	Name      string
	ImageURL  string
	Followers int64
	Genres    []string
}

// BillingStatus is the subscription state reported by the hosted billing API.
type BillingStatus struct {
	Plan             string     `json:"plan"`
	Status           string     `json:"status"`
	Dunning          bool       `json:"dunning"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
	PortalURL        string     `json:"portal_url,omitempty"`
	CheckoutURL      string     `json:"checkout_url,omitempty"`
}
