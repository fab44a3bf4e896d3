package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tonelink/internal/repositories"
	"github.com/desertthunder/tonelink/internal/shared"
	"github.com/urfave/cli/v3"
)

// Billing reports a profile's subscription status from the hosted billing API.
func (r *Runner) Billing(ctx context.Context, cmd *cli.Command) error {
	if r.billing == nil {
		return fmt.Errorf("%w: billing API key not configured", shared.ErrServiceUnavailable)
	}

	config := r.resolveConfig(cmd)

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	profile, err := resolveProfile(repositories.NewProfileRepository(db), cmd.String("profile"))
	if err != nil {
		return err
	}

	status, err := r.billing.Status(ctx, profile.ID())
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("portal") {
		if url, err := r.billing.PortalURL(ctx, profile.ID()); err != nil {
			r.logger.Warn("failed to fetch portal URL", "error", err)
		} else {
			status.PortalURL = url
		}
	}

	if plan := cmd.String("checkout"); plan != "" {
		if url, err := r.billing.CheckoutURL(ctx, profile.ID(), plan); err != nil {
			r.logger.Warn("failed to fetch checkout URL", "error", err)
		} else {
			status.CheckoutURL = url
		}
	}

	// Keep the local cache in step with the upstream answer
	if _, err := repositories.NewSubscriptionRepository(db).Sync(profile.ID(), *status); err != nil {
		r.logger.Warn("failed to cache subscription state", "error", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, cmd.Bool("pretty"))
	}

	r.writePlain("Subscription for @%s:\n", profile.Username())
	r.writePlain("  Plan: %s\n", status.Plan)
	r.writePlain("  Status: %s\n", status.Status)
	if status.Dunning {
		r.writePlain("  ⚠ Payment failed, retries in flight\n")
	}
	if status.CurrentPeriodEnd != nil {
		r.writePlain("  Renews: %s\n", status.CurrentPeriodEnd.Format("2006-01-02"))
	}
	if status.PortalURL != "" {
		r.writePlain("  Portal: %s\n", status.PortalURL)
	}
	if status.CheckoutURL != "" {
		r.writePlain("  Checkout: %s\n", status.CheckoutURL)
	}
	return nil
}
