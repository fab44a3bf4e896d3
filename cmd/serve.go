package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/tonelink/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the profile API server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd)

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	if config.Server.SigningSecret == "" {
		r.logger.Warn("signing secret not configured, signed links are disabled")
	}

	if r.spotify != nil {
		if err := r.spotify.Authenticate(ctx, nil); err != nil {
			r.logger.Warn("spotify authentication failed, search routes degraded", "error", err)
		}
	}

	srv := server.NewServer(config, db, r.logger, r.spotify, r.billing)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Serve(ctx)
}
