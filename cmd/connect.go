package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tonelink/internal/avatar"
	"github.com/desertthunder/tonelink/internal/models"
	"github.com/desertthunder/tonelink/internal/repositories"
	"github.com/desertthunder/tonelink/internal/shared"
	"github.com/desertthunder/tonelink/internal/ui"
	"github.com/urfave/cli/v3"
)

// Connect launches the interactive dialog that links a Spotify artist to a profile.
func (r *Runner) Connect(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd)

	spotify, err := r.ensureSpotify(ctx)
	if err != nil {
		return err
	}

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	profiles := repositories.NewProfileRepository(db)
	profile, err := resolveProfile(profiles, cmd.String("profile"))
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/tonelink-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	connect := func(ctx context.Context, artist models.Artist) error {
		profile.SetSpotifyArtistID(artist.ID)
		if profile.AvatarURL() == "" && artist.ImageURL != "" {
			profile.SetAvatarURL(avatar.Upgrade(artist.ImageURL))
		}
		return profiles.Update(profile)
	}

	model := ui.NewModel(ctx, spotify, connect)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if model.State().Phase == ui.PhaseConnected {
		r.writePlainln("✓ Artist connected to @%s", profile.Username())
	}

	return nil
}

// resolveProfile looks a profile up by ID first, then by username.
func resolveProfile(profiles *repositories.ProfileRepository, ref string) (*models.Profile, error) {
	if profile, err := profiles.Get(ref); err == nil {
		return profile, nil
	}
	return profiles.GetByUsername(ref)
}
