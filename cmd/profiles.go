package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tonelink/internal/avatar"
	"github.com/desertthunder/tonelink/internal/models"
	"github.com/desertthunder/tonelink/internal/repositories"
	"github.com/desertthunder/tonelink/internal/shared"
	"github.com/urfave/cli/v3"
)

// ProfilesCreate creates a new profile and prints its API token.
func (r *Runner) ProfilesCreate(ctx context.Context, cmd *cli.Command) error {
	username := shared.NormalizeUsername(cmd.StringArg("username"))
	if !shared.ValidUsername(username) {
		return fmt.Errorf("%w: username must be 3-40 lowercase alphanumerics, hyphens, or underscores", shared.ErrInvalidArgument)
	}

	displayName := cmd.String("display-name")
	if displayName == "" {
		displayName = username
	}

	config := r.resolveConfig(cmd)

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	profiles := repositories.NewProfileRepository(db)

	if _, err := profiles.GetByUsername(username); err == nil {
		return fmt.Errorf("%w: %s", shared.ErrUsernameTaken, username)
	}

	profile := models.NewProfile(0, username, displayName)

	if color := cmd.String("brand-color"); color != "" {
		if err := profile.SetBrandColor(color); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
	}

	switch {
	case cmd.String("avatar") != "":
		profile.SetAvatarURL(avatar.Upgrade(cmd.String("avatar")))
	case cmd.String("email") != "":
		profile.SetAvatarURL(avatar.Gravatar(cmd.String("email"), avatar.TargetSize))
	}

	if err := profiles.Create(profile); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	r.writePlain("✓ Profile created\n")
	r.writePlain("  ID: %s\n", profile.ID())
	r.writePlain("  Username: %s\n", profile.Username())
	r.writePlain("  API token: %s\n", profile.APIToken())
	return nil
}

// ProfilesList prints all profiles.
func (r *Runner) ProfilesList(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd)

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	profiles, err := repositories.NewProfileRepository(db).List(nil)
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	if cmd.Bool("json") {
		out := make([]map[string]any, 0, len(profiles))
		for _, p := range profiles {
			out = append(out, map[string]any{
				"id":                p.ID(),
				"username":          p.Username(),
				"display_name":      p.DisplayName(),
				"brand_color":       p.BrandColor(),
				"avatar_url":        p.AvatarURL(),
				"spotify_artist_id": p.SpotifyArtistID(),
			})
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d profiles:\n\n", len(profiles))
	for i, p := range profiles {
		r.writePlain("%d. %s (@%s)\n", i+1, p.DisplayName(), p.Username())
		r.writePlain("   ID: %s\n", p.ID())
		if p.SpotifyArtistID() != "" {
			r.writePlain("   Spotify artist: %s\n", p.SpotifyArtistID())
		}
		r.writePlain("\n")
	}

	return nil
}
