package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/tonelink/internal/formatter"
	"github.com/desertthunder/tonelink/internal/server"
	"github.com/desertthunder/tonelink/internal/services"
	"github.com/desertthunder/tonelink/internal/shared"
	"github.com/urfave/cli/v3"
)

// SpotifyAuth performs the user-scoped OAuth2 authorization flow.
//
// Starts a loopback HTTP server, opens the browser for authorization, and
// saves the resulting token for later sessions.
func (r *Runner) SpotifyAuth(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd)

	if config.Credentials.Spotify.ClientID == "" || config.Credentials.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrInvalidArgument)
	}

	spotifyService, err := services.NewSpotifyService(map[string]string{
		"client_id":     config.Credentials.Spotify.ClientID,
		"client_secret": config.Credentials.Spotify.ClientSecret,
		"redirect_uri":  config.Credentials.Spotify.RedirectURI,
	})
	if err != nil {
		return fmt.Errorf("failed to create Spotify service: %w", err)
	}

	state, err := shared.GenerateState()
	if err != nil {
		return fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := spotifyService.GetAuthURL(state)
	handler := server.NewOAuthHandler(spotifyService.OAuthConfig(), state)
	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	token, err := handler.Await(ctx, addr, 2*time.Minute)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	if err := spotifyService.Authenticate(ctx, map[string]string{"access_token": token.AccessToken}); err != nil {
		return fmt.Errorf("failed to authenticate with new token: %w", err)
	}
	r.spotify = spotifyService

	tokenPath := cmd.String("output")
	if tokenPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		tokenPath = filepath.Join(homeDir, ".tonelink", "token.json")
	}

	if err := os.MkdirAll(filepath.Dir(tokenPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := shared.MarshalJSON(token, true)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := os.WriteFile(tokenPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Token saved to %s\n", tokenPath)
	return nil
}

// SpotifySearch searches Spotify for artists matching the query.
func (r *Runner) SpotifySearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: a search query is required", shared.ErrMissingArgument)
	}

	r.resolveConfig(cmd)

	spotify, err := r.ensureSpotify(ctx)
	if err != nil {
		return err
	}

	r.logger.Infof("searching spotify artists for %q", query)

	artists, err := spotify.SearchArtists(ctx, query, int(limit))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(artists, pretty)
	}

	r.writePlain("Found %d artists:\n\n", len(artists))
	for i, artist := range artists {
		r.writePlain("%d. %s\n", i+1, artist.Name)
		r.writePlain("   ID: %s\n", artist.ID)
		r.writePlain("   Followers: %s\n", formatter.FormatFollowers(artist.Followers))
		if len(artist.Genres) > 0 {
			r.writePlain("   Genres: %s\n", strings.Join(artist.Genres, ", "))
		}
		r.writePlain("\n")
	}

	return nil
}
