// package services defines interface Service for interacting with HTTP APIs
//
// Spotify, hosted billing
package services

import (
	"context"

	"github.com/desertthunder/tonelink/internal/models"
)

// Service defines the interface for DSP providers (Spotify) that can search and resolve artist profiles.
type Service interface {
	// Authenticate performs OAuth or API key authentication with the service.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// SearchArtists searches for artists matching the query, best matches first.
	SearchArtists(ctx context.Context, query string, limit int) ([]models.Artist, error)

	// GetArtist retrieves a specific artist by provider ID.
	GetArtist(ctx context.Context, artistID string) (*models.Artist, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}
