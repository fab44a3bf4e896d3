package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/tonelink/internal/models"
	"github.com/desertthunder/tonelink/internal/shared"
)

// ProfileRepository implements [models.Repository] for [models.Profile] persistence.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new [ProfileRepository] with the given database connection
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a new profile into the database with generated ID, API token, and sequence
func (r *ProfileRepository) Create(profile *models.Profile) error {
	sequence, err := NextSequence(r.db, "profiles")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	profile.SetID(id)
	if profile.APIToken() == "" {
		profile.SetAPIToken(shared.GenerateID())
	}

	if err := profile.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO profiles (id, sequence, username, display_name, brand_color, avatar_url, spotify_artist_id, api_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, profile.Username(), profile.DisplayName(), profile.BrandColor(),
		profile.AvatarURL(), profile.SpotifyArtistID(), profile.APIToken(), profile.CreatedAt(), profile.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}

	return nil
}

// Get retrieves a profile by ID, excluding soft-deleted profiles
func (r *ProfileRepository) Get(id string) (*models.Profile, error) {
	return r.getWhere("id = ?", id)
}

// GetByUsername retrieves a profile by its normalized username
func (r *ProfileRepository) GetByUsername(username string) (*models.Profile, error) {
	return r.getWhere("username = ?", shared.NormalizeUsername(username))
}

// GetByAPIToken retrieves the profile owning the given API token
func (r *ProfileRepository) GetByAPIToken(token string) (*models.Profile, error) {
	return r.getWhere("api_token = ?", token)
}

func (r *ProfileRepository) getWhere(cond string, arg any) (*models.Profile, error) {
	query := `
		SELECT id, sequence, username, display_name, brand_color, avatar_url, spotify_artist_id, api_token, created_at, updated_at, deleted_at
		FROM profiles
		WHERE ` + cond + ` AND deleted_at IS NULL
	`

	row := r.db.QueryRow(query, arg)
	profile, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %v", shared.ErrProfileNotFound, arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	return profile, nil
}

// Update modifies an existing profile in the database
func (r *ProfileRepository) Update(profile *models.Profile) error {
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	profile.SetUpdatedAt(now)

	query := `
		UPDATE profiles
		SET display_name = ?, brand_color = ?, avatar_url = ?, spotify_artist_id = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, profile.DisplayName(), profile.BrandColor(), profile.AvatarURL(),
		profile.SpotifyArtistID(), now, profile.ID())
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrProfileNotFound, profile.ID())
	}

	return nil
}

// Delete soft-deletes a profile by ID
func (r *ProfileRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE profiles
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrProfileNotFound, id)
	}

	return nil
}

// List retrieves all profiles matching the given criteria, excluding soft-deleted profiles
func (r *ProfileRepository) List(criteria map[string]any) ([]*models.Profile, error) {
	query := `
		SELECT id, sequence, username, display_name, brand_color, avatar_url, spotify_artist_id, api_token, created_at, updated_at, deleted_at
		FROM profiles
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if username, ok := criteria["username"].(string); ok && username != "" {
		query += " AND username = ?"
		args = append(args, shared.NormalizeUsername(username))
	}
	if artistID, ok := criteria["spotify_artist_id"].(string); ok && artistID != "" {
		query += " AND spotify_artist_id = ?"
		args = append(args, artistID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return profiles, nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (*models.Profile, error) {
	var (
		id              string
		sequence        int
		username        string
		displayName     string
		brandColor      string
		avatarURL       string
		spotifyArtistID string
		apiToken        string
		createdAt       time.Time
		updatedAt       time.Time
		deletedAt       sql.NullTime
	)

	if err := s.Scan(&id, &sequence, &username, &displayName, &brandColor, &avatarURL, &spotifyArtistID, &apiToken, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	profile := models.NewProfile(sequence, username, displayName)
	profile.SetID(id)
	if err := profile.SetBrandColor(brandColor); err != nil {
		return nil, err
	}
	profile.SetAvatarURL(avatarURL)
	profile.SetSpotifyArtistID(spotifyArtistID)
	profile.SetAPIToken(apiToken)
	profile.SetCreatedAt(createdAt)
	profile.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		profile.SetDeletedAt(&deletedAt.Time)
	}

	return profile, nil
}
