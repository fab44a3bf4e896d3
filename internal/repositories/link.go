package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/tonelink/internal/models"
	"github.com/desertthunder/tonelink/internal/shared"
)

// LinkRepository implements [models.Repository] for [models.Link] persistence.
//
// Link order within a profile is the position column; [LinkRepository.Reorder]
// rewrites positions transactionally so a partial save never scrambles a page.
type LinkRepository struct {
	db *sql.DB
}

// NewLinkRepository creates a new [LinkRepository] with the given database connection
func NewLinkRepository(db *sql.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Create inserts a new link at the end of its profile's list
func (r *LinkRepository) Create(link *models.Link) error {
	sequence, err := NextSequence(r.db, "links")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	link.SetID(id)

	var maxPos sql.NullInt64
	err = r.db.QueryRow("SELECT MAX(position) FROM links WHERE profile_id = ? AND deleted_at IS NULL", link.ProfileID()).Scan(&maxPos)
	if err != nil {
		return fmt.Errorf("failed to determine link position: %w", err)
	}
	if maxPos.Valid {
		link.SetPosition(int(maxPos.Int64) + 1)
	} else {
		link.SetPosition(0)
	}

	if err := link.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO links (id, sequence, profile_id, platform, url, position, followers, synced_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, link.ProfileID(), link.Platform(), link.URL(),
		link.Position(), link.Followers(), link.SyncedAt(), link.CreatedAt(), link.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert link: %w", err)
	}

	return nil
}

// Get retrieves a link by ID, excluding soft-deleted links
func (r *LinkRepository) Get(id string) (*models.Link, error) {
	query := `
		SELECT id, sequence, profile_id, platform, url, position, followers, synced_at, created_at, updated_at, deleted_at
		FROM links
		WHERE id = ? AND deleted_at IS NULL
	`

	link, err := scanLink(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrLinkNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query link: %w", err)
	}

	return link, nil
}

// Update modifies an existing link in the database
func (r *LinkRepository) Update(link *models.Link) error {
	if err := link.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	link.SetUpdatedAt(now)

	query := `
		UPDATE links
		SET url = ?, position = ?, followers = ?, synced_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, link.URL(), link.Position(), link.Followers(), link.SyncedAt(), now, link.ID())
	if err != nil {
		return fmt.Errorf("failed to update link: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrLinkNotFound, link.ID())
	}

	return nil
}

// Delete soft-deletes a link by ID
func (r *LinkRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE links
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrLinkNotFound, id)
	}

	return nil
}

// List retrieves all links matching the given criteria in display order, excluding soft-deleted links
func (r *LinkRepository) List(criteria map[string]any) ([]*models.Link, error) {
	query := `
		SELECT id, sequence, profile_id, platform, url, position, followers, synced_at, created_at, updated_at, deleted_at
		FROM links
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if profileID, ok := criteria["profile_id"].(string); ok && profileID != "" {
		query += " AND profile_id = ?"
		args = append(args, profileID)
	}
	if platform, ok := criteria["platform"].(string); ok && platform != "" {
		query += " AND platform = ?"
		args = append(args, platform)
	}

	query += " ORDER BY position ASC, sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	var links []*models.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return links, nil
}

// ListByProfile returns the profile's links in display order.
func (r *LinkRepository) ListByProfile(profileID string) ([]*models.Link, error) {
	return r.List(map[string]any{"profile_id": profileID})
}

// Reorder rewrites positions for a profile's links to match the given ID order.
//
// Every live link of the profile must appear exactly once in ids; otherwise the
// transaction is rolled back and nothing changes.
func (r *LinkRepository) Reorder(profileID string, ids []string) error {
	current, err := r.ListByProfile(profileID)
	if err != nil {
		return err
	}

	if len(ids) != len(current) {
		return fmt.Errorf("%w: reorder must include all %d links, got %d", shared.ErrInvalidInput, len(current), len(ids))
	}

	owned := make(map[string]bool, len(current))
	for _, link := range current {
		owned[link.ID()] = true
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !owned[id] {
			return fmt.Errorf("%w: link %s does not belong to profile %s", shared.ErrInvalidInput, id, profileID)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate link %s in order", shared.ErrInvalidInput, id)
		}
		seen[id] = true
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for position, id := range ids {
		_, err := tx.Exec("UPDATE links SET position = ?, updated_at = ? WHERE id = ? AND profile_id = ? AND deleted_at IS NULL",
			position, now, id, profileID)
		if err != nil {
			return fmt.Errorf("failed to reposition link %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}

	return nil
}

func scanLink(s scanner) (*models.Link, error) {
	var (
		id        string
		sequence  int
		profileID string
		platform  string
		rawURL    string
		position  int
		followers int64
		syncedAt  sql.NullTime
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	if err := s.Scan(&id, &sequence, &profileID, &platform, &rawURL, &position, &followers, &syncedAt, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	link := models.NewLink(sequence, profileID, platform, rawURL)
	link.SetID(id)
	link.SetPosition(position)
	link.SetFollowers(followers)
	if syncedAt.Valid {
		link.SetSyncedAt(&syncedAt.Time)
	}
	link.SetCreatedAt(createdAt)
	link.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		link.SetDeletedAt(&deletedAt.Time)
	}

	return link, nil
}
