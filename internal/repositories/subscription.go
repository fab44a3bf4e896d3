package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/tonelink/internal/models"
	"github.com/desertthunder/tonelink/internal/shared"
)

// SubscriptionRepository implements [models.Repository] for [models.Subscription] persistence.
type SubscriptionRepository struct {
	db *sql.DB
}

// NewSubscriptionRepository creates a new [SubscriptionRepository] with the given database connection
func NewSubscriptionRepository(db *sql.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create inserts a new subscription into the database with generated ID and sequence
func (r *SubscriptionRepository) Create(sub *models.Subscription) error {
	sequence, err := NextSequence(r.db, "subscriptions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	sub.SetID(id)

	if err := sub.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO subscriptions (id, sequence, profile_id, plan, status, current_period_end, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, sub.ProfileID(), sub.Plan(), sub.Status(),
		sub.CurrentPeriodEnd(), sub.CreatedAt(), sub.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert subscription: %w", err)
	}

	return nil
}

// Get retrieves a subscription by ID, excluding soft-deleted records
func (r *SubscriptionRepository) Get(id string) (*models.Subscription, error) {
	return r.getWhere("id = ?", id)
}

// GetByProfile retrieves the subscription belonging to the given profile
func (r *SubscriptionRepository) GetByProfile(profileID string) (*models.Subscription, error) {
	return r.getWhere("profile_id = ?", profileID)
}

func (r *SubscriptionRepository) getWhere(cond string, arg any) (*models.Subscription, error) {
	query := `
		SELECT id, sequence, profile_id, plan, status, current_period_end, created_at, updated_at, deleted_at
		FROM subscriptions
		WHERE ` + cond + ` AND deleted_at IS NULL
	`

	sub, err := scanSubscription(r.db.QueryRow(query, arg))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("subscription not found: %v", arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query subscription: %w", err)
	}

	return sub, nil
}

// Update modifies an existing subscription in the database
func (r *SubscriptionRepository) Update(sub *models.Subscription) error {
	if err := sub.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	sub.SetUpdatedAt(now)

	query := `
		UPDATE subscriptions
		SET plan = ?, status = ?, current_period_end = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, sub.Plan(), sub.Status(), sub.CurrentPeriodEnd(), now, sub.ID())
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("subscription not found or already deleted: %s", sub.ID())
	}

	return nil
}

// Delete soft-deletes a subscription by ID
func (r *SubscriptionRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE subscriptions
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("subscription not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all subscriptions matching the given criteria, excluding soft-deleted records
func (r *SubscriptionRepository) List(criteria map[string]any) ([]*models.Subscription, error) {
	query := `
		SELECT id, sequence, profile_id, plan, status, current_period_end, created_at, updated_at, deleted_at
		FROM subscriptions
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	if plan, ok := criteria["plan"].(string); ok && plan != "" {
		query += " AND plan = ?"
		args = append(args, plan)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return subs, nil
}

// Sync upserts the locally cached state from a billing API status report.
func (r *SubscriptionRepository) Sync(profileID string, status models.BillingStatus) (*models.Subscription, error) {
	sub, err := r.GetByProfile(profileID)
	if err != nil {
		sub = models.NewSubscription(0, profileID, status.Plan)
		if err := sub.SetStatus(status.Status); err != nil {
			return nil, err
		}
		sub.SetCurrentPeriodEnd(status.CurrentPeriodEnd)
		if err := r.Create(sub); err != nil {
			return nil, err
		}
		return sub, nil
	}

	sub.SetPlan(status.Plan)
	if err := sub.SetStatus(status.Status); err != nil {
		return nil, err
	}
	sub.SetCurrentPeriodEnd(status.CurrentPeriodEnd)
	if err := r.Update(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func scanSubscription(s scanner) (*models.Subscription, error) {
	var (
		id               string
		sequence         int
		profileID        string
		plan             string
		status           string
		currentPeriodEnd sql.NullTime
		createdAt        time.Time
		updatedAt        time.Time
		deletedAt        sql.NullTime
	)

	if err := s.Scan(&id, &sequence, &profileID, &plan, &status, &currentPeriodEnd, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	sub := models.NewSubscription(sequence, profileID, plan)
	sub.SetID(id)
	if err := sub.SetStatus(status); err != nil {
		return nil, err
	}
	if currentPeriodEnd.Valid {
		sub.SetCurrentPeriodEnd(&currentPeriodEnd.Time)
	}
	sub.SetCreatedAt(createdAt)
	sub.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		sub.SetDeletedAt(&deletedAt.Time)
	}

	return sub, nil
}
