// package models defines the data model for the link-in-bio service
package models

import (
	"time"
)

// Model defines the base interface for all persistent models in the link-in-bio service.
// Implementations include Profile, Link, Subscription, etc.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// meta carries the lifecycle fields shared by every persistent entity.
type meta struct {
	id        string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

func newMeta() meta {
	now := time.Now()
	return meta{createdAt: now, updatedAt: now}
}

func (m *meta) ID() string                { return m.id }
func (m *meta) CreatedAt() time.Time      { return m.createdAt }
func (m *meta) UpdatedAt() time.Time      { return m.updatedAt }
func (m *meta) DeletedAt() *time.Time     { return m.deletedAt }
func (m *meta) SetID(id string)           { m.id = id }
func (m *meta) SetCreatedAt(t time.Time)  { m.createdAt = t }
func (m *meta) SetUpdatedAt(t time.Time)  { m.updatedAt = t }
func (m *meta) SetDeletedAt(t *time.Time) { m.deletedAt = t }
