package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/roomiapp/roomi-engine/internal/db"
)

// ProfileRepository provides data access methods for the Profile model.
// Profiles are read-mostly from the engine's perspective: ranking and
// scoring only read them, the profile service upserts them.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// Get fetches a single profile by id.
// Returns gorm.ErrRecordNotFound when the id is unknown.
func (r *ProfileRepository) Get(ctx context.Context, id string) (*db.Profile, error) {
	var p db.Profile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Scan returns the candidate pool: up to limit profiles in id order.
//
// The id ordering makes the pool stable across calls; the cap is the
// engine's explicit scalability bound, so ranking works over the scanned
// subset rather than the full table.
func (r *ProfileRepository) Scan(ctx context.Context, limit int) ([]db.Profile, error) {
	var profiles []db.Profile
	err := r.db.WithContext(ctx).
		Order("id").
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// Upsert inserts the profile or replaces its mutable columns when a row
// with the same id already exists.
func (r *ProfileRepository) Upsert(ctx context.Context, p *db.Profile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "age", "budget", "location",
				"lease_duration", "lifestyle", "university", "interests",
				"updated_at",
			}),
		}).
		Create(p).Error
}
