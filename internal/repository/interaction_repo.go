package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/roomiapp/roomi-engine/internal/db"
)

// InteractionRepository provides data access methods for the append-only
// Interaction ledger. Rows are only ever inserted: repeated identical
// events accumulate, and nothing here updates or deletes.
type InteractionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new repository bound to the given DB connection.
func NewInteractionRepository(database *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: database}
}

// Append records one like/pass event from -> to.
//
// Behavior:
//   - Always inserts a new row, even if an identical event exists.
//   - The insert commits before the caller's reciprocity lookup, so a
//     retried like never loses history.
//
// Example:
//
//	repo.Append(ctx, "alice", "bob", db.KindLike)
func (r *InteractionRepository) Append(
	ctx context.Context,
	fromUserID, toUserID string,
	kind db.InteractionKind,
) error {
	event := db.Interaction{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Kind:       kind,
	}
	return r.db.WithContext(ctx).Create(&event).Error
}

// ExistsLike checks whether from has ever liked to.
//
// Point lookup on the (from, to, kind) index; used for reciprocity
// detection in the like flow.
//
// Example:
//
//	repo.ExistsLike(ctx, "bob", "alice") // -> true if bob liked alice
func (r *InteractionRepository) ExistsLike(
	ctx context.Context,
	fromUserID, toUserID string,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Interaction{}).
		Where("from_user_id = ? AND to_user_id = ? AND kind = ?", fromUserID, toUserID, db.KindLike).
		Count(&count).Error
	return count > 0, err
}

// ListTargets returns the set of ids the user has ever liked OR passed.
//
// This is the ranking exclusion set: anyone the requester already acted
// on is never surfaced again, regardless of the action's kind.
//
// Example:
//
//	repo.ListTargets(ctx, "alice") // -> {"bob": {}, "carol": {}}
func (r *InteractionRepository) ListTargets(
	ctx context.Context,
	fromUserID string,
) (map[string]struct{}, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&db.Interaction{}).
		Distinct("to_user_id").
		Where("from_user_id = ?", fromUserID).
		Pluck("to_user_id", &ids).Error
	if err != nil {
		return nil, err
	}

	targets := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		targets[id] = struct{}{}
	}
	return targets, nil
}
