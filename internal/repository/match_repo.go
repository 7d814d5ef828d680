package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/roomiapp/roomi-engine/internal/db"
	"github.com/roomiapp/roomi-engine/internal/utils/pagination"
)

// MatchRepository provides data access methods for the Match model.
// Matches are immutable once created; the only write path is the
// conditional insert keyed by the unordered pair.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// CreateIfAbsent inserts the match unless a row with the same pair_key
// already exists.
//
// Behavior:
//   - Relies on the unique index on pair_key plus an ON CONFLICT DO
//     NOTHING insert, so concurrent reciprocal likes from independent
//     instances collapse into exactly one row. No in-process locking.
//   - Returns (true, inserted) when this call created the row.
//   - Returns (false, existing) when another call won the race or the
//     pair was already matched; the caller reports the existing score.
//
// Example:
//
//	created, rec, err := repo.CreateIfAbsent(ctx, &db.Match{PairKey: db.PairKey("a", "b"), ...})
func (r *MatchRepository) CreateIfAbsent(
	ctx context.Context,
	match *db.Match,
) (bool, *db.Match, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pair_key"}},
			DoNothing: true,
		}).
		Create(match)
	if res.Error != nil {
		return false, nil, res.Error
	}
	if res.RowsAffected > 0 {
		return true, match, nil
	}

	// Conflict: fetch the row that won.
	var existing db.Match
	if err := r.db.WithContext(ctx).
		First(&existing, "pair_key = ?", match.PairKey).Error; err != nil {
		return false, nil, err
	}
	return false, &existing, nil
}

// GetByPair fetches the match for an unordered pair of ids, if any.
func (r *MatchRepository) GetByPair(ctx context.Context, a, b string) (*db.Match, error) {
	var m db.Match
	if err := r.db.WithContext(ctx).
		First(&m, "pair_key = ?", db.PairKey(a, b)).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListForUser returns the user's matches, newest first.
//
// Behavior:
//   - A match lists for both members of the pair.
//   - Ordered by created_at DESC, id DESC.
//   - Supports cursor-based pagination via paginationToken.
//
// Example:
//
//	repo.ListForUser(ctx, "alice", nil, 20) // first 20 matches for alice
func (r *MatchRepository) ListForUser(
	ctx context.Context,
	userID string,
	paginationToken *string,
	limit int,
) ([]db.Match, *string, error) {
	var matches []db.Match

	// decode cursor if provided
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("initiator_id = ? OR respondent_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	// apply cursor
	if cursor.MatchID > 0 && cursor.CreatedUnix > 0 {
		ts := time.UnixMilli(cursor.CreatedUnix)
		query = query.Where(
			"(created_at < ? OR (created_at = ? AND id < ?))",
			ts, ts, cursor.MatchID,
		)
	}

	if err := query.Find(&matches).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(matches) > limit {
		last := matches[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			MatchID:     last.ID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		matches = matches[:limit]
	}

	return matches, nextToken, nil
}

// CountForUser returns how many matches the user participates in.
// Used in conjunction with the Redis cache (DB is fallback).
func (r *MatchRepository) CountForUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("initiator_id = ? OR respondent_id = ?", userID, userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
