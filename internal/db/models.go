package db

import (
	"time"
)

// Profile holds the matching-visible attributes of a user. Identity,
// credentials and media live with external collaborators; the engine only
// reads (and upserts) what the scorer and candidate cards need.
type Profile struct {
	ID            string            `gorm:"primaryKey;size:64" json:"id"`
	Name          string            `gorm:"size:128" json:"name,omitempty"`
	Age           int               `json:"age,omitempty"`
	Budget        float64           `gorm:"not null;default:0" json:"budget"`
	Location      string            `gorm:"size:128" json:"location,omitempty"`
	LeaseDuration string            `gorm:"size:64" json:"leaseDuration,omitempty"`
	Lifestyle     map[string]string `gorm:"serializer:json;type:text" json:"lifestylePreferences,omitempty"`
	University    string            `gorm:"size:128" json:"university,omitempty"`
	Interests     []string          `gorm:"serializer:json;type:text" json:"interests,omitempty"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"-"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"-"`
}

// InteractionKind is the action a user took on a candidate.
type InteractionKind string

const (
	KindLike InteractionKind = "like"
	KindPass InteractionKind = "pass"
)

// Interaction is one like/pass event from one user toward another.
//
// The table is append-only: every call records a new row, rows are never
// updated or deleted, and repeated identical events may accumulate. The
// composite index (from_user_id, to_user_id, kind) serves the reciprocity
// point lookup and the exclusion-set scan.
type Interaction struct {
	ID         uint64          `gorm:"primaryKey;autoIncrement"`
	FromUserID string          `gorm:"size:64;not null;index:idx_from_to_kind,priority:1"`
	ToUserID   string          `gorm:"size:64;not null;index:idx_from_to_kind,priority:2"`
	Kind       InteractionKind `gorm:"size:8;not null;index:idx_from_to_kind,priority:3"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
}

// MatchStatus is the lifecycle state of a match. Matches are created
// directly in StatusMatched and never transition out of it.
type MatchStatus string

const StatusMatched MatchStatus = "matched"

// Match records a mutual like between two users.
//
// PairKey is derived from the unordered pair of ids (see PairKey) and
// carries a unique index: the conditional insert against it is the only
// mechanism enforcing at-most-one match per pair, so two reciprocal likes
// racing from separate instances collapse into a single row.
//
// InitiatorID is the second liker (whose like completed the pair),
// RespondentID the first; Score is computed once, from the initiator's
// perspective, and never recomputed.
type Match struct {
	ID           uint64      `gorm:"primaryKey;autoIncrement"`
	PairKey      string      `gorm:"uniqueIndex;size:130;not null"`
	InitiatorID  string      `gorm:"size:64;not null;index"`
	RespondentID string      `gorm:"size:64;not null;index"`
	Score        int         `gorm:"not null"`
	Status       MatchStatus `gorm:"size:16;not null"`
	CreatedAt    time.Time   `gorm:"autoCreateTime"`
}

// PairKey builds the deterministic key for an unordered pair of user ids.
// Both orderings of the same two ids produce the same key.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "#" + b
}
