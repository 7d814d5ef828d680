package match

import (
	"context"
	"strconv"
	"strings"

	"github.com/roomiapp/roomi-engine/internal/app"
	"github.com/roomiapp/roomi-engine/internal/db"
	svcErr "github.com/roomiapp/roomi-engine/internal/errors"
	"github.com/roomiapp/roomi-engine/internal/repository"
	"github.com/roomiapp/roomi-engine/internal/scoring"
)

const maxUserIDLen = 64

// Service coordinates like/pass recording, reciprocity detection and
// idempotent match creation.
type Service struct {
	appCtx       *app.AppContext
	profiles     *repository.ProfileRepository
	interactions *repository.InteractionRepository
	matches      *repository.MatchRepository
	scorer       *scoring.Scorer
}

// NewMatchService creates a new match service with dependencies from
// AppContext.
func NewMatchService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:       appCtx,
		profiles:     repository.NewProfileRepository(appCtx.DB),
		interactions: repository.NewInteractionRepository(appCtx.DB),
		matches:      repository.NewMatchRepository(appCtx.DB),
		scorer:       scoring.NewScorer(scoring.DefaultWeights()),
	}
}

// LikeResult reports whether a like completed a match.
type LikeResult struct {
	Matched bool `json:"matched"`
	Score   int  `json:"score,omitempty"`
}

// LikeUser records a like from -> to and creates a match when the like
// is reciprocal.
//
// Behavior:
//   - Fails InvalidArgument on empty/oversized ids or from == to.
//   - Always appends a Like event first; the event stays recorded even
//     if the later steps fail, so retries are safe.
//   - On reciprocity, scores the pair from this caller's perspective and
//     performs a conditional insert keyed by the unordered pair. A lost
//     race or an already-matched pair returns the existing match's score
//     instead of an error.
//
// Example:
//
//	svc.LikeUser(ctx, "alice", "bob")
func (s *Service) LikeUser(ctx context.Context, fromUserID, toUserID string) (*LikeResult, error) {
	s.appCtx.Logger.Debug("LikeUser called", "from", fromUserID, "to", toUserID)

	if err := validatePair(fromUserID, toUserID); err != nil {
		return nil, err
	}

	if err := s.interactions.Append(ctx, fromUserID, toUserID, db.KindLike); err != nil {
		s.appCtx.Logger.Error("like append failed", "err", err)
		return nil, svcErr.Map(err)
	}

	// reciprocity: has the counterpart already liked us?
	reciprocal, err := s.interactions.ExistsLike(ctx, toUserID, fromUserID)
	if err != nil {
		s.appCtx.Logger.Error("reciprocity lookup failed", "err", err)
		return nil, svcErr.Map(err)
	}
	if !reciprocal {
		return &LikeResult{Matched: false}, nil
	}

	fromProfile, err := s.profiles.Get(ctx, fromUserID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	toProfile, err := s.profiles.Get(ctx, toUserID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	// The liker whose action completed the pair is the initiator; the
	// score is computed once, from their perspective.
	match := &db.Match{
		PairKey:      db.PairKey(fromUserID, toUserID),
		InitiatorID:  fromUserID,
		RespondentID: toUserID,
		Score:        s.scorer.Score(fromProfile, toProfile),
		Status:       db.StatusMatched,
	}

	created, record, err := s.matches.CreateIfAbsent(ctx, match)
	if err != nil {
		s.appCtx.Logger.Error("match create failed", "pair", match.PairKey, "err", err)
		return nil, svcErr.Map(err)
	}

	if created {
		s.appCtx.Logger.Info("match created", "pair", record.PairKey, "score", record.Score)
		// advisory counters, DB remains the source of truth
		_, _ = s.appCtx.RedisCache.Incr(ctx, s.appCtx.RedisCache.KeyForMatchCount(fromUserID))
		_, _ = s.appCtx.RedisCache.Incr(ctx, s.appCtx.RedisCache.KeyForMatchCount(toUserID))
	}

	return &LikeResult{Matched: true, Score: record.Score}, nil
}

// PassUser records a pass from -> to.
//
// Behavior:
//   - Same id validation as LikeUser.
//   - Appends a Pass event; passes only feed the exclusion set and never
//     consult or affect match state.
func (s *Service) PassUser(ctx context.Context, fromUserID, toUserID string) error {
	s.appCtx.Logger.Debug("PassUser called", "from", fromUserID, "to", toUserID)

	if err := validatePair(fromUserID, toUserID); err != nil {
		return err
	}

	if err := s.interactions.Append(ctx, fromUserID, toUserID, db.KindPass); err != nil {
		s.appCtx.Logger.Error("pass append failed", "err", err)
		return svcErr.Map(err)
	}
	return nil
}

// MatchEntry is one match as presented to its member.
type MatchEntry struct {
	ID           string `json:"id"`
	InitiatorID  string `json:"initiatorId"`
	RespondentID string `json:"respondentId"`
	Score        int    `json:"score"`
	Status       string `json:"status"`
	CreatedAtMs  int64  `json:"createdAt"`
}

// ListMatches returns the user's matches newest first with cursor
// pagination.
func (s *Service) ListMatches(ctx context.Context, userID string, paginationToken *string, limit int) ([]MatchEntry, *string, error) {
	s.appCtx.Logger.Debug("ListMatches called", "user", userID)

	if strings.TrimSpace(userID) == "" {
		return nil, nil, svcErr.InvalidArgument("userId is required")
	}
	if limit <= 0 {
		limit = s.appCtx.Config.Matching.DefaultLimit
	}

	matches, nextToken, err := s.matches.ListForUser(ctx, userID, paginationToken, limit)
	if err != nil {
		if strings.Contains(err.Error(), "invalid pagination token") {
			return nil, nil, svcErr.InvalidArgument(err.Error())
		}
		s.appCtx.Logger.Error("ListForUser failed", "err", err)
		return nil, nil, svcErr.Map(err)
	}

	entries := make([]MatchEntry, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, MatchEntry{
			ID:           strconv.FormatUint(m.ID, 10),
			InitiatorID:  m.InitiatorID,
			RespondentID: m.RespondentID,
			Score:        m.Score,
			Status:       string(m.Status),
			CreatedAtMs:  m.CreatedAt.UnixMilli(),
		})
	}
	return entries, nextToken, nil
}

// CountMatches returns how many matches the user has.
// Cache-first strategy:
//  1. Attempts to read from Redis (matches:count:userID).
//  2. On cache miss, falls back to DB via repository.CountForUser.
//  3. On DB fetch, updates Redis with a 1h TTL.
func (s *Service) CountMatches(ctx context.Context, userID string) (int64, error) {
	s.appCtx.Logger.Debug("CountMatches called", "user", userID)

	if strings.TrimSpace(userID) == "" {
		return 0, svcErr.InvalidArgument("userId is required")
	}

	if n, ok, _ := s.appCtx.RedisCache.GetMatchCount(ctx, userID); ok {
		return n, nil
	}

	// fallback: DB
	count, err := s.matches.CountForUser(ctx, userID)
	if err != nil {
		return 0, svcErr.Map(err)
	}

	// set + TTL refresh
	_ = s.appCtx.RedisCache.UpdateMatchCount(ctx, userID, count)

	return count, nil
}

// validatePair rejects malformed or self-referential id pairs.
func validatePair(from, to string) error {
	if !validUserID(from) {
		return svcErr.InvalidArgument("fromUserId must be a non-empty id")
	}
	if !validUserID(to) {
		return svcErr.InvalidArgument("toUserId must be a non-empty id")
	}
	if from == to {
		return svcErr.InvalidArgument("cannot act on yourself")
	}
	return nil
}

func validUserID(id string) bool {
	if id == "" || len(id) > maxUserIDLen {
		return false
	}
	return strings.TrimSpace(id) == id
}
