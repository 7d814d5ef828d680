package discovery

import (
	"context"
	"sort"

	"github.com/roomiapp/roomi-engine/internal/app"
	"github.com/roomiapp/roomi-engine/internal/db"
	svcErr "github.com/roomiapp/roomi-engine/internal/errors"
	"github.com/roomiapp/roomi-engine/internal/repository"
	"github.com/roomiapp/roomi-engine/internal/scoring"
)

// Service implements candidate ranking: it combines the profile store,
// the interaction ledger and the compatibility scorer into a per-request
// ranked candidate list.
type Service struct {
	appCtx       *app.AppContext
	profiles     *repository.ProfileRepository
	interactions *repository.InteractionRepository
	scorer       *scoring.Scorer
}

// NewDiscoveryService creates a new discovery service with dependencies
// from AppContext.
func NewDiscoveryService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:       appCtx,
		profiles:     repository.NewProfileRepository(appCtx.DB),
		interactions: repository.NewInteractionRepository(appCtx.DB),
		scorer:       scoring.NewScorer(scoring.DefaultWeights()),
	}
}

// Candidate is one ranked entry returned to the requester.
type Candidate struct {
	ID      string     `json:"id"`
	Score   int        `json:"score"`
	Profile db.Profile `json:"profile"`
}

// GetTopCandidates returns the best-scoring candidates for the requester.
//
// Behavior:
//   - Fails NotFound when the requester has no profile.
//   - limit ≤ 0 falls back to the configured default (20), then clamps to
//     [1, MaxLimit].
//   - Excludes the requester and every id they previously liked or
//     passed, whatever the kind.
//   - Scans a bounded pool (Matching.CandidatePoolSize) rather than the
//     whole store: results are the best of the scanned pool.
//   - Sorted descending by score; ties keep the pool's scan order.
//
// Example:
//
//	svc.GetTopCandidates(ctx, "alice", 20)
func (s *Service) GetTopCandidates(ctx context.Context, userID string, limit int) ([]Candidate, error) {
	s.appCtx.Logger.Debug("GetTopCandidates called", "user", userID, "limit", limit)

	limit = s.normalizeLimit(limit)

	requester, err := s.profiles.Get(ctx, userID)
	if err != nil {
		s.appCtx.Logger.Error("requester lookup failed", "user", userID, "err", err)
		return nil, svcErr.Map(err)
	}

	excluded, err := s.interactions.ListTargets(ctx, userID)
	if err != nil {
		s.appCtx.Logger.Error("ListTargets failed", "err", err)
		return nil, svcErr.Map(err)
	}

	pool, err := s.profiles.Scan(ctx, s.appCtx.Config.Matching.CandidatePoolSize)
	if err != nil {
		s.appCtx.Logger.Error("pool scan failed", "err", err)
		return nil, svcErr.Map(err)
	}

	candidates := make([]Candidate, 0, len(pool))
	for i := range pool {
		p := pool[i]
		if p.ID == userID {
			continue
		}
		if _, acted := excluded[p.ID]; acted {
			continue
		}
		candidates = append(candidates, Candidate{
			ID:      p.ID,
			Score:   s.scorer.Score(requester, &p),
			Profile: p,
		})
	}

	// stable: ties keep scan order within this call
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	s.appCtx.Logger.Debug("GetTopCandidates result", "user", userID, "count", len(candidates))

	return candidates, nil
}

// normalizeLimit applies the default for unusable values and clamps to
// the configured ceiling.
func (s *Service) normalizeLimit(limit int) int {
	m := s.appCtx.Config.Matching
	if limit <= 0 {
		limit = m.DefaultLimit
	}
	if limit > m.MaxLimit {
		limit = m.MaxLimit
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}
