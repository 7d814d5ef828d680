package profile

import (
	"context"
	"strings"

	"github.com/roomiapp/roomi-engine/internal/app"
	"github.com/roomiapp/roomi-engine/internal/db"
	svcErr "github.com/roomiapp/roomi-engine/internal/errors"
	"github.com/roomiapp/roomi-engine/internal/prefs"
	"github.com/roomiapp/roomi-engine/internal/repository"
)

// Service manages the matching-visible slice of user profiles: the
// fields the scorer reads plus the display metadata candidate cards
// carry. Everything else about a user belongs to external collaborators.
type Service struct {
	appCtx   *app.AppContext
	profiles *repository.ProfileRepository
}

// NewProfileService creates a new profile service with dependencies from
// AppContext.
func NewProfileService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		profiles: repository.NewProfileRepository(appCtx.DB),
	}
}

// GetProfile fetches a profile by id, NotFound when unknown.
func (s *Service) GetProfile(ctx context.Context, userID string) (*db.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, svcErr.InvalidArgument("userId is required")
	}
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return p, nil
}

// UpsertProfile creates or replaces the profile's matching-visible
// fields. Budget may not be negative.
func (s *Service) UpsertProfile(ctx context.Context, p *db.Profile) error {
	s.appCtx.Logger.Debug("UpsertProfile called", "user", p.ID)

	if strings.TrimSpace(p.ID) == "" {
		return svcErr.InvalidArgument("profile id is required")
	}
	if p.Budget < 0 {
		return svcErr.InvalidArgument("budget must not be negative")
	}

	if err := s.profiles.Upsert(ctx, p); err != nil {
		s.appCtx.Logger.Error("profile upsert failed", "user", p.ID, "err", err)
		return svcErr.Map(err)
	}
	return nil
}

// ApplyPreferences extracts structured preferences from free text and
// merges them into an existing profile.
//
// Behavior:
//   - Fails NotFound when the profile does not exist yet; extraction
//     never creates users.
//   - Only fields the text actually mentioned are overwritten; lifestyle
//     keys merge per key, untouched keys survive.
//   - Returns the extracted record so callers can show what was heard.
func (s *Service) ApplyPreferences(ctx context.Context, userID, text string) (*prefs.Extracted, error) {
	s.appCtx.Logger.Debug("ApplyPreferences called", "user", userID)

	if strings.TrimSpace(userID) == "" {
		return nil, svcErr.InvalidArgument("userId is required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, svcErr.InvalidArgument("text is required")
	}

	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	extracted := prefs.Extract(text)

	if extracted.Budget != nil {
		p.Budget = *extracted.Budget
	}
	if extracted.Location != "" {
		p.Location = extracted.Location
	}
	if extracted.Age != nil {
		p.Age = *extracted.Age
	}
	if extracted.University != "" {
		p.University = extracted.University
	}
	if len(extracted.Lifestyle) > 0 {
		if p.Lifestyle == nil {
			p.Lifestyle = map[string]string{}
		}
		for k, v := range extracted.Lifestyle {
			p.Lifestyle[k] = v
		}
	}
	if len(extracted.Interests) > 0 {
		p.Interests = mergeInterests(p.Interests, extracted.Interests)
	}

	if err := s.profiles.Upsert(ctx, p); err != nil {
		s.appCtx.Logger.Error("preference merge failed", "user", userID, "err", err)
		return nil, svcErr.Map(err)
	}

	return &extracted, nil
}

// mergeInterests unions the two lists, keeping existing order first.
func mergeInterests(existing, added []string) []string {
	seen := make(map[string]struct{}, len(existing))
	out := make([]string, 0, len(existing)+len(added))
	for _, i := range existing {
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	for _, i := range added {
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	return out
}
