package profile_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/roomiapp/roomi-engine/internal/app"
	"github.com/roomiapp/roomi-engine/internal/cache"
	"github.com/roomiapp/roomi-engine/internal/config"
	"github.com/roomiapp/roomi-engine/internal/db"
	svcErr "github.com/roomiapp/roomi-engine/internal/errors"
	"github.com/roomiapp/roomi-engine/internal/service/profile"
)

func setupService(t *testing.T) *profile.Service {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, dbase.AutoMigrate(&db.Profile{}, &db.Interaction{}, &db.Match{}))
	require.NoError(t, db.SeedMinimalTestData(dbase))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	appCtx := app.New(cfg, dbase, redisCache, logger)
	return profile.NewProfileService(appCtx)
}

func TestUpsertAndGet(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	p := &db.Profile{
		ID:            "dave",
		Name:          "Dave",
		Age:           22,
		Budget:        850,
		Location:      "Ann Arbor",
		LeaseDuration: "12 months",
		Lifestyle:     map[string]string{"noise": "quiet", "pets": "none"},
		Interests:     []string{"cooking"},
	}
	require.NoError(t, svc.UpsertProfile(ctx, p))

	got, err := svc.GetProfile(ctx, "dave")
	require.NoError(t, err)
	assert.Equal(t, "Dave", got.Name)
	assert.Equal(t, 850.0, got.Budget)
	assert.Equal(t, map[string]string{"noise": "quiet", "pets": "none"}, got.Lifestyle)
	assert.Equal(t, []string{"cooking"}, got.Interests)

	// second upsert replaces fields
	p.Budget = 900
	require.NoError(t, svc.UpsertProfile(ctx, p))
	got, err = svc.GetProfile(ctx, "dave")
	require.NoError(t, err)
	assert.Equal(t, 900.0, got.Budget)
}

func TestUpsertValidation(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	err := svc.UpsertProfile(ctx, &db.Profile{ID: ""})
	assert.True(t, svcErr.IsCode(err, svcErr.CodeInvalidArgument))

	err = svc.UpsertProfile(ctx, &db.Profile{ID: "dave", Budget: -100})
	assert.True(t, svcErr.IsCode(err, svcErr.CodeInvalidArgument))
}

func TestGetUnknownProfile(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	_, err := svc.GetProfile(ctx, "nobody")
	require.Error(t, err)
	assert.True(t, svcErr.IsCode(err, svcErr.CodeNotFound))
}

// TestApplyPreferences merges extracted fields into the profile without
// clobbering what the text didn't mention.
func TestApplyPreferences(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	extracted, err := svc.ApplyPreferences(ctx, "alice",
		"no pets please, budget $800 per month, I love cooking")
	require.NoError(t, err)
	require.NotNil(t, extracted.Budget)
	assert.Equal(t, 800.0, *extracted.Budget)
	assert.Equal(t, "none", extracted.Lifestyle["pets"])

	got, err := svc.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 800.0, got.Budget)
	assert.Equal(t, "none", got.Lifestyle["pets"])
	// pre-existing lifestyle key survives the merge
	assert.Equal(t, "quiet", got.Lifestyle["noise"])
	// untouched fields survive
	assert.Equal(t, "UM", got.Location)
	assert.Contains(t, got.Interests, "cooking")
}

func TestApplyPreferencesUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	_, err := svc.ApplyPreferences(ctx, "nobody", "no pets")
	assert.True(t, svcErr.IsCode(err, svcErr.CodeNotFound))

	_, err = svc.ApplyPreferences(ctx, "alice", "  ")
	assert.True(t, svcErr.IsCode(err, svcErr.CodeInvalidArgument))
}
