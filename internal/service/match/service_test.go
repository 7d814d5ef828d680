package match_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
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
	"github.com/roomiapp/roomi-engine/internal/service/match"
)

// setupService spins up an in-memory SQLite DB, applies migrations,
// seeds the minimal dataset, starts a miniredis, and wires everything
// into a match service.
func setupService(t *testing.T) (*match.Service, *app.AppContext) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	// shared-cache sqlite returns "table is locked" under parallel
	// writers; one connection serializes them
	sqlDB.SetMaxOpenConns(1)
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
	return match.NewMatchService(appCtx), appCtx
}

func matchCount(t *testing.T, gdb *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, gdb.Model(&db.Match{}).Count(&count).Error)
	return count
}

// TestLikeWithoutReciprocity: carol's like of alice in the seed is
// one-way; a fresh one-way like creates no match.
func TestLikeWithoutReciprocity(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)

	res, err := svc.LikeUser(ctx, "bob", "carol")
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Equal(t, int64(0), matchCount(t, appCtx.DB))
}

// TestLikeCompletesMatch: alice already liked bob in the seed, so bob's
// like is reciprocal and creates the match with the worked-example score.
func TestLikeCompletesMatch(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)

	res, err := svc.LikeUser(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Equal(t, 84, res.Score)

	require.Equal(t, int64(1), matchCount(t, appCtx.DB))

	var m db.Match
	require.NoError(t, appCtx.DB.First(&m).Error)
	assert.Equal(t, db.PairKey("alice", "bob"), m.PairKey)
	assert.Equal(t, "bob", m.InitiatorID) // the second liker
	assert.Equal(t, "alice", m.RespondentID)
	assert.Equal(t, db.StatusMatched, m.Status)
}

// TestRepeatedLikesCreateOneMatch hammers both directions: events
// accumulate but the pair ends up with exactly one match, and every call
// after the first reports the original score.
func TestRepeatedLikesCreateOneMatch(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)

	first, err := svc.LikeUser(ctx, "bob", "alice")
	require.NoError(t, err)
	require.True(t, first.Matched)

	for i := 0; i < 3; i++ {
		res, err := svc.LikeUser(ctx, "alice", "bob")
		require.NoError(t, err)
		assert.True(t, res.Matched)
		assert.Equal(t, first.Score, res.Score)

		res, err = svc.LikeUser(ctx, "bob", "alice")
		require.NoError(t, err)
		assert.True(t, res.Matched)
		assert.Equal(t, first.Score, res.Score)
	}

	assert.Equal(t, int64(1), matchCount(t, appCtx.DB))

	// the history kept every event
	var events int64
	require.NoError(t, appCtx.DB.Model(&db.Interaction{}).
		Where("kind = ?", db.KindLike).Count(&events).Error)
	assert.Equal(t, int64(9), events) // 2 seeded + 7 recorded here
}

// TestConcurrentReciprocalLikes runs both sides' likes in parallel; the
// pair-key conditional insert must collapse them into one match.
func TestConcurrentReciprocalLikes(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.LikeUser(ctx, "bob", "alice")
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.LikeUser(ctx, "alice", "bob")
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), matchCount(t, appCtx.DB))
}

func TestLikeValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, err := svc.LikeUser(ctx, "alice", "alice")
	require.Error(t, err)
	assert.True(t, svcErr.IsCode(err, svcErr.CodeInvalidArgument))

	_, err = svc.LikeUser(ctx, "", "bob")
	assert.True(t, svcErr.IsCode(err, svcErr.CodeInvalidArgument))

	_, err = svc.LikeUser(ctx, "alice", "")
	assert.True(t, svcErr.IsCode(err, svcErr.CodeInvalidArgument))

	_, err = svc.LikeUser(ctx, "alice", " padded ")
	assert.True(t, svcErr.IsCode(err, svcErr.CodeInvalidArgument))
}

// TestPassRecordsEventOnly: a pass lands in the ledger, never touches
// match state, and doesn't stop the other party from liking the passer.
func TestPassRecordsEventOnly(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)

	require.NoError(t, svc.PassUser(ctx, "bob", "carol"))
	assert.Equal(t, int64(0), matchCount(t, appCtx.DB))

	var count int64
	require.NoError(t, appCtx.DB.Model(&db.Interaction{}).
		Where("from_user_id = ? AND kind = ?", "bob", db.KindPass).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// carol can still like bob afterwards
	res, err := svc.LikeUser(ctx, "carol", "bob")
	require.NoError(t, err)
	assert.False(t, res.Matched)

	require.Error(t, svc.PassUser(ctx, "bob", "bob"))
}

func TestListMatchesForBothMembers(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	res, err := svc.LikeUser(ctx, "bob", "alice")
	require.NoError(t, err)
	require.True(t, res.Matched)

	for _, user := range []string{"alice", "bob"} {
		entries, nextToken, err := svc.ListMatches(ctx, user, nil, 20)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Nil(t, nextToken)
		assert.Equal(t, "bob", entries[0].InitiatorID)
		assert.Equal(t, "alice", entries[0].RespondentID)
		assert.Equal(t, res.Score, entries[0].Score)
	}

	entries, _, err := svc.ListMatches(ctx, "carol", nil, 20)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// TestCountMatchesCache verifies counts with cache.
func TestCountMatchesCache(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	// First call → DB (zero matches yet), cached afterwards
	count, err := svc.CountMatches(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	res, err := svc.LikeUser(ctx, "bob", "alice")
	require.NoError(t, err)
	require.True(t, res.Matched)

	// match creation bumped both members' counters
	count, err = svc.CountMatches(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Second call → cache
	count, err = svc.CountMatches(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
