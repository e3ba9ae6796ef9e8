package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/qada-ledger/internal/adapters/cache"
	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
)

func TestCachedProfileRepository_Integration(t *testing.T) {
	rdb, err := cache.NewRedisClient(cache.Options{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       2,
	})
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	defer rdb.Close()

	ctx := context.Background()
	require.NoError(t, rdb.FlushDB(ctx).Err())

	store := NewMemoryStore()
	profileCache := cache.NewProfileCache(rdb, time.Minute)
	repo := NewCachedProfileRepository(store.Profiles(), profileCache, zap.NewNop())

	profile, err := domain.NewUserProfile(domain.GenderMale, 5, "UTC")
	require.NoError(t, err)
	debt, err := domain.NewPrayerDebt(profile.ID, domain.UniformCounts(3))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, profile, debt))

	t.Run("Miss populates the cache", func(t *testing.T) {
		_, err := profileCache.Get(ctx, profile.ID)
		require.ErrorIs(t, err, cache.ErrCacheMiss)

		got, err := repo.GetByID(ctx, profile.ID)
		require.NoError(t, err)
		assert.Equal(t, profile.ID, got.ID)

		cached, err := profileCache.Get(ctx, profile.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, cached.DailyGoal)
	})

	t.Run("Streak update invalidates", func(t *testing.T) {
		require.NoError(t, repo.UpdateStreaks(ctx, profile.ID, 2, 4))

		_, err := profileCache.Get(ctx, profile.ID)
		assert.ErrorIs(t, err, cache.ErrCacheMiss)

		got, err := repo.GetByID(ctx, profile.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Streak)
		assert.Equal(t, 4, got.LongestStreak)
	})

	t.Run("Delete invalidates and reports not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, profile.ID)
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, profile.ID))

		_, err = repo.GetByID(ctx, profile.ID)
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})
}
