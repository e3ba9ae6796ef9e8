package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"

	_ "github.com/lib/pq"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupTestDB(t *testing.T) *sqlx.DB {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("DB_USER", "qada_user"),
		getEnv("DB_PASSWORD", "secret"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "qada_db"),
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("Skipping integration tests: database connection failed: %v", err)
	}

	require.NoError(t, Migrate(context.Background(), db))
	cleanup(t, db)
	return db
}

func cleanup(t *testing.T, db *sqlx.DB) {
	_, err := db.Exec("TRUNCATE TABLE daily_logs, prayer_debts, user_profiles CASCADE")
	require.NoError(t, err, "Failed to clean up database")
}

func seedPostgres(t *testing.T, db *sqlx.DB, owed domain.PrayerCounts) *domain.UserProfile {
	t.Helper()
	profile, err := domain.NewUserProfile(domain.GenderFemale, 5, "Asia/Tokyo")
	require.NoError(t, err)
	debt, err := domain.NewPrayerDebt(profile.ID, owed)
	require.NoError(t, err)

	require.NoError(t, NewPostgresProfileRepository(db).Create(context.Background(), profile, debt))
	return profile
}

func TestPostgresProfileRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	defer cleanup(t, db)

	repo := NewPostgresProfileRepository(db)
	ctx := context.Background()

	t.Run("Success: Create and Get", func(t *testing.T) {
		profile := seedPostgres(t, db, domain.UniformCounts(4))

		got, err := repo.GetByID(ctx, profile.ID)
		require.NoError(t, err)
		assert.Equal(t, "Asia/Tokyo", got.Timezone)
		assert.Equal(t, domain.GenderFemale, got.Gender)
	})

	t.Run("Fail: Get unknown profile", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})

	t.Run("Success: Update settings and streaks", func(t *testing.T) {
		profile := seedPostgres(t, db, domain.UniformCounts(1))
		require.NoError(t, profile.Update(3, "Europe/Rome"))
		require.NoError(t, repo.Update(ctx, profile))
		require.NoError(t, repo.UpdateStreaks(ctx, profile.ID, 2, 9))

		got, err := repo.GetByID(ctx, profile.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.DailyGoal)
		assert.Equal(t, "Europe/Rome", got.Timezone)
		assert.Equal(t, 2, got.Streak)
		assert.Equal(t, 9, got.LongestStreak)
	})

	t.Run("Success: Delete cascades", func(t *testing.T) {
		profile := seedPostgres(t, db, domain.UniformCounts(1))
		_, _, err := NewPostgresDailyLogRepository(db).GetOrCreate(ctx, profile.ID, memDay)
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, profile.ID))

		var count int
		require.NoError(t, db.Get(&count, "SELECT count(*) FROM daily_logs WHERE user_id = $1", profile.ID))
		assert.Equal(t, 0, count)
		_, err = NewPostgresLedgerRepository(db).GetByUserID(ctx, profile.ID)
		assert.ErrorIs(t, err, domain.ErrDebtNotFound)
	})
}

func TestPostgresLedgerRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	defer cleanup(t, db)

	repo := NewPostgresLedgerRepository(db)
	ctx := context.Background()

	t.Run("Success: ApplyCompletion", func(t *testing.T) {
		profile := seedPostgres(t, db, domain.PrayerCounts{Fajr: 2})

		debt, log, err := repo.ApplyCompletion(ctx, profile.ID, memDay, completeFajr)
		require.NoError(t, err)
		assert.Equal(t, 1, debt.Owed.Fajr)
		assert.Equal(t, 2, debt.Version)
		assert.Equal(t, 1, log.Counts.Fajr)
		assert.True(t, log.Date.Equal(memDay))
	})

	t.Run("Edge Case: Nothing to log rolls back the new day", func(t *testing.T) {
		profile := seedPostgres(t, db, domain.PrayerCounts{Isha: 1})

		_, _, err := repo.ApplyCompletion(ctx, profile.ID, memDay, completeFajr)
		assert.ErrorIs(t, err, domain.ErrNothingToLog)

		_, err = NewPostgresDailyLogRepository(db).GetByDate(ctx, profile.ID, memDay)
		assert.ErrorIs(t, err, domain.ErrDayNotFound)
	})

	t.Run("Success: Concurrent completions never overdraw", func(t *testing.T) {
		profile := seedPostgres(t, db, domain.PrayerCounts{Fajr: 5})

		var wg sync.WaitGroup
		for i := 0; i < 12; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, _ = repo.ApplyCompletion(ctx, profile.ID, memDay, completeFajr)
			}()
		}
		wg.Wait()

		debt, err := repo.GetByUserID(ctx, profile.ID)
		require.NoError(t, err)
		log, err := NewPostgresDailyLogRepository(db).GetByDate(ctx, profile.ID, memDay)
		require.NoError(t, err)
		assert.Equal(t, 0, debt.Owed.Fajr)
		assert.Equal(t, 5, log.Counts.Fajr)
	})

	t.Run("Fail: Optimistic lock", func(t *testing.T) {
		profile := seedPostgres(t, db, domain.UniformCounts(1))

		fresh, _ := repo.GetByUserID(ctx, profile.ID)
		stale, _ := repo.GetByUserID(ctx, profile.ID)

		require.NoError(t, fresh.AdjustManually(domain.UniformCounts(3)))
		require.NoError(t, repo.Update(ctx, fresh))

		require.NoError(t, stale.AdjustManually(domain.UniformCounts(7)))
		assert.ErrorIs(t, repo.Update(ctx, stale), domain.ErrDebtConflict)
	})

	t.Run("Success: Snapshot", func(t *testing.T) {
		profile := seedPostgres(t, db, domain.UniformCounts(2))
		logs := NewPostgresDailyLogRepository(db)
		_, err := logs.Increment(ctx, profile.ID, memDay, domain.Asr)
		require.NoError(t, err)
		_, err = logs.Increment(ctx, profile.ID, memDay.AddDate(0, 0, -2), domain.Asr)
		require.NoError(t, err)

		snap, err := repo.Snapshot(ctx, profile.ID)
		require.NoError(t, err)
		assert.Equal(t, profile.ID, snap.Profile.ID)
		assert.Equal(t, 10, snap.Debt.TotalOwed())
		require.Len(t, snap.Logs, 2)
		assert.True(t, snap.Logs[0].Date.Before(snap.Logs[1].Date))
	})
}

func TestPostgresDailyLogRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	defer cleanup(t, db)

	repo := NewPostgresDailyLogRepository(db)
	ctx := context.Background()

	t.Run("Success: GetOrCreate reports creation once", func(t *testing.T) {
		profile := seedPostgres(t, db, domain.UniformCounts(1))

		first, created, err := repo.GetOrCreate(ctx, profile.ID, memDay)
		require.NoError(t, err)
		assert.True(t, created)

		second, created, err := repo.GetOrCreate(ctx, profile.ID, memDay)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("Fail: GetOrCreate for unknown profile", func(t *testing.T) {
		_, _, err := repo.GetOrCreate(ctx, "ghost", memDay)
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})

	t.Run("Success: Increment upserts", func(t *testing.T) {
		profile := seedPostgres(t, db, domain.UniformCounts(1))

		_, err := repo.Increment(ctx, profile.ID, memDay, domain.Maghrib)
		require.NoError(t, err)
		log, err := repo.Increment(ctx, profile.ID, memDay, domain.Maghrib)
		require.NoError(t, err)
		assert.Equal(t, 2, log.Counts.Maghrib)
	})

	t.Run("Success: Set and range listing", func(t *testing.T) {
		profile := seedPostgres(t, db, domain.UniformCounts(1))
		day := memDay.AddDate(0, 0, -1)

		log, _, err := repo.GetOrCreate(ctx, profile.ID, day)
		require.NoError(t, err)
		require.NoError(t, log.SetCounts(domain.UniformCounts(1), "all five"))
		log.UpdatedAt = time.Now().UTC()
		require.NoError(t, repo.Set(ctx, log))

		logs, err := repo.ListByUserIDAndDateRange(ctx, profile.ID, day, memDay)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, 5, logs[0].PrayersCompleted())
		assert.Equal(t, "all five", logs[0].Notes)
	})
}
