package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/qada-ledger/internal/adapters/cache"
	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
	"github.com/comitanigiacomo/qada-ledger/internal/metrics"
)

var _ domain.ProfileRepository = (*CachedProfileRepository)(nil)

// CachedProfileRepository serves GetByID from redis. Debt and logs are never
// cached; every write to the profile drops its entry.
type CachedProfileRepository struct {
	next   domain.ProfileRepository
	cache  *cache.ProfileCache
	logger *zap.Logger
}

func NewCachedProfileRepository(next domain.ProfileRepository, c *cache.ProfileCache, logger *zap.Logger) *CachedProfileRepository {
	return &CachedProfileRepository{
		next:   next,
		cache:  c,
		logger: logger,
	}
}

func (r *CachedProfileRepository) invalidate(ctx context.Context, id string) {
	if err := r.cache.Invalidate(ctx, id); err != nil {
		r.logger.Warn("Failed to invalidate profile cache", zap.String("user_id", id), zap.Error(err))
	}
}

func (r *CachedProfileRepository) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	profile, err := r.cache.Get(ctx, id)
	if err == nil {
		metrics.IncrementCacheLookup(true)
		return profile, nil
	}
	metrics.IncrementCacheLookup(false)
	if !errors.Is(err, cache.ErrCacheMiss) {
		r.logger.Warn("Profile cache read error", zap.Error(err))
	}

	profile, err = r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if setErr := r.cache.Set(ctx, profile); setErr != nil {
		r.logger.Warn("Profile cache set error", zap.Error(setErr))
	}
	return profile, nil
}

func (r *CachedProfileRepository) Create(ctx context.Context, profile *domain.UserProfile, debt *domain.PrayerDebt) error {
	return r.next.Create(ctx, profile, debt)
}

func (r *CachedProfileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	if err := r.next.Update(ctx, profile); err != nil {
		return err
	}
	r.invalidate(ctx, profile.ID)
	return nil
}

func (r *CachedProfileRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	if err := r.next.UpdateStreaks(ctx, id, current, longest); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedProfileRepository) Delete(ctx context.Context, id string) error {
	defer r.invalidate(ctx, id)
	return r.next.Delete(ctx, id)
}
