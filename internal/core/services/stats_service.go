package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
)

type StatsService struct {
	ledger domain.LedgerRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewStatsService(ledger domain.LedgerRepository, logger *zap.Logger) *StatsService {
	return &StatsService{
		ledger: ledger,
		logger: logger,
		now:    time.Now,
	}
}

func (s *StatsService) WithClock(now func() time.Time) *StatsService {
	s.now = now
	return s
}

// Statistics recomputes every statistic from one consistent snapshot. Store
// failures are reported through an "unavailable" status, not an error; the
// only error returned is domain.ErrProfileNotFound.
func (s *StatsService) Statistics(ctx context.Context, userID string) (*domain.Statistics, error) {
	snap, err := s.ledger.Snapshot(ctx, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}
	if err != nil {
		s.logger.Error("Statistics snapshot failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return domain.UnavailableStatistics(userID), nil
	}

	today := snap.Profile.Today(s.now())
	return domain.BuildStatistics(snap, today), nil
}
