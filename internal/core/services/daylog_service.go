package services

import (
	"context"
	"time"

	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
	"github.com/comitanigiacomo/qada-ledger/internal/core/workers"
)

type DayLogService struct {
	repo   domain.DailyLogRepository
	worker *workers.StreakWorker
}

func NewDayLogService(repo domain.DailyLogRepository, worker *workers.StreakWorker) *DayLogService {
	return &DayLogService{
		repo:   repo,
		worker: worker,
	}
}

type SetDayInput struct {
	UserID string
	Date   time.Time
	Counts domain.PrayerCounts
	Notes  string
}

// GetOrCreate returns the log of the given calendar day. If the day has no log
// yet, a zero-valued one is created and created is true.
func (s *DayLogService) GetOrCreate(ctx context.Context, userID string, day time.Time) (*domain.DailyLog, bool, error) {
	if userID == "" {
		return nil, false, domain.ErrInvalidUserID
	}
	return s.repo.GetOrCreate(ctx, userID, normalizeDay(day))
}

// Increment only touches the log. Completions that must also pay back debt go
// through LedgerService.RecordCompletion.
func (s *DayLogService) Increment(ctx context.Context, userID string, day time.Time, p domain.PrayerType) (*domain.DailyLog, error) {
	if !p.Valid() {
		return nil, domain.ErrInvalidPrayerType
	}

	log, err := s.repo.Increment(ctx, userID, normalizeDay(day), p)
	if err != nil {
		return nil, err
	}

	s.worker.Enqueue(userID)
	return log, nil
}

func (s *DayLogService) Set(ctx context.Context, input SetDayInput) (*domain.DailyLog, error) {
	// Rejected input must not leave a freshly created day behind.
	if _, err := domain.ValidateDayInput(input.Counts, input.Notes); err != nil {
		return nil, err
	}

	log, _, err := s.repo.GetOrCreate(ctx, input.UserID, normalizeDay(input.Date))
	if err != nil {
		return nil, err
	}

	if err := log.SetCounts(input.Counts, input.Notes); err != nil {
		return nil, err
	}

	if err := s.repo.Set(ctx, log); err != nil {
		return nil, err
	}

	s.worker.Enqueue(input.UserID)
	return log, nil
}

func (s *DayLogService) ListRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.DailyLog, error) {
	from, to = normalizeDay(from), normalizeDay(to)
	if to.Before(from) {
		return nil, domain.ErrInvalidDateRange
	}
	return s.repo.ListByUserIDAndDateRange(ctx, userID, from, to)
}

func normalizeDay(day time.Time) time.Time {
	return domain.CalendarDay(day, day.Location())
}
