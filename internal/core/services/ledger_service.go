package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
	"github.com/comitanigiacomo/qada-ledger/internal/core/workers"
)

type LedgerService struct {
	ledger   domain.LedgerRepository
	profiles domain.ProfileRepository
	worker   *workers.StreakWorker
	events   domain.EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

func NewLedgerService(ledger domain.LedgerRepository, profiles domain.ProfileRepository, worker *workers.StreakWorker, events domain.EventPublisher, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		ledger:   ledger,
		profiles: profiles,
		worker:   worker,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the time source used to decide "today".
func (s *LedgerService) WithClock(now func() time.Time) *LedgerService {
	s.now = now
	return s
}

type RecordCompletionInput struct {
	UserID string
	Prayer domain.PrayerType
	// Date defaults to today in the profile's timezone.
	Date *time.Time
}

type CompletionResult struct {
	Recorded bool               `json:"recorded"`
	Message  string             `json:"message,omitempty"`
	Debt     *domain.PrayerDebt `json:"debt"`
	Day      *domain.DailyLog   `json:"day,omitempty"`
}

type AdjustLedgerInput struct {
	UserID    string
	Owed      domain.PrayerCounts
	Confirmed bool
	Version   int
}

type LedgerState struct {
	Owed         domain.PrayerCounts `json:"owed"`
	InitialOwed  domain.PrayerCounts `json:"initial_owed"`
	TotalOwed    int                 `json:"total_owed"`
	TotalInitial int                 `json:"total_initial"`
	TotalMadeUp  int                 `json:"total_made_up"`
	Version      int                 `json:"version"`
}

// RecordCompletion decrements the owed count of one prayer and increments the
// day's log as a single unit. When nothing of that type is owed the call is a
// no-op and Recorded is false.
func (s *LedgerService) RecordCompletion(ctx context.Context, input RecordCompletionInput) (*CompletionResult, error) {
	if !input.Prayer.Valid() {
		return nil, domain.ErrInvalidPrayerType
	}

	profile, err := s.profiles.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	day := profile.Today(s.now())
	if input.Date != nil {
		day = domain.CalendarDay(*input.Date, input.Date.Location())
	}

	debt, log, err := s.ledger.ApplyCompletion(ctx, input.UserID, day, func(debt *domain.PrayerDebt, log *domain.DailyLog) error {
		if err := debt.RecordCompletion(input.Prayer); err != nil {
			return err
		}
		return log.Increment(input.Prayer)
	})

	if errors.Is(err, domain.ErrNothingToLog) {
		current, getErr := s.ledger.GetByUserID(ctx, input.UserID)
		if getErr != nil {
			return nil, getErr
		}
		return &CompletionResult{
			Recorded: false,
			Message:  "nothing to log",
			Debt:     current,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ledger service: record completion: %w", err)
	}

	s.worker.Enqueue(input.UserID)

	publish(ctx, s.events, s.logger, domain.EventCompletionRecorded, domain.CompletionRecordedEvent{
		UserID:     input.UserID,
		Prayer:     input.Prayer,
		Date:       domain.DayKey(log.Date),
		OwedLeft:   debt.Owed.Get(input.Prayer),
		TotalOwed:  debt.TotalOwed(),
		OccurredAt: s.now().UTC(),
	})

	return &CompletionResult{
		Recorded: true,
		Debt:     debt,
		Day:      log,
	}, nil
}

// AdjustManually overwrites the owed counts. It is destructive relative to the
// completion history and therefore requires explicit confirmation.
func (s *LedgerService) AdjustManually(ctx context.Context, input AdjustLedgerInput) (*domain.PrayerDebt, error) {
	if !input.Confirmed {
		return nil, domain.ErrConfirmationRequired
	}

	debt, err := s.ledger.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && debt.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrDebtConflict, input.Version, debt.Version)
	}

	if err := debt.AdjustManually(input.Owed); err != nil {
		return nil, err
	}

	if err := s.ledger.Update(ctx, debt); err != nil {
		return nil, err
	}

	s.logger.Info("Ledger adjusted manually",
		zap.String("user_id", input.UserID),
		zap.Int("total_owed", debt.TotalOwed()),
	)

	publish(ctx, s.events, s.logger, domain.EventLedgerAdjusted, domain.LedgerAdjustedEvent{
		UserID:     input.UserID,
		Owed:       debt.Owed,
		OccurredAt: s.now().UTC(),
	})

	return debt, nil
}

func (s *LedgerService) State(ctx context.Context, userID string) (*LedgerState, error) {
	debt, err := s.ledger.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &LedgerState{
		Owed:         debt.Owed,
		InitialOwed:  debt.InitialOwed,
		TotalOwed:    debt.TotalOwed(),
		TotalInitial: debt.TotalInitial(),
		TotalMadeUp:  debt.TotalMadeUp(),
		Version:      debt.Version,
	}, nil
}
