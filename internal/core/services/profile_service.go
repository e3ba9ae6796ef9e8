package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
)

type ProfileService struct {
	repo   domain.ProfileRepository
	events domain.EventPublisher
	logger *zap.Logger
}

func NewProfileService(repo domain.ProfileRepository, events domain.EventPublisher, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

type UpdateProfileInput struct {
	UserID    string
	DailyGoal int
	Timezone  string
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *ProfileService) Update(ctx context.Context, input UpdateProfileInput) (*domain.UserProfile, error) {
	profile, err := s.repo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := profile.Update(input.DailyGoal, input.Timezone); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// Wipe deletes the profile with its debt and daily logs.
func (s *ProfileService) Wipe(ctx context.Context, userID string, confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmationRequired
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("Profile data wiped", zap.String("user_id", userID))

	publish(ctx, s.events, s.logger, domain.EventProfileWiped, domain.ProfileEvent{
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}
