package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
)

type OnboardingService struct {
	profiles domain.ProfileRepository
	tokens   *TokenService
	events   domain.EventPublisher
	logger   *zap.Logger

	defaultTimezone string
}

func NewOnboardingService(profiles domain.ProfileRepository, tokens *TokenService, events domain.EventPublisher, logger *zap.Logger) *OnboardingService {
	return &OnboardingService{
		profiles: profiles,
		tokens:   tokens,
		events:   events,
		logger:   logger,
	}
}

// WithDefaultTimezone sets the timezone given to profiles onboarded without one.
func (s *OnboardingService) WithDefaultTimezone(tz string) *OnboardingService {
	s.defaultTimezone = tz
	return s
}

type CompleteOnboardingInput struct {
	Gender    domain.Gender
	DailyGoal int
	Timezone  string
	Estimate  domain.EstimateParams
}

type OnboardingResult struct {
	Profile  *domain.UserProfile `json:"profile"`
	Debt     *domain.PrayerDebt  `json:"debt"`
	Estimate *domain.Estimate    `json:"estimate"`
	Token    string              `json:"token"`
}

// Estimate previews the debt an onboarding input would produce without persisting anything.
func (s *OnboardingService) Estimate(params domain.EstimateParams) (*domain.Estimate, error) {
	return domain.EstimateDebt(params)
}

// Complete creates the profile, seeds its ledger from the estimate and issues
// the bearer token used by every other endpoint.
func (s *OnboardingService) Complete(ctx context.Context, input CompleteOnboardingInput) (*OnboardingResult, error) {
	dailyGoal := input.DailyGoal
	if dailyGoal == 0 {
		dailyGoal = domain.DefaultDailyGoal
	}

	timezone := input.Timezone
	if timezone == "" {
		timezone = s.defaultTimezone
	}

	profile, err := domain.NewUserProfile(input.Gender, dailyGoal, timezone)
	if err != nil {
		return nil, err
	}

	params := input.Estimate
	if params.Gender == "" {
		params.Gender = profile.Gender
	}

	estimate, err := domain.EstimateDebt(params)
	if err != nil {
		return nil, err
	}

	debt, err := domain.NewPrayerDebt(profile.ID, estimate.Counts)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.Create(ctx, profile, debt); err != nil {
		return nil, fmt.Errorf("onboarding service: failed to create profile: %w", err)
	}

	token, err := s.tokens.GenerateToken(profile.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Profile onboarded",
		zap.String("user_id", profile.ID),
		zap.String("mode", string(estimate.Mode)),
		zap.Int("total_owed", debt.TotalOwed()),
	)

	publish(ctx, s.events, s.logger, domain.EventProfileOnboarded, domain.ProfileEvent{
		UserID:     profile.ID,
		OccurredAt: time.Now().UTC(),
	})

	return &OnboardingResult{
		Profile:  profile,
		Debt:     debt,
		Estimate: estimate,
		Token:    token,
	}, nil
}
