package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrProfileNotFound  = errors.New("user profile not found")
	ErrInvalidUserID    = errors.New("invalid user id")
	ErrInvalidDailyGoal = errors.New("daily goal must be at least 1")
	ErrInvalidTimezone  = errors.New("invalid timezone (must be an IANA name)")
)

const DefaultDailyGoal = 5

type UserProfile struct {
	ID            string    `json:"id"`
	Gender        Gender    `json:"gender"`
	DailyGoal     int       `json:"daily_goal"`
	Streak        int       `json:"streak"`
	LongestStreak int       `json:"longest_streak"`
	Timezone      string    `json:"timezone"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewUserProfile(gender Gender, dailyGoal int, timezone string) (*UserProfile, error) {
	if !gender.Valid() {
		return nil, ErrInvalidGender
	}
	if dailyGoal < 1 {
		return nil, ErrInvalidDailyGoal
	}

	tz, err := normalizeTimezone(timezone)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &UserProfile{
		ID:        uuid.NewString(),
		Gender:    gender,
		DailyGoal: dailyGoal,
		Timezone:  tz,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update applies the non-zero fields. A zero dailyGoal or empty timezone keeps the current value.
func (p *UserProfile) Update(dailyGoal int, timezone string) error {
	if dailyGoal < 0 {
		return ErrInvalidDailyGoal
	}

	if timezone != "" {
		tz, err := normalizeTimezone(timezone)
		if err != nil {
			return err
		}
		p.Timezone = tz
	}
	if dailyGoal > 0 {
		p.DailyGoal = dailyGoal
	}

	p.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateStreak refreshes the cached streak counters. They are advisory only;
// statistics always recompute streaks from the logs.
func (p *UserProfile) UpdateStreak(current, longest int) {
	p.Streak = current
	p.LongestStreak = longest
	p.UpdatedAt = time.Now().UTC()
}

func (p *UserProfile) Location() *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Today is the profile's current calendar day.
func (p *UserProfile) Today(now time.Time) time.Time {
	return CalendarDay(now, p.Location())
}

func normalizeTimezone(tz string) (string, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return "UTC", nil
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return "", ErrInvalidTimezone
	}
	return tz, nil
}
