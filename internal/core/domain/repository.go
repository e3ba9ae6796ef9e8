package domain

import (
	"context"
	"time"
)

type ProfileRepository interface {
	// Create persists a new profile together with its initial debt in one transaction.
	Create(ctx context.Context, profile *UserProfile, debt *PrayerDebt) error

	// GetByID retrieves a profile by its unique identifier.
	GetByID(ctx context.Context, id string) (*UserProfile, error)

	// Update modifies the editable settings of an existing profile.
	Update(ctx context.Context, profile *UserProfile) error

	// UpdateStreaks refreshes the cached advisory streak counters.
	UpdateStreaks(ctx context.Context, id string, current, longest int) error

	// Delete wipes the profile, its debt and every daily log.
	Delete(ctx context.Context, id string) error
}

// CompletionFunc mutates the debt and the day log of a completion event.
// Returning an error rolls back both.
type CompletionFunc func(debt *PrayerDebt, day *DailyLog) error

type LedgerRepository interface {
	// GetByUserID retrieves the current debt of a user.
	GetByUserID(ctx context.Context, userID string) (*PrayerDebt, error)

	// Update persists a manual adjustment.
	// Implementations must handle Optimistic Locking (version check).
	Update(ctx context.Context, debt *PrayerDebt) error

	// ApplyCompletion locks the user's debt and the log of day (creating it if
	// needed), runs fn and persists both atomically.
	ApplyCompletion(ctx context.Context, userID string, day time.Time, fn CompletionFunc) (*PrayerDebt, *DailyLog, error)

	// Snapshot reads profile, debt and all logs under one consistent view.
	Snapshot(ctx context.Context, userID string) (*LedgerSnapshot, error)
}

type DailyLogRepository interface {
	// GetOrCreate returns the log of day, creating a zero-valued one if it does not exist.
	// created reports whether this call inserted the row.
	GetOrCreate(ctx context.Context, userID string, day time.Time) (log *DailyLog, created bool, err error)

	// GetByDate retrieves an existing log without creating it.
	GetByDate(ctx context.Context, userID string, day time.Time) (*DailyLog, error)

	// Increment adds one completion of p to the log of day.
	Increment(ctx context.Context, userID string, day time.Time, p PrayerType) (*DailyLog, error)

	// Set overwrites counts and notes of the log of day.
	Set(ctx context.Context, log *DailyLog) error

	// ListByUserIDAndDateRange returns logs with from <= date <= to, ascending.
	ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*DailyLog, error)
}

// EventPublisher forwards ledger events to downstream collaborators
// (notifications, export). Delivery is best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}
