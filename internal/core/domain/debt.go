package domain

import (
	"errors"
	"time"
)

var (
	ErrDebtNotFound           = errors.New("prayer debt not found")
	ErrDebtAlreadyInitialized = errors.New("prayer debt is already initialized")
	ErrDebtConflict           = errors.New("prayer debt version conflict")
	ErrNothingToLog           = errors.New("nothing to log: no prayers of this type are owed")
	ErrConfirmationRequired   = errors.New("destructive action requires explicit confirmation")
)

// PrayerDebt is the ledger of missed prayers owed by one user. InitialOwed is
// the snapshot taken at onboarding and is never modified afterwards.
type PrayerDebt struct {
	UserID      string       `json:"user_id"`
	Owed        PrayerCounts `json:"owed"`
	InitialOwed PrayerCounts `json:"initial_owed"`
	Version     int          `json:"version"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func NewPrayerDebt(userID string, counts PrayerCounts) (*PrayerDebt, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if err := counts.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &PrayerDebt{
		UserID:      userID,
		Owed:        counts,
		InitialOwed: counts,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// RecordCompletion pays back one prayer of type p. It returns ErrNothingToLog
// and leaves the debt untouched when nothing of that type is owed.
func (d *PrayerDebt) RecordCompletion(p PrayerType) error {
	if !p.Valid() {
		return ErrInvalidPrayerType
	}

	owed := d.Owed.Get(p)
	if owed <= 0 {
		return ErrNothingToLog
	}

	d.Owed.Set(p, owed-1)
	d.touch()
	return nil
}

// AdjustManually overwrites the owed counts. Owed may end up above InitialOwed.
func (d *PrayerDebt) AdjustManually(counts PrayerCounts) error {
	if err := counts.Validate(); err != nil {
		return err
	}

	d.Owed = counts
	d.touch()
	return nil
}

func (d *PrayerDebt) TotalOwed() int {
	return d.Owed.Total()
}

func (d *PrayerDebt) TotalInitial() int {
	return d.InitialOwed.Total()
}

// MadeUp is the number of prayers of type p paid back, floored at zero.
func (d *PrayerDebt) MadeUp(p PrayerType) int {
	return max(0, d.InitialOwed.Get(p)-d.Owed.Get(p))
}

func (d *PrayerDebt) TotalMadeUp() int {
	total := 0
	for _, p := range AllPrayers {
		total += d.MadeUp(p)
	}
	return total
}

func (d *PrayerDebt) touch() {
	d.Version++
	d.UpdatedAt = time.Now().UTC()
}
