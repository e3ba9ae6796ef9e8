package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrDayNotFound    = errors.New("daily log not found")
	ErrInvalidDayDate = errors.New("invalid day (expected YYYY-MM-DD)")
	ErrNotesTooLong   = errors.New("notes are too long (max 1000 chars)")
)

const (
	DayLayout   = "2006-01-02"
	MaxNotesLen = 1000

	secondsPerDay = 24 * 60 * 60
)

// DailyLog is the completion record of one calendar day. Date is the user's
// local calendar day encoded as midnight UTC.
type DailyLog struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Date      time.Time    `json:"date"`
	Counts    PrayerCounts `json:"counts"`
	Notes     string       `json:"notes"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func NewDailyLog(userID string, day time.Time) *DailyLog {
	now := time.Now().UTC()
	return &DailyLog{
		UserID:    userID,
		Date:      CalendarDay(day, day.Location()),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (l *DailyLog) PrayersCompleted() int {
	return l.Counts.Total()
}

func (l *DailyLog) Increment(p PrayerType) error {
	if !p.Valid() {
		return ErrInvalidPrayerType
	}
	l.Counts.Set(p, l.Counts.Get(p)+1)
	l.UpdatedAt = time.Now().UTC()
	return nil
}

func (l *DailyLog) SetCounts(counts PrayerCounts, notes string) error {
	notes, err := ValidateDayInput(counts, notes)
	if err != nil {
		return err
	}

	l.Counts = counts
	l.Notes = notes
	l.UpdatedAt = time.Now().UTC()
	return nil
}

// ValidateDayInput checks an overwrite of a day before anything is stored and
// returns the trimmed notes.
func ValidateDayInput(counts PrayerCounts, notes string) (string, error) {
	if err := counts.Validate(); err != nil {
		return "", err
	}
	notes = strings.TrimSpace(notes)
	if len(notes) > MaxNotesLen {
		return "", ErrNotesTooLong
	}
	return notes, nil
}

// DotCount is the three-level achievement marker used by the calendar heat map:
// 0 below goal, 1 exactly at goal, 2 above goal.
func DotCount(completed, goal int) int {
	switch {
	case completed < goal:
		return 0
	case completed == goal:
		return 1
	default:
		return 2
	}
}

// CalendarDay returns the calendar day t falls on in loc, as midnight UTC.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDayDate
	}
	return t, nil
}

// DaysBetween counts whole calendar days from a to b. Both must be CalendarDay values.
// It works on Unix seconds because time.Duration saturates past ~292 years.
func DaysBetween(a, b time.Time) int {
	return int((b.Unix() - a.Unix()) / secondsPerDay)
}

func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}
