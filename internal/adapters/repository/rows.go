package repository

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

type profileRow struct {
	ID            string    `db:"id"`
	Gender        string    `db:"gender"`
	DailyGoal     int       `db:"daily_goal"`
	Streak        int       `db:"streak"`
	LongestStreak int       `db:"longest_streak"`
	Timezone      string    `db:"timezone"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func newProfileRow(p *domain.UserProfile) profileRow {
	return profileRow{
		ID:            p.ID,
		Gender:        string(p.Gender),
		DailyGoal:     p.DailyGoal,
		Streak:        p.Streak,
		LongestStreak: p.LongestStreak,
		Timezone:      p.Timezone,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (r profileRow) toDomain() *domain.UserProfile {
	return &domain.UserProfile{
		ID:            r.ID,
		Gender:        domain.Gender(r.Gender),
		DailyGoal:     r.DailyGoal,
		Streak:        r.Streak,
		LongestStreak: r.LongestStreak,
		Timezone:      r.Timezone,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type debtRow struct {
	UserID         string    `db:"user_id"`
	OwedFajr       int       `db:"owed_fajr"`
	OwedDhuhr      int       `db:"owed_dhuhr"`
	OwedAsr        int       `db:"owed_asr"`
	OwedMaghrib    int       `db:"owed_maghrib"`
	OwedIsha       int       `db:"owed_isha"`
	InitialFajr    int       `db:"initial_fajr"`
	InitialDhuhr   int       `db:"initial_dhuhr"`
	InitialAsr     int       `db:"initial_asr"`
	InitialMaghrib int       `db:"initial_maghrib"`
	InitialIsha    int       `db:"initial_isha"`
	Version        int       `db:"version"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func newDebtRow(d *domain.PrayerDebt) debtRow {
	return debtRow{
		UserID:         d.UserID,
		OwedFajr:       d.Owed.Fajr,
		OwedDhuhr:      d.Owed.Dhuhr,
		OwedAsr:        d.Owed.Asr,
		OwedMaghrib:    d.Owed.Maghrib,
		OwedIsha:       d.Owed.Isha,
		InitialFajr:    d.InitialOwed.Fajr,
		InitialDhuhr:   d.InitialOwed.Dhuhr,
		InitialAsr:     d.InitialOwed.Asr,
		InitialMaghrib: d.InitialOwed.Maghrib,
		InitialIsha:    d.InitialOwed.Isha,
		Version:        d.Version,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func (r debtRow) toDomain() *domain.PrayerDebt {
	return &domain.PrayerDebt{
		UserID: r.UserID,
		Owed: domain.PrayerCounts{
			Fajr: r.OwedFajr, Dhuhr: r.OwedDhuhr, Asr: r.OwedAsr, Maghrib: r.OwedMaghrib, Isha: r.OwedIsha,
		},
		InitialOwed: domain.PrayerCounts{
			Fajr: r.InitialFajr, Dhuhr: r.InitialDhuhr, Asr: r.InitialAsr, Maghrib: r.InitialMaghrib, Isha: r.InitialIsha,
		},
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type dailyLogRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	LogDate   time.Time `db:"log_date"`
	Fajr      int       `db:"fajr"`
	Dhuhr     int       `db:"dhuhr"`
	Asr       int       `db:"asr"`
	Maghrib   int       `db:"maghrib"`
	Isha      int       `db:"isha"`
	Notes     string    `db:"notes"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func newDailyLogRow(l *domain.DailyLog) dailyLogRow {
	return dailyLogRow{
		ID:        l.ID,
		UserID:    l.UserID,
		LogDate:   l.Date,
		Fajr:      l.Counts.Fajr,
		Dhuhr:     l.Counts.Dhuhr,
		Asr:       l.Counts.Asr,
		Maghrib:   l.Counts.Maghrib,
		Isha:      l.Counts.Isha,
		Notes:     l.Notes,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func (r dailyLogRow) toDomain() *domain.DailyLog {
	return &domain.DailyLog{
		ID:     r.ID,
		UserID: r.UserID,
		// DATE columns come back at midnight in the session zone.
		Date: time.Date(r.LogDate.Year(), r.LogDate.Month(), r.LogDate.Day(), 0, 0, 0, 0, time.UTC),
		Counts: domain.PrayerCounts{
			Fajr: r.Fajr, Dhuhr: r.Dhuhr, Asr: r.Asr, Maghrib: r.Maghrib, Isha: r.Isha,
		},
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// prayerColumns whitelists the columns Increment may interpolate into SQL.
var prayerColumns = map[domain.PrayerType]string{
	domain.Fajr:    "fajr",
	domain.Dhuhr:   "dhuhr",
	domain.Asr:     "asr",
	domain.Maghrib: "maghrib",
	domain.Isha:    "isha",
}

// pgErrorCode extracts the SQLSTATE from either driver's error type.
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
