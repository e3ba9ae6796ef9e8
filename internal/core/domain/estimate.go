package domain

import (
	"errors"
	"math"
	"time"
)

var (
	ErrInvalidEstimateMode = errors.New("invalid estimate mode (must be date_range, bulk or custom)")
	ErrInvalidDateRange    = errors.New("end date cannot be before start date")
	ErrInvalidGender       = errors.New("invalid gender (must be male or female)")
	ErrEstimateTooLarge    = errors.New("duration too large (max 1000 lunar years)")
)

type EstimateMode string

const (
	EstimateModeDateRange EstimateMode = "date_range"
	EstimateModeBulk      EstimateMode = "bulk"
	EstimateModeCustom    EstimateMode = "custom"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

const (
	// DaysPerLunarYear and DaysPerMonth are deliberately approximate.
	DaysPerLunarYear = 354
	DaysPerMonth     = 30

	// AverageDaysPerMonth converts a day span into months for the cycle adjustment.
	AverageDaysPerMonth = 30.44

	// MaxBulkDays caps the bulk duration; each component is checked on its own
	// so the sum cannot overflow.
	MaxBulkDays = 1000 * DaysPerLunarYear
)

type EstimateParams struct {
	Mode EstimateMode

	StartDate          time.Time
	EndDate            time.Time
	Gender             Gender
	AverageCycleLength int

	Years  int
	Months int
	Days   int

	Custom PrayerCounts
}

type Estimate struct {
	Mode      EstimateMode `json:"mode"`
	Counts    PrayerCounts `json:"counts"`
	TotalDays int          `json:"total_days"`
	Total     int          `json:"total"`
}

// EstimateDebt converts one of the supported onboarding inputs into the
// initial per-prayer debt.
func EstimateDebt(params EstimateParams) (*Estimate, error) {
	switch params.Mode {
	case EstimateModeDateRange:
		days, err := missedDaysInRange(params.StartDate, params.EndDate, params.Gender, params.AverageCycleLength)
		if err != nil {
			return nil, err
		}
		return uniformEstimate(params.Mode, days), nil

	case EstimateModeBulk:
		days, err := missedDaysFromDuration(params.Years, params.Months, params.Days)
		if err != nil {
			return nil, err
		}
		return uniformEstimate(params.Mode, days), nil

	case EstimateModeCustom:
		if err := params.Custom.Validate(); err != nil {
			return nil, err
		}
		return &Estimate{
			Mode:   params.Mode,
			Counts: params.Custom,
			Total:  params.Custom.Total(),
		}, nil
	}

	return nil, ErrInvalidEstimateMode
}

func uniformEstimate(mode EstimateMode, days int) *Estimate {
	return &Estimate{
		Mode:      mode,
		Counts:    UniformCounts(days),
		TotalDays: days,
		Total:     days * PrayersPerDay,
	}
}

func missedDaysInRange(start, end time.Time, gender Gender, cycleLength int) (int, error) {
	if start.IsZero() || end.IsZero() {
		return 0, ErrInvalidDateRange
	}
	if cycleLength < 0 {
		return 0, ErrNegativeInput
	}
	if gender != "" && !gender.Valid() {
		return 0, ErrInvalidGender
	}

	from := CalendarDay(start, start.Location())
	to := CalendarDay(end, end.Location())
	if to.Before(from) {
		return 0, ErrInvalidDateRange
	}

	totalDays := DaysBetween(from, to) + 1

	if gender == GenderFemale && cycleLength > 0 {
		approximateMonths := float64(totalDays) / AverageDaysPerMonth
		menstrualDays := int(math.Floor(approximateMonths * float64(cycleLength)))
		totalDays = max(0, totalDays-menstrualDays)
	}

	return totalDays, nil
}

func missedDaysFromDuration(years, months, days int) (int, error) {
	if years < 0 || months < 0 || days < 0 {
		return 0, ErrNegativeInput
	}
	if years > MaxBulkDays/DaysPerLunarYear || months > MaxBulkDays/DaysPerMonth || days > MaxBulkDays {
		return 0, ErrEstimateTooLarge
	}

	total := years*DaysPerLunarYear + months*DaysPerMonth + days
	if total > MaxBulkDays {
		return 0, ErrEstimateTooLarge
	}
	return total, nil
}
