package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidPrayerType = errors.New("invalid prayer type (must be fajr, dhuhr, asr, maghrib or isha)")
	ErrNegativeInput     = errors.New("counts and durations cannot be negative")
)

type PrayerType string

const (
	Fajr    PrayerType = "fajr"
	Dhuhr   PrayerType = "dhuhr"
	Asr     PrayerType = "asr"
	Maghrib PrayerType = "maghrib"
	Isha    PrayerType = "isha"
)

// PrayersPerDay is the number of obligatory prayers owed for one missed day.
const PrayersPerDay = 5

// AllPrayers lists the prayer types in their daily order.
var AllPrayers = []PrayerType{Fajr, Dhuhr, Asr, Maghrib, Isha}

func ParsePrayerType(s string) (PrayerType, error) {
	p := PrayerType(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", ErrInvalidPrayerType
	}
	return p, nil
}

func (p PrayerType) Valid() bool {
	switch p {
	case Fajr, Dhuhr, Asr, Maghrib, Isha:
		return true
	}
	return false
}

// PrayerCounts holds one non-negative integer per prayer type. It is used for
// owed debt, initial debt and per-day completion counts alike.
type PrayerCounts struct {
	Fajr    int `json:"fajr"`
	Dhuhr   int `json:"dhuhr"`
	Asr     int `json:"asr"`
	Maghrib int `json:"maghrib"`
	Isha    int `json:"isha"`
}

// UniformCounts returns counts with the same value for every prayer type.
func UniformCounts(n int) PrayerCounts {
	return PrayerCounts{Fajr: n, Dhuhr: n, Asr: n, Maghrib: n, Isha: n}
}

func (c PrayerCounts) Get(p PrayerType) int {
	switch p {
	case Fajr:
		return c.Fajr
	case Dhuhr:
		return c.Dhuhr
	case Asr:
		return c.Asr
	case Maghrib:
		return c.Maghrib
	case Isha:
		return c.Isha
	}
	return 0
}

func (c *PrayerCounts) Set(p PrayerType, v int) {
	switch p {
	case Fajr:
		c.Fajr = v
	case Dhuhr:
		c.Dhuhr = v
	case Asr:
		c.Asr = v
	case Maghrib:
		c.Maghrib = v
	case Isha:
		c.Isha = v
	}
}

func (c PrayerCounts) Total() int {
	return c.Fajr + c.Dhuhr + c.Asr + c.Maghrib + c.Isha
}

func (c PrayerCounts) Validate() error {
	for _, p := range AllPrayers {
		if c.Get(p) < 0 {
			return ErrNegativeInput
		}
	}
	return nil
}
