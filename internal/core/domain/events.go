package domain

import "time"

const (
	EventCompletionRecorded = "ledger.completion.recorded"
	EventLedgerAdjusted     = "ledger.adjusted"
	EventProfileOnboarded   = "profile.onboarded"
	EventProfileWiped       = "profile.wiped"
)

type CompletionRecordedEvent struct {
	UserID     string     `json:"user_id"`
	Prayer     PrayerType `json:"prayer"`
	Date       string     `json:"date"`
	OwedLeft   int        `json:"owed_left"`
	TotalOwed  int        `json:"total_owed"`
	OccurredAt time.Time  `json:"occurred_at"`
}

type LedgerAdjustedEvent struct {
	UserID     string       `json:"user_id"`
	Owed       PrayerCounts `json:"owed"`
	OccurredAt time.Time    `json:"occurred_at"`
}

type ProfileEvent struct {
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
