package domain

const (
	StatsStatusOK          = "ok"
	StatsStatusUnavailable = "unavailable"
)

type ForecastStatus string

const (
	ForecastCleared   ForecastStatus = "cleared"
	ForecastUndefined ForecastStatus = "undefined"
	ForecastScheduled ForecastStatus = "scheduled"
)

type Statistics struct {
	Status            string            `json:"status"`
	UserID            string            `json:"user_id"`
	Today             string            `json:"today,omitempty"`
	DailyGoal         int               `json:"daily_goal"`
	TotalInitial      int               `json:"total_initial"`
	TotalOwed         int               `json:"total_owed"`
	TotalMadeUp       int               `json:"total_made_up"`
	OverallCompletion float64           `json:"overall_completion"`
	CurrentStreak     int               `json:"current_streak"`
	LongestStreak     int               `json:"longest_streak"`
	CurrentWeekStreak int               `json:"current_week_streak"`
	Breakdown         []PrayerBreakdown `json:"breakdown"`
	Forecast          Forecast          `json:"forecast"`
	WeeklyBundle      WeeklyBundle      `json:"weekly_bundle"`
	BestDay           *DayTotal         `json:"best_day,omitempty"`
	HeatMap           map[string]int    `json:"heat_map"`
}

type PrayerBreakdown struct {
	Prayer           PrayerType `json:"prayer"`
	InitialOwed      int        `json:"initial_owed"`
	Owed             int        `json:"owed"`
	MadeUp           int        `json:"made_up"`
	FractionComplete float64    `json:"fraction_complete"`
}

type Forecast struct {
	Status     ForecastStatus `json:"status"`
	Date       string         `json:"date,omitempty"`
	DaysNeeded int            `json:"days_needed"`
}

type WeeklyBundle struct {
	WeekStart  string `json:"week_start"`
	Completed  int    `json:"completed"`
	WeeklyGoal int    `json:"weekly_goal"`
}

type DayTotal struct {
	Date             string `json:"date"`
	PrayersCompleted int    `json:"prayers_completed"`
}

// LedgerSnapshot is a consistent read of everything a user's statistics depend on.
type LedgerSnapshot struct {
	Profile *UserProfile
	Debt    *PrayerDebt
	Logs    []*DailyLog
}

func UnavailableStatistics(userID string) *Statistics {
	return &Statistics{
		Status: StatsStatusUnavailable,
		UserID: userID,
	}
}
