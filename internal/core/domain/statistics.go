package domain

import (
	"sort"
	"time"
)

// BuildStatistics derives every statistic from one snapshot. today must be a
// CalendarDay value in the profile's timezone.
func BuildStatistics(snap *LedgerSnapshot, today time.Time) *Statistics {
	goal := snap.Profile.DailyGoal

	stats := &Statistics{
		Status:            StatsStatusOK,
		UserID:            snap.Profile.ID,
		Today:             DayKey(today),
		DailyGoal:         goal,
		CurrentStreak:     CurrentStreak(snap.Logs, today, goal),
		LongestStreak:     LongestStreak(snap.Logs, goal),
		CurrentWeekStreak: CurrentWeekStreak(snap.Logs, today, goal),
		WeeklyBundle:      WeeklyBundleFor(snap.Logs, today, goal),
		HeatMap:           HeatMap(snap.Logs, goal),
		Breakdown:         []PrayerBreakdown{},
		Forecast:          Forecast{Status: ForecastCleared},
	}

	if snap.Debt != nil {
		stats.TotalInitial = snap.Debt.TotalInitial()
		stats.TotalOwed = snap.Debt.TotalOwed()
		stats.TotalMadeUp = snap.Debt.TotalMadeUp()
		stats.OverallCompletion = OverallCompletion(snap.Debt)
		stats.Breakdown = Breakdown(snap.Debt)
		stats.Forecast = ForecastCompletion(stats.TotalOwed, goal, today)
	}

	if best := BestDay(snap.Logs); best != nil {
		stats.BestDay = &DayTotal{
			Date:             DayKey(best.Date),
			PrayersCompleted: best.PrayersCompleted(),
		}
	}

	return stats
}

// OverallCompletion is the fraction of the initial debt made up, in [0, 1].
func OverallCompletion(debt *PrayerDebt) float64 {
	initial := debt.TotalInitial()
	if initial <= 0 {
		return 0
	}
	return float64(debt.TotalMadeUp()) / float64(initial)
}

// CurrentStreak counts consecutive days meeting the goal, walking back from
// today. A missing or under-goal today yields zero.
func CurrentStreak(logs []*DailyLog, today time.Time, goal int) int {
	if goal <= 0 {
		return 0
	}

	byDay := indexByDay(logs)
	streak := 0
	for day := today; ; day = day.AddDate(0, 0, -1) {
		l, ok := byDay[DayKey(day)]
		if !ok || l.PrayersCompleted() < goal {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak scans logged days in ascending order. A day meeting the goal
// extends the run only if it directly follows the previous logged day; after
// a gap it starts a new run of one. A missed goal resets the run.
func LongestStreak(logs []*DailyLog, goal int) int {
	if goal <= 0 {
		return 0
	}

	longest, run := 0, 0
	var prev time.Time
	for i, l := range sortedByDay(logs) {
		switch {
		case l.PrayersCompleted() < goal:
			run = 0
		case i > 0 && l.Date.Equal(prev.AddDate(0, 0, 1)):
			run++
		default:
			run = 1
		}
		longest = max(longest, run)
		prev = l.Date
	}
	return longest
}

// CurrentWeekStreak counts consecutive complete Sunday-start weeks walking back
// from the current one. Days after today are not required.
func CurrentWeekStreak(logs []*DailyLog, today time.Time, goal int) int {
	if goal <= 0 || len(logs) == 0 {
		return 0
	}

	byDay := indexByDay(logs)
	streak := 0
	for weekStart := StartOfWeek(today); ; weekStart = weekStart.AddDate(0, 0, -7) {
		if !weekComplete(byDay, weekStart, today, goal) {
			break
		}
		streak++
	}
	return streak
}

func weekComplete(byDay map[string]*DailyLog, weekStart, today time.Time, goal int) bool {
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		if day.After(today) {
			continue
		}
		l, ok := byDay[DayKey(day)]
		if !ok || l.PrayersCompleted() < goal {
			return false
		}
	}
	return true
}

func Breakdown(debt *PrayerDebt) []PrayerBreakdown {
	out := make([]PrayerBreakdown, 0, len(AllPrayers))
	for _, p := range AllPrayers {
		madeUp := debt.MadeUp(p)
		owed := debt.Owed.Get(p)

		b := PrayerBreakdown{
			Prayer:      p,
			InitialOwed: debt.InitialOwed.Get(p),
			Owed:        owed,
			MadeUp:      madeUp,
		}
		if denom := madeUp + owed; denom > 0 {
			b.FractionComplete = float64(madeUp) / float64(denom)
		}
		out = append(out, b)
	}
	return out
}

func ForecastCompletion(totalOwed, goal int, today time.Time) Forecast {
	if totalOwed <= 0 {
		return Forecast{Status: ForecastCleared}
	}
	if goal <= 0 {
		return Forecast{Status: ForecastUndefined}
	}

	days := (totalOwed + goal - 1) / goal
	return Forecast{
		Status:     ForecastScheduled,
		Date:       DayKey(today.AddDate(0, 0, days)),
		DaysNeeded: days,
	}
}

func WeeklyBundleFor(logs []*DailyLog, today time.Time, goal int) WeeklyBundle {
	weekStart := StartOfWeek(today)
	weekEnd := weekStart.AddDate(0, 0, 7)

	completed := 0
	for _, l := range logs {
		if !l.Date.Before(weekStart) && l.Date.Before(weekEnd) {
			completed += l.PrayersCompleted()
		}
	}

	return WeeklyBundle{
		WeekStart:  DayKey(weekStart),
		Completed:  completed,
		WeeklyGoal: max(0, goal) * 7,
	}
}

// BestDay returns the log with the most prayers completed; the first one wins ties.
func BestDay(logs []*DailyLog) *DailyLog {
	var best *DailyLog
	for _, l := range logs {
		if best == nil || l.PrayersCompleted() > best.PrayersCompleted() {
			best = l
		}
	}
	return best
}

func HeatMap(logs []*DailyLog, goal int) map[string]int {
	out := make(map[string]int, len(logs))
	for _, l := range logs {
		out[DayKey(l.Date)] = DotCount(l.PrayersCompleted(), goal)
	}
	return out
}

// StartOfWeek returns the Sunday on or before day.
func StartOfWeek(day time.Time) time.Time {
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func indexByDay(logs []*DailyLog) map[string]*DailyLog {
	m := make(map[string]*DailyLog, len(logs))
	for _, l := range logs {
		m[DayKey(l.Date)] = l
	}
	return m
}

func sortedByDay(logs []*DailyLog) []*DailyLog {
	sorted := make([]*DailyLog, len(logs))
	copy(sorted, logs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}
