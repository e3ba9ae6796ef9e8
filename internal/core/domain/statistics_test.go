package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
)

// 2024-06-13 is a Thursday; its week starts on Sunday 2024-06-09.
var statsToday = date(2024, 6, 13)

func logOn(day time.Time, total int) *domain.DailyLog {
	l := domain.NewDailyLog("u1", day)
	l.Counts.Fajr = total
	return l
}

func daysAgo(n, total int) *domain.DailyLog {
	return logOn(statsToday.AddDate(0, 0, -n), total)
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name string
		logs []*domain.DailyLog
		goal int
		want int
	}{
		{"Empty history", nil, 5, 0},
		{"Today meets goal", []*domain.DailyLog{daysAgo(0, 5)}, 5, 1},
		{"Today missing breaks everything", []*domain.DailyLog{daysAgo(1, 5), daysAgo(2, 5)}, 5, 0},
		{"Today under goal", []*domain.DailyLog{daysAgo(0, 4), daysAgo(1, 5)}, 5, 0},
		{"Three consecutive days", []*domain.DailyLog{daysAgo(0, 6), daysAgo(1, 5), daysAgo(2, 9)}, 5, 3},
		{"Gap stops the walk", []*domain.DailyLog{daysAgo(0, 5), daysAgo(1, 5), daysAgo(3, 5)}, 5, 2},
		{"Under-goal day stops the walk", []*domain.DailyLog{daysAgo(0, 5), daysAgo(1, 2), daysAgo(2, 5)}, 5, 1},
		{"Zero goal is neutral", []*domain.DailyLog{daysAgo(0, 5)}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CurrentStreak(tt.logs, statsToday, tt.goal))
		})
	}
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name string
		logs []*domain.DailyLog
		goal int
		want int
	}{
		{"Empty history", nil, 5, 0},
		{"Single qualifying day", []*domain.DailyLog{daysAgo(4, 5)}, 5, 1},
		{"Run in the past", []*domain.DailyLog{daysAgo(0, 5), daysAgo(10, 5), daysAgo(11, 5), daysAgo(12, 5)}, 5, 3},
		{"Gap restarts at one", []*domain.DailyLog{daysAgo(5, 5), daysAgo(4, 5), daysAgo(2, 5)}, 5, 2},
		{"Miss resets then consecutive day restarts", []*domain.DailyLog{daysAgo(3, 5), daysAgo(2, 1), daysAgo(1, 5), daysAgo(0, 5)}, 5, 2},
		{"Unsorted input", []*domain.DailyLog{daysAgo(0, 5), daysAgo(2, 5), daysAgo(1, 5)}, 5, 3},
		{"Nothing meets goal", []*domain.DailyLog{daysAgo(0, 1), daysAgo(1, 1)}, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.LongestStreak(tt.logs, tt.goal))
		})
	}
}

func TestStreaks_GoalFiveScenario(t *testing.T) {
	logs := []*domain.DailyLog{daysAgo(3, 5), daysAgo(2, 5), daysAgo(1, 5), daysAgo(0, 3)}

	assert.Equal(t, 0, domain.CurrentStreak(logs, statsToday, 5))
	assert.Equal(t, 3, domain.LongestStreak(logs, 5))
}

func TestStreaks_LongestNeverBelowCurrent(t *testing.T) {
	patterns := [][]int{
		{5, 5, 5, 5},
		{5, 0, 5, 5, 5, 5, 5},
		{1, 5, 5, 2, 5},
		{5, 5, -1, 5, 5, 5},
	}

	for _, totals := range patterns {
		var logs []*domain.DailyLog
		for i, total := range totals {
			if total < 0 {
				continue
			}
			logs = append(logs, daysAgo(len(totals)-1-i, total))
		}
		current := domain.CurrentStreak(logs, statsToday, 5)
		longest := domain.LongestStreak(logs, 5)
		assert.GreaterOrEqual(t, longest, current, "pattern %v", totals)
	}
}

func TestCurrentWeekStreak(t *testing.T) {
	fullWeek := func(start time.Time, upTo int) []*domain.DailyLog {
		var logs []*domain.DailyLog
		for i := 0; i < upTo; i++ {
			logs = append(logs, logOn(start.AddDate(0, 0, i), 5))
		}
		return logs
	}
	thisSunday := date(2024, 6, 9)

	t.Run("Success: Current week so far complete", func(t *testing.T) {
		logs := fullWeek(thisSunday, 5)
		assert.Equal(t, 1, domain.CurrentWeekStreak(logs, statsToday, 5))
	})

	t.Run("Success: Two complete weeks", func(t *testing.T) {
		logs := append(fullWeek(thisSunday.AddDate(0, 0, -7), 7), fullWeek(thisSunday, 5)...)
		assert.Equal(t, 2, domain.CurrentWeekStreak(logs, statsToday, 5))
	})

	t.Run("Edge Case: Today missing breaks the current week", func(t *testing.T) {
		logs := append(fullWeek(thisSunday.AddDate(0, 0, -7), 7), fullWeek(thisSunday, 4)...)
		assert.Equal(t, 0, domain.CurrentWeekStreak(logs, statsToday, 5))
	})

	t.Run("Edge Case: Under-goal day in previous week halts the walk", func(t *testing.T) {
		prev := fullWeek(thisSunday.AddDate(0, 0, -7), 7)
		prev[3].Counts.Fajr = 1
		logs := append(prev, fullWeek(thisSunday, 5)...)
		assert.Equal(t, 1, domain.CurrentWeekStreak(logs, statsToday, 5))
	})

	t.Run("Edge Case: Today is Sunday, only today required", func(t *testing.T) {
		logs := []*domain.DailyLog{logOn(thisSunday, 5)}
		assert.Equal(t, 1, domain.CurrentWeekStreak(logs, thisSunday, 5))
	})

	t.Run("Edge Case: Empty history", func(t *testing.T) {
		assert.Equal(t, 0, domain.CurrentWeekStreak(nil, statsToday, 5))
	})
}

func TestOverallCompletion(t *testing.T) {
	t.Run("Success: Fraction of initial debt", func(t *testing.T) {
		debt, _ := domain.NewPrayerDebt("u1", domain.UniformCounts(10))
		_ = debt.AdjustManually(domain.UniformCounts(5))

		assert.InDelta(t, 0.5, domain.OverallCompletion(debt), 1e-9)
	})

	t.Run("Edge Case: Zero initial debt", func(t *testing.T) {
		debt, _ := domain.NewPrayerDebt("u1", domain.PrayerCounts{})
		assert.Equal(t, 0.0, domain.OverallCompletion(debt))
	})

	t.Run("Property: Stays within [0,1] even when owed exceeds initial", func(t *testing.T) {
		debt, _ := domain.NewPrayerDebt("u1", domain.UniformCounts(3))
		for _, owed := range []domain.PrayerCounts{
			domain.UniformCounts(0),
			domain.UniformCounts(100),
			{Fajr: 100, Dhuhr: 0, Asr: 0, Maghrib: 0, Isha: 0},
		} {
			require.NoError(t, debt.AdjustManually(owed))
			pct := domain.OverallCompletion(debt)
			assert.GreaterOrEqual(t, pct, 0.0)
			assert.LessOrEqual(t, pct, 1.0)
		}
	})
}

func TestBreakdown(t *testing.T) {
	debt, _ := domain.NewPrayerDebt("u1", domain.PrayerCounts{Fajr: 4, Dhuhr: 4, Asr: 0, Maghrib: 4, Isha: 4})
	_ = debt.AdjustManually(domain.PrayerCounts{Fajr: 1, Dhuhr: 4, Asr: 0, Maghrib: 9, Isha: 0})

	b := domain.Breakdown(debt)
	require.Len(t, b, 5)

	assert.Equal(t, domain.Fajr, b[0].Prayer)
	assert.Equal(t, 3, b[0].MadeUp)
	assert.InDelta(t, 0.75, b[0].FractionComplete, 1e-9)

	assert.Equal(t, 0, b[1].MadeUp)
	assert.Equal(t, 0.0, b[1].FractionComplete)

	assert.Equal(t, 0.0, b[2].FractionComplete, "zero denominator")

	assert.Equal(t, 0, b[3].MadeUp, "owed above initial is clamped")
	assert.Equal(t, 0.0, b[3].FractionComplete)

	assert.Equal(t, 1.0, b[4].FractionComplete)
}

func TestForecastCompletion(t *testing.T) {
	t.Run("Success: Ceil of owed over goal", func(t *testing.T) {
		f := domain.ForecastCompletion(11, 5, statsToday)

		assert.Equal(t, domain.ForecastScheduled, f.Status)
		assert.Equal(t, 3, f.DaysNeeded)
		assert.Equal(t, "2024-06-16", f.Date)
	})

	t.Run("Edge Case: Cleared regardless of goal", func(t *testing.T) {
		for _, goal := range []int{-1, 0, 1, 50} {
			assert.Equal(t, domain.ForecastCleared, domain.ForecastCompletion(0, goal, statsToday).Status)
		}
	})

	t.Run("Edge Case: Undefined with zero goal", func(t *testing.T) {
		f := domain.ForecastCompletion(10, 0, statsToday)
		assert.Equal(t, domain.ForecastUndefined, f.Status)
		assert.Empty(t, f.Date)
	})
}

func TestWeeklyBundleFor(t *testing.T) {
	logs := []*domain.DailyLog{
		daysAgo(5, 9), // previous Saturday, outside the week
		daysAgo(4, 3), // Sunday
		daysAgo(1, 4),
		daysAgo(0, 5),
	}

	b := domain.WeeklyBundleFor(logs, statsToday, 5)

	assert.Equal(t, "2024-06-09", b.WeekStart)
	assert.Equal(t, 12, b.Completed)
	assert.Equal(t, 35, b.WeeklyGoal)
}

func TestBestDayAndHeatMap(t *testing.T) {
	first := daysAgo(3, 7)
	logs := []*domain.DailyLog{first, daysAgo(2, 7), daysAgo(1, 5), daysAgo(0, 2)}

	assert.Same(t, first, domain.BestDay(logs))
	assert.Nil(t, domain.BestDay(nil))

	heat := domain.HeatMap(logs, 5)
	assert.Equal(t, map[string]int{
		"2024-06-10": 2,
		"2024-06-11": 2,
		"2024-06-12": 1,
		"2024-06-13": 0,
	}, heat)
}

func TestBuildStatistics(t *testing.T) {
	profile := &domain.UserProfile{ID: "u1", DailyGoal: 5, Timezone: "UTC"}

	t.Run("Success: Aggregates every statistic", func(t *testing.T) {
		debt, _ := domain.NewPrayerDebt("u1", domain.UniformCounts(10))
		_ = debt.AdjustManually(domain.PrayerCounts{Fajr: 8, Dhuhr: 8, Asr: 8, Maghrib: 8, Isha: 8})
		logs := []*domain.DailyLog{daysAgo(1, 5), daysAgo(0, 5)}

		stats := domain.BuildStatistics(&domain.LedgerSnapshot{Profile: profile, Debt: debt, Logs: logs}, statsToday)

		assert.Equal(t, domain.StatsStatusOK, stats.Status)
		assert.Equal(t, "2024-06-13", stats.Today)
		assert.Equal(t, 50, stats.TotalInitial)
		assert.Equal(t, 40, stats.TotalOwed)
		assert.Equal(t, 10, stats.TotalMadeUp)
		assert.InDelta(t, 0.2, stats.OverallCompletion, 1e-9)
		assert.Equal(t, 2, stats.CurrentStreak)
		assert.Equal(t, 2, stats.LongestStreak)
		assert.Equal(t, 0, stats.CurrentWeekStreak)
		assert.Len(t, stats.Breakdown, 5)
		assert.Equal(t, 8, stats.Forecast.DaysNeeded)
		assert.Equal(t, 10, stats.WeeklyBundle.Completed)
		require.NotNil(t, stats.BestDay)
		assert.Equal(t, "2024-06-12", stats.BestDay.Date)
		assert.Len(t, stats.HeatMap, 2)
	})

	t.Run("Edge Case: Empty history and zero debt", func(t *testing.T) {
		debt, _ := domain.NewPrayerDebt("u1", domain.PrayerCounts{})

		stats := domain.BuildStatistics(&domain.LedgerSnapshot{Profile: profile, Debt: debt}, statsToday)

		assert.Equal(t, 0.0, stats.OverallCompletion)
		assert.Equal(t, 0, stats.CurrentStreak)
		assert.Equal(t, domain.ForecastCleared, stats.Forecast.Status)
		assert.Nil(t, stats.BestDay)
		assert.Empty(t, stats.HeatMap)
	})
}
