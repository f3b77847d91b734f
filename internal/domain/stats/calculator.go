package stats

import (
	"sort"
	"time"

	"github.com/rpggio/streaks/internal/calendar"
	"github.com/rpggio/streaks/internal/domain/completion"
	"github.com/rpggio/streaks/internal/domain/tracker"
)

// GroupByDay buckets records by their calendar day.
func GroupByDay(records []completion.Record) map[time.Time][]completion.Record {
	out := make(map[time.Time][]completion.Record)
	for _, rec := range records {
		day := calendar.Day(rec.Date, time.UTC)
		out[day] = append(out[day], rec)
	}
	return out
}

// Calculate computes the summary from records grouped by day and every tracker.
// Keys of byDay must be calendar days.
func Calculate(byDay map[time.Time][]completion.Record, trackers []tracker.Tracker) Summary {
	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var s Summary
	s.BestStreak = bestStreak(days)

	for _, day := range days {
		recs := byDay[day]
		s.TotalCompleted += len(recs)
		if isPerfect(day, recs, trackers) {
			s.PerfectDays++
		}
	}

	if len(days) > 0 {
		s.AveragePerDay = s.TotalCompleted / len(days)
	}
	return s
}

// bestStreak returns the longest run of consecutive days. days must be sorted.
func bestStreak(days []time.Time) int {
	best, current := 0, 0
	for i, day := range days {
		if i > 0 && calendar.NextDay(days[i-1]).Equal(day) {
			current++
		} else {
			current = 1
		}
		best = max(best, current)
	}
	return best
}

// isPerfect reports whether every tracker due on day was completed. A day
// with nothing due is never perfect.
func isPerfect(day time.Time, recs []completion.Record, trackers []tracker.Tracker) bool {
	done := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		done[rec.TrackerID] = struct{}{}
	}

	expected := 0
	for _, t := range trackers {
		if !tracker.IsDue(t, day, time.UTC) {
			continue
		}
		expected++
		if _, ok := done[t.ID]; !ok {
			return false
		}
	}
	return expected > 0
}
