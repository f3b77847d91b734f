package stats

// Summary holds the rollup metrics shown on the statistics screen.
type Summary struct {
	BestStreak     int `json:"best_streak"`
	PerfectDays    int `json:"perfect_days"`
	TotalCompleted int `json:"total_completed"`
	AveragePerDay  int `json:"average_per_day"`
}

// IsEmpty reports whether there is nothing to show.
func (s Summary) IsEmpty() bool {
	return s == Summary{}
}
