package domain

import "time"

// LeaderboardEntry is a read-mostly projection recomputed daily from user
// totals and fulfilled cycles.
type LeaderboardEntry struct {
	Rank              int32     `json:"rank"`
	UserID            int64     `json:"user_id"`
	Name              string    `json:"name"`
	TotalDonatedCents int64     `json:"total_donated_cents"`
	CyclesCompleted   int32     `json:"cycles_completed"`
	AvgDaysToFulfill  float64   `json:"avg_days_to_fulfill"`
	ComputedAt        time.Time `json:"computed_at"`
}
