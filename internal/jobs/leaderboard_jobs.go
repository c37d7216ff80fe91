package jobs

import (
	"context"
	"time"

	"givecycle-backend/internal/logger"
)

// RecomputeLeaderboard rebuilds the daily leaderboard projection from user
// totals and fulfilled-cycle aggregates.
func (jr *JobRunner) RecomputeLeaderboard() {
	jr.runWithRecovery("RecomputeLeaderboard", func() {
		ctx := context.Background()

		count, err := jr.store.LeaderboardRepository().Recompute(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to recompute leaderboard", "error", err)
			return
		}
		logger.Info("Leaderboard recomputed", "entries", count)
	})
}
