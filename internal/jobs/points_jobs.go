package jobs

import (
	"context"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/logger"
)

// RefreshPointStats recomputes the nightly aggregates behind the admin
// dashboard.
func (jr *JobRunner) RefreshPointStats() {
	jr.runWithRecovery("RefreshPointStats", func() {
		ctx := context.Background()

		_, err := jr.db.ExecContext(ctx, "REFRESH MATERIALIZED VIEW CONCURRENTLY points_stats_daily")
		if err != nil {
			logger.Error("Failed to refresh points stats view", "error", err)
			return
		}

		stats, err := jr.store.PointsRepository.GetStats(ctx)
		if err != nil {
			logger.Error("Failed to read points stats after refresh", "error", err)
			return
		}
		logger.Info("Points stats refreshed",
			"users_with_balance", stats.UsersWithBalance,
			"total_in_circulation", stats.TotalInCirculation,
			"total_earned", stats.TotalEarned,
			"total_spent", stats.TotalSpent)
	})
}
