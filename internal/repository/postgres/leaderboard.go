package postgres

import (
	"context"
	"time"

	"givecycle-backend/internal/domain"
	"givecycle-backend/internal/repository"
)

type leaderboardRepository struct {
	db DBTX
}

func NewLeaderboardRepository(db DBTX) repository.LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

// Recompute rebuilds the projection wholesale. Running it twice in a row
// produces the same table, so overlap with a previous run is harmless.
func (r *leaderboardRepository) Recompute(ctx context.Context, now time.Time) (int64, error) {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM leaderboard_entries`); err != nil {
		return 0, err
	}
	query := `INSERT INTO leaderboard_entries (rank, user_id, total_donated_cents, cycles_completed, avg_days_to_fulfill, computed_at)
	          SELECT ROW_NUMBER() OVER (ORDER BY u.total_donated_cents DESC, u.total_cycles_completed DESC, u.id ASC),
	                 u.id, u.total_donated_cents, u.total_cycles_completed,
	                 COALESCE(c.avg_days, 0), $1
	          FROM users u
	          LEFT JOIN (
	              SELECT user_id, AVG(days_to_fulfill) AS avg_days
	              FROM cycles WHERE status = 'fulfilled' AND days_to_fulfill IS NOT NULL
	              GROUP BY user_id
	          ) c ON c.user_id = u.id
	          WHERE u.status = 'active' AND u.total_donated_cents > 0`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *leaderboardRepository) List(ctx context.Context, limit int32) ([]domain.LeaderboardEntry, error) {
	query := `SELECT l.rank, l.user_id, u.name, l.total_donated_cents, l.cycles_completed, l.avg_days_to_fulfill, l.computed_at
	          FROM leaderboard_entries l
	          JOIN users u ON u.id = l.user_id
	          ORDER BY l.rank ASC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.Rank, &e.UserID, &e.Name, &e.TotalDonatedCents, &e.CyclesCompleted, &e.AvgDaysToFulfill, &e.ComputedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
