package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"givecycle-backend/internal/domain"
	"givecycle-backend/internal/repository"
)

type matchRepository struct {
	db DBTX
}

func NewMatchRepository(db DBTX) repository.MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) Create(ctx context.Context, m *domain.Match) error {
	query := `INSERT INTO matches (donor_id, recipient_id, amount_cents, priority_score, status, matched_at, expires_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		m.DonorID, m.RecipientID, m.AmountCents, m.PriorityScore, m.Status, m.MatchedAt, m.ExpiresAt,
	).Scan(&m.ID)
}

func (r *matchRepository) GetByID(ctx context.Context, id int64) (*domain.Match, error) {
	m := &domain.Match{}
	query := `SELECT id, donor_id, recipient_id, amount_cents, priority_score, status, matched_at, expires_at, accepted_at, COALESCE(rejection_reason, '')
	          FROM matches WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.DonorID, &m.RecipientID, &m.AmountCents, &m.PriorityScore, &m.Status,
		&m.MatchedAt, &m.ExpiresAt, &m.AcceptedAt, &m.RejectionReason)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *matchRepository) Accept(ctx context.Context, id int64, acceptedAt time.Time) error {
	query := `UPDATE matches SET status = 'accepted', accepted_at = $1
	          WHERE id = $2 AND status = 'pending' AND expires_at > $1`
	res, err := r.db.ExecContext(ctx, query, acceptedAt, id)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.ErrNoRowsUpdated
	}
	return nil
}

func (r *matchRepository) Reject(ctx context.Context, id int64, reason string) error {
	query := `UPDATE matches SET status = 'rejected', rejection_reason = $1 WHERE id = $2 AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, query, reason, id)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.ErrNoRowsUpdated
	}
	return nil
}

// ExpireStale is a single bulk update; accepted and rejected matches never
// satisfy the predicate, so a concurrent user action always wins.
func (r *matchRepository) ExpireStale(ctx context.Context, now time.Time) ([]domain.Match, error) {
	query := `UPDATE matches SET status = 'expired'
	          WHERE status = 'pending' AND expires_at < $1
	          RETURNING id, donor_id, recipient_id, amount_cents`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.Match
	for rows.Next() {
		m := domain.Match{Status: domain.MatchStatusExpired}
		if err := rows.Scan(&m.ID, &m.DonorID, &m.RecipientID, &m.AmountCents); err != nil {
			return nil, err
		}
		expired = append(expired, m)
	}
	return expired, rows.Err()
}

func (r *matchRepository) ListCandidates(ctx context.Context, donorID int64, location, faith string, limit int32) ([]domain.MatchCandidate, error) {
	query := `SELECT ` + userColumns + `,
	          pc.oldest_pending_at,
	          COALESCE(fc.fulfilled_count, 0)
	          FROM users
	          LEFT JOIN LATERAL (
	              SELECT MIN(created_at) AS oldest_pending_at FROM cycles
	              WHERE cycles.user_id = users.id AND cycles.status = 'pending'
	          ) pc ON TRUE
	          LEFT JOIN LATERAL (
	              SELECT count(*) AS fulfilled_count FROM cycles
	              WHERE cycles.user_id = users.id AND cycles.status = 'fulfilled'
	          ) fc ON TRUE
	          WHERE users.id != $1
	            AND users.status = 'active'
	            AND users.kyc_status = 'approved'
	            AND ($2 = '' OR users.location = $2)
	            AND ($3 = '' OR users.faith = $3)
	          ORDER BY users.id ASC
	          LIMIT $4`
	rows, err := r.db.QueryContext(ctx, query, donorID, location, faith, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []domain.MatchCandidate
	for rows.Next() {
		var c domain.MatchCandidate
		var oldestPending sql.NullTime
		u := &c.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PhoneNumber, &u.Location, &u.Faith, &u.Status, &u.KYCStatus,
			&u.TrustScore, &u.TotalCyclesCompleted, &u.TotalDonatedCents, &u.TotalReceivedCents,
			&u.CharityCoinsBalance, &u.DeviceToken, &u.CreatedAt, &u.UpdatedAt,
			&oldestPending, &c.FulfilledCyclesCount); err != nil {
			return nil, err
		}
		if oldestPending.Valid {
			c.HasPendingCycle = true
			t := oldestPending.Time
			c.OldestPendingCycleAt = &t
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}
