package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"givecycle-backend/internal/domain"
	"givecycle-backend/internal/repository"
)

type escrowRepository struct {
	db DBTX
}

func NewEscrowRepository(db DBTX) repository.EscrowRepository {
	return &escrowRepository{db: db}
}

func (r *escrowRepository) Create(ctx context.Context, e *domain.Escrow) error {
	query := `INSERT INTO escrows (transaction_id, amount_cents, status, hold_until, created_at)
	          VALUES ($1, $2, $3, $4, NOW()) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, e.TransactionID, e.AmountCents, e.Status, e.HoldUntil).
		Scan(&e.ID, &e.CreatedAt)
}

func (r *escrowRepository) GetByTransactionID(ctx context.Context, transactionID int64) (*domain.Escrow, error) {
	e := &domain.Escrow{}
	query := `SELECT id, transaction_id, amount_cents, status, hold_until, released_at, created_at
	          FROM escrows WHERE transaction_id = $1`
	err := r.db.QueryRowContext(ctx, query, transactionID).Scan(
		&e.ID, &e.TransactionID, &e.AmountCents, &e.Status, &e.HoldUntil, &e.ReleasedAt, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *escrowRepository) ListExpiredHolding(ctx context.Context, now time.Time, limit int32) ([]domain.Escrow, error) {
	query := `SELECT id, transaction_id, amount_cents, status, hold_until, released_at, created_at
	          FROM escrows
	          WHERE status = 'holding' AND hold_until < $1
	          ORDER BY hold_until ASC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var escrows []domain.Escrow
	for rows.Next() {
		var e domain.Escrow
		if err := rows.Scan(&e.ID, &e.TransactionID, &e.AmountCents, &e.Status, &e.HoldUntil, &e.ReleasedAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		escrows = append(escrows, e)
	}
	return escrows, rows.Err()
}

// MarkReleased carries the pre-transition status in the predicate so a second
// release attempt matches zero rows instead of double-releasing.
func (r *escrowRepository) MarkReleased(ctx context.Context, id int64, releasedAt time.Time) error {
	query := `UPDATE escrows SET status = 'released', released_at = $1 WHERE id = $2 AND status = 'holding'`
	res, err := r.db.ExecContext(ctx, query, releasedAt, id)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.ErrNoRowsUpdated
	}
	return nil
}

func (r *escrowRepository) MarkRefunded(ctx context.Context, id int64) error {
	query := `UPDATE escrows SET status = 'refunded' WHERE id = $1 AND status = 'holding'`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.ErrNoRowsUpdated
	}
	return nil
}
