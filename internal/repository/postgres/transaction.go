package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"givecycle-backend/internal/domain"
	"givecycle-backend/internal/repository"
)

type transactionRepository struct {
	db DBTX
}

func NewTransactionRepository(db DBTX) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `id, transaction_ref, type, from_user_id, to_user_id, amount_cents, fee_cents, net_amount_cents, status, created_at, updated_at, completed_at`

func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO transactions (transaction_ref, type, from_user_id, to_user_id, amount_cents, fee_cents, net_amount_cents, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()) RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		t.TransactionRef, t.Type, t.FromUserID, t.ToUserID, t.AmountCents, t.FeeCents, t.NetAmountCents, t.Status,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *transactionRepository) scan(row *sql.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(&t.ID, &t.TransactionRef, &t.Type, &t.FromUserID, &t.ToUserID,
		&t.AmountCents, &t.FeeCents, &t.NetAmountCents, &t.Status, &t.CreatedAt, &t.UpdatedAt, &t.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	return r.scan(r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
}

func (r *transactionRepository) GetByRef(ctx context.Context, ref string) (*domain.Transaction, error) {
	return r.scan(r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE transaction_ref = $1`, ref))
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.TransactionStatus) error {
	query := `UPDATE transactions
	          SET status = $1,
	              completed_at = CASE WHEN $1 IN ('completed', 'failed', 'refunded') THEN NOW() ELSE completed_at END,
	              updated_at = NOW()
	          WHERE id = $2 AND status = $3`
	res, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.ErrNoRowsUpdated
	}
	return nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID int64, limit, offset int32) ([]domain.Transaction, int32, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
	          WHERE from_user_id = $1 OR to_user_id = $1
	          ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.TransactionRef, &t.Type, &t.FromUserID, &t.ToUserID,
			&t.AmountCents, &t.FeeCents, &t.NetAmountCents, &t.Status, &t.CreatedAt, &t.UpdatedAt, &t.CompletedAt); err != nil {
			return nil, 0, err
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	countQuery := `SELECT count(*) FROM transactions WHERE from_user_id = $1 OR to_user_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, err
	}
	return txs, count, nil
}

func (r *transactionRepository) CountOutgoingSince(ctx context.Context, userID int64, since time.Time) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM transactions
	          WHERE from_user_id = $1 AND type = 'donation_sent'
	            AND status NOT IN ('failed', 'refunded')
	            AND created_at > $2`
	err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&count)
	return count, err
}
