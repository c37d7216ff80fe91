package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"givecycle-backend/internal/domain"
	"givecycle-backend/internal/repository"
)

type cycleRepository struct {
	db DBTX
}

func NewCycleRepository(db DBTX) repository.CycleRepository {
	return &cycleRepository{db: db}
}

const cycleColumns = `id, user_id, amount_cents, status, received_from_user_id, received_transaction_id, received_at,
	due_date, given_transaction_id, given_at, days_to_fulfill, is_second_donation, created_at, updated_at`

func (r *cycleRepository) Create(ctx context.Context, c *domain.Cycle) error {
	query := `INSERT INTO cycles (user_id, amount_cents, status, received_from_user_id, received_transaction_id, received_at, due_date, is_second_donation, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()) RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		c.UserID, c.AmountCents, c.Status, c.ReceivedFromUserID, c.ReceivedTransactionID, c.ReceivedAt, c.DueDate, c.IsSecondDonation,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func scanCycle(scanner interface{ Scan(...any) error }) (*domain.Cycle, error) {
	c := &domain.Cycle{}
	err := scanner.Scan(&c.ID, &c.UserID, &c.AmountCents, &c.Status, &c.ReceivedFromUserID,
		&c.ReceivedTransactionID, &c.ReceivedAt, &c.DueDate, &c.GivenTransactionID, &c.GivenAt,
		&c.DaysToFulfill, &c.IsSecondDonation, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *cycleRepository) GetByID(ctx context.Context, id int64) (*domain.Cycle, error) {
	return scanCycle(r.db.QueryRowContext(ctx, `SELECT `+cycleColumns+` FROM cycles WHERE id = $1`, id))
}

func (r *cycleRepository) GetByReceivedTransactionID(ctx context.Context, transactionID int64) (*domain.Cycle, error) {
	return scanCycle(r.db.QueryRowContext(ctx,
		`SELECT `+cycleColumns+` FROM cycles WHERE received_transaction_id = $1`, transactionID))
}

func (r *cycleRepository) OldestWithStatus(ctx context.Context, userID int64, status domain.CycleStatus) (*domain.Cycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM cycles
	          WHERE user_id = $1 AND status = $2
	          ORDER BY COALESCE(due_date, created_at) ASC, id ASC LIMIT 1`
	return scanCycle(r.db.QueryRowContext(ctx, query, userID, status))
}

func (r *cycleRepository) LatestFulfilled(ctx context.Context, userID int64) (*domain.Cycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM cycles
	          WHERE user_id = $1 AND status = 'fulfilled'
	          ORDER BY given_at DESC NULLS LAST, id DESC LIMIT 1`
	return scanCycle(r.db.QueryRowContext(ctx, query, userID))
}

func (r *cycleRepository) CountWithStatus(ctx context.Context, userID int64, status domain.CycleStatus) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM cycles WHERE user_id = $1 AND status = $2`, userID, status).Scan(&count)
	return count, err
}

func (r *cycleRepository) LatestReceivedAt(ctx context.Context, userID int64) (time.Time, error) {
	var receivedAt sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(received_at) FROM cycles WHERE user_id = $1 AND received_at IS NOT NULL`, userID).Scan(&receivedAt)
	if err != nil {
		return time.Time{}, err
	}
	if !receivedAt.Valid {
		return time.Time{}, repository.ErrNotFound
	}
	return receivedAt.Time, nil
}

func (r *cycleRepository) MarkReceived(ctx context.Context, id int64, fromUserID, transactionID int64, receivedAt, dueDate time.Time, amountCents int64) error {
	query := `UPDATE cycles
	          SET status = 'in_transit', received_from_user_id = $1, received_transaction_id = $2,
	              received_at = $3, due_date = $4, amount_cents = $5, updated_at = NOW()
	          WHERE id = $6 AND status = 'pending'`
	return r.guarded(ctx, query, fromUserID, transactionID, receivedAt, dueDate, amountCents, id)
}

func (r *cycleRepository) MarkObligated(ctx context.Context, id int64) error {
	query := `UPDATE cycles SET status = 'obligated', updated_at = NOW() WHERE id = $1 AND status = 'in_transit'`
	return r.guarded(ctx, query, id)
}

func (r *cycleRepository) MarkFulfilled(ctx context.Context, id int64, givenTransactionID int64, givenAt time.Time, daysToFulfill int32) error {
	query := `UPDATE cycles
	          SET status = 'fulfilled', given_transaction_id = $1, given_at = $2, days_to_fulfill = $3, updated_at = NOW()
	          WHERE id = $4 AND status = 'obligated'`
	return r.guarded(ctx, query, givenTransactionID, givenAt, daysToFulfill, id)
}

func (r *cycleRepository) MarkDefaulted(ctx context.Context, id int64) error {
	query := `UPDATE cycles SET status = 'defaulted', updated_at = NOW() WHERE id = $1 AND status = 'obligated'`
	return r.guarded(ctx, query, id)
}

func (r *cycleRepository) SetSecondDonation(ctx context.Context, id int64) error {
	query := `UPDATE cycles SET is_second_donation = TRUE, updated_at = NOW() WHERE id = $1`
	return r.guarded(ctx, query, id)
}

func (r *cycleRepository) ListObligatedDueBefore(ctx context.Context, cutoff time.Time, limit int32) ([]domain.Cycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM cycles
	          WHERE status = 'obligated' AND due_date < $1
	          ORDER BY due_date ASC LIMIT $2`
	return r.list(ctx, query, cutoff, limit)
}

func (r *cycleRepository) ListObligatedDueBetween(ctx context.Context, from, to time.Time) ([]domain.Cycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM cycles
	          WHERE status = 'obligated' AND due_date >= $1 AND due_date < $2
	          ORDER BY due_date ASC`
	return r.list(ctx, query, from, to)
}

func (r *cycleRepository) list(ctx context.Context, query string, args ...any) ([]domain.Cycle, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []domain.Cycle
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, *c)
	}
	return cycles, rows.Err()
}

func (r *cycleRepository) guarded(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.ErrNoRowsUpdated
	}
	return nil
}
