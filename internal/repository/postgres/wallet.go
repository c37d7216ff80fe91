package postgres

import (
	"context"
	"database/sql"
	"errors"

	"givecycle-backend/internal/domain"
	"givecycle-backend/internal/repository"
)

type walletRepository struct {
	db DBTX
}

func NewWalletRepository(db DBTX) repository.WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO wallets (user_id, fiat_balance_cents, receivable_balance_cents, pending_obligations_cents, total_inflows_cents, total_outflows_cents, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW()) RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		w.UserID, w.FiatBalanceCents, w.ReceivableBalanceCents, w.PendingObligationsCents, w.TotalInflowsCents, w.TotalOutflowsCents,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	query := `SELECT id, user_id, fiat_balance_cents, receivable_balance_cents, pending_obligations_cents, total_inflows_cents, total_outflows_cents, created_at, updated_at
	          FROM wallets WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&w.ID, &w.UserID, &w.FiatBalanceCents, &w.ReceivableBalanceCents, &w.PendingObligationsCents,
		&w.TotalInflowsCents, &w.TotalOutflowsCents, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Debit is guarded so the spendable balance can never go negative. Zero rows
// affected means the balance was insufficient at execution time.
func (r *walletRepository) Debit(ctx context.Context, userID int64, amountCents int64) error {
	query := `UPDATE wallets
	          SET fiat_balance_cents = fiat_balance_cents - $1,
	              total_outflows_cents = total_outflows_cents + $1,
	              updated_at = NOW()
	          WHERE user_id = $2 AND fiat_balance_cents >= $1`
	res, err := r.db.ExecContext(ctx, query, amountCents, userID)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.ErrInsufficientFunds
	}
	return nil
}

func (r *walletRepository) CreditReceivable(ctx context.Context, userID int64, amountCents int64) error {
	query := `UPDATE wallets
	          SET receivable_balance_cents = receivable_balance_cents + $1,
	              total_inflows_cents = total_inflows_cents + $1,
	              updated_at = NOW()
	          WHERE user_id = $2`
	res, err := r.db.ExecContext(ctx, query, amountCents, userID)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *walletRepository) ReleaseReceivable(ctx context.Context, userID int64, amountCents int64) error {
	query := `UPDATE wallets
	          SET receivable_balance_cents = receivable_balance_cents - $1,
	              fiat_balance_cents = fiat_balance_cents + $1,
	              updated_at = NOW()
	          WHERE user_id = $2 AND receivable_balance_cents >= $1`
	res, err := r.db.ExecContext(ctx, query, amountCents, userID)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.ErrNoRowsUpdated
	}
	return nil
}
