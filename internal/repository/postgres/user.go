package postgres

import (
	"context"
	"database/sql"
	"errors"

	"givecycle-backend/internal/domain"
	"givecycle-backend/internal/repository"
)

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (name, email, phone_number, location, faith, status, kyc_status, trust_score, device_token, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()) RETURNING id, created_at, updated_at`
	if u.TrustScore == 0 {
		u.TrustScore = domain.DefaultTrustScore
	}
	return r.db.QueryRowContext(ctx, query,
		u.Name, u.Email, u.PhoneNumber, u.Location, u.Faith, u.Status, u.KYCStatus, u.TrustScore, u.DeviceToken,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

const userColumns = `id, name, email, phone_number, location, faith, status, kyc_status, trust_score,
	total_cycles_completed, total_donated_cents, total_received_cents, charity_coins_balance,
	COALESCE(device_token, ''), created_at, updated_at`

func (r *userRepository) scanUser(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PhoneNumber, &u.Location, &u.Faith, &u.Status, &u.KYCStatus,
		&u.TrustScore, &u.TotalCyclesCompleted, &u.TotalDonatedCents, &u.TotalReceivedCents,
		&u.CharityCoinsBalance, &u.DeviceToken, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *userRepository) AdjustTrustScore(ctx context.Context, userID int64, delta float64) error {
	return r.exec(ctx, `UPDATE users SET trust_score = trust_score + $1, updated_at = NOW() WHERE id = $2`, delta, userID)
}

func (r *userRepository) IncrementCyclesCompleted(ctx context.Context, userID int64) error {
	return r.exec(ctx, `UPDATE users SET total_cycles_completed = total_cycles_completed + 1, updated_at = NOW() WHERE id = $1`, userID)
}

func (r *userRepository) AddCharityCoins(ctx context.Context, userID int64, coins int64) error {
	return r.exec(ctx, `UPDATE users SET charity_coins_balance = charity_coins_balance + $1, updated_at = NOW() WHERE id = $2`, coins, userID)
}

func (r *userRepository) AddDonatedTotal(ctx context.Context, userID int64, amountCents int64) error {
	return r.exec(ctx, `UPDATE users SET total_donated_cents = total_donated_cents + $1, updated_at = NOW() WHERE id = $2`, amountCents, userID)
}

func (r *userRepository) AddReceivedTotal(ctx context.Context, userID int64, amountCents int64) error {
	return r.exec(ctx, `UPDATE users SET total_received_cents = total_received_cents + $1, updated_at = NOW() WHERE id = $2`, amountCents, userID)
}

func (r *userRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
