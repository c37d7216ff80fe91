package repository

import (
	"context"
	"errors"
	"time"

	"givecycle-backend/internal/domain"
)

// Sentinel errors surfaced by repository implementations. Services translate
// these into caller-facing failures.
var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	// ErrNoRowsUpdated is returned by guarded updates whose WHERE predicate
	// matched nothing: the row was already transitioned by someone else.
	ErrNoRowsUpdated = errors.New("no rows updated")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	AdjustTrustScore(ctx context.Context, userID int64, delta float64) error
	IncrementCyclesCompleted(ctx context.Context, userID int64) error
	AddCharityCoins(ctx context.Context, userID int64, coins int64) error
	AddDonatedTotal(ctx context.Context, userID int64, amountCents int64) error
	AddReceivedTotal(ctx context.Context, userID int64, amountCents int64) error
}

type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByUserID(ctx context.Context, userID int64) (*domain.Wallet, error)
	// Debit subtracts from the spendable balance. The update is guarded by
	// fiat_balance_cents >= amount; ErrInsufficientFunds when it matches no row.
	Debit(ctx context.Context, userID int64, amountCents int64) error
	CreditReceivable(ctx context.Context, userID int64, amountCents int64) error
	// ReleaseReceivable moves amount from receivable to spendable, guarded by
	// receivable_balance_cents >= amount.
	ReleaseReceivable(ctx context.Context, userID int64, amountCents int64) error
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id int64) (*domain.Transaction, error)
	GetByRef(ctx context.Context, ref string) (*domain.Transaction, error)
	// UpdateStatus transitions only rows still in fromStatus (ErrNoRowsUpdated
	// otherwise), keeping terminal transactions immutable.
	UpdateStatus(ctx context.Context, id int64, from, to domain.TransactionStatus) error
	ListByUser(ctx context.Context, userID int64, limit, offset int32) ([]domain.Transaction, int32, error)
	// CountOutgoingSince counts non-failed donation_sent transactions from the
	// user created strictly after the given time.
	CountOutgoingSince(ctx context.Context, userID int64, since time.Time) (int32, error)
}

type EscrowRepository interface {
	Create(ctx context.Context, escrow *domain.Escrow) error
	GetByTransactionID(ctx context.Context, transactionID int64) (*domain.Escrow, error)
	// ListExpiredHolding returns escrows still holding past their hold_until,
	// oldest first, bounded by limit.
	ListExpiredHolding(ctx context.Context, now time.Time, limit int32) ([]domain.Escrow, error)
	// MarkReleased flips holding -> released; ErrNoRowsUpdated when the escrow
	// was already released or refunded.
	MarkReleased(ctx context.Context, id int64, releasedAt time.Time) error
	MarkRefunded(ctx context.Context, id int64) error
}

type CycleRepository interface {
	Create(ctx context.Context, cycle *domain.Cycle) error
	GetByID(ctx context.Context, id int64) (*domain.Cycle, error)
	GetByReceivedTransactionID(ctx context.Context, transactionID int64) (*domain.Cycle, error)
	// OldestWithStatus returns the user's oldest cycle in the given status,
	// or ErrNotFound.
	OldestWithStatus(ctx context.Context, userID int64, status domain.CycleStatus) (*domain.Cycle, error)
	// LatestFulfilled returns the user's most recently fulfilled cycle.
	LatestFulfilled(ctx context.Context, userID int64) (*domain.Cycle, error)
	CountWithStatus(ctx context.Context, userID int64, status domain.CycleStatus) (int32, error)
	// LatestReceivedAt returns the most recent received_at across the user's
	// cycles, or ErrNotFound when the user never received.
	LatestReceivedAt(ctx context.Context, userID int64) (time.Time, error)
	// MarkReceived transitions a pending cycle to in_transit with receipt details.
	MarkReceived(ctx context.Context, id int64, fromUserID, transactionID int64, receivedAt, dueDate time.Time, amountCents int64) error
	// MarkObligated transitions in_transit -> obligated (guarded).
	MarkObligated(ctx context.Context, id int64) error
	// MarkFulfilled transitions obligated -> fulfilled (guarded), linking the
	// outgoing transaction.
	MarkFulfilled(ctx context.Context, id int64, givenTransactionID int64, givenAt time.Time, daysToFulfill int32) error
	// MarkDefaulted transitions obligated -> defaulted (guarded).
	MarkDefaulted(ctx context.Context, id int64) error
	SetSecondDonation(ctx context.Context, id int64) error
	// ListObligatedDueBefore returns obligated cycles whose due date falls
	// before the cutoff, oldest first, bounded by limit.
	ListObligatedDueBefore(ctx context.Context, cutoff time.Time, limit int32) ([]domain.Cycle, error)
	// ListObligatedDueBetween returns obligated cycles due inside the window,
	// used for reminder sweeps.
	ListObligatedDueBetween(ctx context.Context, from, to time.Time) ([]domain.Cycle, error)
}

type MatchRepository interface {
	Create(ctx context.Context, match *domain.Match) error
	GetByID(ctx context.Context, id int64) (*domain.Match, error)
	// Accept transitions pending -> accepted only while unexpired.
	Accept(ctx context.Context, id int64, acceptedAt time.Time) error
	Reject(ctx context.Context, id int64, reason string) error
	// ExpireStale bulk-transitions pending matches past expiry and returns the
	// expired rows so callers can notify the affected parties.
	ExpireStale(ctx context.Context, now time.Time) ([]domain.Match, error)
	// ListCandidates returns up to limit active, KYC-approved users other than
	// the donor (optionally filtered by location and faith), each joined with
	// their oldest pending cycle and fulfilled-cycle count.
	ListCandidates(ctx context.Context, donorID int64, location, faith string, limit int32) ([]domain.MatchCandidate, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	ListByUser(ctx context.Context, userID int64, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
}

type LeaderboardRepository interface {
	// Recompute rebuilds the leaderboard projection wholesale.
	Recompute(ctx context.Context, now time.Time) (int64, error)
	List(ctx context.Context, limit int32) ([]domain.LeaderboardEntry, error)
}

// Store bundles all repositories plus the transactional boundary. ExecTx runs
// fn against a Store whose repositories share one database transaction; fn
// returning an error rolls the whole unit back.
type Store interface {
	UserRepository() UserRepository
	WalletRepository() WalletRepository
	TransactionRepository() TransactionRepository
	EscrowRepository() EscrowRepository
	CycleRepository() CycleRepository
	MatchRepository() MatchRepository
	NotificationRepository() NotificationRepository
	LeaderboardRepository() LeaderboardRepository
	ExecTx(ctx context.Context, fn func(Store) error) error
}
