package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"givecycle-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx, so every
// repository works both standalone and inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB

	users         repository.UserRepository
	wallets       repository.WalletRepository
	transactions  repository.TransactionRepository
	escrows       repository.EscrowRepository
	cycles        repository.CycleRepository
	matches       repository.MatchRepository
	notifications repository.NotificationRepository
	leaderboard   repository.LeaderboardRepository
}

func NewStore(db *sql.DB) *Store {
	s := &Store{db: db}
	s.bind(db)
	return s
}

func (s *Store) bind(dbtx DBTX) {
	s.users = NewUserRepository(dbtx)
	s.wallets = NewWalletRepository(dbtx)
	s.transactions = NewTransactionRepository(dbtx)
	s.escrows = NewEscrowRepository(dbtx)
	s.cycles = NewCycleRepository(dbtx)
	s.matches = NewMatchRepository(dbtx)
	s.notifications = NewNotificationRepository(dbtx)
	s.leaderboard = NewLeaderboardRepository(dbtx)
}

func (s *Store) UserRepository() repository.UserRepository                 { return s.users }
func (s *Store) WalletRepository() repository.WalletRepository             { return s.wallets }
func (s *Store) TransactionRepository() repository.TransactionRepository   { return s.transactions }
func (s *Store) EscrowRepository() repository.EscrowRepository             { return s.escrows }
func (s *Store) CycleRepository() repository.CycleRepository               { return s.cycles }
func (s *Store) MatchRepository() repository.MatchRepository               { return s.matches }
func (s *Store) NotificationRepository() repository.NotificationRepository { return s.notifications }
func (s *Store) LeaderboardRepository() repository.LeaderboardRepository   { return s.leaderboard }

// ExecTx runs fn with all repositories bound to one database transaction.
// Any error from fn rolls the whole unit back, so partial application of a
// settlement or a sweep step is impossible.
func (s *Store) ExecTx(ctx context.Context, fn func(repository.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	txStore := &Store{db: s.db}
	txStore.bind(tx)

	if err := fn(txStore); err != nil {
		// Keep fn's error in the chain so sentinel checks still match when
		// the rollback itself fails.
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	return tx.Commit()
}
