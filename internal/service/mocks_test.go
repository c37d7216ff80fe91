package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"givecycle-backend/internal/domain"
	"givecycle-backend/internal/repository"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) AdjustTrustScore(ctx context.Context, userID int64, delta float64) error {
	args := m.Called(ctx, userID, delta)
	return args.Error(0)
}
func (m *MockUserRepo) IncrementCyclesCompleted(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockUserRepo) AddCharityCoins(ctx context.Context, userID int64, coins int64) error {
	args := m.Called(ctx, userID, coins)
	return args.Error(0)
}
func (m *MockUserRepo) AddDonatedTotal(ctx context.Context, userID int64, amountCents int64) error {
	args := m.Called(ctx, userID, amountCents)
	return args.Error(0)
}
func (m *MockUserRepo) AddReceivedTotal(ctx context.Context, userID int64, amountCents int64) error {
	args := m.Called(ctx, userID, amountCents)
	return args.Error(0)
}

// MockWalletRepo
type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) Create(ctx context.Context, wallet *domain.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}
func (m *MockWalletRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletRepo) Debit(ctx context.Context, userID int64, amountCents int64) error {
	args := m.Called(ctx, userID, amountCents)
	return args.Error(0)
}
func (m *MockWalletRepo) CreditReceivable(ctx context.Context, userID int64, amountCents int64) error {
	args := m.Called(ctx, userID, amountCents)
	return args.Error(0)
}
func (m *MockWalletRepo) ReleaseReceivable(ctx context.Context, userID int64, amountCents int64) error {
	args := m.Called(ctx, userID, amountCents)
	return args.Error(0)
}

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockTransactionRepo) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) GetByRef(ctx context.Context, ref string) (*domain.Transaction, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.TransactionStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}
func (m *MockTransactionRepo) ListByUser(ctx context.Context, userID int64, limit, offset int32) ([]domain.Transaction, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Transaction), args.Get(1).(int32), args.Error(2)
}
func (m *MockTransactionRepo) CountOutgoingSince(ctx context.Context, userID int64, since time.Time) (int32, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(int32), args.Error(1)
}

// MockEscrowRepo
type MockEscrowRepo struct {
	mock.Mock
}

func (m *MockEscrowRepo) Create(ctx context.Context, escrow *domain.Escrow) error {
	args := m.Called(ctx, escrow)
	return args.Error(0)
}
func (m *MockEscrowRepo) GetByTransactionID(ctx context.Context, transactionID int64) (*domain.Escrow, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Escrow), args.Error(1)
}
func (m *MockEscrowRepo) ListExpiredHolding(ctx context.Context, now time.Time, limit int32) ([]domain.Escrow, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]domain.Escrow), args.Error(1)
}
func (m *MockEscrowRepo) MarkReleased(ctx context.Context, id int64, releasedAt time.Time) error {
	args := m.Called(ctx, id, releasedAt)
	return args.Error(0)
}
func (m *MockEscrowRepo) MarkRefunded(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCycleRepo
type MockCycleRepo struct {
	mock.Mock
}

func (m *MockCycleRepo) Create(ctx context.Context, cycle *domain.Cycle) error {
	args := m.Called(ctx, cycle)
	return args.Error(0)
}
func (m *MockCycleRepo) GetByID(ctx context.Context, id int64) (*domain.Cycle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cycle), args.Error(1)
}
func (m *MockCycleRepo) GetByReceivedTransactionID(ctx context.Context, transactionID int64) (*domain.Cycle, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cycle), args.Error(1)
}
func (m *MockCycleRepo) OldestWithStatus(ctx context.Context, userID int64, status domain.CycleStatus) (*domain.Cycle, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cycle), args.Error(1)
}
func (m *MockCycleRepo) LatestFulfilled(ctx context.Context, userID int64) (*domain.Cycle, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cycle), args.Error(1)
}
func (m *MockCycleRepo) CountWithStatus(ctx context.Context, userID int64, status domain.CycleStatus) (int32, error) {
	args := m.Called(ctx, userID, status)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockCycleRepo) LatestReceivedAt(ctx context.Context, userID int64) (time.Time, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(time.Time), args.Error(1)
}
func (m *MockCycleRepo) MarkReceived(ctx context.Context, id int64, fromUserID, transactionID int64, receivedAt, dueDate time.Time, amountCents int64) error {
	args := m.Called(ctx, id, fromUserID, transactionID, receivedAt, dueDate, amountCents)
	return args.Error(0)
}
func (m *MockCycleRepo) MarkObligated(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCycleRepo) MarkFulfilled(ctx context.Context, id int64, givenTransactionID int64, givenAt time.Time, daysToFulfill int32) error {
	args := m.Called(ctx, id, givenTransactionID, givenAt, daysToFulfill)
	return args.Error(0)
}
func (m *MockCycleRepo) MarkDefaulted(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCycleRepo) SetSecondDonation(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCycleRepo) ListObligatedDueBefore(ctx context.Context, cutoff time.Time, limit int32) ([]domain.Cycle, error) {
	args := m.Called(ctx, cutoff, limit)
	return args.Get(0).([]domain.Cycle), args.Error(1)
}
func (m *MockCycleRepo) ListObligatedDueBetween(ctx context.Context, from, to time.Time) ([]domain.Cycle, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.Cycle), args.Error(1)
}

// MockMatchRepo
type MockMatchRepo struct {
	mock.Mock
}

func (m *MockMatchRepo) Create(ctx context.Context, match *domain.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}
func (m *MockMatchRepo) GetByID(ctx context.Context, id int64) (*domain.Match, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Match), args.Error(1)
}
func (m *MockMatchRepo) Accept(ctx context.Context, id int64, acceptedAt time.Time) error {
	args := m.Called(ctx, id, acceptedAt)
	return args.Error(0)
}
func (m *MockMatchRepo) Reject(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}
func (m *MockMatchRepo) ExpireStale(ctx context.Context, now time.Time) ([]domain.Match, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.Match), args.Error(1)
}
func (m *MockMatchRepo) ListCandidates(ctx context.Context, donorID int64, location, faith string, limit int32) ([]domain.MatchCandidate, error) {
	args := m.Called(ctx, donorID, location, faith, limit)
	return args.Get(0).([]domain.MatchCandidate), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) ListByUser(ctx context.Context, userID int64, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockLeaderboardRepo
type MockLeaderboardRepo struct {
	mock.Mock
}

func (m *MockLeaderboardRepo) Recompute(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockLeaderboardRepo) List(ctx context.Context, limit int32) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}

// mockStore bundles the mocks behind the Store interface. ExecTx simply runs
// fn against the same store, so transactional orchestration is exercised
// without a database.
type mockStore struct {
	users         *MockUserRepo
	wallets       *MockWalletRepo
	transactions  *MockTransactionRepo
	escrows       *MockEscrowRepo
	cycles        *MockCycleRepo
	matches       *MockMatchRepo
	notifications *MockNotificationRepo
	leaderboard   *MockLeaderboardRepo
}

func newMockStore() *mockStore {
	return &mockStore{
		users:         new(MockUserRepo),
		wallets:       new(MockWalletRepo),
		transactions:  new(MockTransactionRepo),
		escrows:       new(MockEscrowRepo),
		cycles:        new(MockCycleRepo),
		matches:       new(MockMatchRepo),
		notifications: new(MockNotificationRepo),
		leaderboard:   new(MockLeaderboardRepo),
	}
}

func (s *mockStore) UserRepository() repository.UserRepository         { return s.users }
func (s *mockStore) WalletRepository() repository.WalletRepository     { return s.wallets }
func (s *mockStore) TransactionRepository() repository.TransactionRepository {
	return s.transactions
}
func (s *mockStore) EscrowRepository() repository.EscrowRepository { return s.escrows }
func (s *mockStore) CycleRepository() repository.CycleRepository   { return s.cycles }
func (s *mockStore) MatchRepository() repository.MatchRepository   { return s.matches }
func (s *mockStore) NotificationRepository() repository.NotificationRepository {
	return s.notifications
}
func (s *mockStore) LeaderboardRepository() repository.LeaderboardRepository {
	return s.leaderboard
}
func (s *mockStore) ExecTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

// recordingNotifier captures events without delivering anything.
type recordingNotifier struct {
	events []string
	users  []int64
}

func (n *recordingNotifier) Notify(_ context.Context, userID int64, event string, _ map[string]string) {
	n.events = append(n.events, event)
	n.users = append(n.users, userID)
}
