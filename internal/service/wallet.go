package service

import (
	"context"

	"givecycle-backend/internal/domain"
	"givecycle-backend/internal/repository"
)

type walletService struct {
	store repository.Store
}

func NewWalletService(store repository.Store) WalletService {
	return &walletService{store: store}
}

func (s *walletService) GetWallet(ctx context.Context, userID int64) (*domain.Wallet, error) {
	return s.store.WalletRepository().GetByUserID(ctx, userID)
}

func (s *walletService) GetTransactions(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Transaction, int32, error) {
	offset := (page - 1) * pageSize
	return s.store.TransactionRepository().ListByUser(ctx, userID, pageSize, offset)
}

func (s *walletService) GetLeaderboard(ctx context.Context, limit int32) ([]domain.LeaderboardEntry, error) {
	return s.store.LeaderboardRepository().List(ctx, limit)
}
