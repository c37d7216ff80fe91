package service

import (
	"context"

	"givecycle-backend/internal/domain"
)

// RecipientSelection carries the caller's choice when initiating a donation:
// an explicit recipient, or a request to run the matching engine.
type RecipientSelection struct {
	RecipientID *int64                  `json:"recipient_id,omitempty"`
	UseMatching bool                    `json:"use_matching"`
	Preferences domain.MatchPreferences `json:"preferences"`
}

type SettlementService interface {
	// InitiateDonation settles immediately against an explicit recipient, or
	// produces a pending Match when matching was requested. Exactly one of the
	// returned transaction/match is non-nil on success.
	InitiateDonation(ctx context.Context, donorID, amountCents int64, sel RecipientSelection) (*domain.Transaction, *domain.Match, error)
	SettleDonation(ctx context.Context, donorID, amountCents, recipientID int64) (*domain.Transaction, error)
	ConfirmReceipt(ctx context.Context, userID, transactionID int64, confirm bool) (*domain.Transaction, error)
	RequestToReceive(ctx context.Context, userID, amountCents int64) (*domain.Cycle, error)
	AcceptMatch(ctx context.Context, userID, matchID int64) (*domain.Transaction, error)
	RejectMatch(ctx context.Context, userID, matchID int64, reason string) error
}

type MatchingService interface {
	FindBestMatch(ctx context.Context, donorID, amountCents int64, prefs domain.MatchPreferences) (*domain.Match, error)
}

type EligibilityService interface {
	CheckEligibility(ctx context.Context, userID int64) (*domain.Eligibility, error)
}

type WalletService interface {
	GetWallet(ctx context.Context, userID int64) (*domain.Wallet, error)
	GetTransactions(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Transaction, int32, error)
	GetLeaderboard(ctx context.Context, limit int32) ([]domain.LeaderboardEntry, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int64) error
}

// Notifier delivers settlement and obligation events. Delivery is
// fire-and-forget: failures are logged and never block ledger mutations.
type Notifier interface {
	Notify(ctx context.Context, userID int64, event string, payload map[string]string)
}

// EmailService sends transactional email.
type EmailService interface {
	Send(ctx context.Context, toEmail, toName, subject, body string) error
}

// PushService delivers mobile push notifications.
type PushService interface {
	Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error
}
