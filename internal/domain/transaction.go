package domain

import "time"

type TransactionType string

const (
	TransactionTypeDonationSent TransactionType = "donation_sent"
	TransactionTypeDeposit      TransactionType = "deposit"
	TransactionTypeWithdrawal   TransactionType = "withdrawal"
	TransactionTypeRefund       TransactionType = "refund"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusInTransit TransactionStatus = "in_transit"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusRefunded  TransactionStatus = "refunded"
)

// Transaction is a single money movement. Once it reaches a terminal status
// (completed/failed/refunded) it is immutable apart from audit timestamps.
type Transaction struct {
	ID             int64             `json:"id"`
	TransactionRef string            `json:"transaction_ref"`
	Type           TransactionType   `json:"type"`
	FromUserID     *int64            `json:"from_user_id,omitempty"`
	ToUserID       *int64            `json:"to_user_id,omitempty"`
	AmountCents    int64             `json:"amount_cents"`
	FeeCents       int64             `json:"fee_cents"`
	NetAmountCents int64             `json:"net_amount_cents"`
	Status         TransactionStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
}

// IsTerminal reports whether the transaction can no longer change status.
func (t *Transaction) IsTerminal() bool {
	switch t.Status {
	case TransactionStatusCompleted, TransactionStatusFailed, TransactionStatusRefunded:
		return true
	}
	return false
}
