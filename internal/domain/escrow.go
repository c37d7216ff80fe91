package domain

import "time"

type EscrowStatus string

const (
	EscrowStatusHolding  EscrowStatus = "holding"
	EscrowStatusReleased EscrowStatus = "released"
	EscrowStatusRefunded EscrowStatus = "refunded"
)

// Escrow is the hold placed on a donation transaction. Exactly one escrow
// exists per donation transaction. Status transitions are monotonic:
// holding -> released or holding -> refunded, both terminal.
type Escrow struct {
	ID            int64        `json:"id"`
	TransactionID int64        `json:"transaction_id"`
	AmountCents   int64        `json:"amount_cents"`
	Status        EscrowStatus `json:"status"`
	HoldUntil     time.Time    `json:"hold_until"`
	ReleasedAt    *time.Time   `json:"released_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}
