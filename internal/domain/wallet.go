package domain

import "time"

// Wallet holds a user's balances. FiatBalanceCents is spendable;
// ReceivableBalanceCents is escrowed-incoming money that becomes spendable
// only when the escrow hold is released. FiatBalanceCents never goes negative:
// debits are guarded at the storage layer.
type Wallet struct {
	ID                      int64     `json:"id"`
	UserID                  int64     `json:"user_id"`
	FiatBalanceCents        int64     `json:"fiat_balance_cents"`
	ReceivableBalanceCents  int64     `json:"receivable_balance_cents"`
	PendingObligationsCents int64     `json:"pending_obligations_cents"`
	TotalInflowsCents       int64     `json:"total_inflows_cents"`
	TotalOutflowsCents      int64     `json:"total_outflows_cents"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}
