package domain

import "time"

type CycleStatus string

const (
	// CycleStatusPending is a registered request to receive, waiting for a match.
	CycleStatusPending CycleStatus = "pending"
	// CycleStatusInTransit means a donation has been settled to the user and
	// sits in escrow.
	CycleStatusInTransit CycleStatus = "in_transit"
	// CycleStatusObligated starts when escrow is released: the user owes a
	// pay-forward donation before the due date.
	CycleStatusObligated CycleStatus = "obligated"
	CycleStatusFulfilled CycleStatus = "fulfilled"
	CycleStatusDefaulted CycleStatus = "defaulted"
)

// Cycle tracks one received donation and the obligation it creates.
// pending -> in_transit -> obligated -> fulfilled | defaulted.
// Fulfilled and defaulted never revert.
type Cycle struct {
	ID                    int64       `json:"id"`
	UserID                int64       `json:"user_id"`
	AmountCents           int64       `json:"amount_cents"`
	Status                CycleStatus `json:"status"`
	ReceivedFromUserID    *int64      `json:"received_from_user_id,omitempty"`
	ReceivedTransactionID *int64      `json:"received_transaction_id,omitempty"`
	ReceivedAt            *time.Time  `json:"received_at,omitempty"`
	DueDate               *time.Time  `json:"due_date,omitempty"`
	GivenTransactionID    *int64      `json:"given_transaction_id,omitempty"`
	GivenAt               *time.Time  `json:"given_at,omitempty"`
	DaysToFulfill         *int32      `json:"days_to_fulfill,omitempty"`
	IsSecondDonation      bool        `json:"is_second_donation"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}
