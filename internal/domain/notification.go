package domain

import "time"

type Notification struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"user_id"`
	Event      string            `json:"event"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Read       bool              `json:"read"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Notification events emitted by the settlement orchestrator and the
// reconciliation jobs.
const (
	EventDonationReceived = "donation_received"
	EventDonationSent     = "donation_sent"
	EventEscrowReleased   = "escrow_released"
	EventCycleObligated   = "cycle_obligated"
	EventCycleDueSoon     = "cycle_due_soon"
	EventCycleDefaulted   = "cycle_defaulted"
	EventMatchProposed    = "match_proposed"
	EventMatchExpired     = "match_expired"
)
