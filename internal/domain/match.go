package domain

import "time"

type MatchStatus string

const (
	MatchStatusPending  MatchStatus = "pending"
	MatchStatusAccepted MatchStatus = "accepted"
	MatchStatusRejected MatchStatus = "rejected"
	MatchStatusExpired  MatchStatus = "expired"
)

// Match is a time-boxed proposed donor/recipient pairing produced by the
// matching engine. Accepted, rejected and expired are terminal.
type Match struct {
	ID              int64       `json:"id"`
	DonorID         int64       `json:"donor_id"`
	RecipientID     int64       `json:"recipient_id"`
	AmountCents     int64       `json:"amount_cents"`
	PriorityScore   float64     `json:"priority_score"`
	Status          MatchStatus `json:"status"`
	MatchedAt       time.Time   `json:"matched_at"`
	ExpiresAt       time.Time   `json:"expires_at"`
	AcceptedAt      *time.Time  `json:"accepted_at,omitempty"`
	RejectionReason string      `json:"rejection_reason,omitempty"`
}

// MatchPreferences narrows the candidate pool when a donor asks for a match.
type MatchPreferences struct {
	Location string `json:"location,omitempty"`
	Faith    string `json:"faith,omitempty"`
}

// MatchCandidate is a scoring-input row: one eligible-looking user plus the
// cycle aggregates the priority formula needs.
type MatchCandidate struct {
	User                 User
	HasPendingCycle      bool
	OldestPendingCycleAt *time.Time
	FulfilledCyclesCount int32
}

// Eligibility is the outcome of the force-recycle check for one user.
type Eligibility struct {
	UserID         int64  `json:"user_id"`
	Eligible       bool   `json:"eligible"`
	Reason         string `json:"reason"`
	PendingCount   int32  `json:"pending_count"`
	CompletedCount int32  `json:"completed_count"`
}
