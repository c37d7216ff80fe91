package domain

import "time"

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

type KYCStatus string

const (
	KYCStatusPending  KYCStatus = "pending"
	KYCStatusApproved KYCStatus = "approved"
	KYCStatusRejected KYCStatus = "rejected"
)

// DefaultTrustScore is assigned at registration and adjusted by cycle events.
const DefaultTrustScore = 5.0

type User struct {
	ID                   int64      `json:"id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	PhoneNumber          string     `json:"phone_number"`
	Location             string     `json:"location"`
	Faith                string     `json:"faith"`
	Status               UserStatus `json:"status"`
	KYCStatus            KYCStatus  `json:"kyc_status"`
	TrustScore           float64    `json:"trust_score"`
	TotalCyclesCompleted int32      `json:"total_cycles_completed"`
	TotalDonatedCents    int64      `json:"total_donated_cents"`
	TotalReceivedCents   int64      `json:"total_received_cents"`
	CharityCoinsBalance  int64      `json:"charity_coins_balance"`
	DeviceToken          string     `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// CanReceive reports whether the user is in a state that allows receiving
// donations at all. The force-recycle rule is layered on top of this.
func (u *User) CanReceive() bool {
	return u.Status == UserStatusActive && u.KYCStatus == KYCStatusApproved
}
