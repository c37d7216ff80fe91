package service

import "errors"

// Validation failures: surfaced synchronously, no partial state created.
var (
	ErrInvalidAmount       = errors.New("donation amount must be positive")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrRecipientNotFound   = errors.New("recipient not found")
	ErrRecipientInactive   = errors.New("recipient cannot receive donations")
	ErrSelfDonation        = errors.New("cannot donate to yourself")
)

// Eligibility outcomes: a "no match" result, not a system failure.
var (
	ErrNoEligibleRecipient = errors.New("no eligible recipient found")
	ErrRecipientIneligible = errors.New("recipient is no longer eligible to receive")
	ErrPendingCycleExists  = errors.New("an open receive request already exists")
)

// Conflicts: the row already reached a terminal state; retries are no-ops.
var (
	ErrAlreadyProcessed = errors.New("transaction already processed")
	ErrMatchNotPending  = errors.New("match is not pending or has expired")
	ErrNotYourMatch     = errors.New("match does not belong to this user")
	ErrNotYourReceipt   = errors.New("transaction was not sent to this user")
)
