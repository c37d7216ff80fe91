package service

import (
	"context"
	"errors"
	"fmt"

	"givecycle-backend/internal/domain"
	"givecycle-backend/internal/repository"
)

type eligibilityService struct {
	store repository.Store
}

func NewEligibilityService(store repository.Store) EligibilityService {
	return &eligibilityService{store: store}
}

func (s *eligibilityService) CheckEligibility(ctx context.Context, userID int64) (*domain.Eligibility, error) {
	return CheckEligibility(ctx, s.store, userID)
}

// requiredPayForwardDonations is the force-recycle rule: after receiving once,
// a user must send this many donations before they may receive again.
const requiredPayForwardDonations = 2

// CheckEligibility evaluates the force-recycle rule against the given store.
// The settlement orchestrator calls this with its transaction-bound store so
// the decision and the mutations it gates read the same snapshot.
func CheckEligibility(ctx context.Context, st repository.Store, userID int64) (*domain.Eligibility, error) {
	result := &domain.Eligibility{UserID: userID}

	// An open obligation blocks receiving outright, regardless of history.
	obligated, err := st.CycleRepository().CountWithStatus(ctx, userID, domain.CycleStatusObligated)
	if err != nil {
		return nil, fmt.Errorf("count obligated cycles: %w", err)
	}
	result.PendingCount = obligated
	if obligated > 0 {
		result.Reason = "user has an unfulfilled pay-forward obligation"
		return result, nil
	}

	lastReceivedAt, err := st.CycleRepository().LatestReceivedAt(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		// First-time recipients are always eligible.
		result.Eligible = true
		result.Reason = "first-time recipient"
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest receipt: %w", err)
	}

	sent, err := st.TransactionRepository().CountOutgoingSince(ctx, userID, lastReceivedAt)
	if err != nil {
		return nil, fmt.Errorf("count outgoing donations: %w", err)
	}
	result.CompletedCount = sent

	if sent < requiredPayForwardDonations {
		result.Reason = fmt.Sprintf("must pay forward %d more donation(s) before receiving again",
			requiredPayForwardDonations-sent)
		return result, nil
	}

	result.Eligible = true
	result.Reason = "pay-forward requirement met"
	return result, nil
}
