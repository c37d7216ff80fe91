package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"givecycle-backend/internal/config"
	"givecycle-backend/internal/domain"
	"givecycle-backend/internal/logger"
	"givecycle-backend/internal/repository"
)

// Priority score weights. A candidate already waiting on a pending cycle is
// strongly preferred; waiting time and completed history cap out so trust
// score stays the dominant long-term signal.
const (
	trustScoreWeight     = 20.0
	pendingCycleBonus    = 50.0
	locationMatchBonus   = 30.0
	waitingDaysWeight    = 2.0
	waitingDaysCap       = 40.0
	completedCycleWeight = 5.0
	completedCycleCap    = 30.0
)

type matchingService struct {
	store    repository.Store
	notifier Notifier
	cfg      config.DonationConfig
}

func NewMatchingService(store repository.Store, notifier Notifier, cfg config.DonationConfig) MatchingService {
	return &matchingService{store: store, notifier: notifier, cfg: cfg}
}

// FindBestMatch selects the highest-scoring eligible candidate and writes a
// pending Match. Ties break toward the lowest user ID: candidates arrive
// ordered by ID and only a strictly greater score displaces the current best.
func (s *matchingService) FindBestMatch(ctx context.Context, donorID, amountCents int64, prefs domain.MatchPreferences) (*domain.Match, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	donor, err := s.store.UserRepository().GetByID(ctx, donorID)
	if err != nil {
		return nil, fmt.Errorf("load donor: %w", err)
	}

	candidates, err := s.store.MatchRepository().ListCandidates(ctx, donorID, prefs.Location, prefs.Faith, int32(s.cfg.MaxMatchCandidates))
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	now := time.Now()
	var best *domain.MatchCandidate
	var bestScore float64
	for i := range candidates {
		c := &candidates[i]
		eligibility, err := CheckEligibility(ctx, s.store, c.User.ID)
		if err != nil {
			return nil, fmt.Errorf("check eligibility for user %d: %w", c.User.ID, err)
		}
		if !eligibility.Eligible {
			continue
		}

		score := scoreCandidate(c, donor, now)
		if best == nil || score > bestScore {
			best = c
			bestScore = score
		}
	}

	if best == nil {
		return nil, ErrNoEligibleRecipient
	}

	match := &domain.Match{
		DonorID:       donorID,
		RecipientID:   best.User.ID,
		AmountCents:   amountCents,
		PriorityScore: bestScore,
		Status:        domain.MatchStatusPending,
		MatchedAt:     now,
		ExpiresAt:     now.Add(time.Duration(s.cfg.MatchExpiryHours) * time.Hour),
	}
	if err := s.store.MatchRepository().Create(ctx, match); err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}

	logger.Info("Match created",
		"match_id", match.ID,
		"donor_id", donorID,
		"recipient_id", best.User.ID,
		"score", bestScore)

	s.notifier.Notify(ctx, best.User.ID, domain.EventMatchProposed, map[string]string{
		"match_id":     strconv.FormatInt(match.ID, 10),
		"amount_cents": strconv.FormatInt(amountCents, 10),
	})

	return match, nil
}

func scoreCandidate(c *domain.MatchCandidate, donor *domain.User, now time.Time) float64 {
	score := c.User.TrustScore * trustScoreWeight

	if c.HasPendingCycle {
		score += pendingCycleBonus
	}
	if donor.Location != "" && c.User.Location == donor.Location {
		score += locationMatchBonus
	}
	if c.OldestPendingCycleAt != nil {
		days := now.Sub(*c.OldestPendingCycleAt).Hours() / 24
		waiting := days * waitingDaysWeight
		if waiting > waitingDaysCap {
			waiting = waitingDaysCap
		}
		score += waiting
	}
	completed := float64(c.FulfilledCyclesCount) * completedCycleWeight
	if completed > completedCycleCap {
		completed = completedCycleCap
	}
	score += completed

	return score
}
