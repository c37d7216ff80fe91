package jobs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"givecycle-backend/internal/domain"
	"givecycle-backend/internal/logger"
	"givecycle-backend/internal/repository"
)

// ReleaseExpiredEscrows releases every escrow whose hold has elapsed. Each
// escrow is processed in its own transaction so one bad row never aborts the
// batch, and every mutation is guarded by its pre-transition status so a
// concurrent or repeated run is a no-op.
func (jr *JobRunner) ReleaseExpiredEscrows() {
	jr.runWithRecovery("ReleaseExpiredEscrows", func() {
		ctx := context.Background()
		now := time.Now()

		due, err := jr.store.EscrowRepository().ListExpiredHolding(ctx, now, int32(jr.config.Donation.SweepBatchSize))
		if err != nil {
			logger.Error("Failed to list expired escrows", "error", err)
			return
		}

		released := 0
		for _, escrow := range due {
			if err := jr.releaseOne(ctx, escrow, now); err != nil {
				if errors.Is(err, repository.ErrNoRowsUpdated) {
					// Already released by a concurrent run.
					continue
				}
				logger.Error("Failed to release escrow",
					"escrow_id", escrow.ID,
					"transaction_id", escrow.TransactionID,
					"error", err)
				continue
			}
			released++
		}

		logger.Info("Escrow release sweep completed", "due", len(due), "released", released)
	})
}

func (jr *JobRunner) releaseOne(ctx context.Context, escrow domain.Escrow, now time.Time) error {
	txn, err := jr.store.TransactionRepository().GetByID(ctx, escrow.TransactionID)
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}
	if txn.ToUserID == nil || txn.FromUserID == nil {
		return fmt.Errorf("donation transaction %d missing parties", txn.ID)
	}
	recipientID, donorID := *txn.ToUserID, *txn.FromUserID

	var cycle *domain.Cycle
	err = jr.store.ExecTx(ctx, func(st repository.Store) error {
		if err := st.EscrowRepository().MarkReleased(ctx, escrow.ID, now); err != nil {
			return err
		}
		if err := st.WalletRepository().ReleaseReceivable(ctx, recipientID, escrow.AmountCents); err != nil {
			return fmt.Errorf("move receivable to spendable: %w", err)
		}

		c, err := st.CycleRepository().GetByReceivedTransactionID(ctx, escrow.TransactionID)
		if err != nil {
			return fmt.Errorf("load cycle: %w", err)
		}
		if err := st.CycleRepository().MarkObligated(ctx, c.ID); err != nil {
			return fmt.Errorf("obligate cycle: %w", err)
		}
		cycle = c

		if err := st.UserRepository().AddCharityCoins(ctx, donorID, jr.config.Donation.CharityCoinsReward); err != nil {
			return fmt.Errorf("credit donor charity coins: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	dueDate := ""
	if cycle.DueDate != nil {
		dueDate = cycle.DueDate.Format("2006-01-02")
	}
	jr.notifier.Notify(ctx, recipientID, domain.EventEscrowReleased, map[string]string{
		"amount_cents": strconv.FormatInt(escrow.AmountCents, 10),
	})
	jr.notifier.Notify(ctx, recipientID, domain.EventCycleObligated, map[string]string{
		"amount_cents": strconv.FormatInt(escrow.AmountCents, 10),
		"due_date":     dueDate,
	})
	return nil
}

// ExpireStaleMatches bulk-expires pending matches past their deadline and
// tells each recipient their proposal lapsed. Accepted and rejected matches
// never satisfy the predicate.
func (jr *JobRunner) ExpireStaleMatches() {
	jr.runWithRecovery("ExpireStaleMatches", func() {
		ctx := context.Background()

		expired, err := jr.store.MatchRepository().ExpireStale(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to expire stale matches", "error", err)
			return
		}
		for _, match := range expired {
			jr.notifier.Notify(ctx, match.RecipientID, domain.EventMatchExpired, map[string]string{
				"match_id":     strconv.FormatInt(match.ID, 10),
				"amount_cents": strconv.FormatInt(match.AmountCents, 10),
			})
		}
		logger.Info("Match expiry sweep completed", "expired", len(expired))
	})
}

// SweepCycleDueDates sends reminders for obligations coming due and defaults
// the ones already past due, decrementing trust once per cycle.
func (jr *JobRunner) SweepCycleDueDates() {
	jr.runWithRecovery("SweepCycleDueDates", func() {
		ctx := context.Background()
		now := time.Now()

		reminderCutoff := now.Add(time.Duration(jr.config.Donation.ReminderWindowDays) * 24 * time.Hour)
		dueSoon, err := jr.store.CycleRepository().ListObligatedDueBetween(ctx, now, reminderCutoff)
		if err != nil {
			logger.Error("Failed to list cycles due soon", "error", err)
		} else {
			for _, cycle := range dueSoon {
				dueDate := ""
				if cycle.DueDate != nil {
					dueDate = cycle.DueDate.Format("2006-01-02")
				}
				jr.notifier.Notify(ctx, cycle.UserID, domain.EventCycleDueSoon, map[string]string{
					"amount_cents": strconv.FormatInt(cycle.AmountCents, 10),
					"due_date":     dueDate,
				})
			}
			logger.Info("Cycle reminders sent", "count", len(dueSoon))
		}

		overdue, err := jr.store.CycleRepository().ListObligatedDueBefore(ctx, now, int32(jr.config.Donation.SweepBatchSize))
		if err != nil {
			logger.Error("Failed to list overdue cycles", "error", err)
			return
		}

		defaulted := 0
		for _, cycle := range overdue {
			err := jr.store.ExecTx(ctx, func(st repository.Store) error {
				if err := st.CycleRepository().MarkDefaulted(ctx, cycle.ID); err != nil {
					return err
				}
				return st.UserRepository().AdjustTrustScore(ctx, cycle.UserID, -jr.config.Donation.TrustPenaltyDefault)
			})
			if err != nil {
				if errors.Is(err, repository.ErrNoRowsUpdated) {
					continue
				}
				logger.Error("Failed to default cycle", "cycle_id", cycle.ID, "user_id", cycle.UserID, "error", err)
				continue
			}
			defaulted++

			jr.notifier.Notify(ctx, cycle.UserID, domain.EventCycleDefaulted, map[string]string{
				"amount_cents": strconv.FormatInt(cycle.AmountCents, 10),
			})
		}

		logger.Info("Cycle due-date sweep completed", "overdue", len(overdue), "defaulted", defaulted)
	})
}
