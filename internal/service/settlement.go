package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"givecycle-backend/internal/config"
	"givecycle-backend/internal/domain"
	"givecycle-backend/internal/logger"
	"givecycle-backend/internal/repository"
)

type settlementService struct {
	store    repository.Store
	matching MatchingService
	notifier Notifier
	cfg      config.DonationConfig
}

func NewSettlementService(store repository.Store, matching MatchingService, notifier Notifier, cfg config.DonationConfig) SettlementService {
	return &settlementService{store: store, matching: matching, notifier: notifier, cfg: cfg}
}

func (s *settlementService) InitiateDonation(ctx context.Context, donorID, amountCents int64, sel RecipientSelection) (*domain.Transaction, *domain.Match, error) {
	if sel.RecipientID != nil {
		tx, err := s.SettleDonation(ctx, donorID, amountCents, *sel.RecipientID)
		return tx, nil, err
	}
	if !sel.UseMatching {
		return nil, nil, ErrRecipientNotFound
	}
	match, err := s.matching.FindBestMatch(ctx, donorID, amountCents, sel.Preferences)
	if err != nil {
		return nil, nil, err
	}
	return nil, match, nil
}

// SettleDonation runs the donor-to-recipient transfer as one all-or-nothing
// unit: transaction + escrow + obligation discharge + wallet moves + recipient
// cycle. Nothing is visible until commit; a failed attempt leaves no residue
// and the whole call is safe to retry.
func (s *settlementService) SettleDonation(ctx context.Context, donorID, amountCents, recipientID int64) (*domain.Transaction, error) {
	if err := s.validateDonation(ctx, donorID, amountCents, recipientID); err != nil {
		return nil, err
	}

	now := time.Now()
	txn := newDonationTransaction(donorID, recipientID, amountCents, now)

	err := s.store.ExecTx(ctx, func(st repository.Store) error {
		return s.settleTx(ctx, st, txn, now)
	})
	if err != nil {
		return nil, err
	}

	s.finishSettlement(ctx, txn)
	return txn, nil
}

// validateDonation runs the pre-transaction checks: amount, parties, recipient
// state, spendable balance. No mutation happens here.
func (s *settlementService) validateDonation(ctx context.Context, donorID, amountCents, recipientID int64) error {
	if amountCents <= 0 {
		return ErrInvalidAmount
	}
	if donorID == recipientID {
		return ErrSelfDonation
	}

	recipient, err := s.store.UserRepository().GetByID(ctx, recipientID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRecipientNotFound
	}
	if err != nil {
		return fmt.Errorf("load recipient: %w", err)
	}
	if !recipient.CanReceive() {
		return ErrRecipientInactive
	}

	wallet, err := s.store.WalletRepository().GetByUserID(ctx, donorID)
	if err != nil {
		return fmt.Errorf("load donor wallet: %w", err)
	}
	if wallet.FiatBalanceCents < amountCents {
		return ErrInsufficientBalance
	}
	return nil
}

// settleTx applies the atomic settlement steps against st, which is expected
// to be transaction-bound.
func (s *settlementService) settleTx(ctx context.Context, st repository.Store, txn *domain.Transaction, now time.Time) error {
	donorID, recipientID := *txn.FromUserID, *txn.ToUserID
	amountCents := txn.AmountCents

	// Re-validate the force-recycle rule on the transaction's snapshot so
	// two concurrent donations cannot both land on a recipient who became
	// ineligible after matching.
	eligibility, err := CheckEligibility(ctx, st, recipientID)
	if err != nil {
		return err
	}
	if !eligibility.Eligible {
		return ErrRecipientIneligible
	}

	if err := st.TransactionRepository().Create(ctx, txn); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	if err := s.dischargeObligation(ctx, st, donorID, txn.ID, now); err != nil {
		return err
	}

	escrow := &domain.Escrow{
		TransactionID: txn.ID,
		AmountCents:   amountCents,
		Status:        domain.EscrowStatusHolding,
		HoldUntil:     now.Add(time.Duration(s.cfg.EscrowHoldHours) * time.Hour),
	}
	if err := st.EscrowRepository().Create(ctx, escrow); err != nil {
		return fmt.Errorf("create escrow: %w", err)
	}

	if err := st.WalletRepository().Debit(ctx, donorID, amountCents); err != nil {
		if errors.Is(err, repository.ErrInsufficientFunds) {
			return ErrInsufficientBalance
		}
		return fmt.Errorf("debit donor: %w", err)
	}
	if err := st.WalletRepository().CreditReceivable(ctx, recipientID, amountCents); err != nil {
		return fmt.Errorf("credit recipient receivable: %w", err)
	}

	if err := s.attachRecipientCycle(ctx, st, recipientID, donorID, txn.ID, amountCents, now); err != nil {
		return err
	}

	if err := st.UserRepository().AddDonatedTotal(ctx, donorID, amountCents); err != nil {
		return fmt.Errorf("update donor totals: %w", err)
	}
	if err := st.UserRepository().AddReceivedTotal(ctx, recipientID, amountCents); err != nil {
		return fmt.Errorf("update recipient totals: %w", err)
	}
	return nil
}

// finishSettlement emits the post-commit log line and best-effort
// notifications.
func (s *settlementService) finishSettlement(ctx context.Context, txn *domain.Transaction) {
	donorID, recipientID := *txn.FromUserID, *txn.ToUserID

	logger.Info("Donation settled",
		"transaction_ref", txn.TransactionRef,
		"donor_id", donorID,
		"recipient_id", recipientID,
		"amount_cents", txn.AmountCents)

	s.notifier.Notify(ctx, recipientID, domain.EventDonationReceived, map[string]string{
		"transaction_ref": txn.TransactionRef,
		"amount_cents":    strconv.FormatInt(txn.AmountCents, 10),
	})
	s.notifier.Notify(ctx, donorID, domain.EventDonationSent, map[string]string{
		"transaction_ref": txn.TransactionRef,
		"amount_cents":    strconv.FormatInt(txn.AmountCents, 10),
	})
}

// dischargeObligation fulfills the donor's oldest open obligation, if any,
// and maintains the second-donation bookkeeping used by the force-recycle rule.
func (s *settlementService) dischargeObligation(ctx context.Context, st repository.Store, donorID, txnID int64, now time.Time) error {
	cycle, err := st.CycleRepository().OldestWithStatus(ctx, donorID, domain.CycleStatusObligated)
	if errors.Is(err, repository.ErrNotFound) {
		return s.markSecondDonation(ctx, st, donorID, now)
	}
	if err != nil {
		return fmt.Errorf("load donor obligation: %w", err)
	}

	days := int32(0)
	if cycle.ReceivedAt != nil {
		days = int32(now.Sub(*cycle.ReceivedAt).Hours() / 24)
	}
	if err := st.CycleRepository().MarkFulfilled(ctx, cycle.ID, txnID, now, days); err != nil {
		return fmt.Errorf("fulfill obligation: %w", err)
	}
	if err := st.UserRepository().AdjustTrustScore(ctx, donorID, s.cfg.TrustRewardFulfill); err != nil {
		return fmt.Errorf("reward trust score: %w", err)
	}
	if err := st.UserRepository().IncrementCyclesCompleted(ctx, donorID); err != nil {
		return fmt.Errorf("increment cycles completed: %w", err)
	}
	return nil
}

// markSecondDonation flags the donor's latest fulfilled cycle once the
// donation being settled is the second one since their last receipt.
func (s *settlementService) markSecondDonation(ctx context.Context, st repository.Store, donorID int64, now time.Time) error {
	lastReceivedAt, err := st.CycleRepository().LatestReceivedAt(ctx, donorID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil // never received, nothing to track
	}
	if err != nil {
		return fmt.Errorf("latest receipt: %w", err)
	}

	sent, err := st.TransactionRepository().CountOutgoingSince(ctx, donorID, lastReceivedAt)
	if err != nil {
		return fmt.Errorf("count outgoing donations: %w", err)
	}
	// The transaction being settled is already created, so it is included.
	if sent != requiredPayForwardDonations {
		return nil
	}

	fulfilled, err := st.CycleRepository().LatestFulfilled(ctx, donorID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("latest fulfilled cycle: %w", err)
	}
	if fulfilled.IsSecondDonation {
		return nil
	}
	return st.CycleRepository().SetSecondDonation(ctx, fulfilled.ID)
}

// attachRecipientCycle records the receipt on the recipient's oldest pending
// cycle when one exists (a registered request to receive), otherwise creates
// a fresh in_transit cycle.
func (s *settlementService) attachRecipientCycle(ctx context.Context, st repository.Store, recipientID, donorID, txnID, amountCents int64, now time.Time) error {
	dueDate := now.Add(time.Duration(s.cfg.CycleDueDays) * 24 * time.Hour)

	pending, err := st.CycleRepository().OldestWithStatus(ctx, recipientID, domain.CycleStatusPending)
	if err == nil {
		if err := st.CycleRepository().MarkReceived(ctx, pending.ID, donorID, txnID, now, dueDate, amountCents); err != nil {
			return fmt.Errorf("mark pending cycle received: %w", err)
		}
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("load pending cycle: %w", err)
	}

	cycle := &domain.Cycle{
		UserID:                recipientID,
		AmountCents:           amountCents,
		Status:                domain.CycleStatusInTransit,
		ReceivedFromUserID:    &donorID,
		ReceivedTransactionID: &txnID,
		ReceivedAt:            &now,
		DueDate:               &dueDate,
	}
	if err := st.CycleRepository().Create(ctx, cycle); err != nil {
		return fmt.Errorf("create recipient cycle: %w", err)
	}
	return nil
}

// ConfirmReceipt records the recipient's acknowledgement. Confirming does not
// release escrow; the hold always runs its full course via the hourly sweep.
func (s *settlementService) ConfirmReceipt(ctx context.Context, userID, transactionID int64, confirm bool) (*domain.Transaction, error) {
	txn, err := s.store.TransactionRepository().GetByID(ctx, transactionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRecipientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load transaction: %w", err)
	}
	if txn.ToUserID == nil || *txn.ToUserID != userID {
		return nil, ErrNotYourReceipt
	}
	if txn.IsTerminal() {
		return nil, ErrAlreadyProcessed
	}

	target := domain.TransactionStatusCompleted
	if !confirm {
		target = domain.TransactionStatusFailed
	}
	err = s.store.TransactionRepository().UpdateStatus(ctx, transactionID, domain.TransactionStatusInTransit, target)
	if errors.Is(err, repository.ErrNoRowsUpdated) {
		return nil, ErrAlreadyProcessed
	}
	if err != nil {
		return nil, fmt.Errorf("update transaction status: %w", err)
	}
	txn.Status = target

	if !confirm {
		logger.Warn("Receipt rejected, dispute expected",
			"transaction_ref", txn.TransactionRef, "recipient_id", userID)
	}
	return txn, nil
}

// RequestToReceive registers a pending cycle, the matching engine's wait queue.
func (s *settlementService) RequestToReceive(ctx context.Context, userID, amountCents int64) (*domain.Cycle, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	user, err := s.store.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !user.CanReceive() {
		return nil, ErrRecipientInactive
	}

	pending, err := s.store.CycleRepository().CountWithStatus(ctx, userID, domain.CycleStatusPending)
	if err != nil {
		return nil, fmt.Errorf("count pending cycles: %w", err)
	}
	if pending > 0 {
		return nil, ErrPendingCycleExists
	}

	eligibility, err := CheckEligibility(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if !eligibility.Eligible {
		return nil, ErrRecipientIneligible
	}

	cycle := &domain.Cycle{
		UserID:      userID,
		AmountCents: amountCents,
		Status:      domain.CycleStatusPending,
	}
	if err := s.store.CycleRepository().Create(ctx, cycle); err != nil {
		return nil, fmt.Errorf("create pending cycle: %w", err)
	}
	return cycle, nil
}

// AcceptMatch flips a pending match to accepted and settles the donation in
// the same transaction: a settlement failure rolls the accept back, so the
// match stays pending and the donor can retry or reject it.
func (s *settlementService) AcceptMatch(ctx context.Context, userID, matchID int64) (*domain.Transaction, error) {
	match, err := s.store.MatchRepository().GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("load match: %w", err)
	}
	if match.DonorID != userID {
		return nil, ErrNotYourMatch
	}

	if err := s.validateDonation(ctx, match.DonorID, match.AmountCents, match.RecipientID); err != nil {
		return nil, err
	}

	now := time.Now()
	txn := newDonationTransaction(match.DonorID, match.RecipientID, match.AmountCents, now)

	err = s.store.ExecTx(ctx, func(st repository.Store) error {
		if err := st.MatchRepository().Accept(ctx, matchID, now); err != nil {
			if errors.Is(err, repository.ErrNoRowsUpdated) {
				return ErrMatchNotPending
			}
			return fmt.Errorf("accept match: %w", err)
		}
		return s.settleTx(ctx, st, txn, now)
	})
	if err != nil {
		return nil, err
	}

	s.finishSettlement(ctx, txn)
	return txn, nil
}

func (s *settlementService) RejectMatch(ctx context.Context, userID, matchID int64, reason string) error {
	match, err := s.store.MatchRepository().GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("load match: %w", err)
	}
	if match.DonorID != userID {
		return ErrNotYourMatch
	}

	err = s.store.MatchRepository().Reject(ctx, matchID, reason)
	if errors.Is(err, repository.ErrNoRowsUpdated) {
		return ErrMatchNotPending
	}
	return err
}

func newDonationTransaction(donorID, recipientID, amountCents int64, now time.Time) *domain.Transaction {
	return &domain.Transaction{
		TransactionRef: newTransactionRef(now),
		Type:           domain.TransactionTypeDonationSent,
		FromUserID:     &donorID,
		ToUserID:       &recipientID,
		AmountCents:    amountCents,
		FeeCents:       0,
		NetAmountCents: amountCents,
		Status:         domain.TransactionStatusInTransit,
	}
}

// newTransactionRef builds a unique human-readable reference like
// DON-20260828-1A2B3C4D.
func newTransactionRef(now time.Time) string {
	short := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("DON-%s-%s", now.Format("20060102"), short)
}
