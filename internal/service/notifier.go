package service

import (
	"context"
	"fmt"

	"givecycle-backend/internal/domain"
	"givecycle-backend/internal/logger"
	"givecycle-backend/internal/repository"
)

type notifier struct {
	store repository.Store
	email EmailService
	push  PushService
}

// NewNotifier fans events out to the in-app notification feed, email and
// push. Any channel may be nil. Every delivery failure is logged and
// swallowed: notification must never block or roll back a ledger mutation.
func NewNotifier(store repository.Store, email EmailService, push PushService) Notifier {
	return &notifier{store: store, email: email, push: push}
}

func (n *notifier) Notify(ctx context.Context, userID int64, event string, payload map[string]string) {
	title, message := renderEvent(event, payload)

	note := &domain.Notification{
		UserID:     userID,
		Event:      event,
		Title:      title,
		Message:    message,
		Attributes: payload,
	}
	if err := n.store.NotificationRepository().Create(ctx, note); err != nil {
		logger.Error("Failed to store notification", "user_id", userID, "event", event, "error", err)
	}

	user, err := n.store.UserRepository().GetByID(ctx, userID)
	if err != nil {
		logger.Error("Failed to load user for notification", "user_id", userID, "event", event, "error", err)
		return
	}

	if n.email != nil && user.Email != "" {
		if err := n.email.Send(ctx, user.Email, user.Name, title, message); err != nil {
			logger.Error("Failed to send notification email", "user_id", userID, "event", event, "error", err)
		}
	}
	if n.push != nil && user.DeviceToken != "" {
		if err := n.push.Send(ctx, user.DeviceToken, title, message, payload); err != nil {
			logger.Error("Failed to send push notification", "user_id", userID, "event", event, "error", err)
		}
	}
}

func renderEvent(event string, payload map[string]string) (title, message string) {
	amount := formatAmount(payload["amount_cents"])
	switch event {
	case domain.EventDonationReceived:
		return "Donation received", fmt.Sprintf("You received a donation of %s. Funds will become available after the escrow hold.", amount)
	case domain.EventDonationSent:
		return "Donation sent", fmt.Sprintf("Your donation of %s is on its way (ref %s).", amount, payload["transaction_ref"])
	case domain.EventEscrowReleased:
		return "Funds released", fmt.Sprintf("%s is now available in your wallet.", amount)
	case domain.EventCycleObligated:
		return "Pay it forward", fmt.Sprintf("Your pay-forward obligation of %s is now active. Due %s.", amount, payload["due_date"])
	case domain.EventCycleDueSoon:
		return "Obligation due soon", fmt.Sprintf("Your pay-forward obligation of %s is due on %s.", amount, payload["due_date"])
	case domain.EventCycleDefaulted:
		return "Obligation defaulted", "Your pay-forward obligation has passed its due date and was marked as defaulted."
	case domain.EventMatchProposed:
		return "You have been matched", fmt.Sprintf("A donor wants to send you %s. Awaiting their confirmation.", amount)
	case domain.EventMatchExpired:
		return "Match expired", "A proposed match expired without being accepted."
	default:
		return event, ""
	}
}

func formatAmount(cents string) string {
	if cents == "" {
		return "a donation"
	}
	return "$" + insertDecimal(cents)
}

func insertDecimal(cents string) string {
	for len(cents) < 3 {
		cents = "0" + cents
	}
	return cents[:len(cents)-2] + "." + cents[len(cents)-2:]
}
