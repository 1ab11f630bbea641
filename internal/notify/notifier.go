// Package notify sends the fire-and-forget email and Slack messages that
// follow order lifecycle transitions. Delivery is best effort: failures are
// logged and swallowed, never surfaced to the caller, and a channel whose
// configuration is missing is silently disabled.
package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/vonga-club/api/internal/database"
	"github.com/vonga-club/api/internal/payments"
)

// Notifier fans a lifecycle event out to every configured channel.
type Notifier struct {
	email *EmailSender // nil disables email
	slack *SlackSender // nil disables Slack
}

// New creates a Notifier. Either sender may be nil.
func New(email *EmailSender, slack *SlackSender) *Notifier {
	return &Notifier{email: email, slack: slack}
}

// OrderConfirmation announces a newly created order (deposit cleared).
func (n *Notifier) OrderConfirmation(ctx context.Context, order database.ClubOrder) {
	if n.email != nil {
		if err := n.email.OrderConfirmation(ctx, order); err != nil {
			log.Printf("ERROR: order confirmation email for %s: %v", order.ID, err)
		}
	}
	if n.slack != nil {
		if err := n.slack.NewOrder(ctx, order); err != nil {
			log.Printf("ERROR: new-order Slack post for %s: %v", order.ID, err)
		}
	}
}

// PaymentRequest asks the customer for the next tranche. tranche is
// "second" or "final".
func (n *Notifier) PaymentRequest(ctx context.Context, order database.ClubOrder, tranche string) {
	if n.email != nil {
		if err := n.email.PaymentRequest(ctx, order, tranche); err != nil {
			log.Printf("ERROR: %s payment request email for %s: %v", tranche, order.ID, err)
		}
	}
	if n.slack != nil {
		if err := n.slack.PaymentRequested(ctx, order, tranche); err != nil {
			log.Printf("ERROR: %s payment request Slack post for %s: %v", tranche, order.ID, err)
		}
	}
}

// OrderCompleted announces a fully paid, shipped order.
func (n *Notifier) OrderCompleted(ctx context.Context, order database.ClubOrder) {
	if n.email != nil {
		if err := n.email.OrderCompleted(ctx, order); err != nil {
			log.Printf("ERROR: completion email for %s: %v", order.ID, err)
		}
	}
	if n.slack != nil {
		if err := n.slack.OrderCompleted(ctx, order); err != nil {
			log.Printf("ERROR: completion Slack post for %s: %v", order.ID, err)
		}
	}
}

// LeadReview posts a scored intake lead to the review channel.
func (n *Notifier) LeadReview(ctx context.Context, sub database.LeadSubmission) {
	if n.slack == nil {
		return
	}
	if err := n.slack.LeadReview(ctx, sub); err != nil {
		log.Printf("ERROR: lead review Slack post for %s: %v", sub.Email, err)
	}
}

// ClubRequest posts a starter-kit request.
func (n *Notifier) ClubRequest(ctx context.Context, req database.ClubRequest) {
	if n.slack == nil {
		return
	}
	if err := n.slack.ClubRequest(ctx, req); err != nil {
		log.Printf("ERROR: club request Slack post for %s: %v", req.Email, err)
	}
}

// --- Helpers shared by both senders ---

func numericString(num pgtype.Numeric) string {
	if !num.Valid {
		return "0"
	}
	val, err := num.Value()
	if err != nil || val == nil {
		return "0"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0"
	}
	return d.StringFixed(2)
}

func cartItems(order database.ClubOrder) []payments.CartItem {
	var items []payments.CartItem
	if err := json.Unmarshal(order.CartItems, &items); err != nil {
		return nil
	}
	return items
}

func kitLabel(kitType string) string {
	if kitType == "PRO" {
		return "Pro Kit"
	}
	return "Core Kit"
}
