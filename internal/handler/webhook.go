package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stripe/stripe-go/v79"

	"github.com/vonga-club/api/internal/database"
	"github.com/vonga-club/api/internal/enum"
	"github.com/vonga-club/api/internal/payments"
	"github.com/vonga-club/api/internal/service"
)

// Stripe webhook payloads are small; cap the body well above any real event.
const maxWebhookBody = 1 << 16

// EventVerifier authenticates a raw webhook payload. Satisfied by
// *payments.SignatureVerifier.
type EventVerifier interface {
	Verify(payload []byte, sigHeader string) (stripe.Event, error)
}

// DepositCreator persists new orders from completed deposit checkouts.
// Satisfied by *service.OrderService.
type DepositCreator interface {
	CreateFromDeposit(ctx context.Context, dep service.DepositCompletion) (database.ClubOrder, bool, error)
}

// WebhookStore defines the database methods needed by the webhook receiver.
type WebhookStore interface {
	MarkSecondPaymentPaid(ctx context.Context, arg database.MarkSecondPaymentPaidParams) (database.ClubOrder, error)
	MarkFinalPaymentPaid(ctx context.Context, arg database.MarkFinalPaymentPaidParams) (database.ClubOrder, error)
}

// WebhookNotifier sends the customer-facing messages that follow a cleared
// payment. The second tranche deliberately has no entry here: that branch is
// silent toward the customer.
type WebhookNotifier interface {
	OrderConfirmation(ctx context.Context, order database.ClubOrder)
	OrderCompleted(ctx context.Context, order database.ClubOrder)
}

// WebhookHandler receives Stripe checkout events and advances orders.
type WebhookHandler struct {
	verifier EventVerifier
	orders   DepositCreator
	store    WebhookStore
	notifier WebhookNotifier
	feed     OrderFeed
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(verifier EventVerifier, orders DepositCreator, store WebhookStore, notifier WebhookNotifier, feed OrderFeed) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, orders: orders, store: store, notifier: notifier, feed: feed}
}

// RegisterRoutes registers the webhook endpoint on the given Chi router.
func (h *WebhookHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/club/webhook", h.Receive)
}

// Receive handles POST /api/club/webhook.
// Order: verify signature, mutate, then notify. Notification failures never
// fail the request, so Stripe does not retry an event whose DB work is done.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
		return
	}

	event, err := h.verifier.Verify(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid signature"})
		return
	}

	if event.Type != "checkout.session.completed" {
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed event payload"})
		return
	}

	switch session.Metadata[payments.MetaType] {
	case enum.CheckoutTypeDeposit:
		h.handleDeposit(w, r, session)
	case enum.CheckoutTypeSecondPayment:
		h.handleSecondPayment(w, r, session)
	case enum.CheckoutTypeFinalPayment:
		h.handleFinalPayment(w, r, session)
	default:
		// Not one of ours; ack so Stripe stops redelivering.
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
	}
}

// handleDeposit creates the order record from the session metadata. The
// metadata is the only durable copy of the order at this point.
func (h *WebhookHandler) handleDeposit(w http.ResponseWriter, r *http.Request, session stripe.CheckoutSession) {
	pending, err := payments.PendingOrderFromMetadata(session.Metadata)
	if err != nil {
		// A payload that cannot parse will never parse; 400 stops retries.
		log.Printf("ERROR: parse deposit metadata for session %s: %v", session.ID, err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed order metadata"})
		return
	}

	dep := service.DepositCompletion{
		SessionID:       session.ID,
		PaymentIntentID: paymentIntentID(session),
		Pending:         pending,
	}
	if session.CustomerDetails != nil {
		dep.ContactName = session.CustomerDetails.Name
		dep.Phone = session.CustomerDetails.Phone
	}

	order, created, err := h.orders.CreateFromDeposit(r.Context(), dep)
	if err != nil {
		log.Printf("ERROR: create order from deposit session %s: %v", session.ID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	// A redelivered event resolves to the existing row; notify only once.
	if created {
		h.notifier.OrderConfirmation(r.Context(), order)
		broadcastOrder(h.feed, "order.created", order)
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// handleSecondPayment records a cleared second tranche. No customer
// notification fires on this branch.
func (h *WebhookHandler) handleSecondPayment(w http.ResponseWriter, r *http.Request, session stripe.CheckoutSession) {
	orderID, ok := h.orderIDFromSession(w, session)
	if !ok {
		return
	}

	order, err := h.store.MarkSecondPaymentPaid(r.Context(), database.MarkSecondPaymentPaidParams{
		ID:              orderID,
		PaymentIntentID: intentText(session),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: mark second payment paid for order %s: %v", orderID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	broadcastOrder(h.feed, "order.updated", order)
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// handleFinalPayment records the final tranche and closes out the order.
func (h *WebhookHandler) handleFinalPayment(w http.ResponseWriter, r *http.Request, session stripe.CheckoutSession) {
	orderID, ok := h.orderIDFromSession(w, session)
	if !ok {
		return
	}

	order, err := h.store.MarkFinalPaymentPaid(r.Context(), database.MarkFinalPaymentPaidParams{
		ID:              orderID,
		PaymentIntentID: intentText(session),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: mark final payment paid for order %s: %v", orderID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notifier.OrderCompleted(r.Context(), order)
	broadcastOrder(h.feed, "order.updated", order)
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// orderIDFromSession extracts and parses the order_id metadata tag, writing
// a 400 when it is missing or malformed.
func (h *WebhookHandler) orderIDFromSession(w http.ResponseWriter, session stripe.CheckoutSession) (uuid.UUID, bool) {
	raw := session.Metadata[payments.MetaOrderID]
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing order_id metadata"})
		return uuid.Nil, false
	}
	orderID, err := uuid.Parse(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order_id metadata"})
		return uuid.Nil, false
	}
	return orderID, true
}

// --- Helpers ---

func paymentIntentID(session stripe.CheckoutSession) string {
	if session.PaymentIntent == nil {
		return ""
	}
	return session.PaymentIntent.ID
}

func intentText(session stripe.CheckoutSession) pgtype.Text {
	id := paymentIntentID(session)
	if id == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: id, Valid: true}
}
