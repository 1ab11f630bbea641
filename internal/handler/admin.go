package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vonga-club/api/internal/database"
)

// AdminStore defines the database methods needed by the admin action
// endpoints. Satisfied by *database.Queries.
type AdminStore interface {
	GetClubOrder(ctx context.Context, id uuid.UUID) (database.ClubOrder, error)
	ApproveDesign(ctx context.Context, id uuid.UUID) (database.ClubOrder, error)
	MarkProductionReady(ctx context.Context, id uuid.UUID) (database.ClubOrder, error)
}

// AdminNotifier asks the customer for the next tranche after an admin action.
type AdminNotifier interface {
	PaymentRequest(ctx context.Context, order database.ClubOrder, tranche string)
}

// AdminHandler handles the order lifecycle actions on the admin surface.
type AdminHandler struct {
	store    AdminStore
	notifier AdminNotifier
	feed     OrderFeed
	baseURL  string
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(store AdminStore, notifier AdminNotifier, feed OrderFeed, baseURL string) *AdminHandler {
	return &AdminHandler{store: store, notifier: notifier, feed: feed, baseURL: baseURL}
}

// ApproveDesign handles POST /api/admin/orders/{id}/approve-design.
// Advances DEPOSIT_PAID/DEPOSIT_PAID to DESIGN_APPROVED/SECOND_PAYMENT_DUE
// and asks the customer for the 40% payment.
func (h *AdminHandler) ApproveDesign(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, "second", h.store.ApproveDesign, "order is not awaiting design approval")
}

// ReadyToShip handles POST /api/admin/orders/{id}/ready-to-ship.
// Advances DESIGN_APPROVED to PRODUCTION_READY and asks for the 50% payment.
// payment_status is left to the webhooks.
func (h *AdminHandler) ReadyToShip(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, "final", h.store.MarkProductionReady, "order is not awaiting production")
}

func (h *AdminHandler) advance(w http.ResponseWriter, r *http.Request, tranche string,
	transition func(ctx context.Context, id uuid.UUID) (database.ClubOrder, error), conflictMsg string) {

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	// The guarded UPDATE returns no rows both for a missing order and for a
	// wrong state; look the order up first to tell 404 from 409.
	if _, err := h.store.GetClubOrder(r.Context(), orderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order %s for %s-payment request: %v", orderID, tranche, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	order, err := transition(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": conflictMsg})
			return
		}
		log.Printf("ERROR: advance order %s to %s payment: %v", orderID, tranche, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notifier.PaymentRequest(r.Context(), order, tranche)
	broadcastOrder(h.feed, "order.updated", order)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"order":        dbOrderToResponse(order),
		"payment_link": h.paymentLink(order, tranche),
	})
}

// paymentLink mirrors the link the payment-request email carries, so the
// admin can hand it to the customer directly.
func (h *AdminHandler) paymentLink(order database.ClubOrder, tranche string) string {
	return fmt.Sprintf("%s/club/payment/%s?orderId=%s&email=%s", h.baseURL, tranche, order.ID, order.Email)
}
