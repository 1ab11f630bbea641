package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vonga-club/api/internal/database"
)

// OrderStore defines the database methods needed by the order read endpoints.
// Satisfied by *database.Queries.
type OrderStore interface {
	GetClubOrderByEmail(ctx context.Context, arg database.GetClubOrderByEmailParams) (database.ClubOrder, error)
	ListClubOrders(ctx context.Context) ([]database.ClubOrder, error)
}

// OrderHandler handles the customer and admin order read endpoints.
type OrderHandler struct {
	store OrderStore
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(store OrderStore) *OrderHandler {
	return &OrderHandler{store: store}
}

// Get handles GET /api/club/orders/{id}?email=.
// The email must match the order's; a mismatch is indistinguishable from a
// missing order so ids cannot be probed.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	email := r.URL.Query().Get("email")
	if email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email is required"})
		return
	}

	order, err := h.store.GetClubOrderByEmail(r.Context(), database.GetClubOrderByEmailParams{
		ID:    orderID,
		Email: email,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order %s: %v", orderID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, dbOrderToResponse(order))
}

// List handles GET /api/admin/orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListClubOrders(r.Context())
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = dbOrderToResponse(o)
	}

	writeJSON(w, http.StatusOK, resp)
}
