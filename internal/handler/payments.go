package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/vonga-club/api/internal/database"
	"github.com/vonga-club/api/internal/enum"
	"github.com/vonga-club/api/internal/payments"
	"github.com/vonga-club/api/internal/service"
)

// CheckoutCreator builds hosted checkout sessions. Satisfied by
// *payments.Client.
type CheckoutCreator interface {
	NewDepositSession(ctx context.Context, p payments.PendingOrder) (payments.CheckoutSession, error)
	NewTrancheSession(ctx context.Context, arg payments.TrancheSessionParams) (payments.CheckoutSession, error)
}

// CheckoutStore defines the database methods needed by payment initiation.
type CheckoutStore interface {
	GetClubOrderByEmail(ctx context.Context, arg database.GetClubOrderByEmailParams) (database.ClubOrder, error)
	SetSecondPaymentIntent(ctx context.Context, arg database.SetSecondPaymentIntentParams) error
	SetFinalPaymentIntent(ctx context.Context, arg database.SetFinalPaymentIntentParams) error
}

// PaymentHandler handles checkout session creation for all three tranches.
type PaymentHandler struct {
	store  CheckoutStore
	stripe CheckoutCreator
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(store CheckoutStore, stripe CheckoutCreator) *PaymentHandler {
	return &PaymentHandler{store: store, stripe: stripe}
}

// --- Request / Response types ---

type cartItemRequest struct {
	GearType string           `json:"gear_type"`
	SizeRun  map[string]int32 `json:"size_run"`
}

type depositCheckoutRequest struct {
	OrganizationName string            `json:"organization_name"`
	Email            string            `json:"email"`
	KitType          string            `json:"kit_type"`
	MemberCount      int32             `json:"member_count"`
	CartItems        []cartItemRequest `json:"cart_items"`
	Subtotal         string            `json:"subtotal"`
}

type tranchePaymentRequest struct {
	OrderID string `json:"order_id"`
	Email   string `json:"email"`
}

type checkoutSessionResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// --- Handlers ---

// CreateDeposit handles POST /api/club/checkout.
// The order does not exist yet: everything rides in session metadata until
// the deposit webhook fires.
func (h *PaymentHandler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.OrganizationName == "" || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "organization_name and email are required"})
		return
	}
	if req.KitType != enum.KitTypeCore && req.KitType != enum.KitTypePro {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid kit_type"})
		return
	}
	if req.MemberCount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "member_count must be positive"})
		return
	}
	if len(req.CartItems) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cart_items is required"})
		return
	}

	subtotal, err := decimal.NewFromString(req.Subtotal)
	if err != nil || subtotal.LessThanOrEqual(decimal.Zero) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "subtotal must be positive"})
		return
	}

	items := make([]payments.CartItem, len(req.CartItems))
	for i, item := range req.CartItems {
		if item.GearType == "" || len(item.SizeRun) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "each cart item needs a gear_type and size_run"})
			return
		}
		items[i] = payments.CartItem{GearType: item.GearType, SizeRun: item.SizeRun}
	}

	schedule := service.ComputeSchedule(subtotal)
	pending := payments.PendingOrder{
		OrganizationName: req.OrganizationName,
		Email:            req.Email,
		KitType:          req.KitType,
		MemberCount:      req.MemberCount,
		CartItems:        items,
		TotalUnits:       payments.TotalUnits(items),
		Subtotal:         subtotal,
		DepositAmount:    schedule.Deposit,
		SecondPayment:    schedule.Second,
		FinalPayment:     schedule.Final,
	}

	sess, err := h.stripe.NewDepositSession(r.Context(), pending)
	if err != nil {
		if errors.Is(err, payments.ErrCartTooLarge) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "too many cart items"})
			return
		}
		log.Printf("ERROR: create deposit session for %s: %v", req.Email, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, checkoutSessionResponse{SessionID: sess.ID, CheckoutURL: sess.URL})
}

// CreateSecond handles POST /api/club/payments/second.
func (h *PaymentHandler) CreateSecond(w http.ResponseWriter, r *http.Request) {
	h.createTranche(w, r, enum.CheckoutTypeSecondPayment)
}

// CreateFinal handles POST /api/club/payments/final.
func (h *PaymentHandler) CreateFinal(w http.ResponseWriter, r *http.Request) {
	h.createTranche(w, r, enum.CheckoutTypeFinalPayment)
}

func (h *PaymentHandler) createTranche(w http.ResponseWriter, r *http.Request, checkoutType string) {
	var req tranchePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.OrderID == "" || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order_id and email are required"})
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order_id"})
		return
	}

	order, err := h.store.GetClubOrderByEmail(r.Context(), database.GetClubOrderByEmailParams{
		ID:    orderID,
		Email: req.Email,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order %s for tranche payment: %v", orderID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	var amountNumeric pgtype.Numeric
	switch checkoutType {
	case enum.CheckoutTypeSecondPayment:
		if order.PaymentStatus != enum.PaymentStatusSecondPaymentDue {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "second payment is not due"})
			return
		}
		amountNumeric = order.SecondPaymentAmount
	case enum.CheckoutTypeFinalPayment:
		if order.PaymentStatus != enum.PaymentStatusFinalPaymentDue {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "final payment is not due"})
			return
		}
		amountNumeric = order.FinalPaymentAmount
	}

	amount, err := numericToDecimal(amountNumeric)
	if err != nil {
		log.Printf("ERROR: read tranche amount for order %s: %v", orderID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	sess, err := h.stripe.NewTrancheSession(r.Context(), payments.TrancheSessionParams{
		OrderID:          order.ID,
		CheckoutType:     checkoutType,
		OrganizationName: order.OrganizationName,
		Email:            order.Email,
		TotalUnits:       order.TotalUnits,
		Amount:           amount,
	})
	if err != nil {
		log.Printf("ERROR: create tranche session for order %s: %v", orderID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	// Record the session id against the tranche; the webhook overwrites it
	// with the real payment intent once the charge clears.
	sessText := pgtype.Text{String: sess.ID, Valid: true}
	if checkoutType == enum.CheckoutTypeSecondPayment {
		err = h.store.SetSecondPaymentIntent(r.Context(), database.SetSecondPaymentIntentParams{
			ID: order.ID, PaymentIntentID: sessText,
		})
	} else {
		err = h.store.SetFinalPaymentIntent(r.Context(), database.SetFinalPaymentIntentParams{
			ID: order.ID, PaymentIntentID: sessText,
		})
	}
	if err != nil {
		log.Printf("ERROR: record session id for order %s: %v", orderID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, checkoutSessionResponse{SessionID: sess.ID, CheckoutURL: sess.URL})
}
