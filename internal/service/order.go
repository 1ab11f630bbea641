package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/vonga-club/api/internal/database"
	"github.com/vonga-club/api/internal/enum"
	"github.com/vonga-club/api/internal/payments"
)

// OrderStore defines the DB methods needed to create and look up orders.
// Satisfied by *database.Queries.
type OrderStore interface {
	CreateClubOrder(ctx context.Context, arg database.CreateClubOrderParams) (database.ClubOrder, error)
	GetClubOrderBySession(ctx context.Context, sessionID string) (database.ClubOrder, error)
}

// DepositCompletion is the parsed content of a completed deposit checkout:
// the pending order from session metadata plus the contact details the
// provider collected on the hosted page.
type DepositCompletion struct {
	SessionID       string
	PaymentIntentID string
	ContactName     string
	Phone           string
	Pending         payments.PendingOrder
}

// OrderService turns completed deposit checkouts into order records.
type OrderService struct {
	store OrderStore
}

// NewOrderService creates a new OrderService.
func NewOrderService(store OrderStore) *OrderService {
	return &OrderService{store: store}
}

// CreateFromDeposit persists a new order from a completed deposit session.
// The session id is unique in the store, so a redelivered deposit event
// resolves to the existing row: created is false and no fields are touched.
func (s *OrderService) CreateFromDeposit(ctx context.Context, dep DepositCompletion) (database.ClubOrder, bool, error) {
	cart, err := json.Marshal(dep.Pending.CartItems)
	if err != nil {
		return database.ClubOrder{}, false, fmt.Errorf("marshal cart items: %w", err)
	}

	contactName := dep.ContactName
	if contactName == "" {
		contactName = "Unknown"
	}

	order, err := s.store.CreateClubOrder(ctx, database.CreateClubOrderParams{
		CheckoutSessionID:    dep.SessionID,
		OrganizationName:     dep.Pending.OrganizationName,
		ContactName:          contactName,
		Email:                dep.Pending.Email,
		Phone:                textOrNull(dep.Phone),
		MemberCount:          dep.Pending.MemberCount,
		KitType:              dep.Pending.KitType,
		CartItems:            cart,
		TotalUnits:           dep.Pending.TotalUnits,
		Subtotal:             decimalToNumeric(dep.Pending.Subtotal),
		DepositAmount:        decimalToNumeric(dep.Pending.DepositAmount),
		SecondPaymentAmount:  decimalToNumeric(dep.Pending.SecondPayment),
		FinalPaymentAmount:   decimalToNumeric(dep.Pending.FinalPayment),
		OrderStatus:          enum.OrderStatusDepositPaid,
		PaymentStatus:        enum.PaymentStatusDepositPaid,
		DepositPaymentIntent: textOrNull(dep.PaymentIntentID),
	})
	if err != nil {
		if isSessionConflict(err) {
			existing, lookupErr := s.store.GetClubOrderBySession(ctx, dep.SessionID)
			if lookupErr != nil {
				if errors.Is(lookupErr, pgx.ErrNoRows) {
					return database.ClubOrder{}, false, err
				}
				return database.ClubOrder{}, false, lookupErr
			}
			return existing, false, nil
		}
		return database.ClubOrder{}, false, fmt.Errorf("create order: %w", err)
	}
	return order, true, nil
}

// isSessionConflict checks for a unique constraint violation on the
// checkout session id (pgconn error code 23505).
func isSessionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "club_orders_checkout_session_id_key"
	}
	return false
}

// --- Helpers ---

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
