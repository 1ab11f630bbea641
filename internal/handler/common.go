package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/vonga-club/api/internal/database"
	"github.com/vonga-club/api/internal/enum"
	"github.com/vonga-club/api/internal/payments"
	"github.com/vonga-club/api/internal/ws"
)

// OrderFeed is the live admin feed. Satisfied by *ws.Hub; nil-checked by
// callers so the feed is optional in tests.
type OrderFeed interface {
	Broadcast(event ws.Event)
}

// --- Response types ---

type cartItemResponse struct {
	GearType  string           `json:"gear_type"`
	SizeRun   map[string]int32 `json:"size_run"`
	UnitCount int32            `json:"unit_count"`
}

type orderResponse struct {
	ID                  uuid.UUID          `json:"id"`
	OrganizationName    string             `json:"organization_name"`
	ContactName         string             `json:"contact_name"`
	Email               string             `json:"email"`
	Phone               *string            `json:"phone,omitempty"`
	MemberCount         int32              `json:"member_count"`
	KitType             string             `json:"kit_type"`
	CartItems           []cartItemResponse `json:"cart_items"`
	TotalUnits          int32              `json:"total_units"`
	Subtotal            string             `json:"subtotal"`
	DepositAmount       string             `json:"deposit_amount"`
	SecondPaymentAmount string             `json:"second_payment_amount"`
	FinalPaymentAmount  string             `json:"final_payment_amount"`
	OrderStatus         string             `json:"order_status"`
	PaymentStatus       string             `json:"payment_status"`
	StatusBadge         string             `json:"status_badge"`
	NextAction          string             `json:"next_action"`
	CreatedAt           time.Time          `json:"created_at"`
	DesignApprovedAt    *time.Time         `json:"design_approved_at,omitempty"`
	ProductionReadyAt   *time.Time         `json:"production_ready_at,omitempty"`
	ShippedAt           *time.Time         `json:"shipped_at,omitempty"`
}

// statusBadge derives the customer-facing badge from the payment status.
// Strict priority: the most advanced payment state wins.
func statusBadge(paymentStatus string) string {
	switch paymentStatus {
	case enum.PaymentStatusFullyPaid:
		return "Fully Paid"
	case enum.PaymentStatusFinalPaymentDue:
		return "Final Payment Due"
	case enum.PaymentStatusSecondPaymentDue:
		return "Second Payment Due"
	default:
		return "Deposit Paid"
	}
}

// nextAction derives the single next step the customer should take.
func nextAction(paymentStatus string) string {
	switch paymentStatus {
	case enum.PaymentStatusSecondPaymentDue:
		return "pay_second"
	case enum.PaymentStatusFinalPaymentDue:
		return "pay_final"
	case enum.PaymentStatusFullyPaid:
		return "complete"
	default:
		return "waiting"
	}
}

// dbOrderToResponse converts a database.ClubOrder to an orderResponse,
// including the derived display state.
func dbOrderToResponse(o database.ClubOrder) orderResponse {
	resp := orderResponse{
		ID:                  o.ID,
		OrganizationName:    o.OrganizationName,
		ContactName:         o.ContactName,
		Email:               o.Email,
		MemberCount:         o.MemberCount,
		KitType:             o.KitType,
		TotalUnits:          o.TotalUnits,
		Subtotal:            numericToString(o.Subtotal),
		DepositAmount:       numericToString(o.DepositAmount),
		SecondPaymentAmount: numericToString(o.SecondPaymentAmount),
		FinalPaymentAmount:  numericToString(o.FinalPaymentAmount),
		OrderStatus:         o.OrderStatus,
		PaymentStatus:       o.PaymentStatus,
		StatusBadge:         statusBadge(o.PaymentStatus),
		NextAction:          nextAction(o.PaymentStatus),
		CreatedAt:           o.CreatedAt,
	}

	if o.Phone.Valid {
		resp.Phone = &o.Phone.String
	}
	if o.DesignApprovedAt.Valid {
		resp.DesignApprovedAt = &o.DesignApprovedAt.Time
	}
	if o.ProductionReadyAt.Valid {
		resp.ProductionReadyAt = &o.ProductionReadyAt.Time
	}
	if o.ShippedAt.Valid {
		resp.ShippedAt = &o.ShippedAt.Time
	}

	var items []payments.CartItem
	if err := json.Unmarshal(o.CartItems, &items); err == nil {
		resp.CartItems = make([]cartItemResponse, len(items))
		for i, item := range items {
			resp.CartItems[i] = cartItemResponse{
				GearType:  item.GearType,
				SizeRun:   item.SizeRun,
				UnitCount: item.UnitCount(),
			}
		}
	}

	return resp
}

// broadcastOrder pushes an order event onto the admin feed.
func broadcastOrder(feed OrderFeed, eventType string, order database.ClubOrder) {
	if feed == nil {
		return
	}
	payload, err := json.Marshal(dbOrderToResponse(order))
	if err != nil {
		log.Printf("ERROR: marshal %s event for %s: %v", eventType, order.ID, err)
		return
	}
	feed.Broadcast(ws.Event{Type: eventType, Payload: payload})
}

// --- Helpers ---

func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

func numericToDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(val.(string))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}
