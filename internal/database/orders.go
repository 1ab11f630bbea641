package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ClubOrder is a single staged order: one row in club_orders.
// The three tranche amounts are fixed at creation and never recomputed.
type ClubOrder struct {
	ID                    uuid.UUID
	CheckoutSessionID     string
	OrganizationName      string
	ContactName           string
	Email                 string
	Phone                 pgtype.Text
	OrganizationType      pgtype.Text
	MemberCount           int32
	KitType               string
	CartItems             []byte // JSONB: [{"gear_type": ..., "size_run": {...}}]
	TotalUnits            int32
	Subtotal              pgtype.Numeric
	DepositAmount         pgtype.Numeric
	SecondPaymentAmount   pgtype.Numeric
	FinalPaymentAmount    pgtype.Numeric
	OrderStatus           string
	PaymentStatus         string
	DepositPaymentIntent  pgtype.Text
	SecondPaymentIntent   pgtype.Text
	FinalPaymentIntent    pgtype.Text
	CreatedAt             time.Time
	DesignApprovedAt      pgtype.Timestamptz
	ProductionReadyAt     pgtype.Timestamptz
	ShippedAt             pgtype.Timestamptz
}

const clubOrderColumns = `id, checkout_session_id, organization_name, contact_name, email, phone,
	organization_type, member_count, kit_type, cart_items, total_units, subtotal,
	deposit_amount, second_payment_amount, final_payment_amount,
	order_status, payment_status,
	deposit_payment_intent_id, second_payment_intent_id, final_payment_intent_id,
	created_at, design_approved_at, production_ready_at, shipped_at`

func scanClubOrder(row interface{ Scan(dest ...any) error }) (ClubOrder, error) {
	var o ClubOrder
	err := row.Scan(
		&o.ID, &o.CheckoutSessionID, &o.OrganizationName, &o.ContactName, &o.Email, &o.Phone,
		&o.OrganizationType, &o.MemberCount, &o.KitType, &o.CartItems, &o.TotalUnits, &o.Subtotal,
		&o.DepositAmount, &o.SecondPaymentAmount, &o.FinalPaymentAmount,
		&o.OrderStatus, &o.PaymentStatus,
		&o.DepositPaymentIntent, &o.SecondPaymentIntent, &o.FinalPaymentIntent,
		&o.CreatedAt, &o.DesignApprovedAt, &o.ProductionReadyAt, &o.ShippedAt,
	)
	return o, err
}

type CreateClubOrderParams struct {
	CheckoutSessionID    string
	OrganizationName     string
	ContactName          string
	Email                string
	Phone                pgtype.Text
	OrganizationType     pgtype.Text
	MemberCount          int32
	KitType              string
	CartItems            []byte
	TotalUnits           int32
	Subtotal             pgtype.Numeric
	DepositAmount        pgtype.Numeric
	SecondPaymentAmount  pgtype.Numeric
	FinalPaymentAmount   pgtype.Numeric
	OrderStatus          string
	PaymentStatus        string
	DepositPaymentIntent pgtype.Text
}

const createClubOrder = `INSERT INTO club_orders (
	checkout_session_id, organization_name, contact_name, email, phone,
	organization_type, member_count, kit_type, cart_items, total_units, subtotal,
	deposit_amount, second_payment_amount, final_payment_amount,
	order_status, payment_status, deposit_payment_intent_id
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
RETURNING ` + clubOrderColumns

func (q *Queries) CreateClubOrder(ctx context.Context, arg CreateClubOrderParams) (ClubOrder, error) {
	row := q.db.QueryRow(ctx, createClubOrder,
		arg.CheckoutSessionID, arg.OrganizationName, arg.ContactName, arg.Email, arg.Phone,
		arg.OrganizationType, arg.MemberCount, arg.KitType, arg.CartItems, arg.TotalUnits, arg.Subtotal,
		arg.DepositAmount, arg.SecondPaymentAmount, arg.FinalPaymentAmount,
		arg.OrderStatus, arg.PaymentStatus, arg.DepositPaymentIntent,
	)
	return scanClubOrder(row)
}

const getClubOrder = `SELECT ` + clubOrderColumns + ` FROM club_orders WHERE id = $1`

func (q *Queries) GetClubOrder(ctx context.Context, id uuid.UUID) (ClubOrder, error) {
	return scanClubOrder(q.db.QueryRow(ctx, getClubOrder, id))
}

type GetClubOrderByEmailParams struct {
	ID    uuid.UUID
	Email string
}

const getClubOrderByEmail = `SELECT ` + clubOrderColumns + ` FROM club_orders
WHERE id = $1 AND lower(email) = lower($2)`

// GetClubOrderByEmail is the customer-facing lookup: the email acts as a
// weak access check on top of the opaque order id.
func (q *Queries) GetClubOrderByEmail(ctx context.Context, arg GetClubOrderByEmailParams) (ClubOrder, error) {
	return scanClubOrder(q.db.QueryRow(ctx, getClubOrderByEmail, arg.ID, arg.Email))
}

const getClubOrderBySession = `SELECT ` + clubOrderColumns + ` FROM club_orders
WHERE checkout_session_id = $1`

func (q *Queries) GetClubOrderBySession(ctx context.Context, sessionID string) (ClubOrder, error) {
	return scanClubOrder(q.db.QueryRow(ctx, getClubOrderBySession, sessionID))
}

const listClubOrders = `SELECT ` + clubOrderColumns + ` FROM club_orders
ORDER BY created_at DESC`

func (q *Queries) ListClubOrders(ctx context.Context) ([]ClubOrder, error) {
	rows, err := q.db.Query(ctx, listClubOrders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []ClubOrder
	for rows.Next() {
		o, err := scanClubOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

type MarkSecondPaymentPaidParams struct {
	ID              uuid.UUID
	PaymentIntentID pgtype.Text
}

const markSecondPaymentPaid = `UPDATE club_orders
SET payment_status = 'FINAL_PAYMENT_DUE', second_payment_intent_id = $2
WHERE id = $1
RETURNING ` + clubOrderColumns

// MarkSecondPaymentPaid records a cleared second tranche. order_status is
// deliberately untouched; only the webhook's final branch advances it.
func (q *Queries) MarkSecondPaymentPaid(ctx context.Context, arg MarkSecondPaymentPaidParams) (ClubOrder, error) {
	return scanClubOrder(q.db.QueryRow(ctx, markSecondPaymentPaid, arg.ID, arg.PaymentIntentID))
}

type MarkFinalPaymentPaidParams struct {
	ID              uuid.UUID
	PaymentIntentID pgtype.Text
}

const markFinalPaymentPaid = `UPDATE club_orders
SET order_status = 'SHIPPED', payment_status = 'FULLY_PAID',
	final_payment_intent_id = $2, shipped_at = now()
WHERE id = $1
RETURNING ` + clubOrderColumns

func (q *Queries) MarkFinalPaymentPaid(ctx context.Context, arg MarkFinalPaymentPaidParams) (ClubOrder, error) {
	return scanClubOrder(q.db.QueryRow(ctx, markFinalPaymentPaid, arg.ID, arg.PaymentIntentID))
}

const approveDesign = `UPDATE club_orders
SET order_status = 'DESIGN_APPROVED', payment_status = 'SECOND_PAYMENT_DUE',
	design_approved_at = now()
WHERE id = $1 AND order_status = 'DEPOSIT_PAID' AND payment_status = 'DEPOSIT_PAID'
RETURNING ` + clubOrderColumns

// ApproveDesign advances a freshly deposited order. The WHERE guard makes
// the transition a no-op (no rows) when the order has already moved on.
func (q *Queries) ApproveDesign(ctx context.Context, id uuid.UUID) (ClubOrder, error) {
	return scanClubOrder(q.db.QueryRow(ctx, approveDesign, id))
}

const markProductionReady = `UPDATE club_orders
SET order_status = 'PRODUCTION_READY', production_ready_at = now()
WHERE id = $1 AND order_status = 'DESIGN_APPROVED'
RETURNING ` + clubOrderColumns

// MarkProductionReady advances order_status only. payment_status is owned by
// the payment webhooks: the second-payment branch has usually already moved
// it to FINAL_PAYMENT_DUE by the time the admin marks the order ready.
func (q *Queries) MarkProductionReady(ctx context.Context, id uuid.UUID) (ClubOrder, error) {
	return scanClubOrder(q.db.QueryRow(ctx, markProductionReady, id))
}

type SetSecondPaymentIntentParams struct {
	ID              uuid.UUID
	PaymentIntentID pgtype.Text
}

const setSecondPaymentIntent = `UPDATE club_orders
SET second_payment_intent_id = $2 WHERE id = $1`

func (q *Queries) SetSecondPaymentIntent(ctx context.Context, arg SetSecondPaymentIntentParams) error {
	_, err := q.db.Exec(ctx, setSecondPaymentIntent, arg.ID, arg.PaymentIntentID)
	return err
}

type SetFinalPaymentIntentParams struct {
	ID              uuid.UUID
	PaymentIntentID pgtype.Text
}

const setFinalPaymentIntent = `UPDATE club_orders
SET final_payment_intent_id = $2 WHERE id = $1`

func (q *Queries) SetFinalPaymentIntent(ctx context.Context, arg SetFinalPaymentIntentParams) error {
	_, err := q.db.Exec(ctx, setFinalPaymentIntent, arg.ID, arg.PaymentIntentID)
	return err
}
