package payments

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/vonga-club/api/internal/enum"
)

// Metadata keys on checkout sessions. The deposit session's metadata is the
// only durable carrier of order content until the first webhook fires, so
// the full PendingOrder round-trips through these keys.
const (
	MetaType             = "type"
	MetaOrderID          = "order_id"
	MetaOrganizationName = "organization_name"
	MetaCustomerEmail    = "customer_email"
	MetaKitType          = "kit_type"
	MetaMemberCount      = "member_count"
	MetaTotalUnits       = "total_units"
	MetaSubtotal         = "subtotal"
	MetaDepositAmount    = "deposit_amount"
	MetaSecondPayment    = "second_payment"
	MetaFinalPayment     = "final_payment"
	MetaCartItems        = "cart_items"
	MetaAmount           = "amount"
)

// Stripe caps each metadata value at 500 characters.
const maxMetadataValueLen = 500

var (
	ErrMissingField    = errors.New("missing metadata field")
	ErrCartTooLarge    = errors.New("cart items do not fit in session metadata")
	ErrScheduleInvalid = errors.New("tranche amounts do not sum to subtotal")
)

// CartItem is one garment line with a per-size quantity breakdown.
type CartItem struct {
	GearType string           `json:"gear_type"`
	SizeRun  map[string]int32 `json:"size_run"`
}

// UnitCount sums the size run.
func (c CartItem) UnitCount() int32 {
	var n int32
	for _, qty := range c.SizeRun {
		n += qty
	}
	return n
}

// TotalUnits sums unit counts across all items.
func TotalUnits(items []CartItem) int32 {
	var n int32
	for _, it := range items {
		n += it.UnitCount()
	}
	return n
}

// PendingOrder is the order content serialized into the deposit session's
// metadata and reconstructed by the webhook receiver. Everything crosses the
// wire as strings; FromMetadata is the single place they are parsed back.
type PendingOrder struct {
	OrganizationName string
	Email            string
	KitType          string
	MemberCount      int32
	CartItems        []CartItem
	TotalUnits       int32
	Subtotal         decimal.Decimal
	DepositAmount    decimal.Decimal
	SecondPayment    decimal.Decimal
	FinalPayment     decimal.Decimal
}

// ToMetadata serializes the pending order for a deposit checkout session.
func (p PendingOrder) ToMetadata() (map[string]string, error) {
	cart, err := json.Marshal(p.CartItems)
	if err != nil {
		return nil, fmt.Errorf("marshal cart items: %w", err)
	}
	if len(cart) > maxMetadataValueLen {
		return nil, ErrCartTooLarge
	}
	return map[string]string{
		MetaType:             enum.CheckoutTypeDeposit,
		MetaOrganizationName: p.OrganizationName,
		MetaCustomerEmail:    p.Email,
		MetaKitType:          p.KitType,
		MetaMemberCount:      strconv.FormatInt(int64(p.MemberCount), 10),
		MetaTotalUnits:       strconv.FormatInt(int64(p.TotalUnits), 10),
		MetaSubtotal:         p.Subtotal.StringFixed(2),
		MetaDepositAmount:    p.DepositAmount.StringFixed(2),
		MetaSecondPayment:    p.SecondPayment.StringFixed(2),
		MetaFinalPayment:     p.FinalPayment.StringFixed(2),
		MetaCartItems:        string(cart),
	}, nil
}

// PendingOrderFromMetadata parses and validates a deposit session's metadata.
// Any missing or malformed field is an error; the webhook receiver maps it to
// a 400 so the provider does not retry a payload that can never parse.
func PendingOrderFromMetadata(md map[string]string) (PendingOrder, error) {
	var p PendingOrder
	var err error

	if p.OrganizationName, err = requireString(md, MetaOrganizationName); err != nil {
		return PendingOrder{}, err
	}
	if p.Email, err = requireString(md, MetaCustomerEmail); err != nil {
		return PendingOrder{}, err
	}
	if p.KitType, err = requireString(md, MetaKitType); err != nil {
		return PendingOrder{}, err
	}
	if p.KitType != enum.KitTypeCore && p.KitType != enum.KitTypePro {
		return PendingOrder{}, fmt.Errorf("invalid kit_type %q", p.KitType)
	}

	if p.MemberCount, err = parseInt32(md, MetaMemberCount); err != nil {
		return PendingOrder{}, err
	}
	if p.TotalUnits, err = parseInt32(md, MetaTotalUnits); err != nil {
		return PendingOrder{}, err
	}

	if p.Subtotal, err = parseAmount(md, MetaSubtotal); err != nil {
		return PendingOrder{}, err
	}
	if p.DepositAmount, err = parseAmount(md, MetaDepositAmount); err != nil {
		return PendingOrder{}, err
	}
	if p.SecondPayment, err = parseAmount(md, MetaSecondPayment); err != nil {
		return PendingOrder{}, err
	}
	if p.FinalPayment, err = parseAmount(md, MetaFinalPayment); err != nil {
		return PendingOrder{}, err
	}
	if !p.DepositAmount.Add(p.SecondPayment).Add(p.FinalPayment).Equal(p.Subtotal) {
		return PendingOrder{}, ErrScheduleInvalid
	}

	cartJSON, err := requireString(md, MetaCartItems)
	if err != nil {
		return PendingOrder{}, err
	}
	if err := json.Unmarshal([]byte(cartJSON), &p.CartItems); err != nil {
		return PendingOrder{}, fmt.Errorf("parse cart_items: %w", err)
	}
	if len(p.CartItems) == 0 {
		return PendingOrder{}, errors.New("cart_items is empty")
	}

	return p, nil
}

func requireString(md map[string]string, key string) (string, error) {
	v := md[key]
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	return v, nil
}

func parseInt32(md map[string]string, key string) (int32, error) {
	s, err := requireString(md, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return int32(n), nil
}

func parseAmount(md map[string]string, key string) (decimal.Decimal, error) {
	s, err := requireString(md, key)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid %s %q", key, s)
	}
	return d, nil
}
