package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/vonga-club/api/internal/enum"
)

// CheckoutSession is the slice of a Stripe session the handlers care about.
type CheckoutSession struct {
	ID  string
	URL string
}

// Client creates hosted checkout sessions for the three tranches.
type Client struct {
	api     *client.API
	baseURL string
}

// NewClient creates a Client. baseURL is the public site base used for
// success/cancel redirects.
func NewClient(secretKey, baseURL string) *Client {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Client{api: api, baseURL: baseURL}
}

// NewDepositSession builds the deposit checkout session. The full pending
// order is serialized into session metadata; until the deposit webhook
// fires, that metadata is the only durable copy of the order.
func (c *Client) NewDepositSession(ctx context.Context, p PendingOrder) (CheckoutSession, error) {
	md, err := p.ToMetadata()
	if err != nil {
		return CheckoutSession{}, err
	}

	kitLabel := "Core"
	if p.KitType == enum.KitTypePro {
		kitLabel = "Pro"
	}

	// The deposit is split evenly across cart lines so the hosted page
	// itemizes per garment. Stripe wants integer cents.
	perLine := p.DepositAmount.Div(decimal.NewFromInt(int64(len(p.CartItems)))).Round(2)
	var lineItems []*stripe.CheckoutSessionLineItemParams
	for _, item := range p.CartItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(string(stripe.CurrencyUSD)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(fmt.Sprintf("%s Kit - %s (deposit)", kitLabel, item.GearType)),
					Description: stripe.String(fmt.Sprintf("%d units with NFC technology", item.UnitCount())),
				},
				UnitAmount: stripe.Int64(perLine.Mul(decimal.NewFromInt(100)).IntPart()),
			},
			Quantity: stripe.Int64(1),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		CustomerEmail:      stripe.String(p.Email),
		SuccessURL:         stripe.String(c.baseURL + "/club/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(c.baseURL + "/club/get-started"),
	}
	params.Context = ctx
	for k, v := range md {
		params.AddMetadata(k, v)
	}

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("create deposit session: %w", err)
	}
	return CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// TrancheSessionParams describes a second or final payment session for an
// order that already exists.
type TrancheSessionParams struct {
	OrderID          uuid.UUID
	CheckoutType     string // enum.CheckoutTypeSecondPayment or ...FinalPayment
	OrganizationName string
	Email            string
	TotalUnits       int32
	Amount           decimal.Decimal
}

// NewTrancheSession builds a checkout session for a follow-up tranche. Only
// the order id and type tag ride in metadata; the webhook re-reads the
// order record for everything else.
func (c *Client) NewTrancheSession(ctx context.Context, arg TrancheSessionParams) (CheckoutSession, error) {
	name := "Club Vonga - Design Approval Payment"
	description := fmt.Sprintf("40%% payment for %s order (%d units)", arg.OrganizationName, arg.TotalUnits)
	successType := "second"
	if arg.CheckoutType == enum.CheckoutTypeFinalPayment {
		name = "Club Vonga - Final Payment"
		description = fmt.Sprintf("50%% final payment for %s order (%d units)", arg.OrganizationName, arg.TotalUnits)
		successType = "final"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(string(stripe.CurrencyUSD)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(name),
					Description: stripe.String(description),
				},
				UnitAmount: stripe.Int64(arg.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()),
			},
			Quantity: stripe.Int64(1),
		}},
		CustomerEmail: stripe.String(arg.Email),
		SuccessURL:    stripe.String(fmt.Sprintf("%s/club/payment/success?type=%s&session_id={CHECKOUT_SESSION_ID}", c.baseURL, successType)),
		CancelURL:     stripe.String(fmt.Sprintf("%s/club/order/%s", c.baseURL, arg.OrderID)),
	}
	params.Context = ctx
	params.AddMetadata(MetaType, arg.CheckoutType)
	params.AddMetadata(MetaOrderID, arg.OrderID.String())
	params.AddMetadata(MetaOrganizationName, arg.OrganizationName)
	params.AddMetadata(MetaCustomerEmail, arg.Email)
	params.AddMetadata(MetaAmount, arg.Amount.StringFixed(2))

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("create tranche session: %w", err)
	}
	return CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// SignatureVerifier authenticates inbound webhook payloads against the
// endpoint's signing secret.
type SignatureVerifier struct {
	secret string
}

func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: secret}
}

func (v *SignatureVerifier) Verify(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, v.secret)
}
