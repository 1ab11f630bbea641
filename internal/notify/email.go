package notify

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/vonga-club/api/internal/database"
)

// EmailSender delivers customer emails through Resend.
type EmailSender struct {
	client *resend.Client
	from   string
	base   string
}

// NewEmailSender creates an EmailSender, or nil when no API key is set so
// the feature degrades silently.
func NewEmailSender(apiKey, from, baseURL string) *EmailSender {
	if apiKey == "" {
		return nil
	}
	return &EmailSender{client: resend.NewClient(apiKey), from: from, base: baseURL}
}

func (e *EmailSender) send(ctx context.Context, to, subject, html string) error {
	_, err := e.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    e.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	return err
}

func (e *EmailSender) orderURL(order database.ClubOrder) string {
	return fmt.Sprintf("%s/club/order/%s?email=%s", e.base, order.ID, url.QueryEscape(order.Email))
}

// OrderConfirmation thanks the customer for the deposit and lays out the
// remaining payment schedule.
func (e *EmailSender) OrderConfirmation(ctx context.Context, order database.ClubOrder) error {
	html := fmt.Sprintf(`%s
		<h2>Thank you for your order, %s!</h2>
		<div style="%s">
			<h3>Order Summary</h3>
			<p><strong>Organization:</strong> %s</p>
			<p><strong>Order ID:</strong> %s</p>
			<p><strong>Starter Kit:</strong> %s</p>
			<p><strong>Total Units:</strong> %d</p>
			<p><strong>Order Total:</strong> $%s</p>
			<p><strong>Deposit Paid (10%%):</strong> $%s</p>
		</div>
		<h3>What Happens Next?</h3>
		<p>Our design team will review your order and create mockups based on your
		specifications. This typically takes 2-3 business days.</p>
		<ul>
			<li>10%% Deposit - Paid</li>
			<li>40%% - Due upon design approval</li>
			<li>50%% - Due before shipment</li>
		</ul>
		<a href="%s" style="%s">View Order Status</a>
		%s`,
		emailHeader("Order Confirmation"),
		order.ContactName,
		cardStyle,
		order.OrganizationName,
		order.ID,
		kitLabel(order.KitType),
		order.TotalUnits,
		numericString(order.Subtotal),
		numericString(order.DepositAmount),
		e.orderURL(order),
		buttonStyle,
		emailFooter(),
	)
	subject := fmt.Sprintf("Order Confirmation - %s (%s)", order.OrganizationName, order.ID)
	return e.send(ctx, order.Email, subject, html)
}

// PaymentRequest asks for the second or final tranche with a pay link.
func (e *EmailSender) PaymentRequest(ctx context.Context, order database.ClubOrder, tranche string) error {
	subject := "Design Approved - Payment Required"
	intro := "Great news! Your design has been approved and we're ready to move into production."
	label := "40% Payment"
	amount := numericString(order.SecondPaymentAmount)
	if tranche == "final" {
		subject = "Order Ready to Ship - Final Payment Required"
		intro = "Your order is complete and ready to ship! Please submit your final payment to complete the process."
		label = "Final 50% Payment"
		amount = numericString(order.FinalPaymentAmount)
	}

	payURL := fmt.Sprintf("%s/club/payment/%s?orderId=%s&email=%s",
		e.base, tranche, order.ID, url.QueryEscape(order.Email))

	html := fmt.Sprintf(`%s
		<h2>Hello %s,</h2>
		<p>%s</p>
		<div style="%s">
			<h3>Order Details</h3>
			<p><strong>Organization:</strong> %s</p>
			<p><strong>Order ID:</strong> %s</p>
			<p><strong>Total Units:</strong> %d</p>
			<p><strong>Order Total:</strong> $%s</p>
		</div>
		<div style="%s">
			<h3>%s Due</h3>
			<p style="font-size: 24px; font-weight: bold;">$%s</p>
		</div>
		<a href="%s" style="%s">Pay Now</a>
		%s`,
		emailHeader(subject),
		order.ContactName,
		intro,
		cardStyle,
		order.OrganizationName,
		order.ID,
		order.TotalUnits,
		numericString(order.Subtotal),
		cardStyle,
		label,
		amount,
		payURL,
		buttonStyle,
		emailFooter(),
	)
	return e.send(ctx, order.Email, subject, html)
}

// OrderCompleted confirms the final payment and upcoming shipment.
func (e *EmailSender) OrderCompleted(ctx context.Context, order database.ClubOrder) error {
	html := fmt.Sprintf(`%s
		<h2>Your order is on its way, %s!</h2>
		<p>All payments have been received and your order is being shipped.</p>
		<div style="%s">
			<h3>Order Summary</h3>
			<p><strong>Organization:</strong> %s</p>
			<p><strong>Order ID:</strong> %s</p>
			<p><strong>Total Units:</strong> %d</p>
			<p><strong>Order Total:</strong> $%s</p>
		</div>
		<a href="%s" style="%s">View Order Status</a>
		%s`,
		emailHeader("Order Complete"),
		order.ContactName,
		cardStyle,
		order.OrganizationName,
		order.ID,
		order.TotalUnits,
		numericString(order.Subtotal),
		e.orderURL(order),
		buttonStyle,
		emailFooter(),
	)
	subject := fmt.Sprintf("Order Complete - %s (%s)", order.OrganizationName, order.ID)
	return e.send(ctx, order.Email, subject, html)
}

// --- Template fragments ---

const (
	cardStyle   = "background-color: white; padding: 20px; margin: 20px 0; border-radius: 8px;"
	buttonStyle = "display: inline-block; background-color: #33BECC; color: #303E55; padding: 15px 30px; text-decoration: none; border-radius: 5px; font-weight: bold; margin: 20px 0;"
)

func emailHeader(title string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="background-color: #303E55; color: white; padding: 30px; text-align: center;">
			<h1 style="font-size: 24px; font-weight: bold; margin: 0;">VONGA</h1>
			<p>%s</p>
		</div>
		<div style="padding: 30px; background-color: #f7f7f7;">`, title)
}

func emailFooter() string {
	return fmt.Sprintf(`</div>
		<div style="text-align: center; padding: 20px; color: #666; font-size: 12px;">
			<p>&copy; %d Vonga. All rights reserved.</p>
			<p>Questions? Contact us at support@vonga.io</p>
		</div>
	</div>`, time.Now().Year())
}
