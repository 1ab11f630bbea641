package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/vonga-club/api/internal/database"
)

// SlackSender posts Block Kit messages to an incoming webhook.
type SlackSender struct {
	webhookURL string
	base       string
}

// NewSlackSender creates a SlackSender, or nil when no webhook URL is set.
func NewSlackSender(webhookURL, baseURL string) *SlackSender {
	if webhookURL == "" {
		return nil
	}
	return &SlackSender{webhookURL: webhookURL, base: baseURL}
}

func (s *SlackSender) post(ctx context.Context, text string, blocks []slack.Block) error {
	return slack.PostWebhookContext(ctx, s.webhookURL, &slack.WebhookMessage{
		Text:   text,
		Blocks: &slack.Blocks{BlockSet: blocks},
	})
}

func header(text string) slack.Block {
	return slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, text, true, false))
}

func field(label, value string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*%s:*\n%s", label, value), false, false)
}

func section(fields ...*slack.TextBlockObject) slack.Block {
	return slack.NewSectionBlock(nil, fields, nil)
}

func markdown(text string) slack.Block {
	return slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil)
}

func itemLines(order database.ClubOrder) string {
	var lines []string
	for _, item := range cartItems(order) {
		lines = append(lines, fmt.Sprintf("- %s: %d units", item.GearType, item.UnitCount()))
	}
	if len(lines) == 0 {
		return "-"
	}
	return strings.Join(lines, "\n")
}

// NewOrder announces a deposit-paid order to the team channel.
func (s *SlackSender) NewOrder(ctx context.Context, order database.ClubOrder) error {
	adminURL := s.base + "/admin/club-orders"
	viewButton := slack.NewButtonBlockElement("view_order", order.ID.String(),
		slack.NewTextBlockObject(slack.PlainTextType, "View Order Details", false, false))
	viewButton.URL = adminURL
	viewButton.Style = slack.StylePrimary

	blocks := []slack.Block{
		header("New Club Vonga Order - Deposit Paid!"),
		section(
			field("Organization", order.OrganizationName),
			field("Contact", order.ContactName),
			field("Email", order.Email),
			field("Kit Type", kitLabel(order.KitType)),
			field("Total Units", fmt.Sprintf("%d", order.TotalUnits)),
			field("Order Total", "$"+numericString(order.Subtotal)),
			field("Deposit Paid", fmt.Sprintf("$%s (10%%)", numericString(order.DepositAmount))),
			field("Next Payment", fmt.Sprintf("$%s (40%%)", numericString(order.SecondPaymentAmount))),
		),
		markdown("*Order Items:*\n" + itemLines(order)),
		slack.NewActionBlock("order_actions", viewButton),
	}
	return s.post(ctx, "New Club Vonga Order Received!", blocks)
}

// PaymentRequested announces an admin-triggered payment request.
func (s *SlackSender) PaymentRequested(ctx context.Context, order database.ClubOrder, tranche string) error {
	title := "Design Approved - Second Payment Due"
	amountLabel := "Second Payment Due"
	amount := numericString(order.SecondPaymentAmount)
	next := "- Customer will receive email with payment link\n- 40% payment due before production begins"
	if tranche == "final" {
		title = "Ready to Ship - Final Payment Due"
		amountLabel = "Final Payment Due"
		amount = numericString(order.FinalPaymentAmount)
		next = "- Customer will receive email with payment link\n- 50% final payment due before shipment"
	}
	payLink := fmt.Sprintf("%s/club/payment/%s?orderId=%s&email=%s", s.base, tranche, order.ID, order.Email)

	blocks := []slack.Block{
		header(title),
		section(
			field("Organization", order.OrganizationName),
			field("Order ID", order.ID.String()),
			field("Customer Email", order.Email),
			field(amountLabel, "$"+amount),
		),
		markdown(fmt.Sprintf("*Next Steps:*\n%s\n- Payment link: %s", next, payLink)),
	}
	return s.post(ctx, title, blocks)
}

// OrderCompleted announces a fully paid order.
func (s *SlackSender) OrderCompleted(ctx context.Context, order database.ClubOrder) error {
	blocks := []slack.Block{
		header("Order Fully Paid - Ship It!"),
		section(
			field("Organization", order.OrganizationName),
			field("Order ID", order.ID.String()),
			field("Customer Email", order.Email),
			field("Final Payment", "$"+numericString(order.FinalPaymentAmount)),
			field("Order Total", "$"+numericString(order.Subtotal)),
		),
		markdown("*Order Items:*\n" + itemLines(order)),
	}
	return s.post(ctx, "Order Fully Paid", blocks)
}

// LeadReview posts a scored intake lead for human review.
func (s *SlackSender) LeadReview(ctx context.Context, sub database.LeadSubmission) error {
	org := sub.Email
	if sub.Organization.Valid && sub.Organization.String != "" {
		org = sub.Organization.String
	}
	blocks := []slack.Block{
		header(fmt.Sprintf("Lead Review: %s (%s)", org, sub.Tier)),
		section(
			field("Score", fmt.Sprintf("%d", sub.Score)),
			field("Owner", sub.Owner),
			field("Vertical", sub.Vertical),
			field("Audience", sub.AudienceBand),
			field("MOQ", sub.MoqBand),
			field("Timeline", sub.Timeline),
		),
		markdown(fmt.Sprintf("*%s:* %s", sub.FitCategory, sub.FitMessage)),
	}
	return s.post(ctx, fmt.Sprintf("Lead review: %s", org), blocks)
}

// ClubRequest posts a starter-kit request.
func (s *SlackSender) ClubRequest(ctx context.Context, req database.ClubRequest) error {
	gear := "-"
	if req.GearType.Valid {
		gear = req.GearType.String
	}
	orgType := "-"
	if req.OrganizationType.Valid {
		orgType = req.OrganizationType.String
	}
	phone := "-"
	if req.Phone.Valid {
		phone = req.Phone.String
	}
	blocks := []slack.Block{
		header("New Club Vonga Starter Kit Request"),
		section(
			field("Organization", req.OrganizationName),
			field("Contact", req.ContactName),
			field("Email", req.Email),
			field("Phone", phone),
			field("Type", orgType),
			field("Units", fmt.Sprintf("%d", req.MemberCount)),
			field("Kit", kitLabel(req.KitType)),
			field("Gear", gear),
		),
	}
	return s.post(ctx, "New Club Vonga Starter Kit Request", blocks)
}
