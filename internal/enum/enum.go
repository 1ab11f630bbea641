package enum

// ── State machines (CHECK constrained in DB) ──

const (
	OrderStatusDepositPaid     = "DEPOSIT_PAID"
	OrderStatusDesignApproved  = "DESIGN_APPROVED"
	OrderStatusProductionReady = "PRODUCTION_READY"
	OrderStatusShipped         = "SHIPPED"
)

const (
	PaymentStatusDepositPaid      = "DEPOSIT_PAID"
	PaymentStatusSecondPaymentDue = "SECOND_PAYMENT_DUE"
	PaymentStatusFinalPaymentDue  = "FINAL_PAYMENT_DUE"
	PaymentStatusFullyPaid        = "FULLY_PAID"
)

// ── Checkout metadata tags ──
// Carried in Stripe session metadata["type"]; the webhook receiver
// dispatches on these and acks anything else.

const (
	CheckoutTypeDeposit       = "club_deposit"
	CheckoutTypeSecondPayment = "club_second_payment"
	CheckoutTypeFinalPayment  = "club_final_payment"
)

// ── Configurable labels (no DB constraint) ──

const (
	KitTypeCore = "CORE"
	KitTypePro  = "PRO"
)

const (
	UserRoleAdmin = "ADMIN"
)

// Lead tiers derived from the intake score.
const (
	LeadTierBook    = "BOOK"
	LeadTierReview  = "REVIEW"
	LeadTierNurture = "NURTURE"
)
