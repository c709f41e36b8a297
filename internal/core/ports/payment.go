package ports

import (
	"context"
	"time"
)

// CreateIntentParams is the gateway-side request: amount already converted to
// minor currency units, metadata identifying the course and buyer.
type CreateIntentParams struct {
	Amount   int64
	Currency string
	Metadata map[string]string
}

// Intent is the gateway's view of a payment intent.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
	Metadata     map[string]string
	DeclineCode  string
	ReceiptURL   string
	Created      time.Time
}

// WebhookEvent is a verified (or, in development, explicitly unverified)
// out-of-band notification from the gateway.
type WebhookEvent struct {
	ID     string
	Type   string
	Intent *Intent
}

// PaymentGateway abstracts the external payment provider. Implementations
// return *domain.PaymentError for card declines and wrap everything else in
// domain.ErrGateway.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, p CreateIntentParams) (*Intent, error)
	ConfirmIntent(ctx context.Context, intentID, paymentMethod string) (*Intent, error)
	GetIntent(ctx context.Context, intentID string) (*Intent, error)
	// VerifyWebhook authenticates payload against the shared signing secret.
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
	// ParseWebhook decodes an unsigned payload. Callers must gate its use to
	// non-production configuration.
	ParseWebhook(payload []byte) (*WebhookEvent, error)
}

// CreateIntentInput is the client-facing request: amount in major units, to be
// converted per the currency's decimal-places rules.
type CreateIntentInput struct {
	Amount   float64
	Currency string
	Metadata map[string]string
}

// IntentResult is returned to the client to drive gateway-side confirmation.
type IntentResult struct {
	ClientSecret string
	IntentID     string
	Amount       int64
	Currency     string
}

// ConfirmInput carries the client confirmation step. BillingDetails is
// accepted for client compatibility; the gateway reads billing data from the
// payment method itself.
type ConfirmInput struct {
	ClientSecret   string
	PaymentMethod  string
	BillingDetails map[string]string
}

// ConfirmResult reports the intent's terminal status after confirmation.
type ConfirmResult struct {
	IntentID string
	Status   string
}

// PaymentService drives intent creation and confirmation against the gateway.
type PaymentService interface {
	CreateIntent(ctx context.Context, in CreateIntentInput) (*IntentResult, error)
	Confirm(ctx context.Context, in ConfirmInput) (*ConfirmResult, error)
	GetPayment(ctx context.Context, intentID string) (*Intent, error)
}
