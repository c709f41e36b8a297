// Package payment adapts the Stripe SDK to the ports.PaymentGateway contract.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/edusphere/elearning-api/internal/core/domain"
	"github.com/edusphere/elearning-api/internal/core/ports"
)

// StripeGateway implements ports.PaymentGateway against the Stripe API.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api, webhookSecret: webhookSecret}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, p ports.CreateIntentParams) (*ports.Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(p.Amount),
		Currency: stripe.String(p.Currency),
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, gatewayError(err)
	}
	return toIntent(pi), nil
}

func (g *StripeGateway) ConfirmIntent(ctx context.Context, intentID, paymentMethod string) (*ports.Intent, error) {
	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(paymentMethod),
	}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.Confirm(intentID, params)
	if err != nil {
		return nil, gatewayError(err)
	}
	return toIntent(pi), nil
}

func (g *StripeGateway) GetIntent(ctx context.Context, intentID string) (*ports.Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	params.AddExpand("latest_charge")

	pi, err := g.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		return nil, gatewayError(err)
	}
	return toIntent(pi), nil
}

// VerifyWebhook authenticates the payload against the endpoint signing secret.
func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (*ports.WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}
	return toWebhookEvent(event)
}

// ParseWebhook decodes the payload without signature verification. The webhook
// handler gates this to non-production configuration.
func (g *StripeGateway) ParseWebhook(payload []byte) (*ports.WebhookEvent, error) {
	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: malformed payload", domain.ErrInvalidSignature)
	}
	return toWebhookEvent(event)
}

func toWebhookEvent(event stripe.Event) (*ports.WebhookEvent, error) {
	we := &ports.WebhookEvent{ID: event.ID, Type: string(event.Type)}

	switch we.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("decode webhook intent: %w", err)
		}
		we.Intent = toIntent(&pi)
	}
	return we, nil
}

func toIntent(pi *stripe.PaymentIntent) *ports.Intent {
	intent := &ports.Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Metadata:     pi.Metadata,
		Created:      time.Unix(pi.Created, 0).UTC(),
	}
	if pi.LastPaymentError != nil {
		intent.DeclineCode = string(pi.LastPaymentError.DeclineCode)
		if intent.DeclineCode == "" {
			intent.DeclineCode = string(pi.LastPaymentError.Code)
		}
	}
	if pi.LatestCharge != nil {
		intent.ReceiptURL = pi.LatestCharge.ReceiptURL
	}
	return intent
}

// gatewayError maps Stripe errors: card declines become *domain.PaymentError
// with the decline code, everything else wraps domain.ErrGateway with the
// provider's message surfaced.
func gatewayError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		if se.DeclineCode != "" {
			return &domain.PaymentError{Code: string(se.DeclineCode)}
		}
		if se.Code == stripe.ErrorCodeCardDeclined || se.Code == stripe.ErrorCodeExpiredCard || se.Code == stripe.ErrorCodeIncorrectCVC {
			return &domain.PaymentError{Code: string(se.Code)}
		}
		return fmt.Errorf("%w: %s", domain.ErrGateway, se.Msg)
	}
	return fmt.Errorf("%w: %v", domain.ErrGateway, err)
}
