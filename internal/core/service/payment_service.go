package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edusphere/elearning-api/internal/api/metrics"
	"github.com/edusphere/elearning-api/internal/core/domain"
	"github.com/edusphere/elearning-api/internal/core/ports"
)

// PaymentService drives payment intents against the external gateway. It owns
// the major-to-minor unit conversion; the gateway only ever sees integer
// amounts in the currency's minor unit.
type PaymentService struct {
	gateway ports.PaymentGateway
	log     zerolog.Logger
}

func NewPaymentService(gateway ports.PaymentGateway, log zerolog.Logger) *PaymentService {
	return &PaymentService{gateway: gateway, log: log}
}

// CreateIntent converts the major-unit amount per the currency's decimal rules
// and creates a gateway intent carrying the course/user metadata.
func (s *PaymentService) CreateIntent(ctx context.Context, in ports.CreateIntentInput) (*ports.IntentResult, error) {
	currency := strings.ToLower(in.Currency)
	if currency == "" {
		currency = "usd"
	}

	amount, err := domain.GatewayAmount(in.Amount, currency)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreateIntent(ctx, ports.CreateIntentParams{
		Amount:   amount,
		Currency: currency,
		Metadata: in.Metadata,
	})
	if err != nil {
		metrics.PaymentIntentsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("currency", currency).Int64("amount", amount).Msg("payment intent creation failed")
		return nil, err
	}

	metrics.PaymentIntentsTotal.WithLabelValues("created").Inc()
	s.log.Info().Str("intent_id", intent.ID).Int64("amount", amount).Str("currency", currency).Msg("payment intent created")

	return &ports.IntentResult{
		ClientSecret: intent.ClientSecret,
		IntentID:     intent.ID,
		Amount:       amount,
		Currency:     currency,
	}, nil
}

// Confirm runs the gateway confirmation step. Only a succeeded status lets the
// caller proceed to enrollment; declines come back as *domain.PaymentError
// with the stable code-to-guidance mapping.
func (s *PaymentService) Confirm(ctx context.Context, in ports.ConfirmInput) (*ports.ConfirmResult, error) {
	intentID := IntentIDFromClientSecret(in.ClientSecret)
	if intentID == "" || in.PaymentMethod == "" {
		return nil, domain.ErrMissingFields
	}

	intent, err := s.gateway.ConfirmIntent(ctx, intentID, in.PaymentMethod)
	if err != nil {
		metrics.PaymentIntentsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	if intent.Status != domain.IntentStatusSucceeded {
		metrics.PaymentIntentsTotal.WithLabelValues(intent.Status).Inc()
		code := intent.DeclineCode
		if code == "" {
			code = "processing_error"
		}
		return nil, &domain.PaymentError{Code: code}
	}

	metrics.PaymentIntentsTotal.WithLabelValues(domain.IntentStatusSucceeded).Inc()
	s.log.Info().Str("intent_id", intent.ID).Msg("payment confirmed")
	return &ports.ConfirmResult{IntentID: intent.ID, Status: intent.Status}, nil
}

// GetPayment returns the gateway's view of an intent. The success page uses it
// to re-attempt enrollment when a paid confirmation failed to enroll.
func (s *PaymentService) GetPayment(ctx context.Context, intentID string) (*ports.Intent, error) {
	if intentID == "" {
		return nil, domain.ErrMissingFields
	}
	return s.gateway.GetIntent(ctx, intentID)
}

// IntentIDFromClientSecret recovers the intent id from an opaque client
// secret of the form "<intent_id>_secret_<nonce>".
func IntentIDFromClientSecret(clientSecret string) string {
	if i := strings.Index(clientSecret, "_secret_"); i > 0 {
		return clientSecret[:i]
	}
	return ""
}
