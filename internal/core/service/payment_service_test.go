package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/edusphere/elearning-api/internal/core/domain"
	"github.com/edusphere/elearning-api/internal/core/ports"
)

type stubGateway struct {
	intents       map[string]*ports.Intent
	nextID        int
	confirmStatus string // status ConfirmIntent reports; defaults to succeeded
	declineCode   string
	createErr     error
}

func newStubGateway() *stubGateway {
	return &stubGateway{intents: make(map[string]*ports.Intent), confirmStatus: domain.IntentStatusSucceeded}
}

func (g *stubGateway) CreateIntent(_ context.Context, p ports.CreateIntentParams) (*ports.Intent, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.nextID++
	id := fmt.Sprintf("pi_%d", g.nextID)
	intent := &ports.Intent{
		ID:           id,
		ClientSecret: id + "_secret_abc",
		Status:       "requires_payment_method",
		Amount:       p.Amount,
		Currency:     p.Currency,
		Metadata:     p.Metadata,
	}
	g.intents[id] = intent
	return intent, nil
}

func (g *stubGateway) ConfirmIntent(_ context.Context, intentID, _ string) (*ports.Intent, error) {
	intent, ok := g.intents[intentID]
	if !ok {
		return nil, fmt.Errorf("%w: no such intent", domain.ErrGateway)
	}
	confirmed := *intent
	confirmed.Status = g.confirmStatus
	confirmed.DeclineCode = g.declineCode
	return &confirmed, nil
}

func (g *stubGateway) GetIntent(_ context.Context, intentID string) (*ports.Intent, error) {
	intent, ok := g.intents[intentID]
	if !ok {
		return nil, fmt.Errorf("%w: no such intent", domain.ErrGateway)
	}
	copy := *intent
	return &copy, nil
}

func (g *stubGateway) VerifyWebhook(_ []byte, _ string) (*ports.WebhookEvent, error) {
	return nil, domain.ErrInvalidSignature
}

func (g *stubGateway) ParseWebhook(_ []byte) (*ports.WebhookEvent, error) {
	return nil, domain.ErrGateway
}

func newPaymentService(gw *stubGateway) *PaymentService {
	return NewPaymentService(gw, zerolog.Nop())
}

func TestPaymentService_CreateIntent_DecimalCurrency(t *testing.T) {
	gw := newStubGateway()
	svc := newPaymentService(gw)

	res, err := svc.CreateIntent(context.Background(), ports.CreateIntentInput{
		Amount:   49.99,
		Currency: "USD",
		Metadata: map[string]string{"course_id": "course_1", "user_id": "user_1"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if res.Amount != 4999 {
		t.Fatalf("expected 4999 cents, got %d", res.Amount)
	}
	if res.Currency != "usd" {
		t.Fatalf("expected lower-cased currency, got %s", res.Currency)
	}
	if res.ClientSecret == "" || res.IntentID == "" {
		t.Fatalf("expected gateway references, got %+v", res)
	}
	if gw.intents[res.IntentID].Metadata["course_id"] != "course_1" {
		t.Fatalf("metadata must reach the gateway")
	}
}

func TestPaymentService_CreateIntent_ZeroDecimalCurrency(t *testing.T) {
	gw := newStubGateway()
	svc := newPaymentService(gw)

	res, err := svc.CreateIntent(context.Background(), ports.CreateIntentInput{Amount: 5000, Currency: "JPY"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	// Yen has no minor unit: 5000 JPY is sent as 5000, never 500000.
	if res.Amount != 5000 {
		t.Fatalf("expected 5000, got %d", res.Amount)
	}
}

func TestPaymentService_CreateIntent_DefaultsCurrency(t *testing.T) {
	svc := newPaymentService(newStubGateway())

	res, err := svc.CreateIntent(context.Background(), ports.CreateIntentInput{Amount: 10})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if res.Currency != "usd" {
		t.Fatalf("expected usd default, got %s", res.Currency)
	}
	if res.Amount != 1000 {
		t.Fatalf("expected 1000 cents, got %d", res.Amount)
	}
}

func TestPaymentService_CreateIntent_RejectsNonPositiveAmount(t *testing.T) {
	svc := newPaymentService(newStubGateway())

	if _, err := svc.CreateIntent(context.Background(), ports.CreateIntentInput{Amount: 0, Currency: "usd"}); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, err := svc.CreateIntent(context.Background(), ports.CreateIntentInput{Amount: -5, Currency: "usd"}); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestPaymentService_Confirm_Success(t *testing.T) {
	gw := newStubGateway()
	svc := newPaymentService(gw)

	created, err := svc.CreateIntent(context.Background(), ports.CreateIntentInput{Amount: 49.99, Currency: "usd"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	res, err := svc.Confirm(context.Background(), ports.ConfirmInput{
		ClientSecret:  created.ClientSecret,
		PaymentMethod: "pm_card",
	})
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if res.IntentID != created.IntentID {
		t.Fatalf("expected intent %s, got %s", created.IntentID, res.IntentID)
	}
	if res.Status != domain.IntentStatusSucceeded {
		t.Fatalf("expected succeeded, got %s", res.Status)
	}
}

func TestPaymentService_Confirm_Decline(t *testing.T) {
	gw := newStubGateway()
	gw.confirmStatus = "requires_payment_method"
	gw.declineCode = "insufficient_funds"
	svc := newPaymentService(gw)

	created, err := svc.CreateIntent(context.Background(), ports.CreateIntentInput{Amount: 49.99, Currency: "usd"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.Confirm(context.Background(), ports.ConfirmInput{ClientSecret: created.ClientSecret, PaymentMethod: "pm_card"})
	var payErr *domain.PaymentError
	if !errors.As(err, &payErr) {
		t.Fatalf("expected *domain.PaymentError, got %v", err)
	}
	if payErr.Code != "insufficient_funds" {
		t.Fatalf("expected decline code to be preserved, got %s", payErr.Code)
	}
	if payErr.Error() != domain.DeclineMessage("insufficient_funds") {
		t.Fatalf("unexpected guidance text: %s", payErr.Error())
	}
}

func TestPaymentService_Confirm_UnknownStatusFallsBack(t *testing.T) {
	gw := newStubGateway()
	gw.confirmStatus = "processing"
	svc := newPaymentService(gw)

	created, _ := svc.CreateIntent(context.Background(), ports.CreateIntentInput{Amount: 20, Currency: "usd"})

	_, err := svc.Confirm(context.Background(), ports.ConfirmInput{ClientSecret: created.ClientSecret, PaymentMethod: "pm_card"})
	var payErr *domain.PaymentError
	if !errors.As(err, &payErr) {
		t.Fatalf("expected *domain.PaymentError, got %v", err)
	}
	if payErr.Code != "processing_error" {
		t.Fatalf("expected processing_error fallback, got %s", payErr.Code)
	}
}

func TestPaymentService_Confirm_MissingInput(t *testing.T) {
	svc := newPaymentService(newStubGateway())

	if _, err := svc.Confirm(context.Background(), ports.ConfirmInput{ClientSecret: "malformed", PaymentMethod: "pm_card"}); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields for a malformed client secret, got %v", err)
	}
	if _, err := svc.Confirm(context.Background(), ports.ConfirmInput{ClientSecret: "pi_1_secret_abc"}); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields without a payment method, got %v", err)
	}
}

func TestIntentIDFromClientSecret(t *testing.T) {
	cases := []struct {
		secret string
		want   string
	}{
		{"pi_3ABC_secret_XYZ", "pi_3ABC"},
		{"pi_1_secret_", "pi_1"},
		{"_secret_XYZ", ""},
		{"no-separator", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := IntentIDFromClientSecret(tc.secret); got != tc.want {
			t.Fatalf("IntentIDFromClientSecret(%q) = %q, want %q", tc.secret, got, tc.want)
		}
	}
}
