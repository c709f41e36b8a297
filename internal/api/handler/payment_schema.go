package handler

import "time"

type createIntentRequest struct {
	// Amount is in major currency units; conversion to the gateway's minor
	// units happens server-side per the currency's decimal rules.
	Amount   float64           `json:"amount"   validate:"required,gt=0"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

type createIntentResponse struct {
	Success         bool   `json:"success"`
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}

type confirmPaymentRequest struct {
	ClientSecret   string            `json:"client_secret"   validate:"required"`
	PaymentMethod  string            `json:"payment_method"  validate:"required"`
	BillingDetails map[string]string `json:"billing_details"`
}

type confirmPaymentResponse struct {
	Success         bool   `json:"success"`
	PaymentIntentID string `json:"payment_intent_id"`
	Status          string `json:"status"`
}

type paymentDetailsResponse struct {
	Success bool           `json:"success"`
	Data    paymentDetails `json:"data"`
}

type paymentDetails struct {
	ID         string            `json:"id"`
	Amount     int64             `json:"amount"`
	Currency   string            `json:"currency"`
	Status     string            `json:"status"`
	Created    time.Time         `json:"created"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	ReceiptURL string            `json:"receipt_url,omitempty"`
}
