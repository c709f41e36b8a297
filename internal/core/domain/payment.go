package domain

import (
	"fmt"
	"math"
	"strings"
)

const IntentStatusSucceeded = "succeeded"

// zeroDecimalCurrencies are the ISO codes whose minor unit equals the major
// unit at the payment gateway, so amounts are sent as-is instead of x100.
var zeroDecimalCurrencies = map[string]struct{}{
	"bif": {}, "clp": {}, "djf": {}, "gnf": {}, "jpy": {}, "kmf": {},
	"krw": {}, "mga": {}, "pyg": {}, "rwf": {}, "ugx": {}, "vnd": {},
	"vuv": {}, "xaf": {}, "xof": {}, "xpf": {},
}

// GatewayAmount converts a major-unit price into the gateway's minor-unit
// integer amount. Zero-decimal currencies are not multiplied; everything else
// is multiplied by 100 and rounded.
func GatewayAmount(amount float64, currency string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive", ErrMissingFields)
	}
	if _, ok := zeroDecimalCurrencies[strings.ToLower(currency)]; ok {
		return int64(math.Round(amount)), nil
	}
	return int64(math.Round(amount * 100)), nil
}

// PaymentError is a terminal gateway decline carrying the provider's decline
// code. Error() renders the user-facing guidance for that code.
type PaymentError struct {
	Code string
}

func (e *PaymentError) Error() string {
	return DeclineMessage(e.Code)
}

var declineMessages = map[string]string{
	"card_declined":           "Your card was declined. Please try a different payment method.",
	"insufficient_funds":      "Insufficient funds. Please check your account balance.",
	"expired_card":            "Your card has expired. Please use a different card.",
	"incorrect_cvc":           "The security code is incorrect. Please check and try again.",
	"processing_error":        "There was an error processing your payment. Please try again.",
	"authentication_required": "Additional authentication is required. Please try again.",
}

// DeclineMessage maps a gateway decline code to actionable guidance text.
func DeclineMessage(code string) string {
	if msg, ok := declineMessages[code]; ok {
		return msg
	}
	return "An unexpected error occurred during payment."
}
