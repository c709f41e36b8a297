package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edusphere/elearning-api/internal/core/ports"
)

// PaymentHandler drives payment intents for paid checkouts.
type PaymentHandler struct {
	service ports.PaymentService
}

func NewPaymentHandler(service ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// CreateIntent creates a gateway payment intent for checkout.
//
// @Summary      Create a payment intent
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createIntentRequest  true  "Amount in major units, currency, metadata"
// @Success      200   {object}  createIntentResponse
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/payments/intent [post]
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	var req createIntentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.CreateIntent(c.Request().Context(), ports.CreateIntentInput{
		Amount:   req.Amount,
		Currency: req.Currency,
		Metadata: req.Metadata,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, createIntentResponse{
		Success:         true,
		ClientSecret:    result.ClientSecret,
		PaymentIntentID: result.IntentID,
		Amount:          result.Amount,
		Currency:        result.Currency,
	})
}

// Confirm runs the gateway confirmation step; only a succeeded status lets
// the client proceed to enrollment.
//
// @Summary      Confirm a payment intent
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      confirmPaymentRequest  true  "Client secret and payment method"
// @Success      200   {object}  confirmPaymentResponse
// @Failure      400   {object}  errorResponse
// @Failure      402   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/payments/confirm [post]
func (h *PaymentHandler) Confirm(c echo.Context) error {
	var req confirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Confirm(c.Request().Context(), ports.ConfirmInput{
		ClientSecret:   req.ClientSecret,
		PaymentMethod:  req.PaymentMethod,
		BillingDetails: req.BillingDetails,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, confirmPaymentResponse{
		Success:         true,
		PaymentIntentID: result.IntentID,
		Status:          result.Status,
	})
}

// Get returns the gateway's view of an intent. The success page uses it to
// re-attempt enrollment for a paid-but-unenrolled state.
//
// @Summary      Retrieve payment details
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Payment intent id"
// @Success      200  {object}  paymentDetailsResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/payments/{id} [get]
func (h *PaymentHandler) Get(c echo.Context) error {
	intent, err := h.service.GetPayment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, paymentDetailsResponse{
		Success: true,
		Data: paymentDetails{
			ID:         intent.ID,
			Amount:     intent.Amount,
			Currency:   intent.Currency,
			Status:     intent.Status,
			Created:    intent.Created,
			Metadata:   intent.Metadata,
			ReceiptURL: intent.ReceiptURL,
		},
	})
}
