package handlers

import (
	"errors"
	"log"

	apperr "github.com/usename-Poezd/transaction-service/internal/errors"
	"github.com/usename-Poezd/transaction-service/internal/middleware"
	"github.com/usename-Poezd/transaction-service/internal/repositories"
	"github.com/usename-Poezd/transaction-service/internal/services/payment"
	"github.com/usename-Poezd/transaction-service/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler is the thin HTTP boundary over the payment orchestrator.
type PaymentHandler struct {
	service  payment.Service
	gateways map[string]payment.Gateway
	users    repositories.UserRepository
}

func NewPaymentHandler(svc payment.Service, gateways map[string]payment.Gateway, users repositories.UserRepository) *PaymentHandler {
	return &PaymentHandler{
		service:  svc,
		gateways: gateways,
		users:    users,
	}
}

// Deposit creates a payment for the authenticated owner.
func (h *PaymentHandler) Deposit(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*middleware.UserClaims)

	var input struct {
		Amount      float64 `json:"amount"`
		OrderIDs    []uint  `json:"order_ids"`
		UseBalance  bool    `json:"use_balance"`
		UseCashback bool    `json:"use_cashback"`
		Gateway     string  `json:"gateway"`
		Description string  `json:"description"`
		SuccessURL  string  `json:"success_url"`
		CancelURL   string  `json:"cancel_url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if input.Amount <= 0 && len(input.OrderIDs) == 0 {
		return response.BadRequest(c, "Amount must be greater than zero")
	}
	if input.SuccessURL == "" {
		return response.BadRequest(c, "success_url is required")
	}

	gw, ok := h.gateways[input.Gateway]
	if !ok {
		return response.BadRequest(c, "Unknown payment gateway")
	}

	user, err := h.users.Get(c.Context(), claims.UserID)
	if err != nil {
		return statusForError(c, err)
	}

	result, err := h.service.Create(c.Context(), gw, user, payment.CreateRequest{
		Amount:      input.Amount,
		OrderIDs:    input.OrderIDs,
		UseBalance:  input.UseBalance,
		UseCashback: input.UseCashback,
		IP:          c.IP(),
		Data: payment.Data{
			Description: input.Description,
			SuccessURL:  input.SuccessURL,
			CancelURL:   input.CancelURL,
		},
	})
	if err != nil {
		return statusForError(c, err)
	}

	return response.Success(c, "Payment created", fiber.Map{
		"url":     result.URL,
		"payment": result.Payment,
	})
}

// Hook receives a gateway callback.
func (h *PaymentHandler) Hook(c *fiber.Ctx) error {
	gw, ok := h.gateways[c.Params("gateway")]
	if !ok {
		return response.Error(c, fiber.StatusNotFound, "Unknown payment gateway")
	}

	headers := make(map[string]string)
	for key, values := range c.GetReqHeaders() {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	resp, err := h.service.HandleHook(c.Context(), gw, &payment.HookRequest{
		Body:     c.Body(),
		Headers:  headers,
		RemoteIP: c.IP(),
	})
	if err != nil {
		log.Printf("Webhook processing error: %v", err)
		return response.BadRequest(c, "Invalid webhook")
	}

	c.Set(fiber.HeaderContentType, resp.ContentType)
	return c.Status(resp.StatusCode).Send(resp.Body)
}

func statusForError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperr.ErrBadCurrency), errors.Is(err, apperr.ErrBadParameter):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, apperr.ErrInsufficientFunds):
		return response.Error(c, fiber.StatusPaymentRequired, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		return response.Error(c, fiber.StatusNotFound, err.Error())
	default:
		log.Printf("Payment error: %v", err)
		return response.ServerError(c, "Internal server error")
	}
}
