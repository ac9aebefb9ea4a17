// Package stripegw adapts Stripe Checkout to the payment gateway
// contract.
package stripegw

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/checkout/session"
	"github.com/stripe/stripe-go/v72/webhook"

	"github.com/usename-Poezd/transaction-service/internal/models"
	"github.com/usename-Poezd/transaction-service/internal/services/payment"
)

const signatureHeader = "Stripe-Signature"

// Gateway implements payment.Gateway over Stripe Checkout sessions.
type Gateway struct {
	webhookSecret string
	currencies    []string
}

// New configures the Stripe client and returns the adapter.
func New(secretKey, webhookSecret string) *Gateway {
	stripe.Key = secretKey
	return &Gateway{
		webhookSecret: webhookSecret,
		currencies:    models.SupportedCurrencies,
	}
}

func (g *Gateway) Name() string {
	return "stripe"
}

func (g *Gateway) HasCurrency(cur string) bool {
	for _, c := range g.currencies {
		if c == cur {
			return true
		}
	}
	return false
}

func (g *Gateway) CreateRemotePayment(ctx context.Context, p *models.Payment, data payment.Data) (*payment.RemotePayment, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(data.SuccessURL),
		CancelURL:         stripe.String(data.CancelURL),
		ClientReferenceID: stripe.String(p.Reference),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(strings.ToLower(data.Currency)),
				UnitAmount: stripe.Int64(int64(math.Round(data.Amount * 100))),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(data.Description),
				},
			},
		}},
	}
	if data.Locale != "" {
		params.Locale = stripe.String(data.Locale)
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &payment.RemotePayment{ID: sess.ID, URL: sess.URL}, nil
}

func (g *Gateway) CheckSignature(req *payment.HookRequest) error {
	_, err := webhook.ConstructEvent(req.Body, req.Headers[signatureHeader], g.webhookSecret)
	if err != nil {
		return fmt.Errorf("invalid webhook signature: %w", err)
	}
	return nil
}

func (g *Gateway) MapRequestToStatus(req *payment.HookRequest) (string, error) {
	event, err := parseEvent(req.Body)
	if err != nil {
		return "", err
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		return models.PaymentStatusSucceeded, nil
	case "checkout.session.async_payment_failed":
		return models.PaymentStatusFailed, nil
	case "checkout.session.expired":
		return models.PaymentStatusCanceled, nil
	default:
		return models.PaymentStatusPending, nil
	}
}

func (g *Gateway) ForeignPaymentID(req *payment.HookRequest) string {
	event, err := parseEvent(req.Body)
	if err != nil {
		return ""
	}
	var object struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(event.Data.Raw, &object); err != nil {
		return ""
	}
	return object.ID
}

func (g *Gateway) DefaultResponse() *payment.HookResponse {
	return &payment.HookResponse{
		StatusCode:  200,
		ContentType: "application/json",
		Body:        []byte(`{"received":true}`),
	}
}

func parseEvent(body []byte) (*stripe.Event, error) {
	var event stripe.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook event: %w", err)
	}
	return &event, nil
}
