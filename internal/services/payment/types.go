package payment

import (
	"github.com/usename-Poezd/transaction-service/internal/models"
)

// CreateRequest is one payment creation request. When OrderIDs is
// non-empty the gross amount is recomputed from the order prices and the
// caller-supplied Amount is ignored.
type CreateRequest struct {
	Amount      float64
	OrderIDs    []uint
	UseBalance  bool
	UseCashback bool
	IP          string
	Data        Data
}

// Data is the payload forwarded to the gateway when a remote payment is
// opened. Amount, Currency, UserName and Locale are filled in by the
// orchestrator.
type Data struct {
	Amount      float64
	Currency    string
	UserName    string
	Locale      string
	Description string
	SuccessURL  string
	CancelURL   string
	Extra       map[string]string
}

// CreateResult carries the redirect URL and the persisted payment.
type CreateResult struct {
	URL     string
	Payment *models.Payment
}

// RemotePayment is the gateway's answer to a remote payment creation.
type RemotePayment struct {
	ID  string
	URL string
}

// Amounts is the split of a charge across the funding sources.
// Payable + Balance + Cashback always equals the gross amount.
type Amounts struct {
	Payable  float64
	Balance  float64
	Cashback float64
}

// ServicePrice is one item of the service-price breakdown: the price of
// an order and the nominal cashback it would earn.
type ServicePrice struct {
	OrderID  uint
	Price    float64
	Cashback float64
}

// HookRequest is a gateway callback stripped down to what signature
// verification and status mapping need.
type HookRequest struct {
	Body     []byte
	Headers  map[string]string
	RemoteIP string
}

// HookResponse is what the webhook endpoint answers with.
type HookResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}
