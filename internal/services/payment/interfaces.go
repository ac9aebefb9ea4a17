package payment

import (
	"context"

	"github.com/usename-Poezd/transaction-service/internal/models"
	"github.com/usename-Poezd/transaction-service/internal/services/cashback"
	"github.com/usename-Poezd/transaction-service/internal/services/ledger"
)

// Service orchestrates a payment's lifecycle: amount split, planned
// postings, gateway interaction, status machine and settlement.
type Service interface {
	// Create computes the split, persists the payment and either settles
	// it locally (payable == 0) or opens a remote payment on the gateway.
	Create(ctx context.Context, gw Gateway, user *models.User, req CreateRequest) (*CreateResult, error)

	// UpdateStatus transitions the payment. Returns false without doing
	// anything when the payment already sits in a terminal status, which
	// makes duplicate webhook deliveries safe.
	UpdateStatus(ctx context.Context, p *models.Payment, status string) (bool, error)

	// HandleHook processes an inbound gateway callback.
	HandleHook(ctx context.Context, gw Gateway, req *HookRequest) (*HookResponse, error)
}

// Gateway is the contract a payment provider adapter implements.
type Gateway interface {
	Name() string
	HasCurrency(cur string) bool
	CreateRemotePayment(ctx context.Context, p *models.Payment, data Data) (*RemotePayment, error)
	CheckSignature(req *HookRequest) error
	MapRequestToStatus(req *HookRequest) (string, error)
	// ForeignPaymentID extracts the gateway-assigned payment id from the
	// callback payload. Empty when the payload carries none.
	ForeignPaymentID(req *HookRequest) string
	DefaultResponse() *HookResponse
}

// Order is the two-call fulfillment contract.
type Order interface {
	Pay(ctx context.Context) error
	Run(ctx context.Context) error
}

// Orders resolves an order id into its fulfillment handle.
type Orders interface {
	Get(ctx context.Context, id uint) (Order, error)
}

// Pricer produces the service-price breakdown for a set of orders.
type Pricer interface {
	PricesForOrders(ctx context.Context, user *models.User, orderIDs []uint) ([]ServicePrice, error)
}

// WalletLedger is the wallet side of posting execution.
type WalletLedger interface {
	CalculateBalance(ctx context.Context, user *models.User, amount float64) (float64, error)
	Create(ctx context.Context, in ledger.CreateInput) (*models.Posting, error)
}

// CashbackLedger is the cashback side of posting execution.
type CashbackLedger interface {
	CalculateCashback(ctx context.Context, user *models.User, amount, finalBalance float64) (float64, error)
	Create(ctx context.Context, in cashback.CreateInput) (*models.CashbackEntry, error)
}

// Payments is the payment record store.
type Payments interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	GetByForeignID(ctx context.Context, foreignID string) (*models.Payment, error)
	SetStatusIfNotTerminal(ctx context.Context, id uint, status string) (bool, error)
	SetForeign(ctx context.Context, id uint, foreignID string, status string) error
}

// TxManager makes posting execution all-or-nothing.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// GeoResolver derives a geocode from the originating IP.
type GeoResolver interface {
	Country(ip string) string
}
