package ledger

import (
	"context"

	"github.com/usename-Poezd/transaction-service/internal/models"
)

// Service is the wallet ledger: signed, append-only postings with a
// balance query and the premium tier side effect.
type Service interface {
	// Sum returns the owner's wallet balance for cur, rounded to two
	// decimals with halves toward zero. Zero when no postings exist.
	Sum(ctx context.Context, userID uint, cur string) (float64, error)

	// PaymentsSum is the sum restricted to payment-related inflow types,
	// characterizing money actually paid as opposed to bonuses.
	PaymentsSum(ctx context.Context, userID uint, cur string) (float64, error)

	// Create validates and appends one posting. Outflow types are checked
	// against the recomputed balance before committing.
	Create(ctx context.Context, in CreateInput) (*models.Posting, error)

	// CreateWithRelated is Create carrying a related-user reference.
	CreateWithRelated(ctx context.Context, in CreateInput, relatedUserID uint) (*models.Posting, error)

	// CalculateBalance caps the requested balance usage at what is
	// actually available. A shortfall is not an error.
	CalculateBalance(ctx context.Context, user *models.User, amount float64) (float64, error)
}

// Store is the persistence the ledger needs.
type Store interface {
	Sum(ctx context.Context, userID uint, cur string) (float64, error)
	SumByTypes(ctx context.Context, userID uint, cur string, types []string) (float64, error)
	Insert(ctx context.Context, p *models.Posting) error
	LockUser(ctx context.Context, userID uint) error
}

// Users persists premium tier upgrades.
type Users interface {
	Get(ctx context.Context, id uint) (*models.User, error)
	UpdatePremiumTier(ctx context.Context, userID, tierID uint) error
}

// Tiers reads the premium tier ladder.
type Tiers interface {
	ListByCurrency(ctx context.Context, cur string) ([]models.PremiumTier, error)
	Get(ctx context.Context, id uint) (*models.PremiumTier, error)
}

// TxManager scopes the check-then-insert sequence to one transaction.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error

	// AfterCommit defers fn until the transaction carried by ctx commits,
	// or runs it immediately when ctx carries none.
	AfterCommit(ctx context.Context, fn func(ctx context.Context))
}

// BalanceCache caches computed sums. Optional; a nil cache disables it.
type BalanceCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
	BalanceKey(ledger string, userID uint, cur string) string
}
