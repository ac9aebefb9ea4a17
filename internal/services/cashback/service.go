// Package cashback implements the bounded reward sub-ledger.
package cashback

import (
	"context"
	"math"

	apperr "github.com/usename-Poezd/transaction-service/internal/errors"
	"github.com/usename-Poezd/transaction-service/internal/models"
	"github.com/usename-Poezd/transaction-service/internal/services/money"
)

// InflowTypes require amount >= 0.
var InflowTypes = []string{
	models.CashbackInflowCreate,
	models.CashbackInflowPayment,
}

// OutflowTypes require amount <= 0 and a sufficient cashback balance.
var OutflowTypes = []string{
	models.CashbackOutflowOrder,
}

// Service is the cashback ledger. Same sign and overdraw rules as the
// wallet ledger, scoped to the cashback sub-account, with no premium
// side effect.
type Service interface {
	Sum(ctx context.Context, userID uint, cur string) (float64, error)
	Create(ctx context.Context, in CreateInput) (*models.CashbackEntry, error)

	// CalculateCashback caps cashback usage at both the remaining need
	// after balance and the available cashback.
	CalculateCashback(ctx context.Context, user *models.User, amount, finalBalance float64) (float64, error)
}

// Store is the persistence the cashback ledger needs.
type Store interface {
	Sum(ctx context.Context, userID uint, cur string) (float64, error)
	Insert(ctx context.Context, e *models.CashbackEntry) error
	LockUser(ctx context.Context, userID uint) error
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

// CreateInput carries the fields of one cashback entry to append.
type CreateInput struct {
	UserID    uint
	Type      string
	Amount    float64
	Currency  string
	Comment   string
	PaymentID *uint
	OrderIDs  []uint
}

const cacheLedger = "cashback"

type service struct {
	store Store
	tx    TxManager
	cache BalanceCache
}

// NewService creates a new cashback ledger service.
func NewService(store Store, tx TxManager, cache BalanceCache) Service {
	if store == nil {
		panic("store is required")
	}
	if tx == nil {
		panic("tx manager is required")
	}

	return &service{
		store: store,
		tx:    tx,
		cache: cache,
	}
}

func (s *service) Sum(ctx context.Context, userID uint, cur string) (float64, error) {
	if s.cache != nil {
		var cached float64
		key := s.cache.BalanceKey(cacheLedger, userID, cur)
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	raw, err := s.store.Sum(ctx, userID, cur)
	if err != nil {
		return 0, err
	}
	balance := money.Round(raw)

	if s.cache != nil {
		key := s.cache.BalanceKey(cacheLedger, userID, cur)
		_ = s.cache.Set(ctx, key, balance)
	}
	return balance, nil
}

func (s *service) Create(ctx context.Context, in CreateInput) (*models.CashbackEntry, error) {
	if !models.SupportedCurrency(in.Currency) {
		return nil, apperr.ErrBadCurrency
	}
	if containsType(InflowTypes, in.Type) && in.Amount < 0 {
		return nil, apperr.ErrBadParameter
	}
	outflow := containsType(OutflowTypes, in.Type)
	if outflow && in.Amount > 0 {
		return nil, apperr.ErrBadParameter
	}

	entry := &models.CashbackEntry{
		UserID:    in.UserID,
		Type:      in.Type,
		Amount:    in.Amount,
		Currency:  in.Currency,
		Comment:   in.Comment,
		PaymentID: in.PaymentID,
		OrderIDs:  in.OrderIDs,
	}

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.store.LockUser(ctx, in.UserID); err != nil {
			return err
		}

		if outflow {
			raw, err := s.store.Sum(ctx, in.UserID, in.Currency)
			if err != nil {
				return err
			}
			if money.Round(raw)-math.Abs(in.Amount) < 0 {
				return apperr.ErrInsufficientFunds
			}
		}

		return s.store.Insert(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	// Invalidate only once the ambient transaction, if any, has committed;
	// a concurrent Sum must never re-cache a pre-commit balance.
	s.tx.AfterCommit(ctx, func(ctx context.Context) {
		s.invalidate(ctx, in.UserID, in.Currency)
	})
	return entry, nil
}

func (s *service) CalculateCashback(ctx context.Context, user *models.User, amount, finalBalance float64) (float64, error) {
	balance, err := s.Sum(ctx, user.ID, user.Currency)
	if err != nil {
		return 0, err
	}
	return math.Min(balance, amount-finalBalance), nil
}

func (s *service) invalidate(ctx context.Context, userID uint, cur string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, s.cache.BalanceKey(cacheLedger, userID, cur))
}

func containsType(types []string, t string) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}
