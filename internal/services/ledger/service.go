package ledger

import (
	"context"
	"fmt"
	"math"

	apperr "github.com/usename-Poezd/transaction-service/internal/errors"
	"github.com/usename-Poezd/transaction-service/internal/models"
	"github.com/usename-Poezd/transaction-service/internal/services/money"
)

type service struct {
	store Store
	users Users
	tiers Tiers
	tx    TxManager
	cache BalanceCache
}

// NewService creates a new wallet ledger service.
func NewService(store Store, users Users, tiers Tiers, tx TxManager, cache BalanceCache) Service {
	if store == nil {
		panic("store is required")
	}
	if users == nil {
		panic("users is required")
	}
	if tiers == nil {
		panic("tiers is required")
	}
	if tx == nil {
		panic("tx manager is required")
	}

	return &service{
		store: store,
		users: users,
		tiers: tiers,
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

func (s *service) PaymentsSum(ctx context.Context, userID uint, cur string) (float64, error) {
	return s.store.SumByTypes(ctx, userID, cur, PremiumStatusTypes)
}

func (s *service) Create(ctx context.Context, in CreateInput) (*models.Posting, error) {
	return s.create(ctx, in, nil)
}

func (s *service) CreateWithRelated(ctx context.Context, in CreateInput, relatedUserID uint) (*models.Posting, error) {
	return s.create(ctx, in, &relatedUserID)
}

func (s *service) create(ctx context.Context, in CreateInput, relatedUserID *uint) (*models.Posting, error) {
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

	posting := &models.Posting{
		UserID:        in.UserID,
		Type:          in.Type,
		Amount:        in.Amount,
		Currency:      in.Currency,
		Comment:       in.Comment,
		PaymentID:     in.PaymentID,
		OrderIDs:      in.OrderIDs,
		RelatedUserID: relatedUserID,
	}

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		// The lock serializes sum-then-insert per owner; without it two
		// concurrent outflows could both pass the overdraw check.
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

		if err := s.store.Insert(ctx, posting); err != nil {
			return err
		}

		if containsType(PremiumStatusTypes, in.Type) {
			if err := s.recomputePremiumTier(ctx, in.UserID, in.Currency); err != nil {
				return fmt.Errorf("failed to recompute premium tier: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// When an ambient transaction is still open (a posting created from
	// the payment orchestrator's scope), invalidating now would let a
	// concurrent Sum re-cache the pre-commit balance. Defer to the commit.
	s.tx.AfterCommit(ctx, func(ctx context.Context) {
		s.invalidate(ctx, in.UserID, in.Currency)
	})
	return posting, nil
}

// recomputePremiumTier adopts the highest tier whose threshold the
// owner's cumulative wallet inflow now covers. Tiers never move down.
func (s *service) recomputePremiumTier(ctx context.Context, userID uint, cur string) error {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}

	inflowTotal, err := s.store.SumByTypes(ctx, userID, cur, InflowTypes)
	if err != nil {
		return err
	}

	current := models.PremiumTier{}
	if user.PremiumTierID != 0 {
		tier, err := s.tiers.Get(ctx, user.PremiumTierID)
		if err != nil {
			return err
		}
		current = *tier
	}

	tiers, err := s.tiers.ListByCurrency(ctx, cur)
	if err != nil {
		return err
	}
	for _, t := range tiers {
		if t.Cash > current.Cash && t.ID > current.ID && inflowTotal >= t.Cash {
			current = t
		}
	}

	if current.ID != 0 && current.ID != user.PremiumTierID {
		return s.users.UpdatePremiumTier(ctx, userID, current.ID)
	}
	return nil
}

func (s *service) CalculateBalance(ctx context.Context, user *models.User, amount float64) (float64, error) {
	balance, err := s.Sum(ctx, user.ID, user.Currency)
	if err != nil {
		return 0, err
	}
	return math.Min(balance, amount), nil
}

func (s *service) invalidate(ctx context.Context, userID uint, cur string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, s.cache.BalanceKey(cacheLedger, userID, cur))
}
