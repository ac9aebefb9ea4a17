package ledger

import (
	"context"
	"fmt"
	"testing"

	apperr "github.com/usename-Poezd/transaction-service/internal/errors"
	"github.com/usename-Poezd/transaction-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Sum(ctx context.Context, userID uint, cur string) (float64, error) {
	args := m.Called(ctx, userID, cur)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockStore) SumByTypes(ctx context.Context, userID uint, cur string, types []string) (float64, error) {
	args := m.Called(ctx, userID, cur, types)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockStore) Insert(ctx context.Context, p *models.Posting) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockStore) LockUser(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) Get(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsers) UpdatePremiumTier(ctx context.Context, userID, tierID uint) error {
	args := m.Called(ctx, userID, tierID)
	return args.Error(0)
}

type MockTiers struct {
	mock.Mock
}

func (m *MockTiers) ListByCurrency(ctx context.Context, cur string) ([]models.PremiumTier, error) {
	args := m.Called(ctx, cur)
	return args.Get(0).([]models.PremiumTier), args.Error(1)
}

func (m *MockTiers) Get(ctx context.Context, id uint) (*models.PremiumTier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PremiumTier), args.Error(1)
}

// passthroughTx runs the function without a real database transaction.
type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTx) AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	fn(ctx)
}

// scopedTx mimics the real manager's nesting: hooks registered while a
// scope is open run only after the outermost Do returns.
type scopedTx struct {
	depth int
	hooks []func(ctx context.Context)
}

func (t *scopedTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	t.depth++
	err := fn(ctx)
	t.depth--
	if err != nil {
		return err
	}
	if t.depth == 0 {
		hooks := t.hooks
		t.hooks = nil
		for _, hook := range hooks {
			hook(ctx)
		}
	}
	return nil
}

func (t *scopedTx) AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	if t.depth > 0 {
		t.hooks = append(t.hooks, fn)
		return
	}
	fn(ctx)
}

// recordingCache tracks deletions so invalidation timing is observable.
type recordingCache struct {
	deleted []string
}

func (c *recordingCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}

func (c *recordingCache) Set(ctx context.Context, key string, value interface{}) error {
	return nil
}

func (c *recordingCache) Delete(ctx context.Context, keys ...string) error {
	c.deleted = append(c.deleted, keys...)
	return nil
}

func (c *recordingCache) BalanceKey(ledger string, userID uint, cur string) string {
	return fmt.Sprintf("balance:%s:%d:%s", ledger, userID, cur)
}

func newTestService(store *MockStore, users *MockUsers, tiers *MockTiers) Service {
	return NewService(store, users, tiers, passthroughTx{}, nil)
}

func TestCreate_SignValidation(t *testing.T) {
	tests := []struct {
		name    string
		typ     string
		amount  float64
		wantErr error
	}{
		{name: "inflow rejects negative", typ: models.InflowPayment, amount: -1, wantErr: apperr.ErrBadParameter},
		{name: "outflow rejects positive", typ: models.OutflowOrder, amount: 1, wantErr: apperr.ErrBadParameter},
		{name: "unsupported currency", typ: models.InflowOther, amount: 1, wantErr: apperr.ErrBadCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			users := new(MockUsers)
			tiers := new(MockTiers)
			s := newTestService(store, users, tiers)

			cur := "USD"
			if tt.wantErr == apperr.ErrBadCurrency {
				cur = "XXX"
			}

			_, err := s.Create(context.Background(), CreateInput{
				UserID:   1,
				Type:     tt.typ,
				Amount:   tt.amount,
				Currency: cur,
			})

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_InsufficientFunds(t *testing.T) {
	store := new(MockStore)
	users := new(MockUsers)
	tiers := new(MockTiers)
	s := newTestService(store, users, tiers)

	store.On("LockUser", mock.Anything, uint(1)).Return(nil)
	store.On("Sum", mock.Anything, uint(1), "USD").Return(30.0, nil)

	_, err := s.Create(context.Background(), CreateInput{
		UserID:   1,
		Type:     models.OutflowOrder,
		Amount:   -40,
		Currency: "USD",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInsufficientFunds)
	store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreate_OutflowSpendsWholeBalance(t *testing.T) {
	store := new(MockStore)
	users := new(MockUsers)
	tiers := new(MockTiers)
	s := newTestService(store, users, tiers)

	store.On("LockUser", mock.Anything, uint(1)).Return(nil)
	store.On("Sum", mock.Anything, uint(1), "USD").Return(40.0, nil)
	store.On("Insert", mock.Anything, mock.Anything).Return(nil)

	posting, err := s.Create(context.Background(), CreateInput{
		UserID:   1,
		Type:     models.OutflowOrder,
		Amount:   -40,
		Currency: "USD",
		Comment:  "order",
	})

	require.NoError(t, err)
	assert.Equal(t, -40.0, posting.Amount)
	assert.Equal(t, models.OutflowOrder, posting.Type)
	store.AssertExpectations(t)
}

func TestCreate_QualifyingInflowUpgradesTier(t *testing.T) {
	store := new(MockStore)
	users := new(MockUsers)
	tiers := new(MockTiers)
	s := newTestService(store, users, tiers)

	store.On("LockUser", mock.Anything, uint(1)).Return(nil)
	store.On("Insert", mock.Anything, mock.Anything).Return(nil)
	store.On("SumByTypes", mock.Anything, uint(1), "USD", InflowTypes).Return(150.0, nil)

	users.On("Get", mock.Anything, uint(1)).Return(&models.User{ID: 1, Currency: "USD", PremiumTierID: 1}, nil)
	tiers.On("Get", mock.Anything, uint(1)).Return(&models.PremiumTier{ID: 1, Currency: "USD", Cash: 0}, nil)
	tiers.On("ListByCurrency", mock.Anything, "USD").Return([]models.PremiumTier{
		{ID: 1, Currency: "USD", Cash: 0},
		{ID: 2, Currency: "USD", Cash: 100},
		{ID: 3, Currency: "USD", Cash: 500},
	}, nil)
	users.On("UpdatePremiumTier", mock.Anything, uint(1), uint(2)).Return(nil)

	_, err := s.Create(context.Background(), CreateInput{
		UserID:   1,
		Type:     models.InflowPayment,
		Amount:   150,
		Currency: "USD",
	})

	require.NoError(t, err)
	users.AssertCalled(t, "UpdatePremiumTier", mock.Anything, uint(1), uint(2))
}

func TestCreate_NonQualifyingInflowSkipsTier(t *testing.T) {
	store := new(MockStore)
	users := new(MockUsers)
	tiers := new(MockTiers)
	s := newTestService(store, users, tiers)

	store.On("LockUser", mock.Anything, uint(1)).Return(nil)
	store.On("Insert", mock.Anything, mock.Anything).Return(nil)

	_, err := s.Create(context.Background(), CreateInput{
		UserID:   1,
		Type:     models.InflowRefund,
		Amount:   150,
		Currency: "USD",
	})

	require.NoError(t, err)
	users.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "UpdatePremiumTier", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateWithRelated(t *testing.T) {
	store := new(MockStore)
	users := new(MockUsers)
	tiers := new(MockTiers)
	s := newTestService(store, users, tiers)

	store.On("LockUser", mock.Anything, uint(1)).Return(nil)
	store.On("Insert", mock.Anything, mock.Anything).Return(nil)

	posting, err := s.CreateWithRelated(context.Background(), CreateInput{
		UserID:   1,
		Type:     models.InflowRefBonus,
		Amount:   5,
		Currency: "USD",
	}, 7)

	require.NoError(t, err)
	require.NotNil(t, posting.RelatedUserID)
	assert.Equal(t, uint(7), *posting.RelatedUserID)
}

func TestCreate_CacheInvalidationWaitsForOuterCommit(t *testing.T) {
	store := new(MockStore)
	users := new(MockUsers)
	tiers := new(MockTiers)
	tx := &scopedTx{}
	cache := &recordingCache{}
	s := NewService(store, users, tiers, tx, cache)

	store.On("LockUser", mock.Anything, uint(1)).Return(nil)
	store.On("Insert", mock.Anything, mock.Anything).Return(nil)

	err := tx.Do(context.Background(), func(ctx context.Context) error {
		_, err := s.Create(ctx, CreateInput{
			UserID:   1,
			Type:     models.InflowRefund,
			Amount:   10,
			Currency: "USD",
		})
		require.NoError(t, err)

		// The enclosing scope is still open: nothing invalidated yet.
		assert.Empty(t, cache.deleted)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"balance:wallet:1:USD"}, cache.deleted)
}

func TestCreate_CacheInvalidatedWithoutOuterScope(t *testing.T) {
	store := new(MockStore)
	users := new(MockUsers)
	tiers := new(MockTiers)
	cache := &recordingCache{}
	s := NewService(store, users, tiers, passthroughTx{}, cache)

	store.On("LockUser", mock.Anything, uint(1)).Return(nil)
	store.On("Insert", mock.Anything, mock.Anything).Return(nil)

	_, err := s.Create(context.Background(), CreateInput{
		UserID:   1,
		Type:     models.InflowRefund,
		Amount:   10,
		Currency: "USD",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"balance:wallet:1:USD"}, cache.deleted)
}

func TestSum_RoundsHalfDown(t *testing.T) {
	store := new(MockStore)
	users := new(MockUsers)
	tiers := new(MockTiers)
	s := newTestService(store, users, tiers)

	store.On("Sum", mock.Anything, uint(1), "USD").Return(10.125, nil)

	sum, err := s.Sum(context.Background(), 1, "USD")
	require.NoError(t, err)
	assert.InDelta(t, 10.12, sum, 1e-9)
}

func TestCalculateBalance(t *testing.T) {
	tests := []struct {
		name    string
		balance float64
		amount  float64
		want    float64
	}{
		{name: "balance covers amount", balance: 100, amount: 40, want: 40},
		{name: "amount exceeds balance", balance: 30, amount: 40, want: 30},
		{name: "empty balance", balance: 0, amount: 40, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			users := new(MockUsers)
			tiers := new(MockTiers)
			s := newTestService(store, users, tiers)

			store.On("Sum", mock.Anything, uint(1), "USD").Return(tt.balance, nil)

			user := &models.User{ID: 1, Currency: "USD"}
			got, err := s.CalculateBalance(context.Background(), user, tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaymentsSum(t *testing.T) {
	store := new(MockStore)
	users := new(MockUsers)
	tiers := new(MockTiers)
	s := newTestService(store, users, tiers)

	store.On("SumByTypes", mock.Anything, uint(1), "USD", PremiumStatusTypes).Return(75.0, nil)

	sum, err := s.PaymentsSum(context.Background(), 1, "USD")
	require.NoError(t, err)
	assert.Equal(t, 75.0, sum)
}
