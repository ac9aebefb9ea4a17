package repositories

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// txState carries the ambient transaction and the hooks to run once the
// outermost scope commits.
type txState struct {
	tx    *gorm.DB
	hooks []func(ctx context.Context)
}

// TxManager runs a function inside one database transaction. A nested Do
// joins the transaction already carried by the context, so ledger creates
// issued from the payment orchestrator share the orchestrator's scope and
// commit or roll back together.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error

	// AfterCommit defers fn until the transaction carried by ctx commits.
	// Outside a transaction fn runs immediately.
	AfterCommit(ctx context.Context, fn func(ctx context.Context))
}

type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager returns a TxManager backed by gorm transactions.
func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if stateFrom(ctx) != nil {
		return fn(ctx)
	}

	state := &txState{}
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state.tx = tx
		return fn(context.WithValue(ctx, txKey{}, state))
	})
	if err != nil {
		return err
	}

	for _, hook := range state.hooks {
		hook(ctx)
	}
	return nil
}

func (m *gormTxManager) AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	if state := stateFrom(ctx); state != nil {
		state.hooks = append(state.hooks, fn)
		return
	}
	fn(ctx)
}

func stateFrom(ctx context.Context) *txState {
	state, _ := ctx.Value(txKey{}).(*txState)
	return state
}

func txFrom(ctx context.Context) *gorm.DB {
	if state := stateFrom(ctx); state != nil {
		return state.tx
	}
	return nil
}

// conn returns the transaction carried by ctx if present, the base
// connection otherwise.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}
