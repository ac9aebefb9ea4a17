package payment

import (
	"context"
	"fmt"

	apperr "github.com/usename-Poezd/transaction-service/internal/errors"
	"github.com/usename-Poezd/transaction-service/internal/models"
	"github.com/usename-Poezd/transaction-service/internal/services/cashback"
	"github.com/usename-Poezd/transaction-service/internal/services/ledger"
	"github.com/usename-Poezd/transaction-service/internal/services/money"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type service struct {
	ledger   WalletLedger
	cashback CashbackLedger
	payments Payments
	orders   Orders
	pricer   Pricer
	geo      GeoResolver
	tx       TxManager
	log      *zap.Logger
	debug    bool
}

// NewService creates a new payment orchestrator.
func NewService(
	walletLedger WalletLedger,
	cashbackLedger CashbackLedger,
	payments Payments,
	orders Orders,
	pricer Pricer,
	geo GeoResolver,
	tx TxManager,
	log *zap.Logger,
	debug bool,
) Service {
	if walletLedger == nil {
		panic("wallet ledger is required")
	}
	if cashbackLedger == nil {
		panic("cashback ledger is required")
	}
	if payments == nil {
		panic("payments store is required")
	}
	if orders == nil {
		panic("orders source is required")
	}
	if pricer == nil {
		panic("pricer is required")
	}
	if tx == nil {
		panic("tx manager is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &service{
		ledger:   walletLedger,
		cashback: cashbackLedger,
		payments: payments,
		orders:   orders,
		pricer:   pricer,
		geo:      geo,
		tx:       tx,
		log:      log,
		debug:    debug,
	}
}

func (s *service) Create(ctx context.Context, gw Gateway, user *models.User, req CreateRequest) (*CreateResult, error) {
	if !gw.HasCurrency(user.Currency) {
		return nil, apperr.ErrBadCurrency
	}

	amount := req.Amount
	var prices []ServicePrice
	if len(req.OrderIDs) > 0 {
		var err error
		prices, err = s.pricer.PricesForOrders(ctx, user, req.OrderIDs)
		if err != nil {
			return nil, err
		}
		// The order prices are authoritative over the caller-supplied
		// gross amount.
		amount = 0
		for _, p := range prices {
			amount += p.Price
		}
	}

	amounts, err := s.calculateAmounts(ctx, user, amount, req.UseBalance, req.UseCashback)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		UserID:      user.ID,
		Amount:      amount,
		Currency:    user.Currency,
		Status:      models.PaymentStatusCreated,
		Description: money.Truncate(fmt.Sprintf("Payment %v %s by %s", amount, user.Currency, gw.Name()), 190),
		Reference:   uuid.NewString(),
		Gateway:     gw.Name(),
		OrderIDs:    req.OrderIDs,
		Actions:     buildActions(prices, amount, amounts, req.OrderIDs),
		IP:          req.IP,
	}
	if s.geo != nil {
		payment.Geocode = s.geo.Country(req.IP)
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	if s.debug {
		s.log.Debug("create payment",
			zap.Uint("payment_id", payment.ID),
			zap.Float64("amount", amount),
			zap.Float64("payable", amounts.Payable),
			zap.Float64("balance", amounts.Balance),
			zap.Float64("cashback", amounts.Cashback),
			zap.Uints("order_ids", req.OrderIDs),
		)
	}

	url := req.Data.SuccessURL

	if amounts.Payable > 0 {
		data := req.Data
		data.Amount = amounts.Payable
		data.Currency = user.Currency
		data.UserName = user.Name
		data.Locale = user.Locale
		data.Description = payment.Description

		// Gateway failures propagate unchanged; retry policy belongs to
		// the caller.
		remote, err := gw.CreateRemotePayment(ctx, payment, data)
		if err != nil {
			return nil, err
		}

		if err := s.payments.SetForeign(ctx, payment.ID, remote.ID, models.PaymentStatusPending); err != nil {
			return nil, err
		}
		payment.ForeignID = remote.ID
		payment.Status = models.PaymentStatusPending
		url = remote.URL
	} else {
		if _, err := s.UpdateStatus(ctx, payment, models.PaymentStatusSucceeded); err != nil {
			return nil, err
		}
	}

	return &CreateResult{URL: url, Payment: payment}, nil
}

// calculateAmounts blends wallet balance, cashback credit and external
// money. Both deductions are individually capped by the remaining need,
// so the parts always add back up to amount.
func (s *service) calculateAmounts(ctx context.Context, user *models.User, amount float64, useBalance, useCashback bool) (Amounts, error) {
	var a Amounts

	if useBalance {
		balance, err := s.ledger.CalculateBalance(ctx, user, amount)
		if err != nil {
			return a, err
		}
		a.Balance = balance
	}

	if useCashback {
		cb, err := s.cashback.CalculateCashback(ctx, user, amount, a.Balance)
		if err != nil {
			return a, err
		}
		if cb > 0 {
			a.Cashback = cb
		}
	}

	a.Payable = amount - a.Balance - a.Cashback
	return a, nil
}

// buildActions captures the planned postings in audit order.
func buildActions(prices []ServicePrice, amount float64, a Amounts, orderIDs []uint) models.ActionList {
	actions := models.ActionList{}

	if a.Payable > 0 {
		actions = append(actions, models.PaymentAction{
			Type:   models.ActionTypeTransaction,
			Action: models.InflowPayment,
			Amount: a.Payable,
		})
	}

	if len(orderIDs) > 0 && (a.Payable > 0 || a.Balance > 0) {
		actions = append(actions, models.PaymentAction{
			Type:   models.ActionTypeTransaction,
			Action: models.OutflowOrder,
			Amount: -(a.Payable + a.Balance),
		})
	}

	if a.Cashback > 0 {
		actions = append(actions, models.PaymentAction{
			Type:   models.ActionTypeCashback,
			Action: models.CashbackOutflowOrder,
			Amount: -a.Cashback,
		})
	}

	// The nominal reward scales down proportionally to how much of the
	// charge was money-covered versus bonus-covered. A zero amount means
	// a degenerate free order: no cashback earned.
	if len(prices) > 0 && amount != 0 {
		var nominal float64
		for _, p := range prices {
			nominal += p.Cashback
		}
		earned := nominal * (a.Payable + a.Balance) / amount
		if earned > 0 {
			actions = append(actions, models.PaymentAction{
				Type:   models.ActionTypeCashback,
				Action: models.CashbackInflowPayment,
				Amount: earned,
			})
		}
	}

	return actions
}

func (s *service) UpdateStatus(ctx context.Context, p *models.Payment, status string) (bool, error) {
	ok, err := s.payments.SetStatusIfNotTerminal(ctx, p.ID, status)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	p.Status = status

	if status == models.PaymentStatusSucceeded {
		fresh, err := s.payments.GetByID(ctx, p.ID)
		if err != nil {
			return true, err
		}
		if err := s.runActions(ctx, fresh); err != nil {
			return true, err
		}
		if err := s.runOrders(ctx, fresh); err != nil {
			return true, err
		}
	}
	return true, nil
}

// runActions executes the planned postings in one transaction: any single
// posting failure aborts the whole batch.
func (s *service) runActions(ctx context.Context, p *models.Payment) error {
	return s.tx.Do(ctx, func(ctx context.Context) error {
		for _, action := range p.Actions {
			switch action.Type {
			case models.ActionTypeCashback:
				_, err := s.cashback.Create(ctx, cashback.CreateInput{
					UserID:    p.UserID,
					Type:      action.Action,
					Amount:    action.Amount,
					Currency:  p.Currency,
					PaymentID: &p.ID,
					OrderIDs:  p.OrderIDs,
				})
				if err != nil {
					return err
				}
			default:
				_, err := s.ledger.Create(ctx, ledger.CreateInput{
					UserID:    p.UserID,
					Type:      action.Action,
					Amount:    action.Amount,
					Currency:  p.Currency,
					PaymentID: &p.ID,
					OrderIDs:  p.OrderIDs,
				})
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// runOrders fulfills each referenced order after the postings committed.
// The explicit loop is deliberate: an iteration helper that swallows
// errors would leave money collected with fulfillment undone. Failures
// here are reported, not rolled back.
func (s *service) runOrders(ctx context.Context, p *models.Payment) error {
	for _, id := range p.OrderIDs {
		order, err := s.orders.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := order.Pay(ctx); err != nil {
			return apperr.Report("could not run order", err)
		}
		s.log.Info("order paid", zap.Uint("order_id", id), zap.Uint("payment_id", p.ID))
		if err := order.Run(ctx); err != nil {
			return apperr.Report("could not run order", err)
		}
		s.log.Info("order run", zap.Uint("order_id", id), zap.Uint("payment_id", p.ID))
	}
	return nil
}

func (s *service) HandleHook(ctx context.Context, gw Gateway, req *HookRequest) (*HookResponse, error) {
	resp, err := s.handleHook(ctx, gw, req)
	if err != nil {
		return nil, apperr.Report("payment hook error", err)
	}
	return resp, nil
}

func (s *service) handleHook(ctx context.Context, gw Gateway, req *HookRequest) (*HookResponse, error) {
	if err := gw.CheckSignature(req); err != nil {
		return nil, err
	}

	status, err := gw.MapRequestToStatus(req)
	if err != nil {
		return nil, err
	}

	foreignID := gw.ForeignPaymentID(req)
	if foreignID == "" {
		return gw.DefaultResponse(), nil
	}

	payment, err := s.payments.GetByForeignID(ctx, foreignID)
	if err != nil {
		return nil, err
	}

	ok, err := s.UpdateStatus(ctx, payment, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Duplicate or late delivery: acknowledge anyway so the gateway
		// stops retrying.
		s.log.Error("payment missed status",
			zap.Uint("payment_id", payment.ID),
			zap.String("status", status),
			zap.ByteString("request", req.Body),
		)
		return gw.DefaultResponse(), nil
	}

	s.log.Info("payment new status",
		zap.Uint("payment_id", payment.ID),
		zap.String("status", status),
	)
	return gw.DefaultResponse(), nil
}
