package checkout

import (
	"context"
	"errors"
	"strings"

	"gridstore-be/internal/cart"
	"gridstore-be/internal/config"
	"gridstore-be/internal/logger"
	"gridstore-be/internal/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrInvalidAmount = errors.New("amount must be greater than zero")

const rechargeSubject = "Balance recharge"

// RequestMeta carries the per-request callback URLs and caller address the
// handler resolved before invoking the service.
// CaptureResult reports the outcome of one capture poll: whether the order
// is completed now, plus the provider's trade reference and observed status
// for caller visibility.
type CaptureResult struct {
	OutTradeNo  string
	TradeNo     string
	TradeStatus string
	Completed   bool
}

type RequestMeta struct {
	NotifyURL     string
	ReturnURL     string
	QuitURL       string
	RiskNotifyURL string
	ClientIP      string
}

type Service interface {
	// CreateBalanceRecharge pre-orders a wallet top-up for the given amount.
	CreateBalanceRecharge(ctx context.Context, userID uint, amount decimal.Decimal, meta RequestMeta) (*payment.PendingOrder, error)

	// CreateCartCheckout pre-orders a payment over the user's current cart,
	// snapshotting the total at this moment.
	CreateCartCheckout(ctx context.Context, userID uint, meta RequestMeta) (*payment.PendingOrder, error)

	// CapturePayment polls the provider and, when the trade is paid, applies
	// the completion effect.
	CapturePayment(ctx context.Context, outTradeNo string) (*CaptureResult, error)

	// HandleNotify processes one asynchronous provider notification. The
	// returned bool is the acknowledgement: true tells the provider to stop
	// retrying, false asks for redelivery.
	HandleNotify(ctx context.Context, params map[string]string) bool

	// PayCode returns the payable code previously issued for an order.
	PayCode(ctx context.Context, outTradeNo string) (string, error)
}

type service struct {
	cfg     config.AlipayConfig
	gateway payment.Gateway
	ledger  payment.Repository
	carts   cart.Service
	effects payment.EffectApplier
}

func NewService(cfg config.AlipayConfig, gw payment.Gateway, ledger payment.Repository, carts cart.Service, effects payment.EffectApplier) Service {
	return &service{
		cfg:     cfg,
		gateway: gw,
		ledger:  ledger,
		carts:   carts,
		effects: effects,
	}
}

func (s *service) CreateBalanceRecharge(ctx context.Context, userID uint, amount decimal.Decimal, meta RequestMeta) (*payment.PendingOrder, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.preorder(ctx, userID, amount, rechargeSubject, payment.ActionBalanceRecharge, meta)
}

func (s *service) CreateCartCheckout(ctx context.Context, userID uint, meta RequestMeta) (*payment.PendingOrder, error) {
	items, err := s.carts.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, cart.ErrEmptyCart
	}

	titles := make([]string, 0, len(items))
	for _, it := range items {
		titles = append(titles, it.Title)
	}

	total := s.carts.Total(items)
	return s.preorder(ctx, userID, total, strings.Join(titles, ", "), payment.ActionCartCheckout, meta)
}

// preorder runs the shared create path: fix the amount, register the order
// with the provider, then persist the PENDING ledger entry. A gateway failure
// leaves no ledger row behind.
func (s *service) preorder(ctx context.Context, userID uint, amount decimal.Decimal, subject string, action payment.BalanceAction, meta RequestMeta) (*payment.PendingOrder, error) {
	outTradeNo := newOutTradeNo()
	amount = amount.Round(2)

	log := logger.FromCtx(ctx).With(
		zap.Uint("user_id", userID),
		zap.String("out_trade_no", outTradeNo),
		zap.String("action", string(action)),
	)

	payCode, err := s.gateway.CreateOrder(ctx, payment.CreateOrderParams{
		OutTradeNo:    outTradeNo,
		Subject:       subject,
		Amount:        amount,
		NotifyURL:     meta.NotifyURL,
		ReturnURL:     meta.ReturnURL,
		QuitURL:       meta.QuitURL,
		RiskNotifyURL: meta.RiskNotifyURL,
		ClientIP:      meta.ClientIP,
	})
	if err != nil {
		log.Error("Pre-order failed at provider", zap.Error(err))
		return nil, err
	}

	order := &payment.PendingOrder{
		UserID:     userID,
		OutTradeNo: outTradeNo,
		Amount:     amount,
		PayCode:    payCode,
		Subject:    subject,
		Action:     action,
		Method:     payment.MethodAlipay,
	}
	if err := s.ledger.PlaceTemporary(ctx, order); err != nil {
		log.Error("Failed persisting pending order", zap.Error(err))
		return nil, err
	}

	log.Info("Pre-order placed", zap.String("amount", amount.StringFixed(2)))
	return order, nil
}

func (s *service) CapturePayment(ctx context.Context, outTradeNo string) (*CaptureResult, error) {
	log := logger.FromCtx(ctx).With(zap.String("out_trade_no", outTradeNo))

	order, err := s.ledger.GetByOutTradeNo(ctx, outTradeNo)
	if err != nil {
		return nil, err
	}
	if order.Status == payment.StatusCompleted {
		return &CaptureResult{
			OutTradeNo:  outTradeNo,
			TradeStatus: payment.TradeSuccess,
			Completed:   true,
		}, nil
	}

	res, err := s.gateway.QueryTrade(ctx, outTradeNo)
	if err != nil {
		return nil, err
	}

	result := &CaptureResult{
		OutTradeNo:  outTradeNo,
		TradeNo:     res.TradeNo,
		TradeStatus: res.TradeStatus,
	}
	if !payment.IsSuccessStatus(res.TradeStatus) {
		log.Info("Trade not paid yet", zap.String("trade_status", res.TradeStatus))
		return result, nil
	}

	if _, err := s.ledger.Complete(ctx, outTradeNo, s.effects); err != nil {
		return nil, err
	}
	result.Completed = true
	return result, nil
}

func (s *service) HandleNotify(ctx context.Context, params map[string]string) bool {
	log := logger.FromCtx(ctx).With(zap.String("out_trade_no", params["out_trade_no"]))

	if !payment.VerifyNotification(params, s.cfg.PublicKey, s.cfg.Charset, s.cfg.SignType) {
		log.Warn("Notification signature rejected")
		return false
	}

	outTradeNo := params["out_trade_no"]
	if outTradeNo == "" {
		log.Warn("Notification missing out_trade_no")
		return false
	}

	tradeStatus := params["trade_status"]
	if !payment.IsSuccessStatus(tradeStatus) {
		// Authentic but not a payment. Acknowledge so the provider stops
		// retrying; the order stays pending.
		log.Info("Ignoring non-success notification", zap.String("trade_status", tradeStatus))
		return true
	}

	if _, err := s.ledger.Complete(ctx, outTradeNo, s.effects); err != nil {
		log.Error("Failed completing order from notification", zap.Error(err))
		return false
	}
	return true
}

func (s *service) PayCode(ctx context.Context, outTradeNo string) (string, error) {
	order, err := s.ledger.GetByOutTradeNo(ctx, outTradeNo)
	if err != nil {
		return "", err
	}
	return order.PayCode, nil
}

// newOutTradeNo issues the merchant-side trade reference: a v4 UUID with the
// dashes stripped, matching the provider's 32-char limit.
func newOutTradeNo() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
