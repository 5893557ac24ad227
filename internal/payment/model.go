package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type BalanceAction string

const (
	ActionBalanceRecharge BalanceAction = "BALANCE_RECHARGE"
	ActionCartCheckout    BalanceAction = "CART_CHECKOUT"
)

type Method string

const (
	MethodAlipay Method = "ALIPAY"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusCompleted OrderStatus = "COMPLETED"
)

// Provider trade states that mean the buyer has paid.
const (
	TradeSuccess  = "TRADE_SUCCESS"
	TradeFinished = "TRADE_FINISHED"
)

func IsSuccessStatus(tradeStatus string) bool {
	return tradeStatus == TradeSuccess || tradeStatus == TradeFinished
}

// PendingOrder is the ledger entry for one payment attempt. OutTradeNo is the
// merchant-generated reference correlating local state with the provider;
// Amount is fixed at creation and never recomputed.
type PendingOrder struct {
	ID         uint
	UserID     uint
	OutTradeNo string
	Amount     decimal.Decimal
	PayCode    string
	Subject    string
	Action     BalanceAction
	Method     Method
	Status     OrderStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateOrderParams is the normalized pre-order request both gateway
// strategies accept. The direct strategy only needs OutTradeNo, Subject,
// Amount and NotifyURL; the service-provider strategy additionally posts the
// remaining callback URLs and the caller's IP.
type CreateOrderParams struct {
	OutTradeNo string
	Subject    string
	Amount     decimal.Decimal

	NotifyURL     string
	ReturnURL     string
	QuitURL       string
	RiskNotifyURL string
	ClientIP      string
}

// TradeQueryResult is the normalized answer to an active capture poll.
type TradeQueryResult struct {
	OutTradeNo  string
	TradeNo     string
	TradeStatus string
}
