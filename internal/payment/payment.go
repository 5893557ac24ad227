package payment

import (
	"context"

	"gridstore-be/internal/config"
)

// Gateway is the provider abstraction both strategies implement. CreateOrder
// registers an order with the payment network and returns the payable code
// (QR payload or deep link); QueryTrade polls the provider for the current
// trade state.
type Gateway interface {
	CreateOrder(ctx context.Context, p CreateOrderParams) (payCode string, err error)
	QueryTrade(ctx context.Context, outTradeNo string) (*TradeQueryResult, error)
}

// NewGateway picks the strategy once at construction: the intermediary
// service-provider gateway when its URL is configured, the official signed
// API otherwise. No per-call strategy branching.
func NewGateway(cfg config.AlipayConfig) Gateway {
	direct := NewAlipayGateway(cfg)
	if cfg.ServiceProviderURL != "" {
		return NewServiceProviderGateway(cfg, direct)
	}
	return direct
}
