package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gridstore-be/internal/config"
	"gridstore-be/internal/logger"

	"go.uber.org/zap"
)

// serviceProviderGateway routes pre-orders through an intermediary HTTP
// service instead of the official API. Trade queries still go to the
// official API, so the direct gateway is kept for delegation.
type serviceProviderGateway struct {
	cfg        config.AlipayConfig
	direct     Gateway
	httpClient *http.Client
}

func NewServiceProviderGateway(cfg config.AlipayConfig, direct Gateway) *serviceProviderGateway {
	return &serviceProviderGateway{
		cfg:    cfg,
		direct: direct,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (g *serviceProviderGateway) CreateOrder(ctx context.Context, p CreateOrderParams) (string, error) {
	if err := g.checkConfig(); err != nil {
		return "", err
	}

	log := logger.L().With(
		zap.String("out_trade_no", p.OutTradeNo),
		zap.String("amount", p.Amount.StringFixed(2)),
	)

	form := url.Values{}
	form.Set("pay_channel", g.cfg.PayChannel)
	form.Set("type_index", g.cfg.TypeIndex)
	form.Set("external_id", g.cfg.ExternalID)
	form.Set("out_trade_no", p.OutTradeNo)
	form.Set("amount", p.Amount.StringFixed(2))
	form.Set("subject", p.Subject)
	form.Set("goods_type", g.cfg.ExternalGoodsType)
	form.Set("notify_url", p.NotifyURL)
	form.Set("quit_url", p.QuitURL)
	form.Set("return_url", p.ReturnURL)
	form.Set("risk_notify_url", p.RiskNotifyURL)
	form.Set("client_ip", p.ClientIP)

	req, err := http.NewRequestWithContext(ctx, "POST", g.cfg.ServiceProviderURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	log.Info("Sending pre-order to payment service provider")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("Service provider request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed reading service provider response", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error("Service provider rejected pre-order",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(bodyBytes)),
		)
		return "", fmt.Errorf("%w: status %d", ErrProviderFailure, resp.StatusCode)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(bodyBytes, &doc); err != nil {
		log.Error("Unparseable service provider response", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	payCode, ok := extractPayCode(doc)
	if !ok {
		log.Error("Service provider response has no payable code", zap.String("body", string(bodyBytes)))
		return "", fmt.Errorf("%w: no payable code in response", ErrMalformedResponse)
	}

	log.Info("Service provider pre-order succeeded")
	return payCode, nil
}

func (g *serviceProviderGateway) QueryTrade(ctx context.Context, outTradeNo string) (*TradeQueryResult, error) {
	return g.direct.QueryTrade(ctx, outTradeNo)
}

// checkConfig collects every absent required field so the operator sees the
// full list at once instead of one failure per deploy.
func (g *serviceProviderGateway) checkConfig() error {
	required := []struct {
		name  string
		value string
	}{
		{"ALIPAY_SERVICE_PROVIDER_URL", g.cfg.ServiceProviderURL},
		{"ALIPAY_EXTERNAL_ID", g.cfg.ExternalID},
		{"ALIPAY_PAY_CHANNEL", g.cfg.PayChannel},
		{"ALIPAY_TYPE_INDEX", g.cfg.TypeIndex},
		{"ALIPAY_EXTERNAL_GOODS_TYPE", g.cfg.ExternalGoodsType},
	}

	var missing []string
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ConfigMissingError{Fields: missing}
	}
	return nil
}
