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

const alipaySuccessCode = "10000"

// alipayGateway talks to the provider's official openapi endpoint with
// RSA-signed form requests.
type alipayGateway struct {
	cfg        config.AlipayConfig
	httpClient *http.Client
}

func NewAlipayGateway(cfg config.AlipayConfig) *alipayGateway {
	if cfg.AppID == "" || cfg.PrivateKey == "" {
		logger.L().Warn("Alipay credentials are incomplete")
	}

	return &alipayGateway{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type precreateResponse struct {
	Code    string `json:"code"`
	Msg     string `json:"msg"`
	SubMsg  string `json:"sub_msg"`
	QRCode  string `json:"qr_code"`
	TradeNo string `json:"trade_no"`
}

type tradeQueryResponse struct {
	Code        string `json:"code"`
	Msg         string `json:"msg"`
	SubMsg      string `json:"sub_msg"`
	OutTradeNo  string `json:"out_trade_no"`
	TradeNo     string `json:"trade_no"`
	TradeStatus string `json:"trade_status"`
}

func (g *alipayGateway) CreateOrder(ctx context.Context, p CreateOrderParams) (string, error) {
	log := logger.L().With(
		zap.String("out_trade_no", p.OutTradeNo),
		zap.String("amount", p.Amount.StringFixed(2)),
	)

	biz := map[string]interface{}{
		"out_trade_no":    p.OutTradeNo,
		"subject":         p.Subject,
		"total_amount":    p.Amount.StringFixed(2),
		"timeout_express": g.cfg.TimeoutExpress,
		"product_code":    g.cfg.ProductCode,
	}
	if g.cfg.SubMerchantID != "" {
		biz["sub_merchant"] = map[string]string{
			"merchant_id":   g.cfg.SubMerchantID,
			"merchant_type": "SMID",
		}
	}

	log.Info("Sending precreate request to Alipay")

	body, err := g.execute(ctx, "alipay.trade.precreate", p.NotifyURL, biz)
	if err != nil {
		log.Error("Alipay precreate failed", zap.Error(err))
		return "", err
	}

	var res precreateResponse
	if err := json.Unmarshal(body["alipay_trade_precreate_response"], &res); err != nil {
		log.Error("Failed decoding precreate response", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if res.Code != alipaySuccessCode {
		log.Error("Alipay precreate rejected",
			zap.String("code", res.Code),
			zap.String("msg", res.Msg),
			zap.String("sub_msg", res.SubMsg),
		)
		return "", fmt.Errorf("%w: code=%s msg=%s", ErrProviderFailure, res.Code, res.Msg)
	}
	if res.QRCode == "" {
		log.Error("Alipay precreate succeeded without a payable code")
		return "", fmt.Errorf("%w: missing qr_code", ErrMalformedResponse)
	}

	log.Info("Alipay precreate succeeded")
	return res.QRCode, nil
}

func (g *alipayGateway) QueryTrade(ctx context.Context, outTradeNo string) (*TradeQueryResult, error) {
	log := logger.L().With(zap.String("out_trade_no", outTradeNo))

	body, err := g.execute(ctx, "alipay.trade.query", "", map[string]interface{}{
		"out_trade_no": outTradeNo,
	})
	if err != nil {
		log.Error("Alipay trade query failed", zap.Error(err))
		return nil, err
	}

	var res tradeQueryResponse
	if err := json.Unmarshal(body["alipay_trade_query_response"], &res); err != nil {
		log.Error("Failed decoding trade query response", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if res.Code != alipaySuccessCode {
		log.Error("Alipay trade query rejected",
			zap.String("code", res.Code),
			zap.String("msg", res.Msg),
		)
		return nil, fmt.Errorf("%w: code=%s msg=%s", ErrProviderFailure, res.Code, res.Msg)
	}

	return &TradeQueryResult{
		OutTradeNo:  outTradeNo,
		TradeNo:     res.TradeNo,
		TradeStatus: res.TradeStatus,
	}, nil
}

// execute signs and posts one openapi call, returning the raw top-level
// response document keyed by response node name.
func (g *alipayGateway) execute(ctx context.Context, method, notifyURL string, biz interface{}) (map[string]json.RawMessage, error) {
	bizContent, err := json.Marshal(biz)
	if err != nil {
		return nil, err
	}

	params := map[string]string{
		"app_id":      g.cfg.AppID,
		"method":      method,
		"format":      "JSON",
		"charset":     g.cfg.Charset,
		"sign_type":   g.cfg.SignType,
		"timestamp":   time.Now().Format("2006-01-02 15:04:05"),
		"version":     "1.0",
		"biz_content": string(bizContent),
	}
	if notifyURL != "" {
		params["notify_url"] = notifyURL
	}

	sign, err := SignParams(params, g.cfg.PrivateKey, g.cfg.SignType)
	if err != nil {
		return nil, fmt.Errorf("sign request: %w", err)
	}
	params["sign"] = sign

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.cfg.GatewayURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")
	req.Header.Set("Accept", "application/json; charset=utf-8")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrProviderFailure, resp.StatusCode, string(bodyBytes))
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(bodyBytes, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if raw, ok := doc["error_response"]; ok {
		var e struct {
			Code string `json:"code"`
			Msg  string `json:"msg"`
		}
		_ = json.Unmarshal(raw, &e)
		return nil, fmt.Errorf("%w: code=%s msg=%s", ErrProviderFailure, e.Code, e.Msg)
	}

	return doc, nil
}
