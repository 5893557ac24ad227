package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"gridstore-be/internal/cart"
	"gridstore-be/internal/config"
	"gridstore-be/internal/logger"
	"gridstore-be/internal/payment"
	"gridstore-be/internal/utils"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// Handler exposes the checkout flow over HTTP.
type Handler struct {
	Svc Service
	Cfg config.AlipayConfig
}

func NewHandler(svc Service, cfg config.AlipayConfig) *Handler {
	return &Handler{Svc: svc, Cfg: cfg}
}

type paymentResponse struct {
	OutTradeNo string `json:"outTradeNo"`
	PayCode    string `json:"payCode"`
	Amount     string `json:"amount"`
	Subject    string `json:"subject"`
}

// CreateRechargePayment handles POST /api/v1/checkout/recharge/alipay/create-payment?amount=
func (h *Handler) CreateRechargePayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil {
		http.Error(w, "invalid amount", http.StatusBadRequest)
		return
	}

	order, err := h.Svc.CreateBalanceRecharge(r.Context(), userID, amount, h.requestMeta(r))
	if err != nil {
		h.writeCreateError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(order))
}

// CreatePayment handles POST /api/v1/checkout/alipay/create-payment?balanceAction=
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	action := payment.BalanceAction(r.URL.Query().Get("balanceAction"))
	if action == "" {
		action = payment.ActionCartCheckout
	}

	// Recharges have their own endpoint; a cart checkout carrying the
	// recharge action is a caller error, not an alternate route.
	if action == payment.ActionBalanceRecharge {
		http.Error(w, "recharge is not a cart checkout action", http.StatusBadRequest)
		return
	}
	if action != payment.ActionCartCheckout {
		http.Error(w, "unknown balance action", http.StatusBadRequest)
		return
	}

	order, err := h.Svc.CreateCartCheckout(r.Context(), userID, h.requestMeta(r))
	if err != nil {
		h.writeCreateError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(order))
}

// CapturePayment handles POST /api/v1/checkout/alipay/capture-payment?outTradeNo=
func (h *Handler) CapturePayment(w http.ResponseWriter, r *http.Request) {
	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	outTradeNo := r.URL.Query().Get("outTradeNo")
	if outTradeNo == "" {
		http.Error(w, "outTradeNo is required", http.StatusBadRequest)
		return
	}

	res, err := h.Svc.CapturePayment(r.Context(), outTradeNo)
	if err != nil {
		if errors.Is(err, payment.ErrOrderNotFound) {
			http.Error(w, "payment order not found", http.StatusNotFound)
			return
		}
		logger.FromCtx(r.Context()).Error("Capture failed", zap.Error(err))
		http.Error(w, "capture failed", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"outTradeNo":  res.OutTradeNo,
		"tradeNo":     res.TradeNo,
		"tradeStatus": res.TradeStatus,
		"completed":   res.Completed,
	})
}

// Notify handles POST /api/v1/checkout/alipay/notify. The provider expects
// the literal body "success" to stop retrying; anything else triggers
// redelivery.
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("failure"))
		return
	}

	params := make(map[string]string, len(r.PostForm))
	for k, vs := range r.PostForm {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}

	body := "failure"
	if h.Svc.HandleNotify(r.Context(), params) {
		body = "success"
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// QRImage handles GET /api/v1/checkout/alipay/qr?outTradeNo= and renders the
// stored pay code as a PNG.
func (h *Handler) QRImage(w http.ResponseWriter, r *http.Request) {
	outTradeNo := r.URL.Query().Get("outTradeNo")
	if outTradeNo == "" {
		http.Error(w, "outTradeNo is required", http.StatusBadRequest)
		return
	}

	payCode, err := h.Svc.PayCode(r.Context(), outTradeNo)
	if err != nil {
		if errors.Is(err, payment.ErrOrderNotFound) {
			http.Error(w, "payment order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load payment order", http.StatusInternalServerError)
		return
	}

	png, err := qrcode.Encode(payCode, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "failed to render QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// requestMeta resolves the callback URLs: explicit configuration wins, then
// the request-derived fallbacks.
func (h *Handler) requestMeta(r *http.Request) RequestMeta {
	pick := func(configured string, ep payment.Endpoint) string {
		if configured != "" {
			return configured
		}
		return payment.CallbackURL(r, ep)
	}

	return RequestMeta{
		NotifyURL:     pick(h.Cfg.NotifyURL, payment.EndpointNotify),
		ReturnURL:     pick(h.Cfg.ReturnURL, payment.EndpointReturn),
		QuitURL:       pick(h.Cfg.QuitURL, payment.EndpointQuit),
		RiskNotifyURL: pick(h.Cfg.RiskNotifyURL, payment.EndpointRisk),
		ClientIP:      utils.ClientIP(r),
	}
}

func (h *Handler) writeCreateError(w http.ResponseWriter, r *http.Request, err error) {
	var missing *payment.ConfigMissingError

	switch {
	case errors.Is(err, ErrInvalidAmount):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, cart.ErrEmptyCart):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &missing):
		logger.FromCtx(r.Context()).Error("Payment misconfigured",
			zap.Strings("missing_fields", missing.Fields))
		http.Error(w, "payment is not configured", http.StatusInternalServerError)
	case errors.Is(err, payment.ErrProviderFailure), errors.Is(err, payment.ErrMalformedResponse):
		logger.FromCtx(r.Context()).Error("Provider pre-order failed", zap.Error(err))
		http.Error(w, "payment provider unavailable", http.StatusBadGateway)
	default:
		logger.FromCtx(r.Context()).Error("Pre-order failed", zap.Error(err))
		http.Error(w, "failed to create payment", http.StatusInternalServerError)
	}
}

func toPaymentResponse(order *payment.PendingOrder) paymentResponse {
	return paymentResponse{
		OutTradeNo: order.OutTradeNo,
		PayCode:    order.PayCode,
		Amount:     order.Amount.StringFixed(2),
		Subject:    order.Subject,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
