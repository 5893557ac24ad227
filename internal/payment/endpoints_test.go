package payment

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallbackURL(t *testing.T) {
	t.Run("NotifyFromRequestHost", func(t *testing.T) {
		r := httptest.NewRequest("POST", "http://api.shop.example:8080/api/v1/checkout/alipay/create-payment", nil)
		got := CallbackURL(r, EndpointNotify)
		assert.Equal(t, "http://api.shop.example:8080/api/v1/checkout/alipay/notify", got)
	})

	t.Run("NotifyHTTPS", func(t *testing.T) {
		r := httptest.NewRequest("POST", "https://api.shop.example/pay", nil)
		r.TLS = &tls.ConnectionState{}
		got := CallbackURL(r, EndpointNotify)
		assert.Equal(t, "https://api.shop.example/api/v1/checkout/alipay/notify", got)
	})

	t.Run("OriginHeaderWins", func(t *testing.T) {
		r := httptest.NewRequest("POST", "http://api.shop.example/pay", nil)
		r.Header.Set("Origin", "https://store.example")
		got := CallbackURL(r, EndpointReturn)
		assert.Equal(t, "https://store.example/alipay/return", got)
	})

	t.Run("FallbackKeepsNonStandardPort", func(t *testing.T) {
		r := httptest.NewRequest("POST", "http://localhost:3000/pay", nil)
		got := CallbackURL(r, EndpointQuit)
		assert.Equal(t, "http://localhost:3000/alipay/quit", got)
	})

	t.Run("FallbackOmitsDefaultPort", func(t *testing.T) {
		r := httptest.NewRequest("POST", "http://shop.example/pay", nil)
		r.Host = "shop.example:80"
		got := CallbackURL(r, EndpointRisk)
		assert.Equal(t, "http://shop.example/alipay/risk", got)
	})
}
