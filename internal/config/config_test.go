package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "grid")
	t.Setenv("DB_NAME", "gridstore")
	t.Setenv("ALIPAY_GATEWAY_URL", "https://openapi.alipay.com/gateway.do")
	t.Setenv("ALIPAY_APP_ID", "2021000000000001")

	cfg := LoadConfig()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "grid", cfg.DBUser)
	assert.Equal(t, "https://openapi.alipay.com/gateway.do", cfg.Alipay.GatewayURL)
	assert.Equal(t, "2021000000000001", cfg.Alipay.AppID)
}

func TestLoadConfig_AlipayDefaults(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("ALIPAY_CHARSET", "")
	t.Setenv("ALIPAY_SIGN_TYPE", "")
	t.Setenv("ALIPAY_TIMEOUT_EXPRESS", "")
	t.Setenv("ALIPAY_PRODUCT_CODE", "")

	cfg := LoadConfig()

	assert.Equal(t, "utf-8", cfg.Alipay.Charset)
	assert.Equal(t, "RSA2", cfg.Alipay.SignType)
	assert.Equal(t, "15m", cfg.Alipay.TimeoutExpress)
	assert.Equal(t, "FACE_TO_FACE_PAYMENT", cfg.Alipay.ProductCode)
}

func TestLoadConfig_ServiceProviderBlock(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("ALIPAY_SERVICE_PROVIDER_URL", "https://pay.example.com/gateway")
	t.Setenv("ALIPAY_EXTERNAL_ID", "ext-merchant-01")
	t.Setenv("ALIPAY_PAY_CHANNEL", "2")
	t.Setenv("ALIPAY_TYPE_INDEX", "1")
	t.Setenv("ALIPAY_EXTERNAL_GOODS_TYPE", "4")

	cfg := LoadConfig()

	assert.Equal(t, "https://pay.example.com/gateway", cfg.Alipay.ServiceProviderURL)
	assert.Equal(t, "ext-merchant-01", cfg.Alipay.ExternalID)
	assert.Equal(t, "2", cfg.Alipay.PayChannel)
	assert.Equal(t, "1", cfg.Alipay.TypeIndex)
	assert.Equal(t, "4", cfg.Alipay.ExternalGoodsType)
}
