package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// AlipayConfig holds the provider credentials and callback overrides for the
// scan-to-pay rail. The service-provider block is optional: when
// ServiceProviderURL is set, pre-orders go through the intermediary gateway
// instead of the official openapi endpoint.
type AlipayConfig struct {
	GatewayURL     string
	AppID          string
	PrivateKey     string
	PublicKey      string
	Charset        string
	SignType       string
	TimeoutExpress string
	ProductCode    string
	SubMerchantID  string

	NotifyURL     string
	ReturnURL     string
	QuitURL       string
	RiskNotifyURL string

	ServiceProviderURL string
	ExternalID         string
	PayChannel         string
	TypeIndex          string
	ExternalGoodsType  string
}

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string
	JWTSecret  string

	Alipay AlipayConfig
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Alipay: AlipayConfig{
			GatewayURL:     os.Getenv("ALIPAY_GATEWAY_URL"),
			AppID:          os.Getenv("ALIPAY_APP_ID"),
			PrivateKey:     os.Getenv("ALIPAY_PRIVATE_KEY"),
			PublicKey:      os.Getenv("ALIPAY_PUBLIC_KEY"),
			Charset:        getenvDefault("ALIPAY_CHARSET", "utf-8"),
			SignType:       getenvDefault("ALIPAY_SIGN_TYPE", "RSA2"),
			TimeoutExpress: getenvDefault("ALIPAY_TIMEOUT_EXPRESS", "15m"),
			ProductCode:    getenvDefault("ALIPAY_PRODUCT_CODE", "FACE_TO_FACE_PAYMENT"),
			SubMerchantID:  os.Getenv("ALIPAY_SUB_MERCHANT_ID"),

			NotifyURL:     os.Getenv("ALIPAY_NOTIFY_URL"),
			ReturnURL:     os.Getenv("ALIPAY_RETURN_URL"),
			QuitURL:       os.Getenv("ALIPAY_QUIT_URL"),
			RiskNotifyURL: os.Getenv("ALIPAY_RISK_NOTIFY_URL"),

			ServiceProviderURL: os.Getenv("ALIPAY_SERVICE_PROVIDER_URL"),
			ExternalID:         os.Getenv("ALIPAY_EXTERNAL_ID"),
			PayChannel:         os.Getenv("ALIPAY_PAY_CHANNEL"),
			TypeIndex:          os.Getenv("ALIPAY_TYPE_INDEX"),
			ExternalGoodsType:  os.Getenv("ALIPAY_EXTERNAL_GOODS_TYPE"),
		},
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
