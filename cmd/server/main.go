package main

import (
	"database/sql"
	"net/http"

	"gridstore-be/internal/cart"
	"gridstore-be/internal/checkout"
	"gridstore-be/internal/config"
	"gridstore-be/internal/db"
	"gridstore-be/internal/logger"
	"gridstore-be/internal/middleware"
	"gridstore-be/internal/order"
	"gridstore-be/internal/payment"
	"gridstore-be/internal/user"

	"go.uber.org/zap"
)

// Seams for tests.
var (
	initDBFunc      = db.InitDB
	startServerFunc = http.ListenAndServe
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	handler := newServer(cfg, database)

	addr := ":" + cfg.AppPort
	logger.L().Info("server listening", zap.String("addr", addr))
	return startServerFunc(addr, handler)
}

// newServer wires the repositories, services and HTTP surface.
func newServer(cfg *config.Config, database *sql.DB) http.Handler {
	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo)
	cartHandler := cart.NewHandler(cartSvc)

	orderRepo := order.NewRepository(database)
	orderHandler := order.NewHandler(orderRepo)

	gateway := payment.NewGateway(cfg.Alipay)
	ledger := payment.NewRepository(database)
	effects := checkout.NewEffects(userRepo, orderRepo, cartRepo)

	checkoutSvc := checkout.NewService(cfg.Alipay, gateway, ledger, cartSvc, effects)
	checkoutHandler := checkout.NewHandler(checkoutSvc, cfg.Alipay)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /api/v1/auth/register", userHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", userHandler.Login)

	mux.HandleFunc("GET /api/v1/cart", middleware.RequireAuth(cartHandler.List))
	mux.HandleFunc("POST /api/v1/cart/items", middleware.RequireAuth(cartHandler.AddItem))
	mux.HandleFunc("DELETE /api/v1/cart/items", middleware.RequireAuth(cartHandler.RemoveItem))

	mux.HandleFunc("GET /api/v1/orders", middleware.RequireAuth(orderHandler.List))
	mux.HandleFunc("GET /api/v1/orders/detail", middleware.RequireAuth(orderHandler.Detail))

	mux.HandleFunc("POST /api/v1/checkout/recharge/alipay/create-payment",
		middleware.RequireAuth(checkoutHandler.CreateRechargePayment))
	mux.HandleFunc("POST /api/v1/checkout/alipay/create-payment",
		middleware.RequireAuth(checkoutHandler.CreatePayment))
	mux.HandleFunc("POST /api/v1/checkout/alipay/capture-payment",
		middleware.RequireAuth(checkoutHandler.CapturePayment))

	// Provider-facing endpoints, no auth.
	mux.HandleFunc("POST /api/v1/checkout/alipay/notify", checkoutHandler.Notify)
	mux.HandleFunc("GET /api/v1/checkout/alipay/qr", checkoutHandler.QRImage)

	return logger.RequestIDMiddleware(
		logger.LoggingMiddleware(
			middleware.AuthMiddleware(
				middleware.RateLimitMiddleware(mux),
			),
		),
	)
}
