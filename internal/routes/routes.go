// Package routes defines the API routing configuration.
// It wires repositories, services and handlers and applies middleware.
package routes

import (
	"github.com/usename-Poezd/transaction-service/internal/config"
	"github.com/usename-Poezd/transaction-service/internal/gateway/stripegw"
	"github.com/usename-Poezd/transaction-service/internal/geo"
	"github.com/usename-Poezd/transaction-service/internal/handlers"
	"github.com/usename-Poezd/transaction-service/internal/middleware"
	"github.com/usename-Poezd/transaction-service/internal/repositories"
	"github.com/usename-Poezd/transaction-service/internal/services/cashback"
	"github.com/usename-Poezd/transaction-service/internal/services/ledger"
	"github.com/usename-Poezd/transaction-service/internal/services/order"
	"github.com/usename-Poezd/transaction-service/internal/services/payment"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB, log *zap.Logger) {
	// Repositories
	txManager := repositories.NewTxManager(db)
	postingRepo := repositories.NewPostingRepository(db)
	cashbackRepo := repositories.NewCashbackRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	userRepo := repositories.NewUserRepository(db)
	tierRepo := repositories.NewTierRepository(db)

	// Services
	walletLedger := ledger.NewService(postingRepo, userRepo, tierRepo, txManager, repositories.CacheService)
	cashbackLedger := cashback.NewService(cashbackRepo, txManager, repositories.CacheService)
	orderService := order.NewService(orderRepo)
	geoResolver := geo.NewStaticResolver(config.GetEnv("GEO_DEFAULT_COUNTRY", ""))

	paymentService := payment.NewService(
		walletLedger,
		cashbackLedger,
		paymentRepo,
		orderService,
		orderService,
		geoResolver,
		txManager,
		log,
		config.GetBoolEnv("PAYMENTS_DEBUG", false),
	)

	// Gateways
	gateways := map[string]payment.Gateway{}
	stripeGateway := stripegw.New(
		config.GetEnv("STRIPE_SECRET_KEY", ""),
		config.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
	)
	gateways[stripeGateway.Name()] = stripeGateway

	paymentHandler := handlers.NewPaymentHandler(paymentService, gateways, userRepo)

	// Public routes
	app.Get("/health", handlers.HealthCheck)
	app.Post("/api/payment/hook/:gateway", paymentHandler.Hook)

	// Authenticated routes
	api := app.Group("/api", middleware.Auth())
	api.Post("/payment/deposit", paymentHandler.Deposit)
}
