package main

import (
	"socialdesk/pkg/config"
	app "socialdesk/services/order/internal/app"

	_ "socialdesk/services/order/docs" // Swagger docs
)

// @title           Order Service API
// @version         1.0
// @description     Orders, subscriptions and payment reconciliation for SocialDesk

// @host      localhost:8002
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.JWTSecret == "your-secret-key-change-in-production" || cfg.JWTSecret == "" {
		panic("JWT_SECRET must be set in environment variables")
	}
	if cfg.StripeWebhookSecret == "" {
		panic("STRIPE_WEBHOOK_SECRET must be set in environment variables")
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		panic(err)
	}

	if err := application.Run(); err != nil {
		panic(err)
	}

	application.Wait()

	if err := application.Shutdown(); err != nil {
		panic(err)
	}
}
