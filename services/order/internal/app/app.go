package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialdesk/pkg/cache"
	"socialdesk/pkg/config"
	"socialdesk/pkg/database"
	"socialdesk/pkg/jwt"
	"socialdesk/pkg/logger"
	"socialdesk/pkg/middleware"
	"socialdesk/pkg/notify"
	"socialdesk/pkg/payment"
	"socialdesk/pkg/queue"
	orderHTTP "socialdesk/services/order/internal/controller/http"
	replaycache "socialdesk/services/order/internal/repo/cache"
	"socialdesk/services/order/internal/repo/persistent"
	"socialdesk/services/order/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "socialdesk/services/order/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	queueClient *queue.Client
	provider    payment.Provider
	jwtService  *jwt.Service
	scheduler   *Scheduler
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithEnv(cfg.AppEnv).With("service", "order")

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v (continuing without rate limit and replay cache)", err)
		redisClient = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without notifications)", err)
		queueClient = nil
	}

	provider, err := payment.NewStripeProvider(payment.StripeConfig{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		RefreshURL:    cfg.ConnectRefreshURL,
		ReturnURL:     cfg.ConnectReturnURL,
	})
	if err != nil {
		log.Error("Failed to create payment provider: %v", err)
		return nil, err
	}

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		queueClient: queueClient,
		provider:    provider,
		jwtService:  jwt.NewService(cfg.JWTSecret),
	}, nil
}

func (a *App) publisher() notify.Publisher {
	if a.queueClient == nil {
		return notify.Nop{}
	}
	return a.queueClient
}

func (a *App) Run() error {
	// Initialize repositories
	orderRepo := persistent.NewOrderRepository(a.db)
	paymentRepo := persistent.NewPaymentRepository(a.db)
	transactor := persistent.NewTransactor(a.db)
	replay := replaycache.NewReplayCache(a.redisClient)

	// Initialize use cases
	pricingUseCase := usecase.NewPricingUseCase(orderRepo)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, transactor, a.publisher(), a.log)
	paymentUseCase := usecase.NewPaymentUseCase(
		orderRepo,
		paymentRepo,
		transactor,
		pricingUseCase,
		a.provider,
		replay,
		a.publisher(),
		a.cfg.Currency,
		a.log,
	)

	// Initialize HTTP handlers
	orderHandler := orderHTTP.NewOrderHandler(orderUseCase, a.log)
	paymentHandler := orderHTTP.NewPaymentHandler(paymentUseCase, a.log)

	a.scheduler = NewScheduler(orderUseCase, a.cfg.SubscriptionExpirySchedule, a.log)
	if err := a.scheduler.Start(); err != nil {
		return err
	}

	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.MetricsMiddleware("order"))

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")

	// Provider callbacks carry no JWT; the signature is checked over the raw body.
	api.POST("/payment/webhook", paymentHandler.Webhook)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(a.jwtService))
	protected.Use(middleware.RateLimitMiddleware(a.redisClient, a.cfg.RateLimitRequests, time.Duration(a.cfg.RateLimitWindowSeconds)*time.Second))
	{
		protected.POST("/order", middleware.RequireRole(middleware.RoleAdmin, middleware.RoleClient), orderHandler.CreateOrder)
		protected.GET("/order/my", orderHandler.GetMyOrders)
		protected.GET("/order/:id", orderHandler.GetOrder)
		protected.PATCH("/order/:id/status", middleware.RequireRole(middleware.RoleAdmin), orderHandler.UpdateOrderStatus)

		protected.POST("/payment/pay", paymentHandler.Pay)
		protected.GET("/payment/transactions", middleware.RequireRole(middleware.RoleAdmin), paymentHandler.ListTransactions)
	}

	// Create HTTP server
	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Order service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down order service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.scheduler != nil {
		<-a.scheduler.Stop().Done()
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	a.log.Info("Order service exited")
	a.log.Sync()
	return nil
}
