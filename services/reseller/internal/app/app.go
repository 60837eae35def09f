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
	resellerHTTP "socialdesk/services/reseller/internal/controller/http"
	"socialdesk/services/reseller/internal/repo/persistent"
	"socialdesk/services/reseller/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "socialdesk/services/reseller/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	queueClient *queue.Client
	provider    payment.Provider
	jwtService  *jwt.Service
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithEnv(cfg.AppEnv).With("service", "reseller")

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v (continuing without rate limit)", err)
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
	resellerRepo := persistent.NewResellerRepository(a.db)
	settingsRepo := persistent.NewSettingsRepository(a.db)
	transactor := persistent.NewTransactor(a.db)

	// Initialize use cases
	resellerUseCase := usecase.NewResellerUseCase(resellerRepo, settingsRepo, a.provider, a.log)
	withdrawalUseCase := usecase.NewWithdrawalUseCase(
		resellerRepo,
		transactor,
		settingsRepo,
		a.provider,
		a.publisher(),
		a.cfg.Currency,
		a.cfg.EarningsDeductionMode,
		a.log,
	)

	// Initialize HTTP handlers
	resellerHandler := resellerHTTP.NewResellerHandler(resellerUseCase, withdrawalUseCase, a.log)

	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.MetricsMiddleware("reseller"))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(a.jwtService))
	api.Use(middleware.RateLimitMiddleware(a.redisClient, a.cfg.RateLimitRequests, time.Duration(a.cfg.RateLimitWindowSeconds)*time.Second))
	{
		profile := api.Group("/reseller-profile")
		profile.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleReseller))
		profile.GET("/:resellerId", resellerHandler.GetProfile)
		profile.GET("/:resellerId/withdrawals", resellerHandler.ListWithdrawals)
		profile.POST("/:resellerId/withdraw/:accountId", resellerHandler.Withdraw)
		profile.POST("/:resellerId/connect-account", resellerHandler.CreateConnectAccount)

		api.GET("/withdrawal-settings", resellerHandler.GetSettings)
		api.PUT("/withdrawal-settings", middleware.RequireRole(middleware.RoleAdmin), resellerHandler.UpdateSettings)
	}

	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	go func() {
		a.log.Info("Reseller service starting on port %s", a.cfg.ServerPort)
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
	a.log.Info("shutting down reseller service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

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

	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	a.log.Info("Reseller service exited")
	a.log.Sync()
	return nil
}
