package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	materialapp "github.com/atelier/backend/internal/application/material"
	productionapp "github.com/atelier/backend/internal/application/production"
	recipeapp "github.com/atelier/backend/internal/application/recipe"
	"github.com/atelier/backend/internal/infrastructure/config"
	"github.com/atelier/backend/internal/infrastructure/event"
	"github.com/atelier/backend/internal/infrastructure/logger"
	"github.com/atelier/backend/internal/infrastructure/persistence"
	"github.com/atelier/backend/internal/interfaces/http/handler"
	"github.com/atelier/backend/internal/interfaces/http/middleware"
	"github.com/atelier/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Atelier Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	materialRepo := persistence.NewGormRawMaterialRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	recipeRepo := persistence.NewGormRecipeRepository(db.DB)
	batchRepo := persistence.NewGormProductionBatchRepository(db.DB)
	goodsRepo := persistence.NewGormFinishedGoodsRepository(db.DB)

	// Transaction scopes
	materialScope := persistence.NewGormMaterialTransactionScope(db.DB)
	recipeScope := persistence.NewGormRecipeTransactionScope(db.DB)
	productionScope := persistence.NewGormProductionTransactionScope(db.DB)

	// Event bus with logging handlers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewLowStockAlertHandler(log))
	eventBus.Subscribe(event.NewCostChangeAuditHandler(log))
	eventBus.Subscribe(event.NewProductionAuditHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	materialService := materialapp.NewMaterialService(materialRepo, movementRepo, materialScope)
	materialService.SetEventPublisher(eventBus)
	recipeService := recipeapp.NewRecipeService(recipeRepo, materialRepo, recipeScope)
	productionService := productionapp.NewProductionService(batchRepo, recipeRepo, materialRepo, goodsRepo, productionScope)
	productionService.SetEventPublisher(eventBus)

	// HTTP handlers
	materialHandler := handler.NewMaterialHandler(materialService)
	recipeHandler := handler.NewRecipeHandler(recipeService)
	productionHandler := handler.NewProductionHandler(productionService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Materials domain (raw material registry and stock ledger)
	materialRoutes := router.NewDomainGroup("materials", "/materials")
	materialRoutes.POST("", materialHandler.Create)
	materialRoutes.GET("", materialHandler.List)
	materialRoutes.GET("/alerts/low-stock", materialHandler.ListBelowMinimum)
	materialRoutes.GET("/:id", materialHandler.GetByID)
	materialRoutes.PUT("/:id", materialHandler.Update)
	materialRoutes.DELETE("/:id", materialHandler.Deactivate)
	materialRoutes.GET("/:id/stock-value", materialHandler.GetStockValue)
	materialRoutes.POST("/:id/movements", materialHandler.RecordMovement)
	materialRoutes.GET("/:id/movements", materialHandler.ListMovements)

	// Recipes domain (versioned bill of materials)
	recipeRoutes := router.NewDomainGroup("recipes", "/recipes")
	recipeRoutes.POST("", recipeHandler.Save)
	recipeRoutes.GET("/:id", recipeHandler.GetByID)
	recipeRoutes.POST("/:id/activate", recipeHandler.Activate)
	recipeRoutes.GET("/:id/live-cost", recipeHandler.LiveCost)

	// Production domain (batch engine and finished goods)
	productionRoutes := router.NewDomainGroup("production", "/production")
	productionRoutes.POST("/simulate", productionHandler.Simulate)
	productionRoutes.POST("/batches", productionHandler.CreateBatch)
	productionRoutes.GET("/batches", productionHandler.List)
	productionRoutes.GET("/batches/:id", productionHandler.GetByID)
	productionRoutes.PUT("/batches/:id/status", productionHandler.ChangeStatus)
	productionRoutes.DELETE("/batches/:id", productionHandler.Delete)

	// Product views (recipes and finished goods by product)
	productRoutes := router.NewDomainGroup("products", "/products")
	productRoutes.GET("/:product_id/recipes", recipeHandler.ListByProduct)
	productRoutes.GET("/:product_id/recipes/active", recipeHandler.GetActiveByProduct)
	productRoutes.GET("/:product_id/finished-goods", productionHandler.GetFinishedGoods)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(materialRoutes).
		Register(recipeRoutes).
		Register(productionRoutes).
		Register(productRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
