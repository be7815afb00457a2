package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"prediction-engine/internal/auth"
	"prediction-engine/internal/config"
	"prediction-engine/internal/database"
	"prediction-engine/internal/handlers"
	"prediction-engine/internal/jobs"
	"prediction-engine/internal/repository"
	"prediction-engine/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repository and services
	repo := repository.NewRepository(database.GetDB())

	statsService := services.NewStatsService(repo)
	statsBroker := services.NewStatsBroker(statsService)
	userService := services.NewUserService(repo, cfg.App.InitialPointsBalance)
	predictionService := services.NewPredictionService(repo)
	betService := services.NewBetService(repo, statsBroker)
	payoutService := services.NewPayoutService()
	resolutionService := services.NewResolutionService(repo, payoutService, statsBroker)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	predictionHandler := handlers.NewPredictionHandler(predictionService, statsService, statsBroker)
	betHandler := handlers.NewBetHandler(betService)
	adminHandler := handlers.NewAdminHandler(predictionService, resolutionService)

	// Start the closure job so wagering stops at each close date
	closer := jobs.NewPredictionCloser(predictionService, time.Duration(cfg.App.CloserIntervalSecs)*time.Second)
	go closer.Start()
	defer closer.Stop()

	// Setup router
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth routes
	router.POST("/auth/wallet", authHandler.WalletLogin)

	// Public prediction routes
	router.GET("/api/predictions", predictionHandler.ListPredictions)
	router.GET("/api/predictions/:id", predictionHandler.GetPrediction)
	router.GET("/api/predictions/:id/stats", predictionHandler.GetStats)
	router.GET("/api/predictions/:id/stats/stream", predictionHandler.StreamStats)

	// Protected user routes
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		api.GET("/users/me", authHandler.Me)
		api.GET("/users/me/wagers", authHandler.MyWagers)
		api.POST("/predictions/:id/bets", betHandler.PlaceBet)
		api.GET("/predictions/:id/bets/me", betHandler.GetMyWager)
	}

	// Admin routes (protected + admin only)
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	admin.Use(auth.AdminMiddleware())
	{
		admin.POST("/predictions", adminHandler.CreatePrediction)
		admin.POST("/predictions/:id/close", adminHandler.ClosePrediction)
		admin.POST("/predictions/:id/cancel", adminHandler.CancelPrediction)
		admin.POST("/predictions/:id/resolve", adminHandler.ResolvePrediction)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
