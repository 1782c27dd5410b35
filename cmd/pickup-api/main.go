package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dimitrije/pickup-api/internal/config"
	"github.com/dimitrije/pickup-api/internal/database"
	"github.com/dimitrije/pickup-api/internal/handlers"
	"github.com/dimitrije/pickup-api/internal/services"
	"github.com/dimitrije/pickup-api/pkg/logger"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.LogLevel, !cfg.IsProduction())
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	jwtService := services.NewJWTService(cfg.JWT())
	tokenService := services.NewTokenService(db)
	codes := services.NewCodeAllocator()
	notificationService := services.NewNotificationService(db)
	memberService := services.NewMemberService(db, codes, notificationService, cfg.BcryptCost)
	gameService := services.NewGameService(db, codes, notificationService)
	scoreService := services.NewScoreService(db, notificationService)

	authHandler := handlers.NewAuthHandler(memberService, tokenService, jwtService)
	memberHandler := handlers.NewMemberHandler(memberService)
	gameHandler := handlers.NewGameHandler(gameService)
	scoreHandler := handlers.NewScoreHandler(scoreService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	registerRoutes(app, jwtService, routeHandlers{
		auth:         authHandler,
		member:       memberHandler,
		game:         gameHandler,
		score:        scoreHandler,
		notification: notificationHandler,
	})

	go tokenService.RunCleanup(ctx, cfg.TokenCleanupInterval)

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logger.Info("Server starting", "addr", addr, "env", cfg.Env)
		if err := app.Run(addr); err != nil {
			logger.Fatal("Server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
}
