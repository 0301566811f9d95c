package main

import (
	"context"

	"github.com/AnthoniusHendriyanto/blog-service/config"
	"github.com/AnthoniusHendriyanto/blog-service/db"
	"github.com/AnthoniusHendriyanto/blog-service/internal/auth/domain"
	"github.com/AnthoniusHendriyanto/blog-service/internal/auth/handler"
	repo "github.com/AnthoniusHendriyanto/blog-service/internal/auth/repository/postgres"
	"github.com/AnthoniusHendriyanto/blog-service/internal/auth/service"
	"github.com/AnthoniusHendriyanto/blog-service/internal/logger"
	"github.com/AnthoniusHendriyanto/blog-service/internal/ratelimit"
	redisstore "github.com/AnthoniusHendriyanto/blog-service/internal/ratelimit/redis"
	authconstant "github.com/AnthoniusHendriyanto/blog-service/pkg/constant"
	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(0).Fatal("failed to load config", "error", err)
	}

	log := logger.New(cfg.LogLevel)
	ctx := context.Background()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	defer dbPool.Close()

	redisClient, err := db.NewRedisClient(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	clock := domain.SystemClock{}
	userRepo := repo.NewPostgresRepository(dbPool)
	tokenService := service.NewTokenService(cfg.SecretKey, cfg.AccessExpiryMin, cfg.RefreshExpiryDay, clock)
	userService := service.NewUserService(userRepo, tokenService, clock)
	authHandler := handler.NewAuthHandler(userService, tokenService)

	counterStore := redisstore.NewCounterStore(redisClient)
	healthHandler := handler.NewHealthHandler(dbPool, counterStore)
	limiters := handler.Limiters{
		Global:   ratelimit.New("global", authconstant.GlobalRateLimit, authconstant.GlobalRateWindow, counterStore, clock, log),
		Login:    ratelimit.New("login", authconstant.LoginRateLimit, authconstant.LoginRateWindow, counterStore, clock, log),
		Register: ratelimit.New("register", authconstant.RegisterRateLimit, authconstant.RegisterRateWindow, counterStore, clock, log),
	}

	if err := userService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal("failed to seed admin user", "error", err)
	}

	app := fiber.New(fiber.Config{AppName: cfg.AppName})
	handler.RegisterRoutes(app, authHandler, healthHandler, limiters)

	log.Info("starting server", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
