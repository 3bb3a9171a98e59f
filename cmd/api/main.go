package main

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"taskboard-api/core"
)

func main() {
	cfg := core.Load()
	ctx := context.Background()

	logCloser, err := core.SetupLogging(cfg, "api.log")
	if err != nil {
		log.Fatalf("failed to setup logging: %v", err)
	}
	defer logCloser.Close()

	db, err := core.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	// The login limiter fails open, so a missing Redis only disables throttling.
	var redisClient *redis.Client
	if cfg.LoginRateLimit > 0 {
		redisClient, err = core.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Printf("redis unavailable, login throttling disabled: %v", err)
		} else {
			defer redisClient.Close()
		}
	}

	userRepo := core.NewPgUserRepository(db)
	taskRepo := core.NewPgTaskRepository(db)
	projectRepo := core.NewPgProjectRepository(db)

	hasher := core.NewPasswordHasher(cfg.BcryptCost)
	authService := core.NewRepositoryAuthService(userRepo, hasher)
	codec := core.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	limiter := core.NewLoginRateLimiter(redisClient, cfg.LoginRateLimit, cfg.LoginRateWindow)

	if err := core.LoadSeed(ctx, cfg.SeedPath, projectRepo, taskRepo); err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	router := core.NewRouter(cfg, authService, codec, taskRepo, projectRepo, limiter)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("starting api server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
