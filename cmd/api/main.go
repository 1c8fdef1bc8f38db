package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"moodmate/internal/config"
	"moodmate/internal/db"
	apihttp "moodmate/internal/http"
	"moodmate/internal/llm"
	"moodmate/internal/repository"
	"moodmate/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	chatRepo := repository.NewPgChatRepository(pool)
	moodRepo := repository.NewPgMoodRepository(pool)

	var recallRepo repository.RecallRepository
	if err := db.RunRecallMigration(ctx, pool); err != nil {
		logger.Warn("recall migration failed, continuing without recall", zap.Error(err))
	} else {
		recallRepo = repository.NewPgRecallRepository(pool)
	}

	llmClient := llm.NewHTTPClient(
		cfg.LLMBaseURL,
		cfg.LLMAPIKey,
		cfg.LLMModel,
		cfg.LLMEmbedModel,
		time.Duration(cfg.LLMTimeoutSeconds)*time.Second,
		logger,
	)

	var (
		tokenStore   service.RefreshTokenStore
		loginLimiter service.LoginRateLimiter
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, 10*time.Minute, 10)
		}
		cancel()
	}
	if loginLimiter == nil {
		loginLimiter = service.NewLoginRateLimiter(10*time.Minute, 10)
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)

	userSvc := service.NewUserService(logger, userRepo)
	chatSvc := service.NewChatService(chatRepo)
	moodSvc := service.NewMoodService(moodRepo)
	responderSvc := service.NewResponderService(
		logger,
		llmClient,
		chatSvc,
		moodSvc,
		recallRepo,
		time.Duration(cfg.LLMTimeoutSeconds)*time.Second,
	)

	authHandler := apihttp.NewAuthHandler(logger, userSvc, jwtSvc, loginLimiter, cfg.CookieSecure)
	chatHandler := apihttp.NewChatHandler(logger, chatSvc, responderSvc)
	moodHandler := apihttp.NewMoodHandler(logger, moodSvc)
	router := apihttp.NewRouter(logger, pool, jwtSvc, authHandler, chatHandler, moodHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown initiated")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
