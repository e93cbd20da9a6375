package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"peak-tracker/internal/config"
	"peak-tracker/internal/db"
	apihttp "peak-tracker/internal/http"
	"peak-tracker/internal/repository"
	"peak-tracker/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
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

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	peakRepo := repository.NewPgPeakRepository(pool)

	tokenSvc := service.NewTokenService(
		cfg.JWTSecret,
		time.Duration(cfg.JWTTTLHours)*time.Hour,
	)
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	sessionSvc := service.NewSessionService(logger, userRepo, hasher, tokenSvc)

	sessionHandler := apihttp.NewSessionHandler(logger, sessionSvc)
	peakHandler := apihttp.NewPeakHandler(logger, userRepo, peakRepo)
	router := apihttp.NewRouter(logger, tokenSvc, sessionHandler, peakHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
