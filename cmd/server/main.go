package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "userhub/docs" // swagger docs

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"userhub/internal/auth"
	"userhub/internal/cache"
	"userhub/internal/config"
	"userhub/internal/db"
	"userhub/internal/handler"
	"userhub/internal/logger"
	"userhub/internal/model"
	"userhub/internal/repository"
	"userhub/internal/router"
	"userhub/internal/service"
)

// @title User Management API
// @version 1.0
// @description User management API with cookie-based JWT sessions and self-or-admin authorization.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	zlog, flush := logger.New(logger.Options{
		Level: cfg.LogLevel,
		JSON:  cfg.LogJSON,
		File:  cfg.LogFile,
	})
	defer flush()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher()

	userRepo := repository.NewUserRepository(gormDB)
	userService := service.NewUserService(userRepo, cacheClient, hasher, zlog)
	authService := service.NewAuthService(userRepo, hasher, jwtService, zlog)

	userHandler := handler.NewUserHandler(userService, jwtService, zlog)
	authHandler := handler.NewAuthHandler(authService, cfg.CookieSecure, zlog)

	e := echo.New()
	router.Register(e, cfg, zlog, userHandler, authHandler)

	go func() {
		addr := ":" + cfg.ServerPort
		zlog.Info("server starting", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		zlog.Error("server shutdown", zap.Error(err))
	}
	zlog.Info("server stopped")
}
