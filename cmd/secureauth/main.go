package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/secureauth/secureauth/api"
	"github.com/secureauth/secureauth/config"
	"github.com/secureauth/secureauth/flow"
	"github.com/secureauth/secureauth/gormstore"
	"github.com/secureauth/secureauth/logger"
	"github.com/secureauth/secureauth/token"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger.InitLogger(cfg.LogLevel)
	defer logger.Log.Sync()

	logger.Log.Info("starting secureauth service",
		zap.Int("port", cfg.Port),
		zap.String("db_type", cfg.DBType),
	)

	repo, err := gormstore.Open(cfg.DBType, cfg.DSN)
	if err != nil {
		logger.Log.Fatal("failed to initialize repository", zap.Error(err))
	}

	tokens, err := token.NewService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Log.Fatal("failed to initialize token service", zap.Error(err))
	}

	hasher := flow.NewBcryptHasher(cfg.BcryptCost)
	limiter := flow.NewFixedWindowRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	svc := flow.NewService(repo, hasher, tokens, limiter, logger.Log)
	h := api.NewHandler(svc, tokens, logger.Log)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit("10K"))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	g := e.Group("/api/auth")
	h.RegisterRoutes(g)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("shutdown failed", zap.Error(err))
	}
}
