package main

import (
	"net/http"
	"os"

	_ "digikart/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"digikart/internal/auth"
	"digikart/internal/config"
	"digikart/internal/db"
	"digikart/internal/gateway"
	"digikart/internal/handler"
	"digikart/internal/logger"
	"digikart/internal/mailer"
	"digikart/internal/model"
	"digikart/internal/repository"
	"digikart/internal/router"
	"digikart/internal/service"
)

// @title Digikart API
// @version 1.0
// @description Digital-goods marketplace backend: session lifecycle and order/payment reconciliation.
// @host localhost:4000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := logger.New("digikart", os.Getenv("LOG_LEVEL"))

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Warn().Msg("RESET_DB=true detected, dropping all tables")
		tables := []interface{}{
			&model.OrderEvent{},
			&model.Order{},
			&model.Product{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Warn().Err(err).Msg("drop table failed (may not exist)")
			}
		}
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Order{},
		&model.OrderEvent{},
	); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	denylist := auth.NewDenylist(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	tokens := auth.NewTokenService(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)
	orderEventRepo := repository.NewOrderEventRepository(gormDB)

	// External collaborators
	razorpay := gateway.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	mail := mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.SMTPFromName)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokens, denylist, mail, log)
	orderService := service.NewOrderService(orderRepo, orderEventRepo, productRepo, razorpay, cfg.RazorpayKeySecret, log)
	defer orderService.Close()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	orderHandler := handler.NewOrderHandler(orderService)

	// Register routes
	router.Register(e, cfg, log, tokens, denylist, userRepo, authHandler, orderHandler)

	log.Info().Str("port", cfg.ServerPort).Msg("starting server")
	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server start")
	}
}
