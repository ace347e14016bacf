package main

import (
	"context"
	"os"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"digikart/internal/config"
	"digikart/internal/db"
	"digikart/internal/logger"
	"digikart/internal/model"
	"digikart/internal/repository"
)

func main() {
	log := logger.New("digikart-seed", os.Getenv("LOG_LEVEL"))
	log.Info().Msg("starting seed script")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.Product{}, &model.Order{}, &model.OrderEvent{}); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)
	products := repository.NewProductRepository(gormDB)

	adminEmail := getenv("SEED_ADMIN_EMAIL", "admin@digikart.local")
	if _, err := users.FindByEmail(ctx, adminEmail); err != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(getenv("SEED_ADMIN_PASSWORD", "changeme123")), 10)
		if err != nil {
			log.Fatal().Err(err).Msg("hash admin password")
		}
		admin := &model.User{
			Name:         "Admin",
			Mobile:       getenv("SEED_ADMIN_MOBILE", "9000000000"),
			Email:        adminEmail,
			PasswordHash: string(hash),
			Role:         model.RoleAdmin,
			Active:       true,
		}
		if err := users.Create(ctx, admin); err != nil {
			log.Fatal().Err(err).Msg("create admin user")
		}
		log.Info().Str("email", adminEmail).Msg("admin user created")
	} else {
		log.Info().Str("email", adminEmail).Msg("admin user already exists, skipping")
	}

	demo := []model.Product{
		{Name: "E-book: Getting Started with Go", Description: "PDF download, 180 pages", Price: decimal.NewFromInt(299)},
		{Name: "Video Course: Web Backends", Description: "12 hours of streaming video", Price: decimal.NewFromInt(1499)},
		{Name: "Icon Pack: Flat UI", Description: "400 SVG icons, commercial licence", Price: decimal.NewFromInt(499)},
	}

	created := 0
	for i := range demo {
		if err := products.Create(ctx, &demo[i]); err != nil {
			log.Warn().Err(err).Str("name", demo[i].Name).Msg("skipping product")
			continue
		}
		created++
	}
	log.Info().Int("created", created).Msg("seed complete")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
