package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-identity-directory/config"
	"github.com/oksasatya/go-identity-directory/internal/application"
	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
	pginfra "github.com/oksasatya/go-identity-directory/internal/infrastructure/postgres"
	"github.com/oksasatya/go-identity-directory/pkg/helpers"
)

// seed creates the first ADMIN account, already verified. Creation goes
// through the service so the account passes the same validation as any other.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Fatal("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
		AppName:         cfg.AppName + "-seed",
		MaxConns:        2,
		MaxConnLifetime: cfg.DBMaxConnLife,
	})
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	repo := pginfra.NewUserRepository(pool)
	svc := application.NewService(repo, helpers.BcryptHasher{}, nil, nil, logger)

	seeder := application.Principal{UserID: "seed", Role: entity.RoleAdmin}
	u, err := svc.Create(ctx, seeder, map[string]any{
		"email":    email,
		"password": password,
		"role":     string(entity.RoleAdmin),
		"nickname": os.Getenv("SEED_ADMIN_NICKNAME"),
	})
	switch {
	case errors.Is(err, apperror.ErrDuplicateEmail):
		logger.WithField("email", email).Info("admin already seeded")
		return
	case err != nil:
		logger.Fatalf("failed to seed admin: %v", err)
	}
	if err := repo.SetEmailVerified(ctx, u.ID, true); err != nil {
		logger.Fatalf("failed to verify seeded admin: %v", err)
	}
	logger.WithField("user_id", u.ID).WithField("email", u.Email).Info("seeded admin")
}
