// Command create-admin creates an administrator account or promotes an
// existing account to administrator and resets its password.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/FACorreiaa/masir/internal/app/domain/auth"
	"github.com/FACorreiaa/masir/internal/app/models"
	"github.com/FACorreiaa/masir/internal/app/validation"
	database "github.com/FACorreiaa/masir/internal/db"
	"github.com/FACorreiaa/masir/internal/pkg/config"
	"github.com/FACorreiaa/masir/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	email := flag.String("email", "", "admin email")
	name := flag.String("name", "Administrator", "admin full name")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (defaults to $ADMIN_PASSWORD)")
	flag.Parse()

	req := models.RegisterRequest{Email: *email, Password: *password, FullName: *name}
	req.Normalize()
	if err := validation.Struct(&req); err != nil {
		if msg, ok := validation.Message(err); ok {
			return fmt.Errorf("invalid admin details: %s", msg)
		}
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(logger.ParseLevel(cfg.LogLevel), zap.String("command", "create-admin")); err != nil {
		return err
	}
	l := logger.Log

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dbConfig, err := database.NewDatabaseConfig(cfg, l)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(dbConfig.ConnectionURL, l); err != nil {
		return err
	}
	pool, err := database.Init(dbConfig.ConnectionURL, cfg.Repositories.Postgres, l)
	if err != nil {
		return err
	}
	defer pool.Close()
	if !database.WaitForDB(ctx, pool, l) {
		return fmt.Errorf("database did not become ready")
	}

	service := auth.NewAuthService(
		auth.NewPostgresAuthRepo(pool, l),
		auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration),
		l,
	)
	user, err := service.CreateAdmin(ctx, req.Email, req.FullName, req.Password)
	if err != nil {
		return err
	}

	fmt.Printf("admin %s ready (id %s)\n", user.Email, user.ID)
	return nil
}
