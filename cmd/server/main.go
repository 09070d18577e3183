// @title         login-service API
// @version       1.0
// @description   Username/password authentication backend issuing signed session tokens with role-gated routes.
// @BasePath      /api
// @schemes       http
// @host          localhost:8080
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Authorization token in the form "Bearer <JWT>".
package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	swagger "github.com/gofiber/swagger"

	_ "github.com/dmoreira/login-service/docs"

	httpapi "github.com/dmoreira/login-service/api/http"
	"github.com/dmoreira/login-service/api/http/handlers"
	"github.com/dmoreira/login-service/pkg/auth"
	"github.com/dmoreira/login-service/pkg/config"
	"github.com/dmoreira/login-service/pkg/health"
	"github.com/dmoreira/login-service/pkg/repository/memory"
	pgrepo "github.com/dmoreira/login-service/pkg/repository/postgres"
	"github.com/dmoreira/login-service/pkg/security/jwt"
	"github.com/dmoreira/login-service/pkg/storage/postgres"
)

func main() {
	app := fiber.New()
	app.Use(cors.New())

	// Load configuration from env/.env
	cfg := config.Load()

	// Pick the user store: PostgreSQL when configured, in-memory otherwise.
	var userRepo auth.UserRepository
	var checkers []health.Checker
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres connect: %v", err)
		}
		defer pool.Close()

		repo, err := pgrepo.NewUserRepository(pool)
		if err != nil {
			log.Fatalf("init user repo: %v", err)
		}
		userRepo = repo
		checkers = append(checkers, health.NewPostgresChecker(pool))
	} else {
		log.Print("DATABASE_URL not set, using in-memory user store")
		userRepo = memory.NewUserRepository()
	}

	// Wire dependencies (Clean Architecture)
	tokens := jwt.NewGenerator(cfg.JWTSecret, cfg.JWTIssuer, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	hasher := auth.NewHasher(cfg.BcryptCost)

	authUC := auth.NewAuthService(userRepo, hasher, tokens)
	authHandler := handlers.NewAuthHandler(authUC)

	readiness := health.NewService(checkers...)
	healthHandler := handlers.NewHealthHandler(readiness)

	// Register routes
	httpapi.Register(app, authHandler, healthHandler, tokens)

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Start server
	log.Printf("HTTP server listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
