package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/tkamanga/gostore-backend/internal/modules/auth"
	"github.com/tkamanga/gostore-backend/internal/modules/catalog"
	"github.com/tkamanga/gostore-backend/internal/modules/order"
	"github.com/tkamanga/gostore-backend/internal/modules/user"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, relying on environment")
	}

	logger := newLogger()
	defer logger.Sync()

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("ping database", zap.Error(err))
	}
	logger.Info("connected to database")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Identity & Auth ─────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	seedAdmin(userRepo, logger)
	authService := auth.NewService(userRepo, jwtSecret)
	auth.NewHandler(authService).RegisterRoutes(router)
	authenticate := auth.Authenticator(authService)

	// ── Catalog ─────────────────────────────────────────────
	categoryRepo := catalog.NewCategoryPostgresRepository(db)
	productRepo := catalog.NewProductPostgresRepository(db)
	catalogService := catalog.NewService(categoryRepo, productRepo)
	catalog.NewHandler(catalogService).RegisterRoutes(router, authenticate)

	// ── Orders ──────────────────────────────────────────────
	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, userRepo, logger)
	order.NewHandler(orderService).RegisterRoutes(router, authenticate)

	// ── Start Server ────────────────────────────────────────
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("api server starting", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// seedAdmin bootstraps the ADMIN account from the environment. Registration
// only issues the USER role, so without this a fresh database has no identity
// that can reach the privileged order routes.
func seedAdmin(userRepo user.Repository, logger *zap.Logger) {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		logger.Warn("ADMIN_PASSWORD not set, skipping admin seed")
		return
	}
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}

	created, err := user.EnsureAdmin(context.Background(), userRepo, username, email, password)
	if err != nil {
		logger.Fatal("seed admin account", zap.Error(err))
	}
	if created {
		logger.Info("admin account created", zap.String("username", username))
	}
}

func newLogger() *zap.Logger {
	var logger *zap.Logger
	var err error
	if os.Getenv("APP_ENV") == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatal(err)
	}
	return logger
}
