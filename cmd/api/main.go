package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/lmezg/triptab/docs"
	"github.com/lmezg/triptab/internal/balance"
	"github.com/lmezg/triptab/internal/config"
	"github.com/lmezg/triptab/internal/database"
	"github.com/lmezg/triptab/internal/expense"
	"github.com/lmezg/triptab/internal/notification"
	"github.com/lmezg/triptab/internal/settlement"
	"github.com/lmezg/triptab/internal/trip"
	"github.com/lmezg/triptab/internal/user"
	"github.com/lmezg/triptab/pkg/auth"
	"github.com/lmezg/triptab/pkg/logging"
	"github.com/lmezg/triptab/pkg/metrics"
	mw "github.com/lmezg/triptab/pkg/middleware"
)

// @title        TripTab API
// @version      1.0
// @description  Expense splitting and settlement API for group trips.
// @BasePath     /api/v1
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to database")

	// Redis client for the balance cache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	// Notification feature
	notificationRepo := notification.NewRepository(db)
	notificationService := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notificationService)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, jwtManager)
	userHandler := user.NewHandler(userService)

	// Trip feature
	tripRepo := trip.NewRepository(db)
	tripService := trip.NewService(tripRepo, notificationService)
	tripHandler := trip.NewHandler(tripService)

	// Balance feature: aggregator wrapped in a redis read-through cache
	balanceRepo := balance.NewRepository(db)
	balanceCache := balance.NewCache(rdb, balanceRepo)
	balanceHandler := balance.NewHandler(balanceCache)

	// Expense feature
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, balanceCache, notificationService)
	expenseHandler := expense.NewHandler(expenseService)

	// Settlement feature
	settlementRepo := settlement.NewRepository(db)
	settlementService := settlement.NewService(settlementRepo, balanceCache, balanceCache, notificationService)
	settlementHandler := settlement.NewHandler(settlementService)

	r := chi.NewRouter()

	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Mount("/auth", userHandler.AuthRoutes())

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(jwtManager))

			r.Mount("/users", userHandler.Routes())
			r.Mount("/trips", tripHandler.Routes())
			r.Mount("/expenses", expenseHandler.Routes())
			r.Mount("/settlements", settlementHandler.Routes())
			r.Mount("/balances", balanceHandler.Routes())
			r.Mount("/notifications", notificationHandler.Routes())
		})
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	slog.Info("server starting", "port", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
