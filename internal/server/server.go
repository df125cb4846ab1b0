package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/TimDeve/slice-n-dice/internal/config"
	"github.com/TimDeve/slice-n-dice/internal/database"
	"github.com/TimDeve/slice-n-dice/internal/handlers"
	"github.com/TimDeve/slice-n-dice/internal/metrics"
	"github.com/TimDeve/slice-n-dice/internal/middleware"
	"github.com/TimDeve/slice-n-dice/internal/models"
	"github.com/TimDeve/slice-n-dice/internal/repository"
	"github.com/TimDeve/slice-n-dice/internal/services"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	router *chi.Mux
	config config.Config
}

func New(db *sql.DB, cfg config.Config, sessionService *services.SessionService, collector *metrics.Collector) *Server {
	recipeRepo := repository.NewRecipeRepository(db)
	dayRepo := repository.NewDayRepository(db)
	foodRepo := repository.NewFoodRepository(db)
	tokenRepo := repository.NewAPITokenRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	selector := services.NewRecipeSelector(recipeRepo)
	mealService := services.NewMealService(dayRepo, recipeRepo, selector, collector)

	authHandler := handlers.NewAuthHandler(sessionService)
	dayHandler := handlers.NewDayHandler(mealService)
	recipeHandler := handlers.NewRecipeHandler(recipeRepo)
	foodHandler := handlers.NewFoodHandler(foodRepo)
	tokenHandler := handlers.NewTokenHandler(tokenRepo)
	settingsHandler := handlers.NewSettingsHandler(settingsRepo)
	icalHandler := handlers.NewICalHandler(mealService, tokenRepo, settingsRepo, cfg.CalendarToken)

	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Unfilled-Meals"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(collector.Middleware)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if _, err := database.Version(r.Context(), db); err != nil {
			slog.Error("health check", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	router.Handle("/metrics", collector.Handler())
	router.Get("/ical", icalHandler.Feed)

	router.Route("/api/v0", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/authenticated", authHandler.Authenticated)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(sessionService, tokenRepo))

			r.Get("/days", dayHandler.List)
			r.Get("/days/{date}", dayHandler.Get)
			r.Put("/days/{date}/randomize", dayHandler.Randomize(models.MealTypeBoth))
			r.Put("/days/{date}/lunch/randomize", dayHandler.Randomize(models.MealTypeLunch))
			r.Put("/days/{date}/dinner/randomize", dayHandler.Randomize(models.MealTypeDinner))
			r.Put("/days/{date}/cheat", dayHandler.Cheat(models.MealTypeBoth))
			r.Put("/days/{date}/lunch/cheat", dayHandler.Cheat(models.MealTypeLunch))
			r.Put("/days/{date}/dinner/cheat", dayHandler.Cheat(models.MealTypeDinner))

			r.Get("/recipes", recipeHandler.List)
			r.Post("/recipes", recipeHandler.Create)
			r.Get("/recipes/{id}", recipeHandler.Get)
			r.Put("/recipes/{id}", recipeHandler.Update)
			r.Delete("/recipes/{id}", recipeHandler.Delete)

			r.Get("/foods", foodHandler.List)
			r.Post("/foods", foodHandler.Create)
			r.Delete("/foods/{id}", foodHandler.Delete)

			r.Get("/tokens", tokenHandler.List)
			r.Post("/tokens", tokenHandler.Create)
			r.Delete("/tokens/{id}", tokenHandler.Delete)

			r.Get("/settings", settingsHandler.Get)
			r.Put("/settings", settingsHandler.Update)
		})
	})

	return &Server{
		router: router,
		config: cfg,
	}
}

func (server *Server) Handler() http.Handler {
	return server.router
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (server *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              ":" + server.config.Port,
		Handler:           server.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		slog.Info("starting server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down server")
		shutdownContext, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownContext)
	})
	return group.Wait()
}
