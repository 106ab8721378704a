// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/randapizza/server/cliparse"
	"github.com/randapizza/server/handlers"
	"github.com/randapizza/server/leaderboard"
	"github.com/randapizza/server/ledger"
	"github.com/randapizza/server/middleware"
	"github.com/randapizza/server/repo"
)

func NewRouter(db *sql.DB, cache leaderboard.Cache, limiter *middleware.LimiterStore, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	store := repo.New(db)
	led := ledger.New(db)

	// Initialize handlers
	ingredientHandler := handlers.NewIngredientHandler(store)
	recipeHandler := handlers.NewRecipeHandler(store, cache, cfg)
	leaderboardHandler := handlers.NewLeaderboardHandler(store, led, cache, cfg)
	statsHandler := handlers.NewStatsHandler(store, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Ingredient catalog (public)
	mux.HandleFunc("GET /ingredients", middleware.WithLogging(ingredientHandler.GetIngredients))
	mux.HandleFunc("POST /random-pizza", middleware.WithLogging(ingredientHandler.RandomPizza))

	// Recipe submission and voting (public, rate limited)
	mux.HandleFunc("POST /recipes", middleware.WithLogging(middleware.RateLimit(limiter, recipeHandler.SubmitRecipe)))
	mux.HandleFunc("POST /recipes/{id}/vote", middleware.WithLogging(middleware.RateLimit(limiter, leaderboardHandler.Vote)))

	// Leaderboard (public)
	mux.HandleFunc("GET /leaderboard", middleware.WithLogging(leaderboardHandler.GetLeaderboard))

	// Business dashboard (requires bearer token)
	mux.HandleFunc("GET /business/stats", middleware.WithLogging(statsHandler.GetStats))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("rand-a-pizza API v1"))
	})

	return mux
}
