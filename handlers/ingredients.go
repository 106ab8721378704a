// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"math/rand/v2"
	"net/http"

	"github.com/randapizza/server/middleware"
	"github.com/randapizza/server/models"
	"github.com/randapizza/server/repo"
)

const (
	defaultRandomIngredients = 5
	maxRandomIngredients     = 10
)

type IngredientHandler struct {
	store *repo.Store
}

func NewIngredientHandler(store *repo.Store) *IngredientHandler {
	return &IngredientHandler{store: store}
}

// GetIngredients handles GET /ingredients
func (h *IngredientHandler) GetIngredients(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.store.Catalog(r.Context())
	if err != nil {
		slog.Error("failed to load ingredient catalog", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, catalog)
}

// RandomPizza handles POST /random-pizza
// Draws a random composition from the catalog: always a dough, maybe a
// cheese, and the rest toppings. For num_ingredients >= 2 at least one
// slot is reserved for a topping, so the draw can be submitted as-is;
// num_ingredients=1 yields a dough-only draw the caller must extend
// before submitting.
func (h *IngredientHandler) RandomPizza(w http.ResponseWriter, r *http.Request) {
	req := models.RandomPizzaRequest{NumIngredients: defaultRandomIngredients}
	if r.ContentLength > 0 {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if req.NumIngredients == 0 {
			req.NumIngredients = defaultRandomIngredients
		}
	}

	if req.NumIngredients < 1 || req.NumIngredients > maxRandomIngredients {
		middleware.ErrorResponse(w, http.StatusBadRequest, "num_ingredients must be between 1 and 10")
		return
	}

	catalog, err := h.store.Catalog(r.Context())
	if err != nil {
		slog.Error("failed to load ingredient catalog", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(catalog.Doughs) == 0 {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Ingredient catalog is empty")
		return
	}

	resp := models.RandomPizzaResponse{
		Dough:    catalog.Doughs[rand.IntN(len(catalog.Doughs))],
		Toppings: []models.Ingredient{},
	}

	remaining := req.NumIngredients - 1

	// Cheese is an optional slot: a coin flip decides whether one of the
	// remaining picks goes to cheese. The last remaining slot is never
	// spent on cheese, so at least one topping is drawn.
	if remaining > 1 && len(catalog.Cheeses) > 0 && rand.IntN(2) == 0 {
		cheese := catalog.Cheeses[rand.IntN(len(catalog.Cheeses))]
		resp.Cheese = &cheese
		remaining--
	}

	if remaining > len(catalog.Toppings) {
		remaining = len(catalog.Toppings)
	}
	if remaining > 0 {
		picks := rand.Perm(len(catalog.Toppings))[:remaining]
		for _, i := range picks {
			resp.Toppings = append(resp.Toppings, catalog.Toppings[i])
		}
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
