// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/randapizza/server/cliparse"
	"github.com/randapizza/server/composition"
	"github.com/randapizza/server/leaderboard"
	"github.com/randapizza/server/middleware"
	"github.com/randapizza/server/models"
	"github.com/randapizza/server/repo"
	"github.com/randapizza/server/submit"
)

type RecipeHandler struct {
	store *repo.Store
	cache leaderboard.Cache
	cfg   cliparse.Config
}

func NewRecipeHandler(store *repo.Store, cache leaderboard.Cache, cfg cliparse.Config) *RecipeHandler {
	return &RecipeHandler{store: store, cache: cache, cfg: cfg}
}

// SubmitRecipe handles POST /recipes
//
// One request drives a full submission attempt: build the composition,
// search for a stored recipe with the same one (and give it the vote), or
// persist a new recipe under the submitted name. A new composition with a
// blank name is rejected with 422 so the client can prompt for a name and
// resubmit.
func (h *RecipeHandler) SubmitRecipe(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitRecipeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	comp := composition.Composition{
		DoughID:    req.DoughID,
		CheeseID:   req.CheeseID,
		ToppingIDs: req.ToppingIDs,
	}
	if err := comp.Validate(); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.CheckComposition(r.Context(), comp); err != nil {
		var vErr *composition.ValidationError
		if errors.As(err, &vErr) {
			middleware.ErrorResponse(w, http.StatusBadRequest, vErr.Error())
			return
		}
		slog.Error("failed to check composition", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	coord := submit.New(h.store,
		submit.WithTimeout(h.cfg.SubmitTimeout),
		submit.WithMaxRetries(h.cfg.SubmitMaxRetries),
	)
	if err := coord.SelectDough(req.DoughID); err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Submission error")
		return
	}
	if req.CheeseID != "" {
		if err := coord.SelectCheese(req.CheeseID); err != nil {
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Submission error")
			return
		}
	}
	for _, toppingID := range req.ToppingIDs {
		if err := coord.ToggleTopping(toppingID); err != nil {
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Submission error")
			return
		}
	}

	result, err := coord.Submit(r.Context())
	if errors.Is(err, submit.ErrNameRequired) {
		if strings.TrimSpace(req.Name) == "" {
			middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "name_required")
			return
		}
		result, err = coord.Name(r.Context(), req.Name)
	}
	if err != nil {
		h.writeSubmitError(w, err)
		return
	}

	if err := h.cache.Invalidate(r.Context()); err != nil {
		slog.Warn("failed to invalidate leaderboard cache", "error", err)
	}

	if result.Created {
		slog.Info("recipe created", "recipe_id", result.Recipe.ID, "name", result.Recipe.Name)
		middleware.JSONResponse(w, http.StatusCreated, models.SubmitRecipeResponse{
			Status: models.SubmitCreated,
			Recipe: *result.Recipe,
		})
		return
	}

	slog.Info("recipe matched", "recipe_id", result.Recipe.ID, "votes", result.Recipe.Votes)
	middleware.JSONResponse(w, http.StatusOK, models.SubmitRecipeResponse{
		Status: models.SubmitMatched,
		Recipe: *result.Recipe,
	})
}

func (h *RecipeHandler) writeSubmitError(w http.ResponseWriter, err error) {
	var vErr *composition.ValidationError
	switch {
	case errors.As(err, &vErr):
		middleware.ErrorResponse(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, submit.ErrConflictRetryExhausted):
		middleware.ErrorResponse(w, http.StatusConflict, "Too many concurrent submissions, try again")
	case errors.Is(err, submit.ErrRepositoryUnavailable):
		slog.Error("recipe repository unavailable", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Recipe store unavailable, try again later")
	default:
		slog.Error("submission failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Submission error")
	}
}
