// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/randapizza/server/auth"
	"github.com/randapizza/server/cliparse"
	"github.com/randapizza/server/leaderboard"
	"github.com/randapizza/server/ledger"
	"github.com/randapizza/server/middleware"
	"github.com/randapizza/server/models"
	"github.com/randapizza/server/repo"
)

type LeaderboardHandler struct {
	store  *repo.Store
	ledger *ledger.Ledger
	cache  leaderboard.Cache
	cfg    cliparse.Config
}

func NewLeaderboardHandler(store *repo.Store, led *ledger.Ledger, cache leaderboard.Cache, cfg cliparse.Config) *LeaderboardHandler {
	return &LeaderboardHandler{store: store, ledger: led, cache: cache, cfg: cfg}
}

// voterKey identifies the voter for dedup purposes. Clients send a random
// key in X-Voter-Key; callers without one fall back to a salted IP hash.
func (h *LeaderboardHandler) voterKey(r *http.Request) string {
	if key := r.Header.Get("X-Voter-Key"); key != "" {
		return key
	}
	return auth.HashIP(middleware.GetClientIP(r), h.cfg.StatsKeySalt)
}

// GetLeaderboard handles GET /leaderboard
//
// The ranked board (votes descending, ties in random order) is cached
// briefly and shared between viewers; the per-viewer voted flags are
// annotated on each request.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	board, hit, err := h.cache.Get(ctx)
	if err != nil {
		slog.Warn("leaderboard cache read failed", "error", err)
	}
	if !hit {
		pool, err := h.store.TopByVotes(ctx, h.cfg.LeaderboardPool)
		if err != nil {
			slog.Error("failed to load leaderboard pool", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		board = leaderboard.Rank(pool, h.cfg.LeaderboardTopN)
		if err := h.cache.Set(ctx, board); err != nil {
			slog.Warn("leaderboard cache write failed", "error", err)
		}
	}

	voted, err := h.ledger.Voted(ctx, h.voterKey(r))
	if err != nil {
		slog.Error("failed to load vote records", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.LeaderboardResponse{Recipes: []models.LeaderboardEntry{}}
	for _, rec := range board {
		resp.Recipes = append(resp.Recipes, models.LeaderboardEntry{
			Recipe: rec,
			Voted:  voted[rec.ID],
		})
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Vote handles POST /recipes/{id}/vote
//
// The ledger record and the counter move commit in one transaction: a
// duplicate vote is absorbed by the record's primary key and rejected with
// 409 without touching the count, and a failed count update rolls the
// record back so the voter can retry. Downvotes clamp at zero.
func (h *LeaderboardHandler) Vote(w http.ResponseWriter, r *http.Request) {
	recipeID := r.PathValue("id")
	if recipeID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "recipe id is required")
		return
	}

	// Default to an upvote when there is no body
	req := models.VoteRequest{Up: true}
	if r.ContentLength > 0 {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	ctx := r.Context()

	if _, err := h.store.Get(ctx, recipeID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Recipe not found")
			return
		}
		slog.Error("failed to load recipe", "error", err, "recipe_id", recipeID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	delta := 1
	if !req.Up {
		delta = -1
	}
	votes, recorded, err := h.store.CastVote(ctx, h.voterKey(r), recipeID, delta)
	if err != nil {
		slog.Error("failed to cast vote", "error", err, "recipe_id", recipeID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !recorded {
		middleware.ErrorResponse(w, http.StatusConflict, "You already voted for this recipe")
		return
	}

	if err := h.cache.Invalidate(ctx); err != nil {
		slog.Warn("failed to invalidate leaderboard cache", "error", err)
	}

	slog.Info("vote recorded", "recipe_id", recipeID, "up", req.Up, "votes", votes)

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		RecipeID: recipeID,
		Votes:    votes,
	})
}
