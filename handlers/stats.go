// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/randapizza/server/auth"
	"github.com/randapizza/server/cliparse"
	"github.com/randapizza/server/middleware"
	"github.com/randapizza/server/repo"
)

type StatsHandler struct {
	store *repo.Store
	cfg   cliparse.Config
}

func NewStatsHandler(store *repo.Store, cfg cliparse.Config) *StatsHandler {
	return &StatsHandler{store: store, cfg: cfg}
}

// GetStats handles GET /business/stats
// Requires a bearer token derived from the stats salt.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Bearer token required")
		return
	}
	if err := auth.ValidateDashboardToken(token, h.cfg.StatsKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid dashboard token")
		return
	}

	stats, err := h.store.Stats(r.Context())
	if err != nil {
		slog.Error("failed to compute business stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}
