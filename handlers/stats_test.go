// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/randapizza/server/auth"
	"github.com/randapizza/server/composition"
	"github.com/randapizza/server/models"
	"github.com/randapizza/server/repo"
	"github.com/randapizza/server/testutil"
)

func TestGetStats(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewStatsHandler(repo.New(conn), cfg)

	testutil.CreateTestRecipe(t, conn, "Popular", composition.Composition{
		DoughID: "wheat", CheeseID: "moz", ToppingIDs: []string{"salami", "onions"},
	}, 8)
	testutil.CreateTestRecipe(t, conn, "Niche", composition.Composition{
		DoughID: "roman", ToppingIDs: []string{"salami"},
	}, 2)

	token := auth.GenerateDashboardToken(cfg.StatsKeySalt)
	req := testutil.MakeRequest("GET", "/business/stats", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	w := httptest.NewRecorder()

	handler.GetStats(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var stats models.BusinessStats
	testutil.AssertJSON(t, w, &stats)

	if stats.TotalPizzas != 2 {
		t.Errorf("Expected 2 pizzas, got %d", stats.TotalPizzas)
	}
	if stats.TotalVotes != 10 {
		t.Errorf("Expected 10 total votes, got %d", stats.TotalVotes)
	}
	if len(stats.VoteDistribution) != 2 {
		t.Errorf("Expected 2 distribution entries, got %d", len(stats.VoteDistribution))
	}
	if len(stats.TopToppings) == 0 {
		t.Error("Expected topping counts")
	}
}

func TestGetStats_Unauthorized(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewStatsHandler(repo.New(conn), cfg)

	testCases := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "wrong scheme", header: "Basic abc123"},
		{name: "empty token", header: "Bearer "},
		{name: "bad token", header: "Bearer not-the-token"},
		{name: "token for another salt", header: "Bearer " + auth.GenerateDashboardToken("other-salt")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var headers map[string]string
			if tc.header != "" {
				headers = map[string]string{"Authorization": tc.header}
			}
			req := testutil.MakeRequest("GET", "/business/stats", nil, headers)
			w := httptest.NewRecorder()

			handler.GetStats(w, req)

			testutil.AssertStatus(t, w, http.StatusUnauthorized)
		})
	}
}
