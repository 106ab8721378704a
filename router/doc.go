// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Rand-a-Pizza API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cache, limiter, cfg)

# Endpoints

Health:

	GET /health

Ingredient catalog:

	GET  /ingredients  - Full catalog grouped by category
	POST /random-pizza - Random composition suggestion

Recipes (rate limited per caller):

	POST /recipes           - Submit a composition (find-or-create)
	POST /recipes/{id}/vote - Cast a vote (one per voter per recipe)

Leaderboard:

	GET /leaderboard - Top recipes, votes descending, ties randomized

Business dashboard (requires Authorization: Bearer token):

	GET /business/stats

# Handler Initialization

The router builds the repository, ledger, and handler instances itself;
callers supply the database connection, leaderboard cache, rate limiter
store, and configuration.
*/
package router
