// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Rand-a-Pizza API.

# Handler Types

Each handler is a struct with its dependencies injected via constructor:

  - IngredientHandler: Catalog retrieval and random pizza generation
  - RecipeHandler: Recipe submission (find-or-create with vote merging)
  - LeaderboardHandler: Ranked board retrieval and voting
  - StatsHandler: Analytics for the business dashboard

# Submission Flow

A submission is one POST carrying the full composition:

	POST /recipes → SubmitRecipe

The handler checks every ingredient against the catalog, then drives a
submission attempt through the submit coordinator. A composition already
on file receives the vote and comes back with status "matched" (200); an
unseen composition is stored under the submitted name with one vote and
comes back with status "created" (201). A new composition submitted
without a name is rejected with 422 and the message "name_required" so
the client can prompt and resubmit.

# Voting Flow

Voters are identified by the X-Voter-Key header (falling back to a
salted IP hash):

	GET  /leaderboard         → GetLeaderboard (per-viewer voted flags)
	POST /recipes/{id}/vote   → Vote (one vote per voter per recipe)

A duplicate vote returns 409 without changing the count.

# Business Dashboard

	GET /business/stats → GetStats

Requires an Authorization: Bearer token derived from the stats salt.
*/
package handlers
