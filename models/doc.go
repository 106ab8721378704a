// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SubmitRecipeRequest: name, dough_id, cheese_id, topping_ids
  - VoteRequest: up (true = +1, false = -1, floor-clamped at 0)
  - RandomPizzaRequest: num_ingredients (1-10)

# Response Types

Types for JSON responses:

  - SubmitRecipeResponse: status ("created" or "matched"), recipe
  - VoteResponse: recipe_id, votes
  - CatalogResponse: doughs, cheeses, toppings
  - RandomPizzaResponse: dough, cheese, toppings
  - LeaderboardResponse: recipes (each annotated with voted)
  - BusinessStats: total_pizzas, total_votes, vote_distribution, top_toppings
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Ingredient: stable id plus display name
  - Recipe: display name, dough, optional cheese, topping set, vote counter

Recipe identity is its ingredient composition, not its name; the composition
package owns that equality relation.

# Constants

Ingredient categories:

	CategoryDoughs   = "doughs"
	CategoryCheeses  = "cheeses"
	CategoryToppings = "toppings"

Submission outcomes:

	SubmitCreated = "created"
	SubmitMatched = "matched"
*/
package models
