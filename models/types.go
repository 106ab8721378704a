// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Ingredient category constants
const (
	CategoryDoughs   = "doughs"
	CategoryCheeses  = "cheeses"
	CategoryToppings = "toppings"
)

// Submission outcome constants
const (
	SubmitCreated = "created"
	SubmitMatched = "matched"
)

// Request types

type SubmitRecipeRequest struct {
	Name       string   `json:"name"`
	DoughID    string   `json:"dough_id"`
	CheeseID   string   `json:"cheese_id,omitempty"`
	ToppingIDs []string `json:"topping_ids"`
}

type VoteRequest struct {
	Up bool `json:"up"`
}

// num_ingredients covers dough + cheese + toppings combined (1-10)
type RandomPizzaRequest struct {
	NumIngredients int `json:"num_ingredients"`
}

// Response types

type SubmitRecipeResponse struct {
	Status string `json:"status"` // "created" or "matched"
	Recipe Recipe `json:"recipe"`
}

type VoteResponse struct {
	RecipeID string `json:"recipe_id"`
	Votes    int    `json:"votes"`
}

type CatalogResponse struct {
	Doughs   []Ingredient `json:"doughs"`
	Cheeses  []Ingredient `json:"cheeses"`
	Toppings []Ingredient `json:"toppings"`
}

type RandomPizzaResponse struct {
	Dough    Ingredient   `json:"dough"`
	Cheese   *Ingredient  `json:"cheese,omitempty"`
	Toppings []Ingredient `json:"toppings"`
}

type LeaderboardEntry struct {
	Recipe
	Voted bool `json:"voted"`
}

type LeaderboardResponse struct {
	Recipes []LeaderboardEntry `json:"recipes"`
}

// Domain types

type Ingredient struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Recipe struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Dough     Ingredient   `json:"dough"`
	Cheese    *Ingredient  `json:"cheese,omitempty"`
	Toppings  []Ingredient `json:"toppings"`
	Votes     int          `json:"votes"`
	CreatedAt time.Time    `json:"created_at"`
}

// Business statistics types (analytics dashboard contract)

type RecipeIngredients struct {
	Dough    string   `json:"dough"`
	Cheese   string   `json:"cheese,omitempty"`
	Toppings []string `json:"toppings"`
}

type VoteBucket struct {
	Name        string            `json:"name"`
	Votes       int               `json:"votes"`
	Ingredients RecipeIngredients `json:"payload_ingredients"`
}

type ToppingCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type BusinessStats struct {
	TotalPizzas      int            `json:"total_pizzas"`
	TotalVotes       int            `json:"total_votes"`
	VoteDistribution []VoteBucket   `json:"vote_distribution"`
	TopToppings      []ToppingCount `json:"top_toppings"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
