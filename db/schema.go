// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	"github.com/randapizza/server/models"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS. The SQL sticks to the
// dialect subset shared by PostgreSQL and SQLite so either driver works.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Ingredient catalog
CREATE TABLE IF NOT EXISTS ingredient (
    id TEXT PRIMARY KEY,
    category TEXT NOT NULL CHECK (category IN ('doughs', 'cheeses', 'toppings')),
    name TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_ingredient_category ON ingredient(category);

-- Recipes
-- fingerprint is the order-independent encoding of the composition; its
-- UNIQUE constraint is what enforces the no-duplicate-composition invariant
-- under concurrent submissions.
CREATE TABLE IF NOT EXISTS recipe (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    dough_id TEXT NOT NULL REFERENCES ingredient(id),
    cheese_id TEXT REFERENCES ingredient(id),
    fingerprint TEXT NOT NULL UNIQUE,
    votes INTEGER NOT NULL DEFAULT 1 CHECK (votes >= 0),
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recipe_votes ON recipe(votes);

-- Recipe topping set
CREATE TABLE IF NOT EXISTS recipe_topping (
    recipe_id TEXT NOT NULL REFERENCES recipe(id) ON DELETE CASCADE,
    topping_id TEXT NOT NULL REFERENCES ingredient(id),
    PRIMARY KEY (recipe_id, topping_id)
);

CREATE INDEX IF NOT EXISTS idx_recipe_topping_topping ON recipe_topping(topping_id);

-- Vote ledger
-- One row per voter per recipe; the composite primary key makes recording
-- a vote idempotent and the one-vote-per-voter invariant server-enforced.
CREATE TABLE IF NOT EXISTS vote_record (
    voter_key TEXT NOT NULL,
    recipe_id TEXT NOT NULL REFERENCES recipe(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (voter_key, recipe_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_record_recipe ON vote_record(recipe_id);
`

type seedIngredient struct {
	id   string
	name string
}

// Default ingredient catalog.
var defaultCatalog = map[string][]seedIngredient{
	models.CategoryDoughs: {
		{"wheat", "Classic Wheat"},
		{"roman", "Roman"},
		{"neap", "Neapolitan"},
		{"flam", "American/Flammkuchen"},
	},
	models.CategoryCheeses: {
		{"moz", "Mozzarella"},
		{"gou", "Gouda"},
		{"emm", "Emmentaler"},
		{"eda", "Edamer"},
	},
	models.CategoryToppings: {
		{"salami", "Salami"},
		{"ham", "Ham"},
		{"tuna", "Tuna"},
		{"moz-top", "Mozzarella"},
		{"onions", "Onions"},
		{"mush", "Mushrooms"},
		{"pineapple", "Pineapple"},
		{"peppers", "Peppers"},
		{"garlic", "Garlic"},
		{"doner", "Döner"},
		{"gyros", "Gyros"},
		{"sucuk", "Sucuk"},
	},
}

// SeedCatalog inserts the default ingredient catalog if the table is empty.
// An already-populated catalog is left untouched.
func SeedCatalog(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM ingredient").Scan(&count); err != nil {
		return fmt.Errorf("failed to count ingredients: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, category := range []string{models.CategoryDoughs, models.CategoryCheeses, models.CategoryToppings} {
		for pos, ing := range defaultCatalog[category] {
			_, err := tx.Exec(`
				INSERT INTO ingredient (id, category, name, position)
				VALUES ($1, $2, $3, $4)
			`, ing.id, category, ing.name, pos)
			if err != nil {
				return fmt.Errorf("failed to seed ingredient %s: %w", ing.id, err)
			}
		}
	}

	return tx.Commit()
}
