// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns schema creation and catalog seeding.

# Schema

CreateSchema is idempotent and creates four tables:

  - ingredient: the read-only catalog (doughs, cheeses, toppings)
  - recipe: one row per unique composition, UNIQUE(fingerprint)
  - recipe_topping: the recipe's topping set
  - vote_record: the server-side vote ledger, PRIMARY KEY(voter_key, recipe_id)

The recipe.fingerprint UNIQUE constraint is the load-bearing piece: duplicate
detection happens in the database, not by scanning recipes in application
code, so concurrent submissions of the same composition cannot both insert.

# Seeding

SeedCatalog populates the ingredient table with the default dataset when the
table is empty, and is a no-op otherwise.

The SQL avoids PostgreSQL-only constructs (SERIAL, NOW(), JSONB) so the same
schema runs on both lib/pq and modernc.org/sqlite.
*/
package db
