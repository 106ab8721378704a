// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/randapizza/server/composition"
	"github.com/randapizza/server/models"
)

var (
	// ErrNotFound reports that no recipe matched the lookup.
	ErrNotFound = errors.New("recipe not found")
	// ErrConflict reports a retryable concurrent-write failure
	// (serialization failure, deadlock, or a locked sqlite database).
	ErrConflict = errors.New("conflicting concurrent write")
)

// Store is the durable recipe repository. All invariant enforcement lives
// here: composition uniqueness via the fingerprint constraint and the
// vote floor via AdjustVotes.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectRecipe = `
	SELECT r.id, r.name, r.votes, r.created_at,
	       d.id, d.name,
	       c.id, c.name
	FROM recipe r
	JOIN ingredient d ON d.id = r.dough_id
	LEFT JOIN ingredient c ON c.id = r.cheese_id
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*models.Recipe, error) {
	var rec models.Recipe
	var cheeseID, cheeseName sql.NullString
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Votes, &rec.CreatedAt,
		&rec.Dough.ID, &rec.Dough.Name,
		&cheeseID, &cheeseName,
	)
	if err != nil {
		return nil, err
	}
	if cheeseID.Valid {
		rec.Cheese = &models.Ingredient{ID: cheeseID.String, Name: cheeseName.String}
	}
	return &rec, nil
}

func (s *Store) toppings(ctx context.Context, recipeID string) ([]models.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.name
		FROM recipe_topping rt
		JOIN ingredient i ON i.id = rt.topping_id
		WHERE rt.recipe_id = $1
		ORDER BY i.id
	`, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	toppings := []models.Ingredient{}
	for rows.Next() {
		var ing models.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name); err != nil {
			return nil, err
		}
		toppings = append(toppings, ing)
	}
	return toppings, rows.Err()
}

// Get loads a single recipe with its ingredient names resolved.
func (s *Store) Get(ctx context.Context, id string) (*models.Recipe, error) {
	rec, err := scanRecipe(s.db.QueryRowContext(ctx, selectRecipe+` WHERE r.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, classify(err)
	}

	rec.Toppings, err = s.toppings(ctx, rec.ID)
	if err != nil {
		return nil, classify(err)
	}
	return rec, nil
}

// IncrementByFingerprint atomically adds one vote to the recipe holding the
// given composition fingerprint. Returns ErrNotFound when no stored recipe
// has that composition. The UPDATE itself is the atomic unit; no
// read-then-write window exists.
func (s *Store) IncrementByFingerprint(ctx context.Context, fingerprint string) (*models.Recipe, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		UPDATE recipe SET votes = votes + 1 WHERE fingerprint = $1 RETURNING id
	`, fingerprint).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, classify(err)
	}
	return s.Get(ctx, id)
}

// CreateOrIncrement inserts a new recipe with one vote, or, when a recipe
// with the same fingerprint already exists (including one inserted by a
// concurrent submission between the caller's search and this call), adds a
// vote to it instead. The stored display name always wins over the
// submitted one. Returns the resulting recipe and whether it was created.
func (s *Store) CreateOrIncrement(ctx context.Context, comp composition.Composition, fingerprint, name string) (*models.Recipe, bool, error) {
	comp = comp.Normalize()
	newID := uuid.NewString()

	var cheese sql.NullString
	if comp.CheeseID != "" {
		cheese = sql.NullString{String: comp.CheeseID, Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, classify(err)
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO recipe (id, name, dough_id, cheese_id, fingerprint, votes, created_at)
		VALUES ($1, $2, $3, $4, $5, 1, $6)
		ON CONFLICT (fingerprint) DO UPDATE SET votes = votes + 1
		RETURNING id
	`, newID, name, comp.DoughID, cheese, fingerprint, time.Now()).Scan(&id)
	if err != nil {
		return nil, false, classify(err)
	}

	created := id == newID
	if created {
		for _, toppingID := range comp.ToppingIDs {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO recipe_topping (recipe_id, topping_id) VALUES ($1, $2)
			`, id, toppingID)
			if err != nil {
				return nil, false, classify(err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, classify(err)
	}

	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return rec, created, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// adjustVotesIn is the single floor-clamp site for every caller that
// mutates votes after creation. q is the db or an open transaction.
func adjustVotesIn(ctx context.Context, q queryRower, id string, delta int) (int, error) {
	var votes int
	err := q.QueryRowContext(ctx, `
		UPDATE recipe
		SET votes = CASE WHEN votes + $1 < 0 THEN 0 ELSE votes + $2 END
		WHERE id = $3
		RETURNING votes
	`, delta, delta, id).Scan(&votes)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, classify(err)
	}
	return votes, nil
}

// AdjustVotes applies a vote delta to a recipe and returns the new count,
// clamped at zero.
func (s *Store) AdjustVotes(ctx context.Context, id string, delta int) (int, error) {
	return adjustVotesIn(ctx, s.db, id, delta)
}

// CastVote records the (voter, recipe) pair and applies the clamped vote
// delta in one transaction. A voter with an existing record for the recipe
// gets recorded=false and no count change. The record and the counter move
// commit together, so a failure on either side rolls back both: a durable
// vote_record row can never be left pointing at an unmoved count.
func (s *Store) CastVote(ctx context.Context, voterKey, recipeID string, delta int) (int, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, classify(err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO vote_record (voter_key, recipe_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (voter_key, recipe_id) DO NOTHING
	`, voterKey, recipeID, time.Now())
	if err != nil {
		return 0, false, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, false, classify(err)
	}
	if n == 0 {
		return 0, false, nil
	}

	votes, err := adjustVotesIn(ctx, tx, recipeID, delta)
	if err != nil {
		return 0, false, err
	}

	if err := tx.Commit(); err != nil {
		return 0, false, classify(err)
	}
	return votes, true, nil
}

// Search returns every stored recipe, oldest first.
func (s *Store) Search(ctx context.Context) ([]models.Recipe, error) {
	return s.queryRecipes(ctx, selectRecipe+` ORDER BY r.created_at, r.id`)
}

// TopByVotes returns up to limit recipes ordered by votes descending.
// Ties come back in an unspecified but stable database order; randomized
// tie presentation is the leaderboard ranker's job, not the repository's.
func (s *Store) TopByVotes(ctx context.Context, limit int) ([]models.Recipe, error) {
	return s.queryRecipes(ctx, selectRecipe+` ORDER BY r.votes DESC, r.id LIMIT $1`, limit)
}

func (s *Store) queryRecipes(ctx context.Context, query string, args ...any) ([]models.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	recipes := []models.Recipe{}
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, classify(err)
		}
		recipes = append(recipes, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}

	for i := range recipes {
		recipes[i].Toppings, err = s.toppings(ctx, recipes[i].ID)
		if err != nil {
			return nil, classify(err)
		}
	}
	return recipes, nil
}

// Catalog returns the ingredient catalog grouped by category, in seed order.
func (s *Store) Catalog(ctx context.Context) (*models.CatalogResponse, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, name FROM ingredient ORDER BY category, position
	`)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	catalog := &models.CatalogResponse{
		Doughs:   []models.Ingredient{},
		Cheeses:  []models.Ingredient{},
		Toppings: []models.Ingredient{},
	}
	for rows.Next() {
		var ing models.Ingredient
		var category string
		if err := rows.Scan(&ing.ID, &category, &ing.Name); err != nil {
			return nil, classify(err)
		}
		switch category {
		case models.CategoryDoughs:
			catalog.Doughs = append(catalog.Doughs, ing)
		case models.CategoryCheeses:
			catalog.Cheeses = append(catalog.Cheeses, ing)
		case models.CategoryToppings:
			catalog.Toppings = append(catalog.Toppings, ing)
		}
	}
	return catalog, rows.Err()
}

// CheckComposition verifies that every referenced ingredient exists in the
// catalog under the right category. Unknown or miscategorized ids are
// reported as a *composition.ValidationError naming the offending field.
func (s *Store) CheckComposition(ctx context.Context, comp composition.Composition) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, category FROM ingredient`)
	if err != nil {
		return classify(err)
	}
	defer rows.Close()

	categories := make(map[string]string)
	for rows.Next() {
		var id, category string
		if err := rows.Scan(&id, &category); err != nil {
			return classify(err)
		}
		categories[id] = category
	}
	if err := rows.Err(); err != nil {
		return classify(err)
	}

	if categories[comp.DoughID] != models.CategoryDoughs {
		return &composition.ValidationError{Field: "dough_id", Reason: "unknown dough: " + comp.DoughID}
	}
	if comp.CheeseID != "" && categories[comp.CheeseID] != models.CategoryCheeses {
		return &composition.ValidationError{Field: "cheese_id", Reason: "unknown cheese: " + comp.CheeseID}
	}
	for _, id := range comp.ToppingIDs {
		if categories[id] != models.CategoryToppings {
			return &composition.ValidationError{Field: "topping_ids", Reason: "unknown topping: " + id}
		}
	}
	return nil
}

// Stats computes the read-only aggregates for the analytics dashboard.
func (s *Store) Stats(ctx context.Context) (*models.BusinessStats, error) {
	stats := &models.BusinessStats{
		VoteDistribution: []models.VoteBucket{},
		TopToppings:      []models.ToppingCount{},
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(votes), 0) FROM recipe
	`).Scan(&stats.TotalPizzas, &stats.TotalVotes)
	if err != nil {
		return nil, classify(err)
	}

	top, err := s.TopByVotes(ctx, 10)
	if err != nil {
		return nil, err
	}
	for _, rec := range top {
		bucket := models.VoteBucket{
			Name:  rec.Name,
			Votes: rec.Votes,
			Ingredients: models.RecipeIngredients{
				Dough:    rec.Dough.Name,
				Toppings: []string{},
			},
		}
		if rec.Cheese != nil {
			bucket.Ingredients.Cheese = rec.Cheese.Name
		}
		for _, t := range rec.Toppings {
			bucket.Ingredients.Toppings = append(bucket.Ingredients.Toppings, t.Name)
		}
		stats.VoteDistribution = append(stats.VoteDistribution, bucket)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT i.name, COUNT(*) AS uses
		FROM recipe_topping rt
		JOIN ingredient i ON i.id = rt.topping_id
		GROUP BY i.name
		ORDER BY uses DESC, i.name
		LIMIT 5
	`)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	for rows.Next() {
		var tc models.ToppingCount
		if err := rows.Scan(&tc.Name, &tc.Count); err != nil {
			return nil, classify(err)
		}
		stats.TopToppings = append(stats.TopToppings, tc)
	}
	return stats, rows.Err()
}

// classify translates driver-level failures into the package's retryable
// conflict sentinel. Postgres reports serialization failures and deadlocks
// with SQLSTATE 40001/40P01; modernc sqlite surfaces lock contention in the
// error text.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "40001" || pqErr.Code == "40P01" {
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return err
	}

	msg := err.Error()
	if strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked") {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
