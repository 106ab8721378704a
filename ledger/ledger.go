// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrAlreadyVoted reports that the voter has already cast a vote for the
// recipe. It is a guard rejection, not a failure: no mutation occurred.
var ErrAlreadyVoted = errors.New("voter has already voted for this recipe")

// Ledger tracks which recipes a voter has already voted for. Records are
// enforced in the repository database, so clearing client-local state does
// not grant a second vote.
type Ledger struct {
	db *sql.DB
}

func New(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// HasVoted reports whether the voter has a recorded vote for the recipe.
func (l *Ledger) HasVoted(ctx context.Context, voterKey, recipeID string) (bool, error) {
	var exists bool
	err := l.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM vote_record WHERE voter_key = $1 AND recipe_id = $2
		)
	`, voterKey, recipeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check vote record: %w", err)
	}
	return exists, nil
}

// Record writes the (voter, recipe) pair. Recording twice is a no-op after
// the first: the composite primary key absorbs the duplicate and Record
// reports recorded=false, closing the check-then-act window between
// HasVoted and the write. The voting endpoint uses the repository's
// CastVote instead, which commits this same insert together with the vote
// count change in one transaction.
func (l *Ledger) Record(ctx context.Context, voterKey, recipeID string) (bool, error) {
	res, err := l.db.ExecContext(ctx, `
		INSERT INTO vote_record (voter_key, recipe_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (voter_key, recipe_id) DO NOTHING
	`, voterKey, recipeID, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to record vote: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read vote record result: %w", err)
	}
	return n > 0, nil
}

// Voted returns the ids of every recipe the voter has voted for. Used to
// annotate leaderboard entries per viewer.
func (l *Ledger) Voted(ctx context.Context, voterKey string) (map[string]bool, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT recipe_id FROM vote_record WHERE voter_key = $1
	`, voterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list vote records: %w", err)
	}
	defer rows.Close()

	voted := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan vote record: %w", err)
		}
		voted[id] = true
	}
	return voted, rows.Err()
}
