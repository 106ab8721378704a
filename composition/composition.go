// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package composition

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
)

// ValidationError reports an incomplete or malformed input by field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Composition is the identity of a recipe: its dough, optional cheese, and
// topping set. The display name and vote count are not part of identity.
type Composition struct {
	DoughID    string
	CheeseID   string // empty means no cheese
	ToppingIDs []string
}

// Normalize returns a copy with the topping ids sorted and deduplicated.
// The receiver is not modified.
func (c Composition) Normalize() Composition {
	toppings := slices.Clone(c.ToppingIDs)
	slices.Sort(toppings)
	toppings = slices.Compact(toppings)
	c.ToppingIDs = toppings
	return c
}

// Validate checks that the composition is well-formed for submission:
// a dough is required and the topping set must be non-empty. Cheese is
// optional. An empty topping id inside the set is malformed.
func (c Composition) Validate() error {
	if strings.TrimSpace(c.DoughID) == "" {
		return &ValidationError{Field: "dough_id", Reason: "dough is required"}
	}
	if len(c.ToppingIDs) == 0 {
		return &ValidationError{Field: "topping_ids", Reason: "at least one topping is required"}
	}
	for _, id := range c.ToppingIDs {
		if strings.TrimSpace(id) == "" {
			return &ValidationError{Field: "topping_ids", Reason: "topping id must not be blank"}
		}
	}
	return nil
}

// validComparable is the weaker precondition for Matches and Fingerprint:
// a dough must be present, but an empty topping set is a valid, comparable
// composition (it matches only other empty-topping compositions).
func (c Composition) validComparable() error {
	if strings.TrimSpace(c.DoughID) == "" {
		return &ValidationError{Field: "dough_id", Reason: "dough is required"}
	}
	return nil
}

// Matches reports whether a and b are compositionally equal: same dough id,
// same cheese id (both absent counts as equal), and equal topping sets
// independent of order and duplicates. A missing dough on either side is a
// precondition violation returned as an error, never a silent non-match.
func Matches(a, b Composition) (bool, error) {
	if err := a.validComparable(); err != nil {
		return false, err
	}
	if err := b.validComparable(); err != nil {
		return false, err
	}

	if a.DoughID != b.DoughID || a.CheeseID != b.CheeseID {
		return false, nil
	}

	an := a.Normalize()
	bn := b.Normalize()
	return slices.Equal(an.ToppingIDs, bn.ToppingIDs), nil
}

// noCheese is the fingerprint sentinel for an absent cheese, chosen so it
// cannot collide with a real ingredient id (unit separator is not a valid
// id character).
const noCheese = "\x1f-"

// Fingerprint returns a stable, order-independent encoding of the
// composition, suitable as a repository uniqueness key. Two compositions
// produce the same fingerprint exactly when Matches reports true.
func Fingerprint(c Composition) (string, error) {
	if err := c.validComparable(); err != nil {
		return "", err
	}

	n := c.Normalize()
	cheese := n.CheeseID
	if cheese == "" {
		cheese = noCheese
	}

	var sb strings.Builder
	sb.WriteString(n.DoughID)
	sb.WriteByte(0x1f)
	sb.WriteString(cheese)
	for _, id := range n.ToppingIDs {
		sb.WriteByte(0x1f)
		sb.WriteString(id)
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:]), nil
}
