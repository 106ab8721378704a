// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package submit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/randapizza/server/composition"
	"github.com/randapizza/server/models"
	"github.com/randapizza/server/repo"
)

// State is the coordinator's position in a single submission attempt.
type State int

const (
	StateComposing State = iota
	StateSearching
	StateIncrementing
	StateNamePending
	StatePersisted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateComposing:
		return "composing"
	case StateSearching:
		return "searching"
	case StateIncrementing:
		return "incrementing"
	case StateNamePending:
		return "name_pending"
	case StatePersisted:
		return "persisted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	// ErrNameRequired reports that the composition is new and needs a
	// display name before it can be persisted.
	ErrNameRequired = errors.New("name required for new recipe")
	// ErrRepositoryUnavailable reports a repository failure or timeout.
	// Nothing was committed; the whole submission may be retried.
	ErrRepositoryUnavailable = errors.New("recipe repository unavailable")
	// ErrConflictRetryExhausted reports that the atomic find-or-create
	// protocol did not converge within the retry budget.
	ErrConflictRetryExhausted = errors.New("conflicting submissions, retries exhausted")
	// ErrCanceled reports that the attempt was abandoned while a repository
	// call was in flight; the late result was discarded.
	ErrCanceled = errors.New("submission canceled")
	// ErrInvalidState reports an operation that is not legal in the
	// coordinator's current state.
	ErrInvalidState = errors.New("operation not valid in current submission state")
)

// Repository is the slice of the recipe store the coordinator needs.
// *repo.Store satisfies it.
type Repository interface {
	IncrementByFingerprint(ctx context.Context, fingerprint string) (*models.Recipe, error)
	CreateOrIncrement(ctx context.Context, comp composition.Composition, fingerprint, name string) (*models.Recipe, bool, error)
}

// Result is the outcome of a persisted submission: the stored recipe (with
// its authoritative name and vote count) and whether this attempt created it.
type Result struct {
	Recipe  *models.Recipe
	Created bool
}

// Coordinator drives one submission attempt through
// Composing -> Searching -> {Incrementing | NamePending} -> Persisted.
// It never holds its lock across a repository call; abandonment during an
// in-flight call is handled by a generation guard that discards the stale
// result instead of applying it.
type Coordinator struct {
	repository Repository
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration

	mu          sync.Mutex
	state       State
	gen         int
	doughID     string
	cheeseID    string
	toppingIDs  []string
	comp        composition.Composition
	fingerprint string
}

type Option func(*Coordinator)

// WithTimeout bounds each repository call. A call that exceeds it fails the
// attempt rather than waiting indefinitely.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.timeout = d }
}

// WithMaxRetries sets how many additional attempts are made when the
// repository reports a retryable conflict.
func WithMaxRetries(n int) Option {
	return func(c *Coordinator) { c.maxRetries = n }
}

func WithRetryDelay(d time.Duration) Option {
	return func(c *Coordinator) { c.retryDelay = d }
}

func New(repository Repository, opts ...Option) *Coordinator {
	c := &Coordinator{
		repository: repository,
		timeout:    5 * time.Second,
		maxRetries: 3,
		retryDelay: 25 * time.Millisecond,
		state:      StateComposing,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Composition returns the current selections as a composition.
func (c *Coordinator) Composition() composition.Composition {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buildLocked()
}

func (c *Coordinator) buildLocked() composition.Composition {
	toppings := make([]string, len(c.toppingIDs))
	copy(toppings, c.toppingIDs)
	return composition.Composition{
		DoughID:    c.doughID,
		CheeseID:   c.cheeseID,
		ToppingIDs: toppings,
	}
}

// Selection operations, legal only while composing.

func (c *Coordinator) SelectDough(id string) error {
	return c.compose(func() { c.doughID = id })
}

func (c *Coordinator) SelectCheese(id string) error {
	return c.compose(func() { c.cheeseID = id })
}

func (c *Coordinator) ClearCheese() error {
	return c.compose(func() { c.cheeseID = "" })
}

// ToggleTopping adds the topping if absent and removes it if present.
func (c *Coordinator) ToggleTopping(id string) error {
	return c.compose(func() {
		for i, t := range c.toppingIDs {
			if t == id {
				c.toppingIDs = append(c.toppingIDs[:i], c.toppingIDs[i+1:]...)
				return
			}
		}
		c.toppingIDs = append(c.toppingIDs, id)
	})
}

func (c *Coordinator) ClearToppings() error {
	return c.compose(func() { c.toppingIDs = nil })
}

func (c *Coordinator) compose(apply func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateComposing {
		return fmt.Errorf("%w: %s", ErrInvalidState, c.state)
	}
	apply()
	return nil
}

// Cancel abandons the attempt from any non-terminal state: selections are
// discarded, the coordinator returns to Composing, and any repository call
// still in flight has its result disregarded on arrival. Nothing is
// committed on the caller's behalf after Cancel returns.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StatePersisted {
		return
	}
	c.gen++
	c.state = StateComposing
	c.doughID = ""
	c.cheeseID = ""
	c.toppingIDs = nil
	c.comp = composition.Composition{}
	c.fingerprint = ""
}

// Submit runs Composing -> Searching. A stored recipe with the same
// composition gets the vote (Incrementing -> Persisted) and is returned;
// an unseen composition moves the coordinator to NamePending and Submit
// returns ErrNameRequired. Validation failures leave the coordinator in
// Composing without contacting the repository.
func (c *Coordinator) Submit(ctx context.Context) (*Result, error) {
	c.mu.Lock()
	if c.state != StateComposing {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, c.state)
	}

	comp := c.buildLocked()
	if err := comp.Validate(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	fp, err := composition.Fingerprint(comp)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	c.state = StateSearching
	c.comp = comp
	c.fingerprint = fp
	gen := c.gen
	c.mu.Unlock()

	rec, err := c.withRetry(ctx, func(callCtx context.Context) (*models.Recipe, error) {
		return c.repository.IncrementByFingerprint(callCtx, fp)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return nil, ErrCanceled
	}

	switch {
	case err == nil:
		c.state = StatePersisted
		return &Result{Recipe: rec, Created: false}, nil
	case errors.Is(err, repo.ErrNotFound):
		c.state = StateNamePending
		return nil, ErrNameRequired
	default:
		c.state = StateFailed
		return nil, c.failure(err)
	}
}

// Name completes NamePending -> Persisted by inserting the recipe with one
// vote under the given display name. An empty or whitespace-only name is
// rejected without touching the repository and the coordinator stays in
// NamePending. If a concurrent submission inserted the same composition in
// the meantime, the insert degrades to an increment and Created is false.
func (c *Coordinator) Name(ctx context.Context, name string) (*Result, error) {
	c.mu.Lock()
	if c.state != StateNamePending {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, c.state)
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		c.mu.Unlock()
		return nil, &composition.ValidationError{Field: "name", Reason: "name must not be empty"}
	}

	comp := c.comp
	fp := c.fingerprint
	gen := c.gen
	c.mu.Unlock()

	var created bool
	rec, err := c.withRetry(ctx, func(callCtx context.Context) (*models.Recipe, error) {
		r, didCreate, err := c.repository.CreateOrIncrement(callCtx, comp, fp, trimmed)
		created = didCreate
		return r, err
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return nil, ErrCanceled
	}

	if err != nil {
		c.state = StateFailed
		return nil, c.failure(err)
	}

	c.state = StatePersisted
	return &Result{Recipe: rec, Created: created}, nil
}

// withRetry issues the repository call with a per-call timeout, retrying
// only on retryable conflicts and never replaying a partially applied
// operation: each repository op is atomic on its own.
func (c *Coordinator) withRetry(ctx context.Context, fn func(context.Context) (*models.Recipe, error)) (*models.Recipe, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		rec, err := fn(callCtx)
		cancel()

		if err == nil || !errors.Is(err, repo.ErrConflict) {
			return rec, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *Coordinator) failure(err error) error {
	if errors.Is(err, repo.ErrConflict) {
		return fmt.Errorf("%w: %v", ErrConflictRetryExhausted, err)
	}
	return fmt.Errorf("%w: %v", ErrRepositoryUnavailable, err)
}
