// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package submit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randapizza/server/composition"
	"github.com/randapizza/server/models"
	"github.com/randapizza/server/repo"
)

// fakeRepo is an in-memory Repository keyed by fingerprint.
type fakeRepo struct {
	mu      sync.Mutex
	recipes map[string]*models.Recipe
	calls   int

	failWith      error // returned on every call when set
	conflictsLeft int   // return repo.ErrConflict this many times first
	started       chan struct{}
	proceed       chan struct{}
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{recipes: make(map[string]*models.Recipe)}
}

func (f *fakeRepo) gate(ctx context.Context) error {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.proceed != nil {
		select {
		case <-f.proceed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (f *fakeRepo) checkInjected() error {
	if f.failWith != nil {
		return f.failWith
	}
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return repo.ErrConflict
	}
	return nil
}

func (f *fakeRepo) IncrementByFingerprint(ctx context.Context, fp string) (*models.Recipe, error) {
	if err := f.gate(ctx); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.checkInjected(); err != nil {
		return nil, err
	}

	rec, ok := f.recipes[fp]
	if !ok {
		return nil, repo.ErrNotFound
	}
	rec.Votes++
	out := *rec
	return &out, nil
}

func (f *fakeRepo) CreateOrIncrement(ctx context.Context, comp composition.Composition, fp, name string) (*models.Recipe, bool, error) {
	if err := f.gate(ctx); err != nil {
		return nil, false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.checkInjected(); err != nil {
		return nil, false, err
	}

	if rec, ok := f.recipes[fp]; ok {
		rec.Votes++
		out := *rec
		return &out, false, nil
	}

	rec := &models.Recipe{
		ID:    fp[:8],
		Name:  name,
		Dough: models.Ingredient{ID: comp.DoughID},
		Votes: 1,
	}
	f.recipes[fp] = rec
	out := *rec
	return &out, true, nil
}

func compose(t *testing.T, c *Coordinator, dough, cheese string, toppings ...string) {
	t.Helper()
	require.NoError(t, c.SelectDough(dough))
	if cheese != "" {
		require.NoError(t, c.SelectCheese(cheese))
	}
	for _, top := range toppings {
		require.NoError(t, c.ToggleTopping(top))
	}
}

func TestSubmitNewRecipeNeedsName(t *testing.T) {
	ctx := context.Background()
	store := newFakeRepo()
	c := New(store)

	compose(t, c, "roman", "gou", "salami")

	_, err := c.Submit(ctx)
	require.ErrorIs(t, err, ErrNameRequired)
	assert.Equal(t, StateNamePending, c.State())

	res, err := c.Name(ctx, "Midnight")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "Midnight", res.Recipe.Name)
	assert.Equal(t, 1, res.Recipe.Votes)
	assert.Equal(t, StatePersisted, c.State())
}

func TestSubmitDuplicateIncrementsAndKeepsName(t *testing.T) {
	ctx := context.Background()
	store := newFakeRepo()

	first := New(store)
	compose(t, first, "roman", "gou", "salami")
	_, err := first.Submit(ctx)
	require.ErrorIs(t, err, ErrNameRequired)
	_, err = first.Name(ctx, "Midnight")
	require.NoError(t, err)

	// Same composition, different topping order, different intended name.
	second := New(store)
	compose(t, second, "roman", "gou", "salami")

	res, err := second.Submit(ctx)
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, "Midnight", res.Recipe.Name, "first name wins")
	assert.Equal(t, 2, res.Recipe.Votes)
	assert.Equal(t, StatePersisted, second.State())
	assert.Len(t, store.recipes, 1)
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		setup     func(t *testing.T, c *Coordinator)
		wantField string
	}{
		{
			name:      "missing dough",
			setup:     func(t *testing.T, c *Coordinator) { require.NoError(t, c.ToggleTopping("salami")) },
			wantField: "dough_id",
		},
		{
			name:      "empty toppings",
			setup:     func(t *testing.T, c *Coordinator) { require.NoError(t, c.SelectDough("roman")) },
			wantField: "topping_ids",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeRepo()
			c := New(store)
			tt.setup(t, c)

			_, err := c.Submit(ctx)
			var verr *composition.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Equal(t, StateComposing, c.State(), "validation failure keeps the attempt composable")
			assert.Zero(t, store.calls, "validation errors must not reach the repository")
		})
	}
}

func TestCheeseIsOptional(t *testing.T) {
	ctx := context.Background()
	store := newFakeRepo()
	c := New(store)

	compose(t, c, "roman", "", "salami")

	_, err := c.Submit(ctx)
	require.ErrorIs(t, err, ErrNameRequired)
}

func TestNameRejectsBlankWithoutRepositoryContact(t *testing.T) {
	ctx := context.Background()
	store := newFakeRepo()
	c := New(store)
	compose(t, c, "roman", "gou", "salami")

	_, err := c.Submit(ctx)
	require.ErrorIs(t, err, ErrNameRequired)
	callsAfterSearch := store.calls

	for _, bad := range []string{"", "   ", "\t\n"} {
		_, err := c.Name(ctx, bad)
		var verr *composition.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "name", verr.Field)
		assert.Equal(t, StateNamePending, c.State())
	}
	assert.Equal(t, callsAfterSearch, store.calls)

	// A valid name still goes through afterwards.
	res, err := c.Name(ctx, "  Midnight  ")
	require.NoError(t, err)
	assert.Equal(t, "Midnight", res.Recipe.Name, "name is trimmed")
}

func TestToggleTopping(t *testing.T) {
	c := New(newFakeRepo())

	require.NoError(t, c.ToggleTopping("salami"))
	require.NoError(t, c.ToggleTopping("ham"))
	require.NoError(t, c.ToggleTopping("salami"))

	assert.Equal(t, []string{"ham"}, c.Composition().ToppingIDs)

	require.NoError(t, c.ClearToppings())
	assert.Empty(t, c.Composition().ToppingIDs)
}

func TestSelectionsFrozenAfterSubmit(t *testing.T) {
	ctx := context.Background()
	c := New(newFakeRepo())
	compose(t, c, "roman", "gou", "salami")

	_, err := c.Submit(ctx)
	require.ErrorIs(t, err, ErrNameRequired)

	assert.ErrorIs(t, c.SelectDough("neap"), ErrInvalidState)
	assert.ErrorIs(t, c.ToggleTopping("ham"), ErrInvalidState)
}

func TestRepositoryFailure(t *testing.T) {
	ctx := context.Background()
	store := newFakeRepo()
	store.failWith = errors.New("connection refused")
	c := New(store)
	compose(t, c, "roman", "gou", "salami")

	_, err := c.Submit(ctx)
	require.ErrorIs(t, err, ErrRepositoryUnavailable)
	assert.Equal(t, StateFailed, c.State())

	// Cancel resets a failed attempt back to Composing.
	c.Cancel()
	assert.Equal(t, StateComposing, c.State())
}

func TestConflictRetryExhausted(t *testing.T) {
	ctx := context.Background()
	store := newFakeRepo()
	store.conflictsLeft = 100
	c := New(store, WithMaxRetries(2), WithRetryDelay(time.Millisecond))
	compose(t, c, "roman", "gou", "salami")

	_, err := c.Submit(ctx)
	require.ErrorIs(t, err, ErrConflictRetryExhausted)
	assert.Equal(t, StateFailed, c.State())
	assert.Equal(t, 3, store.calls, "initial attempt plus two retries")
}

func TestConflictRecoversWithinBudget(t *testing.T) {
	ctx := context.Background()
	store := newFakeRepo()
	store.conflictsLeft = 2
	c := New(store, WithMaxRetries(3), WithRetryDelay(time.Millisecond))
	compose(t, c, "roman", "gou", "salami")

	_, err := c.Submit(ctx)
	require.ErrorIs(t, err, ErrNameRequired)
}

func TestRepositoryTimeout(t *testing.T) {
	ctx := context.Background()
	store := newFakeRepo()
	store.proceed = make(chan struct{}) // never closed: call hangs until ctx expires
	c := New(store, WithTimeout(20*time.Millisecond))
	compose(t, c, "roman", "gou", "salami")

	_, err := c.Submit(ctx)
	require.ErrorIs(t, err, ErrRepositoryUnavailable)
	assert.Equal(t, StateFailed, c.State())
}

func TestCancelDiscardsInFlightResult(t *testing.T) {
	ctx := context.Background()
	store := newFakeRepo()
	store.started = make(chan struct{}, 1)
	store.proceed = make(chan struct{})
	c := New(store)
	compose(t, c, "roman", "gou", "salami")

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(ctx)
		done <- err
	}()

	<-store.started // repository call is in flight
	c.Cancel()
	close(store.proceed) // let the call complete late

	err := <-done
	require.ErrorIs(t, err, ErrCanceled)
	assert.Equal(t, StateComposing, c.State())
	assert.Empty(t, c.Composition().ToppingIDs, "cancel discards selections")
}

func TestSubmitTwiceIsInvalid(t *testing.T) {
	ctx := context.Background()
	store := newFakeRepo()
	c := New(store)
	compose(t, c, "roman", "gou", "salami")

	_, err := c.Submit(ctx)
	require.ErrorIs(t, err, ErrNameRequired)

	_, err = c.Submit(ctx)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = c.Name(ctx, "Midnight")
	require.NoError(t, err)

	_, err = c.Name(ctx, "Again")
	assert.ErrorIs(t, err, ErrInvalidState)
}
