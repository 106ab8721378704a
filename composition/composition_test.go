// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package composition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name string
		a    Composition
		b    Composition
		want bool
	}{
		{
			name: "identical",
			a:    Composition{DoughID: "roman", CheeseID: "gou", ToppingIDs: []string{"salami"}},
			b:    Composition{DoughID: "roman", CheeseID: "gou", ToppingIDs: []string{"salami"}},
			want: true,
		},
		{
			name: "topping order ignored",
			a:    Composition{DoughID: "roman", CheeseID: "gou", ToppingIDs: []string{"ham", "salami"}},
			b:    Composition{DoughID: "roman", CheeseID: "gou", ToppingIDs: []string{"salami", "ham"}},
			want: true,
		},
		{
			name: "topping duplicates collapse",
			a:    Composition{DoughID: "roman", CheeseID: "gou", ToppingIDs: []string{"salami", "salami", "ham"}},
			b:    Composition{DoughID: "roman", CheeseID: "gou", ToppingIDs: []string{"ham", "salami"}},
			want: true,
		},
		{
			name: "different dough",
			a:    Composition{DoughID: "roman", CheeseID: "gou", ToppingIDs: []string{"salami"}},
			b:    Composition{DoughID: "neap", CheeseID: "gou", ToppingIDs: []string{"salami"}},
			want: false,
		},
		{
			name: "different cheese",
			a:    Composition{DoughID: "roman", CheeseID: "gou", ToppingIDs: []string{"salami"}},
			b:    Composition{DoughID: "roman", CheeseID: "moz", ToppingIDs: []string{"salami"}},
			want: false,
		},
		{
			name: "cheese absence only matches absence",
			a:    Composition{DoughID: "roman", ToppingIDs: []string{"salami"}},
			b:    Composition{DoughID: "roman", CheeseID: "gou", ToppingIDs: []string{"salami"}},
			want: false,
		},
		{
			name: "both without cheese",
			a:    Composition{DoughID: "roman", ToppingIDs: []string{"salami"}},
			b:    Composition{DoughID: "roman", ToppingIDs: []string{"salami"}},
			want: true,
		},
		{
			name: "subset is not equal",
			a:    Composition{DoughID: "roman", CheeseID: "gou", ToppingIDs: []string{"salami", "ham"}},
			b:    Composition{DoughID: "roman", CheeseID: "gou", ToppingIDs: []string{"salami"}},
			want: false,
		},
		{
			name: "empty topping sets match each other",
			a:    Composition{DoughID: "roman", CheeseID: "gou"},
			b:    Composition{DoughID: "roman", CheeseID: "gou"},
			want: true,
		},
		{
			name: "empty topping set does not match non-empty",
			a:    Composition{DoughID: "roman", CheeseID: "gou"},
			b:    Composition{DoughID: "roman", CheeseID: "gou", ToppingIDs: []string{"salami"}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Matches(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// symmetry
			rev, err := Matches(tt.b, tt.a)
			require.NoError(t, err)
			assert.Equal(t, got, rev, "Matches must be symmetric")

			// reflexivity
			self, err := Matches(tt.a, tt.a)
			require.NoError(t, err)
			assert.True(t, self, "Matches must be reflexive")
		})
	}
}

func TestMatchesMissingDough(t *testing.T) {
	good := Composition{DoughID: "roman", ToppingIDs: []string{"salami"}}
	bad := Composition{ToppingIDs: []string{"salami"}}

	_, err := Matches(bad, good)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "dough_id", verr.Field)

	_, err = Matches(good, bad)
	require.ErrorAs(t, err, &verr)
}

func TestFingerprintConsistentWithMatches(t *testing.T) {
	comps := []Composition{
		{DoughID: "roman", CheeseID: "gou", ToppingIDs: []string{"salami", "ham"}},
		{DoughID: "roman", CheeseID: "gou", ToppingIDs: []string{"ham", "salami", "ham"}},
		{DoughID: "roman", CheeseID: "gou", ToppingIDs: []string{"salami"}},
		{DoughID: "roman", ToppingIDs: []string{"salami"}},
		{DoughID: "neap", CheeseID: "gou", ToppingIDs: []string{"salami", "ham"}},
		{DoughID: "roman", CheeseID: "gou"},
		{DoughID: "roman"},
	}

	for i, a := range comps {
		for j, b := range comps {
			eq, err := Matches(a, b)
			require.NoError(t, err)

			fa, err := Fingerprint(a)
			require.NoError(t, err)
			fb, err := Fingerprint(b)
			require.NoError(t, err)

			assert.Equal(t, eq, fa == fb, "comps %d and %d: fingerprint equality must mirror Matches", i, j)
		}
	}
}

func TestFingerprintCheeseSentinel(t *testing.T) {
	// A cheese-less composition must not collide with any real cheese id.
	without := Composition{DoughID: "roman", ToppingIDs: []string{"salami"}}
	with := Composition{DoughID: "roman", CheeseID: "moz", ToppingIDs: []string{"salami"}}

	fw, err := Fingerprint(without)
	require.NoError(t, err)
	fc, err := Fingerprint(with)
	require.NoError(t, err)
	assert.NotEqual(t, fw, fc)
}

func TestFingerprintMissingDough(t *testing.T) {
	_, err := Fingerprint(Composition{ToppingIDs: []string{"salami"}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestNormalizeDoesNotMutate(t *testing.T) {
	c := Composition{DoughID: "roman", ToppingIDs: []string{"b", "a", "b"}}
	n := c.Normalize()

	assert.Equal(t, []string{"b", "a", "b"}, c.ToppingIDs)
	assert.Equal(t, []string{"a", "b"}, n.ToppingIDs)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		comp      Composition
		wantField string
	}{
		{"complete", Composition{DoughID: "roman", CheeseID: "gou", ToppingIDs: []string{"salami"}}, ""},
		{"cheese optional", Composition{DoughID: "roman", ToppingIDs: []string{"salami"}}, ""},
		{"missing dough", Composition{ToppingIDs: []string{"salami"}}, "dough_id"},
		{"blank dough", Composition{DoughID: "   ", ToppingIDs: []string{"salami"}}, "dough_id"},
		{"no toppings", Composition{DoughID: "roman", CheeseID: "gou"}, "topping_ids"},
		{"blank topping id", Composition{DoughID: "roman", ToppingIDs: []string{"salami", " "}}, "topping_ids"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.comp.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}
