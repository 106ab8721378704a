// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package leaderboard

import (
	"math/rand/v2"
	"slices"
	"sort"

	"github.com/randapizza/server/models"
)

// Rank orders the candidate pool by votes descending and returns the first
// topN entries. Entries with equal vote counts are shuffled within their
// group using a fresh random source, so the relative order of ties is
// intentionally not stable across calls. The input slice is not modified;
// an empty or short pool is returned as-is.
func Rank(pool []models.Recipe, topN int) []models.Recipe {
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	return rankWith(rng, pool, topN)
}

func rankWith(rng *rand.Rand, pool []models.Recipe, topN int) []models.Recipe {
	if topN < 0 {
		topN = 0
	}

	ranked := slices.Clone(pool)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Votes > ranked[j].Votes
	})

	// Shuffle each equal-votes run independently so randomness never crosses
	// a votes boundary.
	for start := 0; start < len(ranked); {
		end := start + 1
		for end < len(ranked) && ranked[end].Votes == ranked[start].Votes {
			end++
		}
		group := ranked[start:end]
		rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})
		start = end
	}

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
