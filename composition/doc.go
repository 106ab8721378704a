// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package composition defines recipe identity.

A Composition is the (dough, optional cheese, topping set) triple that makes
a recipe unique. Display names and vote counts never participate in identity.

Equality is decided by Matches:

	eq, err := composition.Matches(a, b)

and a repository uniqueness key is derived with Fingerprint:

	fp, err := composition.Fingerprint(c)

Fingerprint is consistent with Matches: equal fingerprints if and only if the
compositions match. Both are pure and side-effect free; a composition missing
its dough is rejected with a *ValidationError rather than treated as a
non-match.
*/
package composition
