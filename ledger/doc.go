// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger enforces the one-vote-per-voter-per-recipe invariant.

Client-side "already voted" state (browser local storage) is trivial for
a voter to clear, so the ledger lives next to the recipes in the
repository database, keyed by (voter_key, recipe_id) with a composite
primary key, and the invariant holds regardless of client state. The voter
key is still a client-scoped identifier, not a verified account.

Record is the guard and the write in one step: it reports whether this call
created the record, so two concurrent votes by the same voter resolve to
exactly one applied vote without any advisory locking. The voting endpoint
goes through the repository's CastVote, which commits the record and the
vote count change in a single transaction so neither can outlive a failure
of the other.
*/
package ledger
