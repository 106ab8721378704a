// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package repo implements the durable recipe repository over database/sql.

The repository is the only shared mutable resource in the system and the
place where the engine's invariants are enforced:

  - Composition uniqueness: recipe.fingerprint carries a UNIQUE constraint,
    and CreateOrIncrement uses INSERT ... ON CONFLICT (fingerprint) DO UPDATE
    so two concurrent submissions of the same unseen composition converge on
    one row with two votes, never two rows.
  - Atomic increments: IncrementByFingerprint is a single UPDATE ... RETURNING
    with no read-then-write window.
  - Vote floor: AdjustVotes clamps the counter at zero and is the one code
    path every post-creation vote mutation goes through.

Driver support matches the config's DatabaseType: lib/pq for PostgreSQL and
modernc.org/sqlite for SQLite. Retryable contention (serialization failure,
deadlock, locked database) is normalized to ErrConflict so callers can retry
the whole operation.
*/
package repo
