// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package submit coordinates a single recipe submission.

A Coordinator walks one attempt through the states

	Composing -> Searching -> {Incrementing | NamePending} -> Persisted

with Failed reachable from any repository interaction. The search does not
scan recipes client-side: the composition fingerprint is handed to the
repository, whose conditional increment/upsert decides match-or-new
atomically. That removes the read-all-then-write race the naive flow has,
where two simultaneous submissions of the same unseen composition both miss
and both insert.

Concurrency posture:

  - The lock is never held across a repository call.
  - Cancel is safe at any suspension point; a repository result arriving
    after Cancel is discarded (generation guard), never applied to a fresh
    attempt.
  - Every repository call carries a timeout; expiry fails the attempt
    instead of waiting forever.
  - Retryable conflicts are retried a bounded number of times, then
    surfaced as ErrConflictRetryExhausted, safe to retry from scratch.

The error taxonomy crossing the package boundary: *composition.ValidationError
for incomplete input (never reaches the repository), ErrNameRequired,
ErrRepositoryUnavailable, ErrConflictRetryExhausted, ErrCanceled.
*/
package submit
