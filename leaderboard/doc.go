// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package leaderboard ranks recipes for display.

Rank is a pure projection: votes descending, ties shuffled within their
equal-votes group with a source reseeded per call, truncated to topN. The
randomized tie order is deliberate: recipes with equal votes should not
gain a fixed display advantage from insertion order.

The package also provides a Cache for the assembled board with two
implementations: MemoryCache for single-process deployments and tests, and
RedisCache for sharing the board across instances. Vote mutations invalidate
the cache so a fresh board is ranked on the next read.
*/
package leaderboard
