// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Rand-a-Pizza API server.

Rand-a-Pizza is a pizza recipe builder and voting service: visitors
compose a pizza from a fixed ingredient catalog, submissions with the
same composition merge into one recipe whose vote count grows, and a
leaderboard shows the most-loved recipes with ties presented in random
order.

# Starting the Server

The server requires environment variables or CLI flags for configuration
(a .env file is read if present):

	DATABASE_URL=file:pizza.db STATS_KEY_SALT=... go run .

Or with flags:

	go run . -p 8000 -d "file:pizza.db" -stats-salt "..."

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite file or PostgreSQL connection string
  - STATS_KEY_SALT (-stats-salt): Secret for the dashboard bearer token

Optional settings:

  - PORT (-p): Server port (default: 8000)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - REDIS_ADDR (-redis): Redis address for the leaderboard cache
  - LEADERBOARD_POOL (-pool) / LEADERBOARD_TOP_N (-top): Ranking sizes
  - RATE_RPS (-rate-rps) / RATE_BURST (-rate-burst): Mutation rate limits

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (ingredients, recipes, leaderboard, stats)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, security headers, logging, rate limiting, JSON helpers
  - models: Request/response types
  - composition: Composition normalization, equality, and fingerprints
  - submit: The submission state machine (find-or-create-or-increment)
  - repo: Durable recipe storage with the fingerprint uniqueness invariant
  - ledger: One-vote-per-voter records
  - leaderboard: Ranking with randomized tie-break, plus the board cache
  - auth: Voter keys, dashboard tokens, IP hashing
*/
package main
