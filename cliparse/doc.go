// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 8000)
  - DatabaseURL: Connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - StatsKeySalt: Secret for the dashboard bearer token (required)
  - LeaderboardPool / LeaderboardTopN: candidate fetch size (default 20)
    and display size (default 6); TopN must not exceed Pool
  - RedisAddr: optional redis address for the shared leaderboard cache
  - RateRPS / RateBurst: per-client rate limit on mutating endpoints
  - SubmitTimeout / SubmitMaxRetries: repository call bounds during
    submission

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	REDIS_ADDR        → -redis
	LEADERBOARD_POOL  → -pool
	LEADERBOARD_TOP_N → -top
	RATE_RPS          → -rate-rps
	RATE_BURST        → -rate-burst
	SUBMIT_TIMEOUT_MS → -submit-timeout-ms
	SUBMIT_RETRIES    → -submit-retries
	STATS_KEY_SALT    → -stats-salt

CLI flags take precedence over environment variables. A .env file, if
present, is loaded by main before parsing.
*/
package cliparse
