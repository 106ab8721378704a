package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	StatsKeySalt string

	LeaderboardPool int
	LeaderboardTopN int

	RedisAddr string

	RateRPS   float64
	RateBurst int

	SubmitTimeout    time.Duration
	SubmitMaxRetries int
}

// ParseFlags validates flags, falling back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var timeoutMS int

	fs := flag.NewFlagSet("rand-a-pizza", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.RedisAddr, "redis", "", "Redis address for the leaderboard cache (optional)")

	// Tuning
	fs.IntVar(&cfg.LeaderboardPool, "pool", 0, "Leaderboard candidate pool size")
	fs.IntVar(&cfg.LeaderboardTopN, "top", 0, "Leaderboard display size")
	fs.Float64Var(&cfg.RateRPS, "rate-rps", 0, "Per-client requests per second on mutating endpoints")
	fs.IntVar(&cfg.RateBurst, "rate-burst", 0, "Per-client burst on mutating endpoints")
	fs.IntVar(&timeoutMS, "submit-timeout-ms", 0, "Repository call timeout during submission")
	fs.IntVar(&cfg.SubmitMaxRetries, "submit-retries", -1, "Conflict retries during submission")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.StatsKeySalt, "stats-salt", "", "Dashboard token salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8000 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.RedisAddr == "" {
		cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	}

	if cfg.LeaderboardPool == 0 {
		cfg.LeaderboardPool = envInt("LEADERBOARD_POOL", 20)
	}
	if cfg.LeaderboardTopN == 0 {
		cfg.LeaderboardTopN = envInt("LEADERBOARD_TOP_N", 6)
	}
	if cfg.LeaderboardTopN > cfg.LeaderboardPool {
		return Config{}, errors.New("leaderboard top-N must not exceed the candidate pool")
	}

	if cfg.RateRPS == 0 {
		if s := os.Getenv("RATE_RPS"); s != "" {
			rps, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return Config{}, errors.New("invalid RATE_RPS env variable")
			}
			cfg.RateRPS = rps
		} else {
			cfg.RateRPS = 5
		}
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = envInt("RATE_BURST", 10)
	}

	if timeoutMS == 0 {
		timeoutMS = envInt("SUBMIT_TIMEOUT_MS", 5000)
	}
	cfg.SubmitTimeout = time.Duration(timeoutMS) * time.Millisecond

	if cfg.SubmitMaxRetries < 0 {
		cfg.SubmitMaxRetries = envInt("SUBMIT_RETRIES", 3)
	}

	// Secrets - MUST be provided
	if cfg.StatsKeySalt == "" {
		cfg.StatsKeySalt = os.Getenv("STATS_KEY_SALT")
	}
	if cfg.StatsKeySalt == "" {
		return Config{}, errors.New("STATS_KEY_SALT required")
	}

	return cfg, nil
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return def
}
