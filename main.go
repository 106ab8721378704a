package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/randapizza/server/cliparse"
	"github.com/randapizza/server/db"
	"github.com/randapizza/server/leaderboard"
	"github.com/randapizza/server/middleware"
	"github.com/randapizza/server/router"
)

func main() {
	// Load .env for local development; the file is optional
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database (sqlite for local dev, postgres in prod)
	driver := "sqlite"
	if cfg.DatabaseType == "postgres" {
		driver = "postgres"
	}
	dbConn, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema and seed the ingredient catalog
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	if err := db.SeedCatalog(dbConn); err != nil {
		slog.Error("catalog seeding failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "driver", driver)

	// Leaderboard cache: redis when configured, in-process otherwise
	var cache leaderboard.Cache = leaderboard.NewMemoryCache()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			slog.Warn("redis unreachable, using in-memory leaderboard cache", "addr", cfg.RedisAddr, "error", err)
		} else {
			cache = leaderboard.NewRedisCache(rdb)
			slog.Info("Leaderboard cache on redis", "addr", cfg.RedisAddr)
		}
	}

	// Per-caller rate limiting on mutating endpoints
	limiter := middleware.NewLimiterStore(cfg.RateRPS, cfg.RateBurst)
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	limiter.StartJanitor(janitorCtx)

	// Create router
	mux := router.NewRouter(dbConn, cache, limiter, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(middleware.SecurityHeaders(mux)),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
