// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/randapizza/server/cliparse"
	"github.com/randapizza/server/composition"
	"github.com/randapizza/server/db"
)

// SetupTestDB creates a fresh sqlite database with the full schema and
// the seeded ingredient catalog. The database file lives in the test's
// temp directory and is removed with it.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	if err := db.SeedCatalog(conn); err != nil {
		t.Fatalf("Failed to seed catalog: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             8000,
		DatabaseURL:      "file:test.db",
		DatabaseType:     "sqlite",
		StatsKeySalt:     "test-stats-salt",
		LeaderboardPool:  20,
		LeaderboardTopN:  6,
		RateRPS:          100,
		RateBurst:        100,
		SubmitTimeout:    5 * time.Second,
		SubmitMaxRetries: 3,
	}
}

// CreateTestRecipe inserts a recipe with the given composition and vote
// count and returns its ID. Ingredient IDs must exist in the seeded
// catalog.
func CreateTestRecipe(t *testing.T, conn *sql.DB, name string, comp composition.Composition, votes int) string {
	t.Helper()

	comp = comp.Normalize()
	fp, err := composition.Fingerprint(comp)
	if err != nil {
		t.Fatalf("Failed to fingerprint composition: %v", err)
	}

	recipeID := uuid.NewString()
	var cheese *string
	if comp.CheeseID != "" {
		cheese = &comp.CheeseID
	}

	_, err = conn.Exec(`
		INSERT INTO recipe (id, name, dough_id, cheese_id, fingerprint, votes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, recipeID, name, comp.DoughID, cheese, fp, votes, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test recipe: %v", err)
	}

	for _, toppingID := range comp.ToppingIDs {
		_, err := conn.Exec(`
			INSERT INTO recipe_topping (recipe_id, topping_id)
			VALUES ($1, $2)
		`, recipeID, toppingID)
		if err != nil {
			t.Fatalf("Failed to attach test topping: %v", err)
		}
	}

	return recipeID
}

// RecordTestVote marks voterKey as having voted for recipeID
func RecordTestVote(t *testing.T, conn *sql.DB, voterKey, recipeID string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO vote_record (voter_key, recipe_id, created_at)
		VALUES ($1, $2, $3)
	`, voterKey, recipeID, time.Now())
	if err != nil {
		t.Fatalf("Failed to record test vote: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
