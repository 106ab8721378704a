// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidDashboardToken = errors.New("invalid dashboard token")

// dashboardSubject is the fixed HMAC input for the analytics bearer token.
const dashboardSubject = "business-dashboard"

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateVoterKey creates a random client-scoped voter identifier.
// Clients persist it locally and attach it to vote requests; it
// distinguishes browsers, not verified accounts.
func GenerateVoterKey() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate voter key: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// GenerateDashboardToken derives the bearer token that guards the business
// statistics endpoint. Deterministic and verifiable from the salt alone.
func GenerateDashboardToken(salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(dashboardSubject))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner tokens
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateDashboardToken checks a presented bearer token in constant time.
func ValidateDashboardToken(token, salt string) error {
	expected := GenerateDashboardToken(salt)
	if !hmac.Equal([]byte(token), []byte(expected)) {
		return ErrInvalidDashboardToken
	}
	return nil
}

// HashIP creates a one-way hash of an IP address for privacy.
// Used as the fallback voter key for clients that do not send one.
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// First 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
