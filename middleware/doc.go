// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package middleware provides HTTP middleware and response helpers:
// request logging, JSON encoding, CORS, security headers, client IP
// extraction, and per-caller rate limiting.
package middleware
