// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token generation and validation.

  - GenerateVoterKey: random client-scoped voter identifier
  - GenerateDashboardToken / ValidateDashboardToken: HMAC bearer token for
    the business statistics endpoint, derived from STATS_KEY_SALT
  - HashIP: salted one-way IP hash, the fallback voter key
  - GenerateID: random hex identifier

Voter keys identify a browser, not a person: they gate repeat votes, they do
not authenticate anyone.
*/
package auth
