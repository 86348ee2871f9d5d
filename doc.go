// Package gosquare is a payment gateway adapter for the Square Connect v2
// Transactions API, usable as a Go library or as a small REST service.
//
// # Overview
//
// Callers speak a gateway-neutral vocabulary (purchase, authorize, capture,
// refund, void, verify). The Square adapter translates each call into one
// Square request and normalizes the reply into a provider.Result:
//
//	┌─────────────────┐    ┌─────────────────┐    ┌─────────────────┐
//	│                 │    │                 │    │                 │
//	│   Your Apps     │◄──►│    GoSquare     │◄──►│  Square Connect │
//	│                 │    │   (Adapter)     │    │       v2        │
//	│                 │    │                 │    │                 │
//	└─────────────────┘    └─────────────────┘    └─────────────────┘
//
// # Quick Start
//
//	import (
//	    "github.com/mstgnz/gosquare/infra/config"
//	    "github.com/mstgnz/gosquare/provider"
//	    _ "github.com/mstgnz/gosquare/provider/square" // registers "square"
//	)
//
//	configs := config.NewProviderConfig()
//	_ = configs.LoadFromEnv("square") // SQUARE_ACCESS_TOKEN, SQUARE_LOCATION_ID, ...
//
//	service := provider.NewPaymentService(configs)
//	result, err := service.Purchase(ctx, "square",
//	    provider.Money{Amount: 1000, Currency: "USD"},
//	    "cnon:card-nonce-ok",
//	    provider.Options{IdempotencyKey: uuid.NewString()},
//	)
//	if err != nil {
//	    // invalid input, nothing was sent
//	}
//	if result.Success {
//	    // keep result.Authorization for capture, void and refund
//	}
//
// # Environment
//
// SQUARE_ENVIRONMENT=production marks results as live; anything else is
// treated as sandbox. The base URL defaults to https://connect.squareup.com/v2
// and can be overridden with SQUARE_BASE_URL.
//
// # HTTP API
//
// The cmd binary serves the same operations over REST:
//
//	POST /v1/square/purchase
//	Headers:
//	  Authorization: Bearer your-api-key
//	  Idempotency-Key: 3f1c2b9e-...
//	  Content-Type: application/json
//
//	GET /health
//	GET /metrics
//
// ALLOWED_IPS and the per-client rate limit see the connecting peer.
// Forwarding headers count only when that peer is listed in TRUSTED_PROXIES
// (IPs or CIDR ranges). A decline answers 402, and a call that ran out of
// time answers 504 because the charge may still have gone through.
//
// # Transcripts
//
// With TRANSCRIPTS_ENABLED=true every exchange with Square is dumped, scrubbed
// of card nonces, bearer tokens and location IDs, and stored in SQLite (and
// OpenSearch when enabled).
package gosquare
