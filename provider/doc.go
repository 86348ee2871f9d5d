// Package provider defines the gateway abstraction used by GoSquare and the
// plumbing shared by every gateway adapter.
//
// # Core Concepts
//
//   - Gateway: the interface each adapter implements (purchase, authorize,
//     capture, refund, void, verify, scrub)
//   - Result: the normalized outcome of one operation
//   - GatewayRegistry: name to factory mapping, filled by adapter init functions
//   - PaymentService: runs operations by gateway name with logging and metrics
//   - ProviderHTTPClient: JSON transport with tracing and optional transcript capture
//
// # Basic Usage
//
//	import (
//	    "github.com/mstgnz/gosquare/infra/config"
//	    "github.com/mstgnz/gosquare/provider"
//	    _ "github.com/mstgnz/gosquare/provider/square"
//	)
//
//	configs := config.NewProviderConfig()
//	if err := configs.LoadFromEnv("square"); err != nil {
//	    return err
//	}
//
//	service := provider.NewPaymentService(configs)
//	result, err := service.Purchase(ctx, "square",
//	    provider.Money{Amount: 1000, Currency: "USD"},
//	    nonce,
//	    provider.Options{IdempotencyKey: uuid.NewString()},
//	)
//
// # Errors
//
// Operations distinguish three cases. Invalid caller input is returned as an
// error wrapping one of the Err* sentinels before any network call; use
// IsContractError to detect it. Declines and upstream errors come back as a
// Result with Success false and a nil error. Transport failures are folded
// into a failed Result the same way.
//
// # Transcripts
//
// When SetTranscriptSink has been called, gateways initialized afterwards wrap
// their transport with a TranscriptRecorder. Every exchange is dumped, passed
// through the gateway's Scrub and only then handed to the sink.
package provider
