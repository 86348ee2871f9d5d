// Package handler provides the HTTP handlers of the GoSquare API.
//
// Handlers decode and validate JSON bodies with go-playground/validator,
// call the payment service and answer with the response.Response envelope.
//
// # Handlers
//
//   - PaymentHandler: purchase, authorize, capture, refund, void, verify and info
//   - HealthHandler: gateway configuration and backing service status
//   - LogsHandler: stored transcripts and recorded operations
//   - ConfigHandler: required gateway settings and whether each one is set
//
// # Payment Endpoints
//
//	POST /v1/{provider}/purchase   {"amount":100,"currency":"USD","nonce":"...","idempotencyKey":"..."}
//	POST /v1/{provider}/authorize  same body as purchase
//	POST /v1/{provider}/capture    {"authorization":"txn|tender"}
//	POST /v1/{provider}/refund     {"amount":100,"authorization":"txn|tender","idempotencyKey":"..."}
//	POST /v1/{provider}/void       {"authorization":"txn|tender"}
//	POST /v1/{provider}/verify     {"nonce":"...","idempotencyKey":"..."}
//	GET  /v1/{provider}/info
//
// The idempotency key may also be sent in the Idempotency-Key header.
//
// # Status Codes
//
//	200  approved; data holds the normalized result
//	402  declined or failed upstream; data holds the normalized result
//	400  malformed body, failed validation or a rejected operation contract
//	404  gateway not registered or not configured
//	504  the request deadline expired
package handler
