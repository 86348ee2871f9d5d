package provider

import "errors"

// Contract errors. Gateways return these wrapped before any network call is made.
var (
	ErrMissingIdempotencyKey = errors.New("idempotency key is required")
	ErrMissingAuthorization  = errors.New("authorization token is required")
	ErrMissingNonce          = errors.New("payment nonce is required")
	ErrNegativeAmount        = errors.New("amount must not be negative")
	ErrNotInitialized        = errors.New("gateway is not initialized")
)

// ErrGatewayUnavailable is returned when a named gateway is not registered,
// not configured, or its configuration is invalid.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// IsContractError reports whether err was caused by invalid caller input rather
// than by the upstream API.
func IsContractError(err error) bool {
	return errors.Is(err, ErrMissingIdempotencyKey) ||
		errors.Is(err, ErrMissingAuthorization) ||
		errors.Is(err, ErrMissingNonce) ||
		errors.Is(err, ErrNegativeAmount) ||
		errors.Is(err, ErrNotInitialized)
}
