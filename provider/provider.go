package provider

import (
	"context"
)

// ErrorKind is the standardized error classification shared by all gateways.
// The zero value means the upstream error had no standardized equivalent.
type ErrorKind string

const (
	ErrorInvalidNumber     ErrorKind = "invalid_number"
	ErrorInvalidExpiryDate ErrorKind = "invalid_expiry_date"
	ErrorExpiredCard       ErrorKind = "expired_card"
	ErrorIncorrectCVC      ErrorKind = "incorrect_cvc"
	ErrorIncorrectZip      ErrorKind = "incorrect_zip"
	ErrorCardDeclined      ErrorKind = "card_declined"
	ErrorCallIssuer        ErrorKind = "call_issuer"
)

// AVSResult is an address verification code as reported on a Result.
type AVSResult string

// CVVResult is a card security code verification code as reported on a Result.
type CVVResult string

// Sentinels for gateways whose upstream never reports address or security code
// checks. They must not be read as a performed verification.
const (
	AVSNotVerified AVSResult = "I"
	CVVNotVerified CVVResult = "P"
)

// Money is an amount in minor units (cents) with its ISO currency code.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency,omitempty"`
}

// Validate rejects amounts the upstream could never accept.
func (m Money) Validate() error {
	if m.Amount < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Address represents a billing or shipping address
type Address struct {
	Address1 string `json:"address1,omitempty"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Zip      string `json:"zip,omitempty"`
	Country  string `json:"country,omitempty"`
}

// Options carries the per-call keys a gateway understands.
type Options struct {
	IdempotencyKey  string   `json:"idempotencyKey,omitempty"`
	LocationID      string   `json:"locationId,omitempty"`
	Currency        string   `json:"currency,omitempty"`
	Email           string   `json:"email,omitempty"`
	ReferenceID     string   `json:"referenceId,omitempty"`
	Note            string   `json:"note,omitempty"`
	CustomerID      string   `json:"customerId,omitempty"`
	Reason          string   `json:"reason,omitempty"`
	BillingAddress  *Address `json:"billingAddress,omitempty"`
	ShippingAddress *Address `json:"shippingAddress,omitempty"`

	// DelayCapture is owned by the gateway: purchase clears it, authorize sets it.
	DelayCapture *bool `json:"-"`
}

// Result is the normalized outcome of one gateway operation.
type Result struct {
	Success       bool           `json:"success"`
	Message       string         `json:"message"`
	Params        map[string]any `json:"params,omitempty"`
	Authorization string         `json:"authorization,omitempty"`
	ErrorCode     ErrorKind      `json:"errorCode,omitempty"`
	AVSResult     AVSResult      `json:"avsResult,omitempty"`
	CVVResult     CVVResult      `json:"cvvResult,omitempty"`
	Test          bool           `json:"test"`
}

// GatewayInfo describes static gateway capabilities.
type GatewayInfo struct {
	Name               string   `json:"name"`
	DisplayName        string   `json:"displayName"`
	Homepage           string   `json:"homepage"`
	LiveURL            string   `json:"liveUrl"`
	SupportedCountries []string `json:"supportedCountries"`
	DefaultCurrency    string   `json:"defaultCurrency"`
	MoneyFormat        string   `json:"moneyFormat"`
	CardTypes          []string `json:"cardTypes"`
}

// ConfigField represents a required configuration field for a gateway
type ConfigField struct {
	Key         string `json:"key"`
	Required    bool   `json:"required"`
	Type        string `json:"type"` // "string", "number", "url", "email", "boolean"
	Description string `json:"description"`
	Example     string `json:"example"`
	Pattern     string `json:"pattern,omitempty"`
	MinLength   int    `json:"minLength,omitempty"`
	MaxLength   int    `json:"maxLength,omitempty"`
}

// Gateway defines the interface that every payment gateway adapter implements
type Gateway interface {
	// Initialize sets up the gateway with credentials and configuration
	Initialize(config map[string]string) error

	// GetRequiredConfig returns the configuration fields required for this gateway
	GetRequiredConfig(environment string) []ConfigField

	// ValidateConfig validates the provided configuration against gateway requirements
	ValidateConfig(config map[string]string) error

	// Purchase authorizes and captures funds in one call
	Purchase(ctx context.Context, money Money, nonce string, opts Options) (*Result, error)

	// Authorize places a hold that a later Capture settles
	Authorize(ctx context.Context, money Money, nonce string, opts Options) (*Result, error)

	// Capture settles a previously authorized transaction
	Capture(ctx context.Context, money Money, authorization string, opts Options) (*Result, error)

	// Refund returns funds for a captured transaction
	Refund(ctx context.Context, money Money, authorization string, opts Options) (*Result, error)

	// Void releases an uncaptured authorization
	Void(ctx context.Context, authorization string, opts Options) (*Result, error)

	// Verify checks that a payment reference is chargeable without taking funds
	Verify(ctx context.Context, nonce string, opts Options) (*Result, error)

	// Scrub redacts secrets from a captured HTTP transcript
	Scrub(transcript string) string

	// SupportsScrubbing reports whether Scrub is implemented
	SupportsScrubbing() bool

	// Info returns static gateway metadata
	Info() GatewayInfo
}

// GatewayFactory is a function type that creates a new, uninitialized Gateway
type GatewayFactory func() Gateway
