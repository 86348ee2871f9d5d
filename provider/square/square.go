package square

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mstgnz/gosquare/infra/logger"
	"github.com/mstgnz/gosquare/infra/metrics"
	"github.com/mstgnz/gosquare/provider"
)

const (
	providerName = "square"

	// API URLs
	apiLiveURL = "https://connect.squareup.com/v2"

	// API Endpoints
	endpointTransactions = "locations/%s/transactions"
	endpointTransaction  = "locations/%s/transactions/%s/%s" // location, transaction, action

	actionCapture = "capture"
	actionVoid    = "void"
	actionRefund  = "refund"

	// Default Values
	defaultCurrency = "USD"
	defaultTimeout  = 30 * time.Second

	// verifyAmount is authorized and released again by Verify
	verifyAmount = 100
)

// SquareGateway implements provider.Gateway for the Square Connect v2 transactions API.
// It is immutable after Initialize and safe for concurrent use.
type SquareGateway struct {
	applicationID string
	accessToken   string
	locationID    string
	baseURL       string
	currency      string
	test          bool
	httpClient    *provider.ProviderHTTPClient
	scrubber      scrubber
	metrics       *metrics.GatewayMetrics
}

// NewProvider creates a new, uninitialized Square gateway
func NewProvider() provider.Gateway {
	return &SquareGateway{
		metrics: metrics.Default(),
	}
}

// GetRequiredConfig returns the configuration fields required for Square
func (g *SquareGateway) GetRequiredConfig(environment string) []provider.ConfigField {
	return []provider.ConfigField{
		{
			Key:         "applicationId",
			Required:    true,
			Type:        "string",
			Description: "Square application ID",
			Example:     "sandbox-sq0idp-xxxxxxxxxxxxxxxxxxxxxx",
			MinLength:   8,
			MaxLength:   100,
		},
		{
			Key:         "accessToken",
			Required:    true,
			Type:        "string",
			Description: "Square access token, sent as a bearer token",
			Example:     "sandbox-sq0atb-xxxxxxxxxxxxxxxxxxxxxx",
			MinLength:   8,
			MaxLength:   200,
		},
		{
			Key:         "locationId",
			Required:    true,
			Type:        "string",
			Description: "Default Square location charged by this gateway",
			Example:     "CBASEJ6J17WEhsRglQGS9MhWrmAgAQ",
			Pattern:     "^[A-Za-z0-9]+$",
		},
		{
			Key:         "environment",
			Required:    false,
			Type:        "string",
			Description: "Environment setting (sandbox or production)",
			Example:     "sandbox",
			Pattern:     "^(sandbox|production)$",
		},
		{
			Key:         "currency",
			Required:    false,
			Type:        "string",
			Description: "Currency used when a call does not name one",
			Example:     defaultCurrency,
			Pattern:     "^[A-Za-z]{3}$",
		},
		{
			Key:         "baseURL",
			Required:    false,
			Type:        "url",
			Description: "Override for the Square Connect API root",
			Example:     apiLiveURL,
		},
	}
}

// ValidateConfig validates the provided configuration against Square requirements
func (g *SquareGateway) ValidateConfig(config map[string]string) error {
	requiredFields := g.GetRequiredConfig(config["environment"])
	return provider.ValidateConfigFields(providerName, config, requiredFields)
}

// Initialize sets up the gateway with credentials and builds its HTTP client.
// Outbound exchanges are recorded when a transcript sink is installed.
func (g *SquareGateway) Initialize(conf map[string]string) error {
	g.applicationID = conf["applicationId"]
	g.accessToken = conf["accessToken"]
	g.locationID = conf["locationId"]

	if g.applicationID == "" {
		return errors.New("square: applicationId is required")
	}
	if g.accessToken == "" {
		return errors.New("square: accessToken is required")
	}
	if g.locationID == "" {
		return errors.New("square: locationId is required")
	}

	g.test = conf["environment"] != "production"

	g.baseURL = apiLiveURL
	if baseURL := conf["baseURL"]; baseURL != "" {
		g.baseURL = strings.TrimSuffix(baseURL, "/")
	}

	g.currency = defaultCurrency
	if currency := conf["currency"]; currency != "" {
		g.currency = strings.ToUpper(currency)
	}

	if g.metrics == nil {
		g.metrics = metrics.Default()
	}

	g.scrubber = newScrubber(g.accessToken)

	clientConfig := provider.CreateHTTPClientConfig(g.baseURL, defaultTimeout)
	if sink := provider.GetTranscriptSink(); sink != nil {
		clientConfig.Recorder = provider.NewTranscriptRecorder(providerName, g.Scrub, sink)
	}
	g.httpClient = provider.NewProviderHTTPClient(clientConfig)

	return nil
}

// Purchase charges the nonce and captures immediately
func (g *SquareGateway) Purchase(ctx context.Context, m provider.Money, nonce string, opts provider.Options) (*provider.Result, error) {
	res, err := g.charge(ctx, m, nonce, opts, false)
	if err != nil {
		return nil, fmt.Errorf("square: purchase: %w", err)
	}
	return res, nil
}

// Authorize charges the nonce with delayed capture
func (g *SquareGateway) Authorize(ctx context.Context, m provider.Money, nonce string, opts provider.Options) (*provider.Result, error) {
	res, err := g.charge(ctx, m, nonce, opts, true)
	if err != nil {
		return nil, fmt.Errorf("square: authorize: %w", err)
	}
	return res, nil
}

func (g *SquareGateway) charge(ctx context.Context, m provider.Money, nonce string, opts provider.Options, delayCapture bool) (*provider.Result, error) {
	if g.httpClient == nil {
		return nil, provider.ErrNotInitialized
	}
	if opts.IdempotencyKey == "" {
		return nil, provider.ErrMissingIdempotencyKey
	}
	if nonce == "" {
		return nil, provider.ErrMissingNonce
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	opts.DelayCapture = &delayCapture
	payload := buildChargePayload(m, nonce, opts, g.currency)

	endpoint := fmt.Sprintf(endpointTransactions, url.PathEscape(g.location(opts)))
	return g.commit(ctx, endpoint, payload), nil
}

// Capture settles a delayed-capture transaction. Square always captures the
// full authorized amount, so money is not sent.
func (g *SquareGateway) Capture(ctx context.Context, m provider.Money, authorization string, opts provider.Options) (*provider.Result, error) {
	auth, err := g.parseAuthorization(authorization)
	if err != nil {
		return nil, fmt.Errorf("square: capture: %w", err)
	}
	return g.commit(ctx, g.transactionEndpoint(opts, auth, actionCapture), nil), nil
}

// Refund returns money against the tender named in the authorization
func (g *SquareGateway) Refund(ctx context.Context, m provider.Money, authorization string, opts provider.Options) (*provider.Result, error) {
	if g.httpClient == nil {
		return nil, fmt.Errorf("square: refund: %w", provider.ErrNotInitialized)
	}
	if opts.IdempotencyKey == "" {
		return nil, fmt.Errorf("square: refund: %w", provider.ErrMissingIdempotencyKey)
	}
	auth, err := g.parseAuthorization(authorization)
	if err != nil {
		return nil, fmt.Errorf("square: refund: %w", err)
	}
	if auth.TenderID() == "" {
		return nil, fmt.Errorf("square: refund: tender id: %w", provider.ErrMissingAuthorization)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("square: refund: %w", err)
	}

	payload := buildRefundPayload(m, auth, opts, g.currency)
	return g.commit(ctx, g.transactionEndpoint(opts, auth, actionRefund), payload), nil
}

// Void releases a delayed-capture transaction
func (g *SquareGateway) Void(ctx context.Context, authorization string, opts provider.Options) (*provider.Result, error) {
	auth, err := g.parseAuthorization(authorization)
	if err != nil {
		return nil, fmt.Errorf("square: void: %w", err)
	}
	return g.commit(ctx, g.transactionEndpoint(opts, auth, actionVoid), nil), nil
}

// voidOutcome is the release phase of Verify. It never changes the verify result.
type voidOutcome struct {
	attempted bool
	result    *provider.Result
	err       error
}

func (v voidOutcome) failed() bool {
	return v.attempted && (v.err != nil || v.result == nil || !v.result.Success)
}

// Verify authorizes a probe amount and voids it again. The authorize result
// is returned whatever happens to the void.
func (g *SquareGateway) Verify(ctx context.Context, nonce string, opts provider.Options) (*provider.Result, error) {
	authorized, release, err := g.verifyPhases(ctx, nonce, opts)
	if err != nil {
		return nil, fmt.Errorf("square: verify: %w", err)
	}
	g.reportRelease(release)
	return authorized, nil
}

// verifyPhases runs authorize then, when a token came back, void. Calls are
// strictly sequential.
func (g *SquareGateway) verifyPhases(ctx context.Context, nonce string, opts provider.Options) (*provider.Result, voidOutcome, error) {
	authorized, err := g.charge(ctx, provider.Money{Amount: verifyAmount}, nonce, opts, true)
	if err != nil {
		return nil, voidOutcome{}, err
	}
	if authorized.Authorization == "" {
		return authorized, voidOutcome{}, nil
	}

	release := voidOutcome{attempted: true}
	release.result, release.err = g.Void(ctx, authorized.Authorization, opts)
	return authorized, release, nil
}

func (g *SquareGateway) reportRelease(release voidOutcome) {
	if !release.failed() {
		return
	}

	fields := map[string]any{}
	if release.err != nil {
		fields["error"] = release.err.Error()
	}
	if release.result != nil {
		fields["message"] = g.Scrub(release.result.Message)
	}
	logger.Warn("Verify could not void its probe authorization", logger.LogContext{
		Provider: providerName,
		Fields:   fields,
	})
	if g.metrics != nil {
		g.metrics.IncReleaseFailure(providerName)
	}
}

// SupportsScrubbing reports that Scrub is implemented
func (g *SquareGateway) SupportsScrubbing() bool {
	return true
}

// Scrub redacts the card nonce, the bearer token and location ids from a transcript
func (g *SquareGateway) Scrub(transcript string) string {
	return g.scrubber.scrub(transcript)
}

// Info returns static gateway metadata
func (g *SquareGateway) Info() provider.GatewayInfo {
	currency := g.currency
	if currency == "" {
		currency = defaultCurrency
	}
	return provider.GatewayInfo{
		Name:               providerName,
		DisplayName:        "Square Connect",
		Homepage:           "https://squareup.com/developers",
		LiveURL:            apiLiveURL,
		SupportedCountries: []string{"US"},
		DefaultCurrency:    currency,
		MoneyFormat:        "cents",
		CardTypes:          []string{"visa", "master", "american_express", "discover"},
	}
}

func (g *SquareGateway) parseAuthorization(token string) (Authorization, error) {
	if g.httpClient == nil {
		return Authorization{}, provider.ErrNotInitialized
	}
	return ParseAuthorization(token)
}

func (g *SquareGateway) location(opts provider.Options) string {
	if opts.LocationID != "" {
		return opts.LocationID
	}
	return g.locationID
}

func (g *SquareGateway) transactionEndpoint(opts provider.Options, auth Authorization, action string) string {
	return fmt.Sprintf(endpointTransaction,
		url.PathEscape(g.location(opts)),
		url.PathEscape(auth.TransactionID()),
		action,
	)
}

func (g *SquareGateway) commit(ctx context.Context, endpoint string, body any) *provider.Result {
	params, o := g.apiRequest(ctx, endpoint, body)
	return g.resultFrom(params, o)
}

// apiRequest posts body and classifies whatever comes back. Error statuses are
// parsed like any other body. A transport failure yields the synthesized
// malformed outcome and is only logged.
func (g *SquareGateway) apiRequest(ctx context.Context, endpoint string, body any) (map[string]any, outcome) {
	req := &provider.HTTPRequest{
		Method:   http.MethodPost,
		Endpoint: endpoint,
		Headers: map[string]string{
			"Authorization": "Bearer " + g.accessToken,
		},
		Body: body,
	}

	resp, err := g.httpClient.SendJSON(ctx, req)
	if err != nil {
		var httpErr *provider.HTTPError
		if !errors.As(err, &httpErr) || httpErr.Response == nil {
			logger.Warn("Square request failed", logger.LogContext{
				Provider: providerName,
				Fields: map[string]any{
					"endpoint": g.Scrub("/" + endpoint),
					"error":    g.Scrub(err.Error()),
				},
			})
			return classify(nil)
		}
		resp = httpErr.Response
	}

	return classify(resp.Body)
}
