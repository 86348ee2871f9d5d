package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/mstgnz/gosquare/infra/logger"
	"github.com/mstgnz/gosquare/infra/metrics"
	"github.com/mstgnz/gosquare/infra/opensearch"
)

// Operation names used in logs, metrics and operation records
const (
	OpPurchase  = "purchase"
	OpAuthorize = "authorize"
	OpCapture   = "capture"
	OpRefund    = "refund"
	OpVoid      = "void"
	OpVerify    = "verify"
)

// ConfigSource returns the credentials of a named gateway
type ConfigSource interface {
	GetConfig(providerName string) (map[string]string, error)
}

// OperationLogger persists one record per finished gateway operation
type OperationLogger interface {
	LogOperation(ctx context.Context, log opensearch.OperationLog) error
}

// PaymentService runs gateway operations by gateway name. It observes every
// call but never alters it: no retries, and options reach the gateway untouched.
type PaymentService struct {
	registry *GatewayRegistry
	configs  ConfigSource
	cache    *GatewayCache
	oplog    OperationLogger
	metrics  *metrics.GatewayMetrics
}

// ServiceOption customizes a PaymentService
type ServiceOption func(*PaymentService)

// WithRegistry replaces the default gateway registry
func WithRegistry(r *GatewayRegistry) ServiceOption {
	return func(s *PaymentService) { s.registry = r }
}

// WithOperationLogger records each operation through l
func WithOperationLogger(l OperationLogger) ServiceOption {
	return func(s *PaymentService) { s.oplog = l }
}

// WithMetrics replaces the default Prometheus collectors
func WithMetrics(m *metrics.GatewayMetrics) ServiceOption {
	return func(s *PaymentService) { s.metrics = m }
}

// WithCache replaces the default gateway cache
func WithCache(c *GatewayCache) ServiceOption {
	return func(s *PaymentService) { s.cache = c }
}

// NewPaymentService creates a new payment service reading credentials from configs
func NewPaymentService(configs ConfigSource, opts ...ServiceOption) *PaymentService {
	s := &PaymentService{
		registry: DefaultRegistry,
		configs:  configs,
		cache:    NewGatewayCache(16, time.Hour),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.Default()
	}
	return s
}

// Gateway returns the initialized gateway registered under name
func (s *PaymentService) Gateway(name string) (Gateway, error) {
	if g := s.cache.Get(name); g != nil {
		return g, nil
	}

	conf, err := s.configs.GetConfig(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	g, err := s.registry.Create(name, conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	s.cache.Set(name, g)
	return g, nil
}

// Info returns the metadata of a named gateway
func (s *PaymentService) Info(name string) (GatewayInfo, error) {
	g, err := s.Gateway(name)
	if err != nil {
		return GatewayInfo{}, err
	}
	return g.Info(), nil
}

// Purchase authorizes and captures money in one call
func (s *PaymentService) Purchase(ctx context.Context, name string, money Money, nonce string, opts Options) (*Result, error) {
	return s.run(ctx, name, OpPurchase, money, func(g Gateway) (*Result, error) {
		return g.Purchase(ctx, money, nonce, opts)
	})
}

// Authorize places a hold for a later Capture
func (s *PaymentService) Authorize(ctx context.Context, name string, money Money, nonce string, opts Options) (*Result, error) {
	return s.run(ctx, name, OpAuthorize, money, func(g Gateway) (*Result, error) {
		return g.Authorize(ctx, money, nonce, opts)
	})
}

// Capture settles an authorization
func (s *PaymentService) Capture(ctx context.Context, name string, money Money, authorization string, opts Options) (*Result, error) {
	return s.run(ctx, name, OpCapture, money, func(g Gateway) (*Result, error) {
		return g.Capture(ctx, money, authorization, opts)
	})
}

// Refund returns captured money
func (s *PaymentService) Refund(ctx context.Context, name string, money Money, authorization string, opts Options) (*Result, error) {
	return s.run(ctx, name, OpRefund, money, func(g Gateway) (*Result, error) {
		return g.Refund(ctx, money, authorization, opts)
	})
}

// Void releases an authorization
func (s *PaymentService) Void(ctx context.Context, name string, authorization string, opts Options) (*Result, error) {
	return s.run(ctx, name, OpVoid, Money{}, func(g Gateway) (*Result, error) {
		return g.Void(ctx, authorization, opts)
	})
}

// Verify checks a payment reference without taking funds
func (s *PaymentService) Verify(ctx context.Context, name string, nonce string, opts Options) (*Result, error) {
	return s.run(ctx, name, OpVerify, Money{}, func(g Gateway) (*Result, error) {
		return g.Verify(ctx, nonce, opts)
	})
}

func (s *PaymentService) run(ctx context.Context, name, operation string, money Money, call func(Gateway) (*Result, error)) (*Result, error) {
	g, err := s.Gateway(name)
	if err != nil {
		return nil, err
	}

	requestID := middleware.GetReqID(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	logCtx := logger.LogContext{
		Provider:  name,
		RequestID: requestID,
		Fields: map[string]any{
			"operation": operation,
		},
	}

	startTime := time.Now()
	result, err := call(g)
	duration := time.Since(startTime)

	outcome := metrics.OutcomeApproved
	errorCode := ""
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
		logger.Warn("Gateway operation rejected", withFields(logCtx, map[string]any{
			"error": err.Error(),
		}))
	case !result.Success:
		outcome = metrics.OutcomeDeclined
		errorCode = string(result.ErrorCode)
		logger.Info("Gateway operation declined", withFields(logCtx, map[string]any{
			"error_code":  errorCode,
			"message":     g.Scrub(result.Message),
			"duration_ms": duration.Milliseconds(),
		}))
	default:
		logger.Info("Gateway operation approved", withFields(logCtx, map[string]any{
			"duration_ms": duration.Milliseconds(),
		}))
	}

	s.metrics.ObserveOperation(name, operation, outcome, errorCode, duration)

	if err == nil && s.oplog != nil {
		s.logOperation(ctx, requestID, name, operation, money, result, duration)
	}

	return result, err
}

func (s *PaymentService) logOperation(ctx context.Context, requestID, name, operation string, money Money, result *Result, duration time.Duration) {
	entry := opensearch.OperationLog{
		Timestamp:     time.Now().UTC(),
		Provider:      name,
		Operation:     operation,
		RequestID:     requestID,
		Success:       result.Success,
		Message:       result.Message,
		ErrorCode:     string(result.ErrorCode),
		Authorization: result.Authorization,
		Amount:        money.Amount,
		Currency:      money.Currency,
		Test:          result.Test,
		DurationMs:    duration.Milliseconds(),
	}

	if err := s.oplog.LogOperation(ctx, entry); err != nil {
		logger.Warn("Failed to record gateway operation", logger.LogContext{
			Provider:  name,
			RequestID: requestID,
			Fields: map[string]any{
				"operation": operation,
				"error":     err.Error(),
			},
		})
	}
}

func withFields(ctx logger.LogContext, fields map[string]any) logger.LogContext {
	merged := make(map[string]any, len(ctx.Fields)+len(fields))
	for k, v := range ctx.Fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	ctx.Fields = merged
	return ctx
}
