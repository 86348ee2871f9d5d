package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubGateway is an in-memory Gateway that returns canned results and
// records what it was called with.
type stubGateway struct {
	mu          sync.Mutex
	validateErr error
	initErr     error
	initialized bool
	config      map[string]string

	result *Result
	err    error
	calls  []string
	opts   []Options
}

func (s *stubGateway) Initialize(config map[string]string) error {
	if s.initErr != nil {
		return s.initErr
	}
	s.initialized = true
	s.config = config
	return nil
}

func (s *stubGateway) GetRequiredConfig(string) []ConfigField { return nil }

func (s *stubGateway) ValidateConfig(map[string]string) error { return s.validateErr }

func (s *stubGateway) record(op string, opts Options) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, op)
	s.opts = append(s.opts, opts)
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &Result{Success: true, Message: "ok", Test: true}, nil
}

func (s *stubGateway) Purchase(_ context.Context, _ Money, _ string, opts Options) (*Result, error) {
	return s.record("purchase", opts)
}

func (s *stubGateway) Authorize(_ context.Context, _ Money, _ string, opts Options) (*Result, error) {
	return s.record("authorize", opts)
}

func (s *stubGateway) Capture(_ context.Context, _ Money, _ string, opts Options) (*Result, error) {
	return s.record("capture", opts)
}

func (s *stubGateway) Refund(_ context.Context, _ Money, _ string, opts Options) (*Result, error) {
	return s.record("refund", opts)
}

func (s *stubGateway) Void(_ context.Context, _ string, opts Options) (*Result, error) {
	return s.record("void", opts)
}

func (s *stubGateway) Verify(_ context.Context, _ string, opts Options) (*Result, error) {
	return s.record("verify", opts)
}

func (s *stubGateway) Scrub(transcript string) string { return transcript }

func (s *stubGateway) SupportsScrubbing() bool { return false }

func (s *stubGateway) Info() GatewayInfo { return GatewayInfo{Name: "stub"} }

func TestMoney_Validate(t *testing.T) {
	assert.NoError(t, Money{Amount: 0}.Validate())
	assert.NoError(t, Money{Amount: 100, Currency: "USD"}.Validate())
	assert.ErrorIs(t, Money{Amount: -1}.Validate(), ErrNegativeAmount)
}

func TestIsContractError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{err: ErrMissingIdempotencyKey, want: true},
		{err: fmt.Errorf("square: refund: %w", ErrMissingAuthorization), want: true},
		{err: fmt.Errorf("square: purchase: %w", ErrMissingNonce), want: true},
		{err: ErrNegativeAmount, want: true},
		{err: ErrNotInitialized, want: true},
		{err: ErrGatewayUnavailable, want: false},
		{err: errors.New("HTTP request failed"), want: false},
		{err: nil, want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsContractError(tt.err), "%v", tt.err)
	}
}
