package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/mstgnz/gosquare/infra/logger"
	"github.com/mstgnz/gosquare/infra/response"
	"github.com/mstgnz/gosquare/provider"
)

const requestTimeout = 30 * time.Second

// PaymentServiceInterface defines the interface for payment operations
type PaymentServiceInterface interface {
	Purchase(ctx context.Context, name string, money provider.Money, nonce string, opts provider.Options) (*provider.Result, error)
	Authorize(ctx context.Context, name string, money provider.Money, nonce string, opts provider.Options) (*provider.Result, error)
	Capture(ctx context.Context, name string, money provider.Money, authorization string, opts provider.Options) (*provider.Result, error)
	Refund(ctx context.Context, name string, money provider.Money, authorization string, opts provider.Options) (*provider.Result, error)
	Void(ctx context.Context, name string, authorization string, opts provider.Options) (*provider.Result, error)
	Verify(ctx context.Context, name string, nonce string, opts provider.Options) (*provider.Result, error)
	Info(name string) (provider.GatewayInfo, error)
}

// OptionsRequest carries the per-call options shared by every operation
type OptionsRequest struct {
	IdempotencyKey  string            `json:"idempotencyKey,omitempty" validate:"omitempty,idempotency_key"`
	LocationID      string            `json:"locationId,omitempty" validate:"omitempty,location_id"`
	Email           string            `json:"email,omitempty" validate:"omitempty,email"`
	ReferenceID     string            `json:"referenceId,omitempty" validate:"omitempty,max=40"`
	Note            string            `json:"note,omitempty" validate:"omitempty,max=500"`
	CustomerID      string            `json:"customerId,omitempty" validate:"omitempty,max=191"`
	Reason          string            `json:"reason,omitempty" validate:"omitempty,max=192"`
	BillingAddress  *provider.Address `json:"billingAddress,omitempty"`
	ShippingAddress *provider.Address `json:"shippingAddress,omitempty"`
}

// ChargeRequest is the body of purchase and authorize
type ChargeRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency,omitempty" validate:"omitempty,iso4217"`
	Nonce    string `json:"nonce"`
	OptionsRequest
}

// SettleRequest is the body of capture and refund
type SettleRequest struct {
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency,omitempty" validate:"omitempty,iso4217"`
	Authorization string `json:"authorization" validate:"max=512"`
	OptionsRequest
}

// VoidRequest is the body of void
type VoidRequest struct {
	Authorization string `json:"authorization" validate:"max=512"`
	OptionsRequest
}

// VerifyRequest is the body of verify
type VerifyRequest struct {
	Nonce string `json:"nonce"`
	OptionsRequest
}

// PaymentHandler handles payment related HTTP requests
type PaymentHandler struct {
	paymentService PaymentServiceInterface
	validate       *validator.Validate
	timeout        time.Duration
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService PaymentServiceInterface, validate *validator.Validate) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		validate:       validate,
		timeout:        requestTimeout,
	}
}

// Purchase handles POST /v1/{provider}/purchase
func (h *PaymentHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req ChargeRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.paymentService.Purchase(ctx, chi.URLParam(r, "provider"), req.money(), req.Nonce, req.options(r))
	h.respond(ctx, w, r, result, err)
}

// Authorize handles POST /v1/{provider}/authorize
func (h *PaymentHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	var req ChargeRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.paymentService.Authorize(ctx, chi.URLParam(r, "provider"), req.money(), req.Nonce, req.options(r))
	h.respond(ctx, w, r, result, err)
}

// Capture handles POST /v1/{provider}/capture
func (h *PaymentHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var req SettleRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.paymentService.Capture(ctx, chi.URLParam(r, "provider"), req.money(), req.Authorization, req.options(r))
	h.respond(ctx, w, r, result, err)
}

// Refund handles POST /v1/{provider}/refund
func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	var req SettleRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.paymentService.Refund(ctx, chi.URLParam(r, "provider"), req.money(), req.Authorization, req.options(r))
	h.respond(ctx, w, r, result, err)
}

// Void handles POST /v1/{provider}/void
func (h *PaymentHandler) Void(w http.ResponseWriter, r *http.Request) {
	var req VoidRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.paymentService.Void(ctx, chi.URLParam(r, "provider"), req.Authorization, req.options(r))
	h.respond(ctx, w, r, result, err)
}

// Verify handles POST /v1/{provider}/verify
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.paymentService.Verify(ctx, chi.URLParam(r, "provider"), req.Nonce, req.options(r))
	h.respond(ctx, w, r, result, err)
}

// Info handles GET /v1/{provider}/info
func (h *PaymentHandler) Info(w http.ResponseWriter, r *http.Request) {
	info, err := h.paymentService.Info(chi.URLParam(r, "provider"))
	if err != nil {
		h.respond(r.Context(), w, r, nil, err)
		return
	}
	response.Success(w, http.StatusOK, "Gateway info", info)
}

func (h *PaymentHandler) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request format", err)
		return false
	}

	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation error", err)
		return false
	}

	return true
}

// respond maps a gateway outcome to the response envelope. Declines carry the
// normalized result with 402. A failed result after ctx expired is 504, since
// the upstream may still have charged.
func (h *PaymentHandler) respond(ctx context.Context, w http.ResponseWriter, r *http.Request, result *provider.Result, err error) {
	switch {
	case err == nil && result.Success:
		response.Success(w, http.StatusOK, "Transaction approved", result)
	case err == nil && ctx.Err() != nil:
		logger.Warn("Payment operation timed out", logger.LogContext{
			Provider: chi.URLParam(r, "provider"),
			Fields: map[string]any{
				"path":  r.URL.Path,
				"error": ctx.Err().Error(),
			},
		})
		_ = response.WriteJSON(w, http.StatusGatewayTimeout, response.Response{
			Code:    http.StatusGatewayTimeout,
			Success: false,
			Message: "Payment gateway timed out, outcome unknown",
			Error:   ctx.Err().Error(),
			Data:    result,
		})
	case err == nil:
		_ = response.WriteJSON(w, http.StatusPaymentRequired, response.Response{
			Code:    http.StatusPaymentRequired,
			Success: false,
			Message: result.Message,
			Data:    result,
		})
	case provider.IsContractError(err):
		response.Error(w, http.StatusBadRequest, "Invalid payment request", err)
	case errors.Is(err, provider.ErrGatewayUnavailable):
		response.Error(w, http.StatusNotFound, "Payment gateway not available", err)
	case errors.Is(err, context.DeadlineExceeded):
		response.Error(w, http.StatusGatewayTimeout, "Payment gateway timed out", err)
	default:
		logger.Error("Payment operation failed", err, logger.LogContext{
			Provider: chi.URLParam(r, "provider"),
			Fields:   map[string]any{"path": r.URL.Path},
		})
		response.Error(w, http.StatusInternalServerError, "Payment operation failed", err)
	}
}

func (req ChargeRequest) money() provider.Money {
	return provider.Money{Amount: req.Amount, Currency: req.Currency}
}

func (req SettleRequest) money() provider.Money {
	return provider.Money{Amount: req.Amount, Currency: req.Currency}
}

// options falls back to the Idempotency-Key header when the body carries none
func (o OptionsRequest) options(r *http.Request) provider.Options {
	key := o.IdempotencyKey
	if key == "" {
		key = r.Header.Get("Idempotency-Key")
	}

	return provider.Options{
		IdempotencyKey:  key,
		LocationID:      o.LocationID,
		Email:           o.Email,
		ReferenceID:     o.ReferenceID,
		Note:            o.Note,
		CustomerID:      o.CustomerID,
		Reason:          o.Reason,
		BillingAddress:  o.BillingAddress,
		ShippingAddress: o.ShippingAddress,
	}
}
