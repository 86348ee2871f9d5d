package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/gosquare/handler"
	"github.com/mstgnz/gosquare/infra/config"
	"github.com/mstgnz/gosquare/infra/validate"
	"github.com/mstgnz/gosquare/provider"
	v1 "github.com/mstgnz/gosquare/router/v1"
	"github.com/stretchr/testify/assert"
)

func newTestRouter() http.Handler {
	validate.CustomValidate()
	configs := config.NewProviderConfig()
	service := provider.NewPaymentService(configs, provider.WithRegistry(provider.DefaultRegistry))

	r := chi.NewRouter()
	Routes(r, "test-api-key", v1.Handlers{
		Payment: handler.NewPaymentHandler(service, config.App().Validator),
		Logs:    handler.NewLogsHandler(nil, nil),
		Config:  handler.NewConfigHandler(provider.DefaultRegistry, configs),
	})
	return r
}

func TestRoutes_RequireAPIKey(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name       string
		auth       string
		path       string
		expectCode int
	}{
		{name: "missing key", path: "/v1/square/config", expectCode: http.StatusUnauthorized},
		{name: "wrong key", auth: "Bearer nope", path: "/v1/square/config", expectCode: http.StatusUnauthorized},
		{name: "valid key", auth: "Bearer test-api-key", path: "/v1/square/config", expectCode: http.StatusOK},
		{name: "unconfigured gateway info", auth: "Bearer test-api-key", path: "/v1/square/info", expectCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			assert.Equal(t, tt.expectCode, rr.Code)
		})
	}
}

func TestSquareRegistered(t *testing.T) {
	assert.Contains(t, provider.GetAvailableProviders(), "square")
}
