package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/gosquare/infra/response"
	"github.com/mstgnz/gosquare/provider"
)

// FactorySource looks up registered gateway factories
type FactorySource interface {
	Get(name string) (provider.GatewayFactory, error)
}

// ConfigHandler describes what a gateway needs to be configured. Secret values
// are never returned, only whether each key is present.
type ConfigHandler struct {
	factories FactorySource
	configs   provider.ConfigSource
}

// ConfigFieldStatus is a required config field plus whether it is set
type ConfigFieldStatus struct {
	provider.ConfigField
	Configured bool `json:"configured"`
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(factories FactorySource, configs provider.ConfigSource) *ConfigHandler {
	return &ConfigHandler{
		factories: factories,
		configs:   configs,
	}
}

// GetConfig handles GET /v1/{provider}/config?environment=sandbox|production
func (h *ConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	providerName := chi.URLParam(r, "provider")

	factory, err := h.factories.Get(providerName)
	if err != nil {
		response.Error(w, http.StatusNotFound, "Payment gateway not available", err)
		return
	}

	environment := r.URL.Query().Get("environment")
	if environment != "production" {
		environment = "sandbox"
	}

	current, err := h.configs.GetConfig(providerName)
	if err != nil {
		current = map[string]string{}
	}

	gateway := factory()
	fields := gateway.GetRequiredConfig(environment)
	statuses := make([]ConfigFieldStatus, 0, len(fields))
	for _, f := range fields {
		statuses = append(statuses, ConfigFieldStatus{
			ConfigField: f,
			Configured:  current[f.Key] != "",
		})
	}

	var validationError string
	if err := gateway.ValidateConfig(current); err != nil {
		validationError = err.Error()
	}

	response.Success(w, http.StatusOK, "Gateway configuration", map[string]any{
		"provider":        providerName,
		"environment":     environment,
		"valid":           validationError == "",
		"validationError": validationError,
		"fields":          statuses,
	})
}
