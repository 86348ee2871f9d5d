package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/mstgnz/gosquare/infra/config"
	"github.com/mstgnz/gosquare/infra/response"
	"github.com/mstgnz/gosquare/provider"
)

// GatewayInfoSource resolves configured gateways by name
type GatewayInfoSource interface {
	Info(name string) (provider.GatewayInfo, error)
}

// Pinger is implemented by backing stores that can report reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	gateways        GatewayInfoSource
	gatewayNames    []string
	transcripts     Pinger
	openSearchReady bool
	startTime       time.Time
}

// HealthStatus represents overall system health
type HealthStatus struct {
	Status      string                     `json:"status"`
	Version     string                     `json:"version"`
	Timestamp   time.Time                  `json:"timestamp"`
	Uptime      string                     `json:"uptime"`
	Environment string                     `json:"environment"`
	Providers   map[string]*ProviderHealth `json:"providers"`
	System      *SystemHealth              `json:"system"`
	Services    map[string]*ServiceHealth  `json:"services"`
}

// ProviderHealth represents payment provider health
type ProviderHealth struct {
	Status     string `json:"status"`
	Configured bool   `json:"configured"`
	Currency   string `json:"currency,omitempty"`
	Error      string `json:"error,omitempty"`
}

// SystemHealth represents process resource usage
type SystemHealth struct {
	Alloc      string `json:"alloc"`
	Sys        string `json:"sys"`
	GCRuns     uint32 `json:"gc_runs"`
	GoRoutines int    `json:"goroutines"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status      string `json:"status"`
	Healthy     bool   `json:"healthy"`
	Description string `json:"description,omitempty"`
	Error       string `json:"error,omitempty"`
}

// NewHealthHandler creates a new health handler. transcripts may be nil when
// transcript capture is disabled.
func NewHealthHandler(gateways GatewayInfoSource, gatewayNames []string, transcripts Pinger, openSearchReady bool) *HealthHandler {
	return &HealthHandler{
		gateways:        gateways,
		gatewayNames:    gatewayNames,
		transcripts:     transcripts,
		openSearchReady: openSearchReady,
		startTime:       time.Now(),
	}
}

// CheckHealth reports gateway configuration and backing service status.
// It never calls an upstream payment API.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := &HealthStatus{
		Version:     "1.0.0",
		Timestamp:   time.Now().UTC(),
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Environment: config.GetEnv("ENVIRONMENT", "development"),
		Providers:   h.checkProvidersHealth(),
		System:      checkSystemHealth(),
		Services:    h.checkServicesHealth(ctx),
	}
	health.Status = determineOverallStatus(health)

	statusCode := http.StatusOK
	if health.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	_ = response.WriteJSON(w, statusCode, response.Response{
		Code:    statusCode,
		Success: health.Status != "unhealthy",
		Message: fmt.Sprintf("Service is %s", health.Status),
		Data:    health,
	})
}

func (h *HealthHandler) checkProvidersHealth() map[string]*ProviderHealth {
	providers := make(map[string]*ProviderHealth, len(h.gatewayNames))
	for _, name := range h.gatewayNames {
		ph := &ProviderHealth{Status: "not_configured"}
		if h.gateways != nil {
			info, err := h.gateways.Info(name)
			if err != nil {
				ph.Error = err.Error()
			} else {
				ph.Status = "healthy"
				ph.Configured = true
				ph.Currency = info.DefaultCurrency
			}
		}
		providers[name] = ph
	}
	return providers
}

func (h *HealthHandler) checkServicesHealth(ctx context.Context) map[string]*ServiceHealth {
	services := make(map[string]*ServiceHealth)

	services["opensearch_logger"] = &ServiceHealth{
		Status:      "not_configured",
		Description: "Operation and log shipping to OpenSearch",
	}
	if h.openSearchReady {
		services["opensearch_logger"].Status = "healthy"
		services["opensearch_logger"].Healthy = true
	}

	store := &ServiceHealth{
		Status:      "not_configured",
		Description: "Scrubbed transcript store",
	}
	if h.transcripts != nil {
		if err := h.transcripts.Ping(ctx); err != nil {
			store.Status = "unhealthy"
			store.Error = err.Error()
		} else {
			store.Status = "healthy"
			store.Healthy = true
		}
	}
	services["transcript_store"] = store

	return services
}

func checkSystemHealth() *SystemHealth {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return &SystemHealth{
		Alloc:      formatBytes(memStats.Alloc),
		Sys:        formatBytes(memStats.Sys),
		GCRuns:     memStats.NumGC,
		GoRoutines: runtime.NumGoroutine(),
	}
}

// determineOverallStatus is unhealthy when no gateway is usable and degraded
// when a configured backing service fails.
func determineOverallStatus(health *HealthStatus) string {
	configured := 0
	for _, p := range health.Providers {
		if p.Configured {
			configured++
		}
	}
	if configured == 0 {
		return "unhealthy"
	}

	for _, s := range health.Services {
		if s.Status == "unhealthy" {
			return "degraded"
		}
	}

	if configured < len(health.Providers) {
		return "degraded"
	}
	return "healthy"
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
