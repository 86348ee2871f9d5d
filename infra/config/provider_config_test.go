package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("SQUARE_APPLICATION_ID", "sandbox-sq0idp-app")
	t.Setenv("SQUARE_ACCESS_TOKEN", "sandbox-sq0atb-token")
	t.Setenv("SQUARE_LOCATION_ID", "CBASEJ6J17WEhsRglQGS9MhWrmAgAQ")
	t.Setenv("SQUARE_ENVIRONMENT", "sandbox")
	t.Setenv("SQUARE_BASE_URL", "http://localhost:1234/v2")

	pc := NewProviderConfig()
	require.NoError(t, pc.LoadFromEnv("square", "unconfigured"))

	assert.Equal(t, []string{"square"}, pc.GetAvailableProviders())

	cfg, err := pc.GetConfig("square")
	require.NoError(t, err)
	assert.Equal(t, "sandbox-sq0idp-app", cfg["applicationId"])
	assert.Equal(t, "sandbox-sq0atb-token", cfg["accessToken"])
	assert.Equal(t, "CBASEJ6J17WEhsRglQGS9MhWrmAgAQ", cfg["locationId"])
	assert.Equal(t, "sandbox", cfg["environment"])
	assert.Equal(t, "http://localhost:1234/v2", cfg["baseURL"])
}

func TestProviderConfig_GetConfigMissing(t *testing.T) {
	pc := NewProviderConfig()

	_, err := pc.GetConfig("square")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestProviderConfig_GetConfigReturnsCopy(t *testing.T) {
	pc := NewProviderConfig()
	pc.SetConfig("square", map[string]string{"accessToken": "a"})

	cfg, err := pc.GetConfig("square")
	require.NoError(t, err)
	cfg["accessToken"] = "mutated"

	again, _ := pc.GetConfig("square")
	assert.Equal(t, "a", again["accessToken"])
}

func TestEnvKeyToConfigKey(t *testing.T) {
	tests := map[string]string{
		"ACCESS_TOKEN":   "accessToken",
		"APPLICATION_ID": "applicationId",
		"LOCATION_ID":    "locationId",
		"BASE_URL":       "baseURL",
		"ENVIRONMENT":    "environment",
		"CURRENCY":       "currency",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, envKeyToConfigKey(in))
		})
	}
}
