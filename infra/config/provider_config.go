package config

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// ProviderConfig holds gateway credentials keyed by gateway name.
// Keys inside a gateway config use the camelCase names gateways expect
// (SQUARE_ACCESS_TOKEN -> accessToken).
type ProviderConfig struct {
	configs map[string]map[string]string
	mu      sync.RWMutex
}

// NewProviderConfig creates an empty provider configuration
func NewProviderConfig() *ProviderConfig {
	return &ProviderConfig{
		configs: make(map[string]map[string]string),
	}
}

// LoadFromEnv reads NAME_* variables for every given gateway name.
// Gateways without any variable set are skipped.
func (c *ProviderConfig) LoadFromEnv(providers ...string) error {
	for _, name := range providers {
		prefix := strings.ToUpper(name) + "_"

		k := koanf.New(".")
		err := k.Load(env.Provider(prefix, ".", func(s string) string {
			return envKeyToConfigKey(strings.TrimPrefix(s, prefix))
		}), nil)
		if err != nil {
			return fmt.Errorf("load %s env: %w", name, err)
		}

		cfg := make(map[string]string)
		for _, key := range k.Keys() {
			if value := strings.TrimSpace(k.String(key)); value != "" {
				cfg[key] = value
			}
		}
		if len(cfg) == 0 {
			continue
		}

		c.SetConfig(name, cfg)
	}

	return nil
}

// SetConfig replaces the configuration of one gateway
func (c *ProviderConfig) SetConfig(providerName string, cfg map[string]string) {
	copied := make(map[string]string, len(cfg))
	for k, v := range cfg {
		copied[k] = v
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.configs[providerName] = copied
}

// GetConfig returns a copy of a gateway configuration
func (c *ProviderConfig) GetConfig(providerName string) (map[string]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cfg, ok := c.configs[providerName]
	if !ok {
		return nil, fmt.Errorf("configuration for provider '%s' not found", providerName)
	}

	copied := make(map[string]string, len(cfg))
	for k, v := range cfg {
		copied[k] = v
	}
	return copied, nil
}

// GetAvailableProviders returns the sorted names of configured gateways
func (c *ProviderConfig) GetAvailableProviders() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.configs))
	for name := range c.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// envKeyToConfigKey turns ACCESS_TOKEN into accessToken and BASE_URL into baseURL
func envKeyToConfigKey(key string) string {
	parts := strings.Split(strings.ToLower(key), "_")
	var b strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 {
			b.WriteString(part)
			continue
		}
		switch part {
		case "id":
			b.WriteString("Id")
		case "url":
			b.WriteString("URL")
		default:
			b.WriteString(strings.ToUpper(part[:1]) + part[1:])
		}
	}
	return b.String()
}
