package provider

import (
	"fmt"
	"sort"
	"sync"
)

// GatewayRegistry maps gateway names to their factories
type GatewayRegistry struct {
	factories map[string]GatewayFactory
	mu        sync.RWMutex
}

// NewGatewayRegistry creates an empty registry
func NewGatewayRegistry() *GatewayRegistry {
	return &GatewayRegistry{
		factories: make(map[string]GatewayFactory),
	}
}

// Register adds a gateway factory to the registry
func (r *GatewayRegistry) Register(name string, factory GatewayFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get retrieves a gateway factory by name
func (r *GatewayRegistry) Get(name string) (GatewayFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("payment gateway '%s' is not registered", name)
	}

	return factory, nil
}

// Create builds an initialized gateway from its registered factory.
// The config is validated before Initialize is called.
func (r *GatewayRegistry) Create(name string, config map[string]string) (Gateway, error) {
	factory, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	gateway := factory()
	if err := gateway.ValidateConfig(config); err != nil {
		return nil, err
	}
	if err := gateway.Initialize(config); err != nil {
		return nil, err
	}

	return gateway, nil
}

// GetAvailableProviders returns the sorted names of all registered gateways
func (r *GatewayRegistry) GetAvailableProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// DefaultRegistry is the global default gateway registry
var DefaultRegistry = NewGatewayRegistry()

// Register registers a gateway with the default registry
func Register(name string, factory GatewayFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get retrieves a gateway factory from the default registry
func Get(name string) (GatewayFactory, error) {
	return DefaultRegistry.Get(name)
}

// Create builds an initialized gateway from the default registry
func Create(name string, config map[string]string) (Gateway, error) {
	return DefaultRegistry.Create(name, config)
}

// GetAvailableProviders lists gateways in the default registry
func GetAvailableProviders() []string {
	return DefaultRegistry.GetAvailableProviders()
}
