package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayRegistry_Register(t *testing.T) {
	registry := NewGatewayRegistry()
	registry.Register("test-gateway", func() Gateway { return &stubGateway{} })

	factory, err := registry.Get("test-gateway")
	assert.NoError(t, err)
	assert.NotNil(t, factory)
}

func TestGatewayRegistry_GetAvailableProviders(t *testing.T) {
	registry := NewGatewayRegistry()
	assert.Empty(t, registry.GetAvailableProviders())

	factory := func() Gateway { return &stubGateway{} }
	registry.Register("zeta", factory)
	registry.Register("alpha", factory)

	assert.Equal(t, []string{"alpha", "zeta"}, registry.GetAvailableProviders())
}

func TestGatewayRegistry_Get_NotFound(t *testing.T) {
	registry := NewGatewayRegistry()

	factory, err := registry.Get("non-existent")
	assert.Error(t, err)
	assert.Nil(t, factory)
	assert.Contains(t, err.Error(), "is not registered")
}

func TestGatewayRegistry_Create(t *testing.T) {
	tests := []struct {
		name        string
		stub        *stubGateway
		wantErr     bool
		initialized bool
	}{
		{name: "valid config", stub: &stubGateway{}, initialized: true},
		{name: "validation fails", stub: &stubGateway{validateErr: errors.New("bad config")}, wantErr: true},
		{name: "initialize fails", stub: &stubGateway{initErr: errors.New("no token")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewGatewayRegistry()
			registry.Register("stub", func() Gateway { return tt.stub })

			g, err := registry.Create("stub", map[string]string{"accessToken": "x"})
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, g)
				return
			}
			require.NoError(t, err)
			assert.Same(t, tt.stub, g)
			assert.Equal(t, tt.initialized, tt.stub.initialized)
			assert.Equal(t, "x", tt.stub.config["accessToken"])
		})
	}
}

func TestDefaultRegistry(t *testing.T) {
	Register("default-test", func() Gateway { return &stubGateway{} })

	factory, err := Get("default-test")
	assert.NoError(t, err)
	assert.NotNil(t, factory)

	assert.Contains(t, GetAvailableProviders(), "default-test")

	g, err := Create("default-test", map[string]string{})
	require.NoError(t, err)
	assert.NotNil(t, g)
}
