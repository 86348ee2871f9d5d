package validate

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Key        string `validate:"omitempty,idempotency_key"`
	LocationID string `validate:"omitempty,location_id"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, Register(v))
	return v
}

func TestIdempotencyKey(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name  string
		key   string
		valid bool
	}{
		{"uuid", "3f1c2b9e-8a4d-4c1e-9f0a-2b7d6e5c4a31", true},
		{"empty is skipped", "", true},
		{"max length", strings.Repeat("k", 192), true},
		{"too long", strings.Repeat("k", 193), false},
		{"contains space", "order 42", false},
		{"contains newline", "order\n42", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(sample{Key: tt.key})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLocationID(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(sample{LocationID: "CBASEJ6J17WEhsRglQGS9MhWrmAgAQ"}))
	assert.Error(t, v.Struct(sample{LocationID: "../payments"}))
	assert.Error(t, v.Struct(sample{LocationID: "loc id"}))
}

func TestCustomValidate(t *testing.T) {
	assert.NotPanics(t, CustomValidate)
}
