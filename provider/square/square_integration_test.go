package square

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/mstgnz/gosquare/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sandbox nonce that Square accepts for any amount
const sandboxNonceOK = "cnon:card-nonce-ok"

func newSandboxGateway(t *testing.T) *SquareGateway {
	t.Helper()

	conf := map[string]string{
		"applicationId": os.Getenv("SQUARE_APPLICATION_ID"),
		"accessToken":   os.Getenv("SQUARE_ACCESS_TOKEN"),
		"locationId":    os.Getenv("SQUARE_LOCATION_ID"),
		"environment":   "sandbox",
		"baseURL":       os.Getenv("SQUARE_BASE_URL"),
	}
	if conf["applicationId"] == "" || conf["accessToken"] == "" || conf["locationId"] == "" {
		t.Skip("SQUARE_APPLICATION_ID, SQUARE_ACCESS_TOKEN and SQUARE_LOCATION_ID are required for sandbox tests")
	}

	g := NewProvider().(*SquareGateway)
	require.NoError(t, g.Initialize(conf))
	return g
}

func sandboxOptions() provider.Options {
	return provider.Options{
		IdempotencyKey: uuid.NewString(),
		Email:          "buyer@example.com",
		BillingAddress: &provider.Address{
			Address1: "456 My Street",
			City:     "Ottawa",
			State:    "ON",
			Zip:      "K1C2N6",
			Country:  "CA",
		},
	}
}

func TestSquareGateway_Integration(t *testing.T) {
	g := newSandboxGateway(t)
	ctx := context.Background()

	t.Run("Purchase", func(t *testing.T) {
		res, err := g.Purchase(ctx, provider.Money{Amount: 100}, sandboxNonceOK, sandboxOptions())
		require.NoError(t, err)
		assert.True(t, res.Success, res.Message)
		assert.Equal(t, "Transaction Approved", res.Message)
		assert.NotEmpty(t, res.Authorization)
	})

	t.Run("AuthorizeAndCapture", func(t *testing.T) {
		auth, err := g.Authorize(ctx, provider.Money{Amount: 100}, sandboxNonceOK, sandboxOptions())
		require.NoError(t, err)
		require.True(t, auth.Success, auth.Message)

		capture, err := g.Capture(ctx, provider.Money{Amount: 100}, auth.Authorization, provider.Options{})
		require.NoError(t, err)
		assert.True(t, capture.Success, capture.Message)
	})

	t.Run("AuthorizeAndVoid", func(t *testing.T) {
		auth, err := g.Authorize(ctx, provider.Money{Amount: 100}, sandboxNonceOK, sandboxOptions())
		require.NoError(t, err)
		require.True(t, auth.Success, auth.Message)

		void, err := g.Void(ctx, auth.Authorization, provider.Options{})
		require.NoError(t, err)
		assert.True(t, void.Success, void.Message)
	})

	t.Run("PurchaseAndRefund", func(t *testing.T) {
		purchase, err := g.Purchase(ctx, provider.Money{Amount: 100}, sandboxNonceOK, sandboxOptions())
		require.NoError(t, err)
		require.True(t, purchase.Success, purchase.Message)

		opts := sandboxOptions()
		opts.Reason = "integration test"
		refund, err := g.Refund(ctx, provider.Money{Amount: 100}, purchase.Authorization, opts)
		require.NoError(t, err)
		assert.True(t, refund.Success, refund.Message)
	})

	t.Run("Verify", func(t *testing.T) {
		res, err := g.Verify(ctx, sandboxNonceOK, sandboxOptions())
		require.NoError(t, err)
		assert.True(t, res.Success, res.Message)
	})

	t.Run("InvalidNonce", func(t *testing.T) {
		res, err := g.Purchase(ctx, provider.Money{Amount: 100}, "not-a-nonce", sandboxOptions())
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.NotEmpty(t, res.Message)
	})
}
