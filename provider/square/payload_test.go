package square

import (
	"encoding/json"
	"testing"

	"github.com/mstgnz/gosquare/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalToMap(t *testing.T, v any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestBuildChargePayload_MinimalOmitsOptionalKeys(t *testing.T) {
	delay := false
	opts := provider.Options{IdempotencyKey: "key-1", DelayCapture: &delay}

	body := marshalToMap(t, buildChargePayload(provider.Money{Amount: 100}, "nonce", opts, "USD"))

	assert.Equal(t, map[string]any{
		"idempotency_key": "key-1",
		"amount_money":    map[string]any{"amount": float64(100), "currency": "USD"},
		"card_nonce":      "nonce",
		"delay_capture":   false,
	}, body)
}

func TestBuildChargePayload_FullOptions(t *testing.T) {
	delay := true
	opts := provider.Options{
		IdempotencyKey: "key-1",
		Email:          "buyer@example.com",
		ReferenceID:    "order-7",
		Note:           "gift",
		CustomerID:     "cust-9",
		DelayCapture:   &delay,
		ShippingAddress: &provider.Address{
			Address1: "1 Main St",
			Address2: "Unit 2",
			City:     "Springfield",
			State:    "IL",
			Zip:      "62701",
			Country:  "US",
		},
	}

	body := marshalToMap(t, buildChargePayload(provider.Money{Amount: 1999, Currency: "USD"}, "nonce", opts, "USD"))

	assert.Equal(t, "buyer@example.com", body["buyer_email_address"])
	assert.Equal(t, "order-7", body["reference_id"])
	assert.Equal(t, "gift", body["note"])
	assert.Equal(t, "cust-9", body["customer_id"])
	assert.Equal(t, true, body["delay_capture"])
	assert.NotContains(t, body, "billing_address")
	assert.Equal(t, map[string]any{
		"address_line_1":                  "1 Main St",
		"address_line_2":                  "Unit 2",
		"locality":                        "Springfield",
		"administrative_district_level_1": "IL",
		"postal_code":                     "62701",
		"country":                         "US",
	}, body["shipping_address"])
}

func TestBuildMoney_CurrencyPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		money provider.Money
		opts  provider.Options
		want  string
	}{
		{name: "option wins", money: provider.Money{Amount: 1, Currency: "EUR"}, opts: provider.Options{Currency: "CAD"}, want: "CAD"},
		{name: "money currency", money: provider.Money{Amount: 1, Currency: "EUR"}, want: "EUR"},
		{name: "gateway default", money: provider.Money{Amount: 1}, want: "USD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildMoney(tt.money, tt.opts, "USD").Currency)
		})
	}
}

func TestBuildRefundPayload(t *testing.T) {
	auth := Authorization{Tenders: []TenderRef{{TransactionID: "tx", TenderID: "tender-1"}}}
	opts := provider.Options{IdempotencyKey: "key-2", Reason: "duplicate"}

	body := marshalToMap(t, buildRefundPayload(provider.Money{Amount: 40}, auth, opts, "USD"))

	assert.Equal(t, map[string]any{
		"idempotency_key": "key-2",
		"tender_id":       "tender-1",
		"reason":          "duplicate",
		"amount_money":    map[string]any{"amount": float64(40), "currency": "USD"},
	}, body)
}

func TestBuildRefundPayload_BareTransaction(t *testing.T) {
	auth := Authorization{Tenders: []TenderRef{{TransactionID: "tx"}}}
	body := marshalToMap(t, buildRefundPayload(provider.Money{Amount: 40}, auth, provider.Options{IdempotencyKey: "k"}, "USD"))
	assert.NotContains(t, body, "tender_id")
	assert.NotContains(t, body, "reason")
}
