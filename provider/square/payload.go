package square

import (
	"github.com/mstgnz/gosquare/provider"
)

type money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type address struct {
	AddressLine1                 string `json:"address_line_1,omitempty"`
	AddressLine2                 string `json:"address_line_2,omitempty"`
	Locality                     string `json:"locality,omitempty"`
	AdministrativeDistrictLevel1 string `json:"administrative_district_level_1,omitempty"`
	PostalCode                   string `json:"postal_code,omitempty"`
	Country                      string `json:"country,omitempty"`
}

// chargeRequest is the body of POST locations/{id}/transactions.
// Optional fields are omitted rather than sent as null.
type chargeRequest struct {
	IdempotencyKey    string   `json:"idempotency_key"`
	AmountMoney       money    `json:"amount_money"`
	CardNonce         string   `json:"card_nonce"`
	BillingAddress    *address `json:"billing_address,omitempty"`
	ShippingAddress   *address `json:"shipping_address,omitempty"`
	CustomerID        string   `json:"customer_id,omitempty"`
	BuyerEmailAddress string   `json:"buyer_email_address,omitempty"`
	ReferenceID       string   `json:"reference_id,omitempty"`
	Note              string   `json:"note,omitempty"`
	DelayCapture      *bool    `json:"delay_capture,omitempty"`
}

// refundRequest is the body of POST .../transactions/{id}/refund
type refundRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
	TenderID       string `json:"tender_id,omitempty"`
	Reason         string `json:"reason,omitempty"`
	AmountMoney    money  `json:"amount_money"`
}

func buildChargePayload(m provider.Money, nonce string, opts provider.Options, defaultCurrency string) chargeRequest {
	return chargeRequest{
		IdempotencyKey:    opts.IdempotencyKey,
		AmountMoney:       buildMoney(m, opts, defaultCurrency),
		CardNonce:         nonce,
		BillingAddress:    buildAddress(opts.BillingAddress),
		ShippingAddress:   buildAddress(opts.ShippingAddress),
		CustomerID:        opts.CustomerID,
		BuyerEmailAddress: opts.Email,
		ReferenceID:       opts.ReferenceID,
		Note:              opts.Note,
		DelayCapture:      opts.DelayCapture,
	}
}

func buildRefundPayload(m provider.Money, auth Authorization, opts provider.Options, defaultCurrency string) refundRequest {
	return refundRequest{
		IdempotencyKey: opts.IdempotencyKey,
		TenderID:       auth.TenderID(),
		Reason:         opts.Reason,
		AmountMoney:    buildMoney(m, opts, defaultCurrency),
	}
}

// buildMoney picks the currency from options, then the amount, then the gateway default
func buildMoney(m provider.Money, opts provider.Options, defaultCurrency string) money {
	currency := opts.Currency
	if currency == "" {
		currency = m.Currency
	}
	if currency == "" {
		currency = defaultCurrency
	}
	return money{Amount: m.Amount, Currency: currency}
}

func buildAddress(a *provider.Address) *address {
	if a == nil {
		return nil
	}
	return &address{
		AddressLine1:                 a.Address1,
		AddressLine2:                 a.Address2,
		Locality:                     a.City,
		AdministrativeDistrictLevel1: a.State,
		PostalCode:                   a.Zip,
		Country:                      a.Country,
	}
}
