package square

import (
	"encoding/json"
	"fmt"

	"github.com/mstgnz/gosquare/provider"
)

const (
	messageApproved      = "Transaction Approved"
	categoryInvalidReq   = "INVALID_REQUEST_ERROR"
	messageUnknownFailed = "Unknown error"
)

type apiError struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
	Field    string `json:"field,omitempty"`
}

type tender struct {
	ID            string `json:"id"`
	TransactionID string `json:"transaction_id"`
}

type transaction struct {
	ID         string   `json:"id"`
	LocationID string   `json:"location_id"`
	Tenders    []tender `json:"tenders"`
}

// outcome is the classification of one upstream response, decided once.
// Implementations: approved, declined, malformed.
type outcome interface {
	success() bool
	firstError() (apiError, bool)
}

// approved has no "errors" key. transaction is nil for capture, void and refund.
type approved struct {
	transaction *transaction
}

func (approved) success() bool                { return true }
func (approved) firstError() (apiError, bool) { return apiError{}, false }

// declined carries the upstream "errors" list in response order.
type declined struct {
	errors []apiError
}

func (declined) success() bool { return false }
func (d declined) firstError() (apiError, bool) {
	if len(d.errors) == 0 {
		return apiError{}, false
	}
	return d.errors[0], true
}

// malformed is a body that is not a JSON object, including an empty body.
type malformed struct {
	raw string
}

func (malformed) success() bool { return false }
func (m malformed) firstError() (apiError, bool) {
	return apiError{Category: categoryInvalidReq, Detail: invalidResponseDetail(m.raw)}, true
}

func invalidResponseDetail(raw string) string {
	return fmt.Sprintf("Invalid response received from the Square Connect API.  (The raw response returned by the API was %q)", raw)
}

// jsonError is the params map reported for a malformed body
func jsonError(raw string) map[string]any {
	return map[string]any{
		"errors": []any{
			map[string]any{
				"category": categoryInvalidReq,
				"detail":   invalidResponseDetail(raw),
			},
		},
	}
}

// classify parses a raw body into the params map exposed on Result and its outcome
func classify(raw []byte) (map[string]any, outcome) {
	var params map[string]any
	if err := json.Unmarshal(raw, &params); err != nil || params == nil {
		return jsonError(string(raw)), malformed{raw: string(raw)}
	}

	if _, hasErrors := params["errors"]; hasErrors {
		var env struct {
			Errors []apiError `json:"errors"`
		}
		// a shape we cannot decode still counts as a failure
		_ = json.Unmarshal(raw, &env)
		return params, declined{errors: env.Errors}
	}

	var env struct {
		Transaction *transaction `json:"transaction"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return params, approved{}
	}
	return params, approved{transaction: env.Transaction}
}

func messageFrom(o outcome) string {
	if o.success() {
		return messageApproved
	}
	first, ok := o.firstError()
	if !ok {
		return messageUnknownFailed
	}
	return first.Category + ": " + first.Detail
}

func authorizationFrom(o outcome) string {
	a, ok := o.(approved)
	if !ok || a.transaction == nil {
		return ""
	}

	var auth Authorization
	for _, t := range a.transaction.Tenders {
		auth.Tenders = append(auth.Tenders, TenderRef{TransactionID: t.TransactionID, TenderID: t.ID})
	}
	return auth.String()
}

func (g *SquareGateway) resultFrom(params map[string]any, o outcome) *provider.Result {
	return &provider.Result{
		Success:       o.success(),
		Message:       messageFrom(o),
		Params:        params,
		Authorization: authorizationFrom(o),
		ErrorCode:     errorCodeFrom(o),
		AVSResult:     provider.AVSNotVerified,
		CVVResult:     provider.CVVNotVerified,
		Test:          g.test,
	}
}
