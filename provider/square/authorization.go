package square

import (
	"fmt"
	"strings"

	"github.com/mstgnz/gosquare/provider"
)

// TenderRef identifies one tender of a Square transaction.
type TenderRef struct {
	TransactionID string
	TenderID      string
}

// Authorization is the parsed form of the token handed back to callers:
// "tx|tender" pairs joined by ";", one per tender in response order.
type Authorization struct {
	Tenders []TenderRef
}

// String renders the external token form. An empty Authorization renders "".
func (a Authorization) String() string {
	pairs := make([]string, len(a.Tenders))
	for i, t := range a.Tenders {
		pairs[i] = t.TransactionID + "|" + t.TenderID
	}
	return strings.Join(pairs, ";")
}

// TransactionID is the transaction referenced by capture, refund and void.
func (a Authorization) TransactionID() string {
	if len(a.Tenders) == 0 {
		return ""
	}
	return a.Tenders[0].TransactionID
}

// TenderID is the tender a refund is issued against.
func (a Authorization) TenderID() string {
	if len(a.Tenders) == 0 {
		return ""
	}
	return a.Tenders[0].TenderID
}

// ParseAuthorization reads a token produced by Authorization.String.
// A bare transaction id without a tender part is accepted.
func ParseAuthorization(token string) (Authorization, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Authorization{}, provider.ErrMissingAuthorization
	}

	var auth Authorization
	for _, pair := range strings.Split(token, ";") {
		if pair == "" {
			continue
		}
		txID, tenderID, _ := strings.Cut(pair, "|")
		if txID == "" {
			return Authorization{}, fmt.Errorf("malformed pair %q: %w", pair, provider.ErrMissingAuthorization)
		}
		auth.Tenders = append(auth.Tenders, TenderRef{TransactionID: txID, TenderID: tenderID})
	}

	if len(auth.Tenders) == 0 {
		return Authorization{}, provider.ErrMissingAuthorization
	}

	return auth, nil
}
