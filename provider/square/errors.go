package square

import "github.com/mstgnz/gosquare/provider"

// standardErrorCodeMapping translates Square error codes into standardized kinds.
// https://docs.connect.squareup.com/api/connect/v2/#type-errorcode
var standardErrorCodeMapping = map[string]provider.ErrorKind{
	"INVALID_CARD":              provider.ErrorInvalidNumber,
	"INVALID_EXPIRATION_YEAR":   provider.ErrorInvalidExpiryDate,
	"INVALID_EXPIRATION":        provider.ErrorInvalidExpiryDate,
	"CARD_EXPIRED":              provider.ErrorExpiredCard,
	"VERIFY_CVV_FAILURE":        provider.ErrorIncorrectCVC,
	"VERIFY_AVS_FAILURE":        provider.ErrorIncorrectZip,
	"CARD_DECLINED":             provider.ErrorCardDeclined,
	"CARD_DECLINED_CALL_ISSUER": provider.ErrorCallIssuer,
}

// errorCodeFrom maps the first upstream error. Unknown codes yield "".
func errorCodeFrom(o outcome) provider.ErrorKind {
	first, ok := o.firstError()
	if !ok {
		return ""
	}
	return standardErrorCodeMapping[first.Code]
}
