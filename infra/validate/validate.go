// Package validate registers the custom struct tags used by request handlers.
package validate

import (
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/mstgnz/gosquare/infra/config"
)

// Square accepts idempotency keys of up to 192 characters.
const maxIdempotencyKeyLength = 192

var locationIDPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// CustomValidate registers the custom tags on the shared validator
func CustomValidate() {
	if err := Register(config.App().Validator); err != nil {
		panic(err)
	}
}

// Register adds the custom tags to v
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("idempotency_key", idempotencyKey); err != nil {
		return err
	}
	return v.RegisterValidation("location_id", locationID)
}

func idempotencyKey(fl validator.FieldLevel) bool {
	key := fl.Field().String()
	if key == "" || len(key) > maxIdempotencyKeyLength {
		return false
	}
	for _, r := range key {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func locationID(fl validator.FieldLevel) bool {
	return locationIDPattern.MatchString(fl.Field().String())
}
