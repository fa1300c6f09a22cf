package common

import (
	"strings"
	"time"

	"propt-api-io/api/internal/validators"

	"github.com/go-playground/validator/v10"
)

var Validate = newValidator()

const (
	REQUEST_TIMEOUT_SECS = 2 * 60 * time.Second

	// MAX_DOCUMENT_SIZE bounds a single verification document upload.
	MAX_DOCUMENT_SIZE = 10 << 20
	DOCUMENT_COUNT    = 5

	MIN_TITLE_LENGTH = 5
	MAX_TITLE_LENGTH = 140
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("person_name", func(fl validator.FieldLevel) bool {
		return validators.ValidateNameFormat(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		return validators.ValidateCurrencyCode(fl.Field().String()) == nil
	})
	return v
}

// IsEmptyString reports whether s is blank once trimmed.
func IsEmptyString(s string) bool {
	return strings.TrimSpace(s) == ""
}
