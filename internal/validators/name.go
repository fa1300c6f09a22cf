package validators

import (
	"errors"
	"regexp"
)

var (
	namePattern     = regexp.MustCompile(`^\p{L}[\p{L}' .-]*$`)
	currencyPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)
)

// ValidateNameFormat checks a person's first or last name: letters, with
// spaces, apostrophes, dots and hyphens after the first character.
func ValidateNameFormat(name string) error {
	if !namePattern.MatchString(name) {
		return errors.New("name should start with a letter and contain only letters, spaces, apostrophes, dots or hyphens")
	}
	return nil
}

// ValidateCurrencyCode accepts a three-letter ISO 4217 style code in any case.
func ValidateCurrencyCode(code string) error {
	if !currencyPattern.MatchString(code) {
		return errors.New("currency must be a 3-letter code")
	}
	return nil
}
