package accounts

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// Password complexity: one digit, one lowercase, one uppercase, one special
// character, 6 to 20 characters overall. Go's regexp has no lookahead so each
// class is checked on its own.
var (
	passwordDigit   = regexp.MustCompile(`[0-9]`)
	passwordLower   = regexp.MustCompile(`[a-z]`)
	passwordUpper   = regexp.MustCompile(`[A-Z]`)
	passwordSpecial = regexp.MustCompile(`[^0-9a-zA-Z]`)
)

const (
	passwordMinLen = 6
	passwordMaxLen = 20

	// birthdayMaxAge bounds how far in the past a birthday may be.
	birthdayMaxAge = 100
)

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// Normalization runs before any format or length check so the stored value is
// the one that was validated.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkRequired(field string, value any) error {
	if err := validation.Validate(value, validation.Required); err != nil {
		return ErrParamRequired(field)
	}
	return nil
}

func checkLength(field, value string, min, max int) error {
	if value == "" {
		return nil
	}
	if err := validation.Validate(value, validation.Length(min, max)); err != nil {
		return ErrParamLength(field, min, max)
	}
	return nil
}

func checkFormat(field, value string, rule validation.Rule) error {
	if value == "" {
		return nil
	}
	if err := validation.Validate(value, rule); err != nil {
		return ErrParamInvalid(field)
	}
	return nil
}

func checkEnum(field, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return ErrParamEnum(field, allowed...)
}

func checkEmail(field, value string) error {
	if err := checkRequired(field, value); err != nil {
		return err
	}
	if err := checkLength(field, value, 6, 100); err != nil {
		return err
	}
	return checkFormat(field, value, is.Email)
}

func checkPhone(field, value string) error {
	if value == "" {
		return nil
	}
	num, err := phonenumbers.Parse(value, "")
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return ErrParamInvalid(field)
	}
	return nil
}

func checkCurrency(field, value string) error {
	return checkFormat(field, value, is.CurrencyCode)
}

func checkBirthday(field string, value *time.Time, now time.Time) error {
	if value == nil {
		return nil
	}
	if value.After(now) {
		return ErrParamInvalid(field)
	}
	if value.Before(now.AddDate(-birthdayMaxAge, 0, 0)) {
		return ErrParamInvalid(field)
	}
	return nil
}

// ValidatePassword enforces the password complexity policy on a plaintext
// candidate. It never sees the stored hash.
func ValidatePassword(plaintext string) error {
	const field = "password"
	if plaintext == "" {
		return ErrParamRequired(field)
	}
	if len(plaintext) < passwordMinLen || len(plaintext) > passwordMaxLen {
		return ErrParamLength(field, passwordMinLen, passwordMaxLen)
	}
	if !passwordDigit.MatchString(plaintext) ||
		!passwordLower.MatchString(plaintext) ||
		!passwordUpper.MatchString(plaintext) ||
		!passwordSpecial.MatchString(plaintext) {
		return ErrParamInvalid(field)
	}
	return nil
}
