package accounts

import (
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes for every error kind this package raises. Callers can match on
// these instead of parsing messages.
const (
	TextCodeParamRequired  = "PARAM_REQUIRED"
	TextCodeParamInvalid   = "PARAM_INVALID"
	TextCodeParamLength    = "PARAM_LENGTH"
	TextCodeParamEnum      = "PARAM_ENUM"
	TextCodeParamExisted   = "PARAM_EXISTED"
	TextCodeParamExpired   = "PARAM_EXPIRED"
	TextCodeParamIncorrect = "PARAM_INCORRECT"
	TextCodeParamNotExists = "PARAM_NOT_EXISTS"
	TextCodeDataNotFound   = "DATA_NOT_FOUND"
	TextCodeDataCannotSave = "DATA_CANNOT_SAVE"
	TextCodeAccessDenied   = "ACCESS_DENIED"
	TextCodeTokenExpired   = "TOKEN_EXPIRED"
	TextCodeTokenMalformed = "TOKEN_MALFORMED"
)

// ErrTokenExpired is returned when a bearer token is past its expiry.
var ErrTokenExpired = goerrors.New("token has expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned when a bearer token cannot be parsed or its
// signature does not check out.
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrParamRequired reports a missing required field.
func ErrParamRequired(field string) error {
	return goerrors.New(
		fmt.Sprintf("the %s is required", field),
		goerrors.CategoryValidation,
	).WithTextCode(TextCodeParamRequired).
		WithCode(goerrors.CodeBadRequest).
		WithMetadata(map[string]any{"field": field})
}

// ErrParamInvalid reports a field that fails its format or shape rule.
func ErrParamInvalid(field string) error {
	return goerrors.New(
		fmt.Sprintf("the %s is invalid", field),
		goerrors.CategoryValidation,
	).WithTextCode(TextCodeParamInvalid).
		WithCode(goerrors.CodeBadRequest).
		WithMetadata(map[string]any{"field": field})
}

// ErrParamLength reports a field outside its length bounds. The bounds travel
// as metadata so callers can render localized messages without string parsing.
func ErrParamLength(field string, min, max int) error {
	return goerrors.New(
		fmt.Sprintf("the length of %s must be between %d and %d", field, min, max),
		goerrors.CategoryValidation,
	).WithTextCode(TextCodeParamLength).
		WithCode(goerrors.CodeBadRequest).
		WithMetadata(map[string]any{"field": field, "min": min, "max": max})
}

// ErrParamEnum reports a field whose value is not one of the allowed set.
func ErrParamEnum(field string, allowed ...string) error {
	return goerrors.New(
		fmt.Sprintf("the %s must be one of: %s", field, strings.Join(allowed, ", ")),
		goerrors.CategoryValidation,
	).WithTextCode(TextCodeParamEnum).
		WithCode(goerrors.CodeBadRequest).
		WithMetadata(map[string]any{"field": field, "allowed": allowed})
}

// ErrParamExisted reports a uniqueness violation, e.g. a taken email.
func ErrParamExisted(field string) error {
	return goerrors.New(
		fmt.Sprintf("the %s already exists", field),
		goerrors.CategoryConflict,
	).WithTextCode(TextCodeParamExisted).
		WithCode(goerrors.CodeConflict).
		WithMetadata(map[string]any{"field": field})
}

// ErrParamExpired reports a time-boxed value past its expiry.
func ErrParamExpired(field string) error {
	return goerrors.New(
		fmt.Sprintf("the %s has expired", field),
		goerrors.CategoryValidation,
	).WithTextCode(TextCodeParamExpired).
		WithCode(goerrors.CodeBadRequest).
		WithMetadata(map[string]any{"field": field})
}

// ErrParamIncorrect reports a credential or key mismatch.
func ErrParamIncorrect(field string) error {
	return goerrors.New(
		fmt.Sprintf("the %s is incorrect", field),
		goerrors.CategoryValidation,
	).WithTextCode(TextCodeParamIncorrect).
		WithCode(goerrors.CodeBadRequest).
		WithMetadata(map[string]any{"field": field})
}

// ErrParamNotExists reports a value the caller referenced but that is absent.
func ErrParamNotExists(field string) error {
	return goerrors.New(
		fmt.Sprintf("the %s does not exist", field),
		goerrors.CategoryNotFound,
	).WithTextCode(TextCodeParamNotExists).
		WithCode(goerrors.CodeNotFound).
		WithMetadata(map[string]any{"field": field})
}

// ErrDataNotFound reports a missing record.
func ErrDataNotFound(entity string) error {
	return goerrors.New(
		fmt.Sprintf("%s not found", entity),
		goerrors.CategoryNotFound,
	).WithTextCode(TextCodeDataNotFound).
		WithCode(goerrors.CodeNotFound).
		WithMetadata(map[string]any{"entity": entity})
}

// ErrDataCannotSave reports a persistence write that returned a zero result
// without raising its own error.
func ErrDataCannotSave(entity string) error {
	return goerrors.New(
		fmt.Sprintf("could not save %s", entity),
		goerrors.CategoryInternal,
	).WithTextCode(TextCodeDataCannotSave).
		WithCode(goerrors.CodeInternal).
		WithMetadata(map[string]any{"entity": entity})
}

// ErrAccessDenied reports a caller whose rank or identity does not allow the
// attempted operation.
func ErrAccessDenied() error {
	return goerrors.New("access denied", goerrors.CategoryAuthz).
		WithTextCode(TextCodeAccessDenied).
		WithCode(goerrors.CodeForbidden)
}

// HasTextCode reports whether err carries the given text code.
func HasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}

// IsParamRequired checks for a missing-required-field error.
func IsParamRequired(err error) bool { return HasTextCode(err, TextCodeParamRequired) }

// IsParamInvalid checks for a format violation error.
func IsParamInvalid(err error) bool { return HasTextCode(err, TextCodeParamInvalid) }

// IsParamLength checks for a length violation error.
func IsParamLength(err error) bool { return HasTextCode(err, TextCodeParamLength) }

// IsParamEnum checks for an enum violation error.
func IsParamEnum(err error) bool { return HasTextCode(err, TextCodeParamEnum) }

// IsParamExisted checks for a uniqueness violation error.
func IsParamExisted(err error) bool { return HasTextCode(err, TextCodeParamExisted) }

// IsParamExpired checks for an expired key error.
func IsParamExpired(err error) bool { return HasTextCode(err, TextCodeParamExpired) }

// IsParamIncorrect checks for a mismatch error.
func IsParamIncorrect(err error) bool { return HasTextCode(err, TextCodeParamIncorrect) }

// IsParamNotExists checks for an absent-value error.
func IsParamNotExists(err error) bool { return HasTextCode(err, TextCodeParamNotExists) }

// IsDataNotFound checks for a missing record error.
func IsDataNotFound(err error) bool { return HasTextCode(err, TextCodeDataNotFound) }

// IsDataCannotSave checks for a silent write failure error.
func IsDataCannotSave(err error) bool { return HasTextCode(err, TextCodeDataCannotSave) }

// IsAccessDenied checks for an authorization rejection.
func IsAccessDenied(err error) bool { return HasTextCode(err, TextCodeAccessDenied) }

// IsTokenExpiredError checks for an expired bearer token.
func IsTokenExpiredError(err error) bool { return HasTextCode(err, TextCodeTokenExpired) }

// IsMalformedError checks for an unparseable bearer token.
func IsMalformedError(err error) bool { return HasTextCode(err, TextCodeTokenMalformed) }

// ErrFieldValue reads the field name carried by a coded parameter error,
// returning an empty string when none is present.
func ErrFieldValue(err error) string {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return ""
	}
	if richErr.Metadata == nil {
		return ""
	}
	if field, ok := richErr.Metadata["field"].(string); ok {
		return field
	}
	return ""
}
