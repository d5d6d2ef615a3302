package apperror

import "net/http"

// Code is a stable, machine-readable error kind.
type Code string

const (
	CodeInternal Code = "INTERNAL"

	// Submission errors
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeEmptySubmission Code = "EMPTY_SUBMISSION"

	// Field rules carried inside a validation error
	CodeRequired              Code = "REQUIRED"
	CodeInvalidType           Code = "INVALID_TYPE"
	CodeFieldNotAllowed       Code = "FIELD_NOT_ALLOWED"
	CodeInvalidFormat         Code = "INVALID_FORMAT"
	CodeDomainNotAccepted     Code = "DOMAIN_NOT_ACCEPTED"
	CodePasswordLength        Code = "PASSWORD_LENGTH"
	CodePasswordUppercase     Code = "PASSWORD_UPPERCASE"
	CodePasswordLowercase     Code = "PASSWORD_LOWERCASE"
	CodePasswordDigit         Code = "PASSWORD_DIGIT"
	CodePasswordSymbol        Code = "PASSWORD_SYMBOL"
	CodePasswordWhitespace    Code = "PASSWORD_WHITESPACE"
	CodeInvalidNickname       Code = "INVALID_NICKNAME"
	CodeReservedNickname      Code = "RESERVED_NICKNAME"
	CodeInvalidNameFormat     Code = "INVALID_NAME_FORMAT"
	CodeInvalidURLFormat      Code = "INVALID_URL_FORMAT"
	CodeSchemeNotAllowed      Code = "SCHEME_NOT_ALLOWED"
	CodeInvalidImageType      Code = "INVALID_IMAGE_TYPE"
	CodeInvalidLinkedInFormat Code = "INVALID_LINKEDIN_FORMAT"
	CodeInvalidGithubFormat   Code = "INVALID_GITHUB_FORMAT"
	CodeInvalidRole           Code = "INVALID_ROLE"

	// Authentication errors
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeEmailNotVerified   Code = "EMAIL_NOT_VERIFIED"
	CodeAccountLocked      Code = "ACCOUNT_LOCKED"
	CodeTokenInvalid       Code = "TOKEN_INVALID"
	CodeTokenExpired       Code = "TOKEN_EXPIRED"

	// Authorization errors
	CodeForbidden Code = "FORBIDDEN"

	// Storage errors
	CodeNotFound          Code = "NOT_FOUND"
	CodeDuplicateEmail    Code = "DUPLICATE_EMAIL"
	CodeDuplicateNickname Code = "DUPLICATE_NICKNAME"
)

// HTTPStatus maps an error kind onto the transport status.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation, CodeEmptySubmission:
		return http.StatusUnprocessableEntity
	case CodeInvalidCredentials, CodeTokenInvalid, CodeTokenExpired:
		return http.StatusUnauthorized
	case CodeEmailNotVerified, CodeForbidden:
		return http.StatusForbidden
	case CodeAccountLocked:
		return http.StatusLocked
	case CodeNotFound:
		return http.StatusNotFound
	case CodeDuplicateEmail, CodeDuplicateNickname:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
