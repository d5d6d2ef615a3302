// Package validation holds the field validators and the schema composer that
// turn raw client submissions into typed, normalized inputs.
package validation

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
	"github.com/oksasatya/go-identity-directory/internal/domain/credential"
	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
)

// Submitted field names.
const (
	FieldEmail             = "email"
	FieldPassword          = "password"
	FieldNickname          = "nickname"
	FieldFirstName         = "first_name"
	FieldLastName          = "last_name"
	FieldBio               = "bio"
	FieldProfilePictureURL = "profile_picture_url"
	FieldLinkedInURL       = "linkedin_profile_url"
	FieldGithubURL         = "github_profile_url"
	FieldRole              = "role"
)

var (
	validate = validator.New()

	acceptedTLDs = map[string]struct{}{"com": {}, "org": {}, "edu": {}, "net": {}, "gov": {}}

	reservedNicknames = map[string]struct{}{
		"admin": {}, "moderator": {}, "null": {}, "manager": {}, "anonymous": {}, "authenticated": {},
	}

	nicknamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,}$`)
	namePattern     = regexp.MustCompile(`^[\p{L} '\-]*\p{L}[\p{L} '\-]*$`)
	urlPattern      = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)

	imageExtensions = map[string]struct{}{".jpg": {}, ".jpeg": {}, ".png": {}}
)

// ValidateEmail trims and lowercases the address, then checks syntax and the
// top-level domain allowlist.
func ValidateEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if err := validate.Var(email, "required,email"); err != nil {
		return "", apperror.Field(FieldEmail, apperror.CodeInvalidFormat, "value is not a valid email address")
	}
	domain := email[strings.LastIndex(email, "@")+1:]
	tld := domain[strings.LastIndex(domain, ".")+1:]
	if _, ok := acceptedTLDs[tld]; !ok {
		return "", apperror.Field(FieldEmail, apperror.CodeDomainNotAccepted, "email domain not accepted")
	}
	return email, nil
}

// ValidatePassword applies the creation password policy.
func ValidatePassword(raw string) (string, error) {
	if err := credential.CheckStrength(raw); err != nil {
		return "", err
	}
	return raw, nil
}

// ValidateNickname checks length, charset and the reserved word list.
func ValidateNickname(raw string) (string, error) {
	if !nicknamePattern.MatchString(raw) {
		return "", apperror.Field(FieldNickname, apperror.CodeInvalidNickname,
			"nickname must be at least 3 characters long and contain only letters, numbers, underscores, or hyphens")
	}
	if _, ok := reservedNicknames[strings.ToLower(raw)]; ok {
		return "", apperror.Field(FieldNickname, apperror.CodeReservedNickname, "this nickname is reserved and cannot be used")
	}
	return raw, nil
}

// ValidateName checks a first or last name.
func ValidateName(field, raw string) (string, error) {
	if !namePattern.MatchString(raw) {
		return "", apperror.Field(field, apperror.CodeInvalidNameFormat,
			"name can only contain letters, spaces, hyphens, or apostrophes")
	}
	return raw, nil
}

// ValidateBio accepts free text.
func ValidateBio(raw string) (string, error) {
	return raw, nil
}

// ValidateURL applies the general link rule: http or https and the link pattern.
func ValidateURL(field, raw string) (string, error) {
	if i := strings.Index(raw, "://"); i > 0 {
		if scheme := strings.ToLower(raw[:i]); scheme != "http" && scheme != "https" {
			return "", apperror.Field(field, apperror.CodeSchemeNotAllowed, "URL must use http or https")
		}
	}
	if !urlPattern.MatchString(raw) {
		return "", apperror.Field(field, apperror.CodeInvalidURLFormat, "invalid URL format")
	}
	return raw, nil
}

// ValidateProfilePictureURL requires a jpg, jpeg or png resource.
func ValidateProfilePictureURL(raw string) (string, error) {
	u, err := parseLink(FieldProfilePictureURL, raw)
	if err != nil {
		return "", err
	}
	if _, ok := imageExtensions[strings.ToLower(path.Ext(u.Path))]; !ok {
		return "", apperror.Field(FieldProfilePictureURL, apperror.CodeInvalidImageType,
			"profile picture URL must point to a valid image file (JPEG, PNG)")
	}
	return raw, nil
}

// ValidateLinkedInURL requires a linkedin.com/in/<handle> link.
func ValidateLinkedInURL(raw string) (string, error) {
	u, err := parseLink(FieldLinkedInURL, raw)
	if err != nil {
		return "", err
	}
	if !hostIs(u, "linkedin.com") || !strings.HasPrefix(u.Path, "/in/") || len(u.Path) <= len("/in/") {
		return "", apperror.Field(FieldLinkedInURL, apperror.CodeInvalidLinkedInFormat, "invalid LinkedIn profile URL format")
	}
	return raw, nil
}

// ValidateGithubURL requires a github.com link.
func ValidateGithubURL(raw string) (string, error) {
	u, err := parseLink(FieldGithubURL, raw)
	if err != nil {
		return "", err
	}
	if !hostIs(u, "github.com") {
		return "", apperror.Field(FieldGithubURL, apperror.CodeInvalidGithubFormat, "invalid GitHub profile URL format")
	}
	return raw, nil
}

// ValidateRole maps the submitted string onto the closed role enumeration.
func ValidateRole(raw string) (string, error) {
	r, ok := entity.ParseRole(raw)
	if !ok {
		return "", apperror.Field(FieldRole, apperror.CodeInvalidRole,
			"role must be one of ANONYMOUS, AUTHENTICATED, MANAGER, ADMIN")
	}
	return r.String(), nil
}

func parseLink(field, raw string) (*url.URL, error) {
	if _, err := ValidateURL(field, raw); err != nil {
		return nil, err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, apperror.Field(field, apperror.CodeInvalidURLFormat, "invalid URL format")
	}
	return u, nil
}

// hostIs accepts the bare host and its www. alias.
func hostIs(u *url.URL, host string) bool {
	h := strings.ToLower(u.Hostname())
	return h == host || h == "www."+host
}
