package validation

import (
	"sort"
	"strings"

	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
)

// Submission is a decoded client payload before any validation.
type Submission map[string]any

// FieldRule binds a submitted field to its validator.
type FieldRule struct {
	Name     string
	Required bool
	Check    func(string) (string, error)
}

func nameRule(field string) func(string) (string, error) {
	return func(s string) (string, error) { return ValidateName(field, s) }
}

var profileRules = []FieldRule{
	{Name: FieldNickname, Check: ValidateNickname},
	{Name: FieldFirstName, Check: nameRule(FieldFirstName)},
	{Name: FieldLastName, Check: nameRule(FieldLastName)},
	{Name: FieldBio, Check: ValidateBio},
	{Name: FieldProfilePictureURL, Check: ValidateProfilePictureURL},
	{Name: FieldLinkedInURL, Check: ValidateLinkedInURL},
	{Name: FieldGithubURL, Check: ValidateGithubURL},
}

// CreateRules is the ordered rule list of the creation shape.
var CreateRules = append([]FieldRule{
	{Name: FieldEmail, Required: true, Check: ValidateEmail},
	{Name: FieldPassword, Required: true, Check: ValidatePassword},
	{Name: FieldRole, Required: true, Check: ValidateRole},
}, profileRules...)

// UpdateRules is the ordered rule list of the administrative update shape.
var UpdateRules = append([]FieldRule{
	{Name: FieldEmail, Check: ValidateEmail},
	{Name: FieldRole, Check: ValidateRole},
}, profileRules...)

// ProfileUpdateRules is the ordered rule list of the self-service shape.
var ProfileUpdateRules = profileRules

// ProfileFields are the optional profile attributes shared by every shape.
// A nil pointer means the field was not submitted.
type ProfileFields struct {
	Nickname          *string
	FirstName         *string
	LastName          *string
	Bio               *string
	ProfilePictureURL *string
	LinkedInURL       *string
	GithubURL         *string
}

// Apply copies every submitted field onto u.
func (p ProfileFields) Apply(u *entity.User) {
	set := func(dst **string, v *string) {
		if v != nil {
			s := *v
			*dst = &s
		}
	}
	set(&u.Nickname, p.Nickname)
	set(&u.FirstName, p.FirstName)
	set(&u.LastName, p.LastName)
	set(&u.Bio, p.Bio)
	set(&u.ProfilePictureURL, p.ProfilePictureURL)
	set(&u.LinkedInURL, p.LinkedInURL)
	set(&u.GithubURL, p.GithubURL)
}

// CreateInput is an accepted creation submission.
type CreateInput struct {
	Email    string
	Password string
	Role     entity.Role
	Profile  ProfileFields
}

// UpdateInput is an accepted administrative update.
type UpdateInput struct {
	Email   *string
	Role    *entity.Role
	Profile ProfileFields
}

// Apply mutates u field by field.
func (in UpdateInput) Apply(u *entity.User) {
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	in.Profile.Apply(u)
}

// LoginInput carries opaque credentials; Identifier is an email or a nickname.
type LoginInput struct {
	Identifier string
	Password   string
}

// ValidateCreate validates a creation submission.
func ValidateCreate(sub Submission) (CreateInput, error) {
	vals, err := Compose(sub, CreateRules, false)
	if err != nil {
		return CreateInput{}, err
	}
	role, _ := entity.ParseRole(vals[FieldRole])
	return CreateInput{
		Email:    vals[FieldEmail],
		Password: vals[FieldPassword],
		Role:     role,
		Profile:  profileFrom(vals),
	}, nil
}

// ValidateUpdate validates an administrative update. Password is not part of
// this shape.
func ValidateUpdate(sub Submission) (UpdateInput, error) {
	vals, err := Compose(sub, UpdateRules, true)
	if err != nil {
		return UpdateInput{}, err
	}
	in := UpdateInput{Email: ptr(vals, FieldEmail), Profile: profileFrom(vals)}
	if s, ok := vals[FieldRole]; ok {
		role, _ := entity.ParseRole(s)
		in.Role = &role
	}
	return in, nil
}

// ValidateProfileUpdate validates a self-service profile update.
func ValidateProfileUpdate(sub Submission) (ProfileFields, error) {
	vals, err := Compose(sub, ProfileUpdateRules, true)
	if err != nil {
		return ProfileFields{}, err
	}
	return profileFrom(vals), nil
}

// ValidateLogin only requires a non-empty identifier and password; password
// policy is not applied at login.
func ValidateLogin(sub Submission) (LoginInput, error) {
	var errs []apperror.FieldError
	errs = append(errs, unknownFields(sub, []string{FieldEmail, FieldNickname, FieldPassword})...)

	id := nonEmpty(sub, FieldEmail)
	if id == "" {
		id = nonEmpty(sub, FieldNickname)
	}
	if id == "" {
		errs = append(errs, *apperror.Field(FieldEmail, apperror.CodeRequired, "email or nickname is required"))
	}
	pw := nonEmpty(sub, FieldPassword)
	if pw == "" {
		errs = append(errs, *apperror.Field(FieldPassword, apperror.CodeRequired, "password is required"))
	}
	if len(errs) > 0 {
		return LoginInput{}, apperror.Validation(errs)
	}
	return LoginInput{Identifier: id, Password: pw}, nil
}

// Compose runs rules over sub and returns normalized values keyed by field.
//
// With requireAny the "at least one field" invariant is evaluated on the raw
// submission first; an all-empty submission fails with EmptySubmission and no
// field validator runs. Otherwise every field is validated and all field
// failures are aggregated, one per field.
func Compose(sub Submission, rules []FieldRule, requireAny bool) (map[string]string, error) {
	if requireAny && isEmpty(sub) {
		return nil, apperror.ErrEmptySubmission
	}

	allowed := make([]string, 0, len(rules))
	for _, r := range rules {
		allowed = append(allowed, r.Name)
	}
	errs := unknownFields(sub, allowed)

	out := make(map[string]string, len(rules))
	for _, r := range rules {
		raw, present := sub[r.Name]
		if !present || raw == nil {
			if r.Required {
				errs = append(errs, *apperror.Field(r.Name, apperror.CodeRequired, "field is required"))
			}
			continue
		}
		s, ok := raw.(string)
		if !ok {
			errs = append(errs, *apperror.Field(r.Name, apperror.CodeInvalidType, "value must be a string"))
			continue
		}
		if strings.TrimSpace(s) == "" {
			if r.Required {
				errs = append(errs, *apperror.Field(r.Name, apperror.CodeRequired, "field is required"))
			}
			continue
		}
		v, err := r.Check(s)
		if err != nil {
			errs = append(errs, asFieldError(r.Name, err))
			continue
		}
		out[r.Name] = v
	}
	if len(errs) > 0 {
		return nil, apperror.Validation(errs)
	}
	return out, nil
}

func isEmpty(sub Submission) bool {
	for _, v := range sub {
		switch x := v.(type) {
		case nil:
		case string:
			if strings.TrimSpace(x) != "" {
				return false
			}
		case bool:
			if x {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func unknownFields(sub Submission, allowed []string) []apperror.FieldError {
	known := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		known[a] = struct{}{}
	}
	var extra []string
	for k := range sub {
		if _, ok := known[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	out := make([]apperror.FieldError, 0, len(extra))
	for _, k := range extra {
		out = append(out, *apperror.Field(k, apperror.CodeFieldNotAllowed, "field is not accepted here"))
	}
	return out
}

func asFieldError(field string, err error) apperror.FieldError {
	if fe, ok := err.(*apperror.FieldError); ok {
		out := *fe
		out.Field = field
		return out
	}
	return apperror.FieldError{Field: field, Rule: apperror.CodeInvalidFormat, Message: "invalid value"}
}

func nonEmpty(sub Submission, key string) string {
	s, _ := sub[key].(string)
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

func ptr(vals map[string]string, key string) *string {
	if v, ok := vals[key]; ok {
		return &v
	}
	return nil
}

func profileFrom(vals map[string]string) ProfileFields {
	return ProfileFields{
		Nickname:          ptr(vals, FieldNickname),
		FirstName:         ptr(vals, FieldFirstName),
		LastName:          ptr(vals, FieldLastName),
		Bio:               ptr(vals, FieldBio),
		ProfilePictureURL: ptr(vals, FieldProfilePictureURL),
		LinkedInURL:       ptr(vals, FieldLinkedInURL),
		GithubURL:         ptr(vals, FieldGithubURL),
	}
}
