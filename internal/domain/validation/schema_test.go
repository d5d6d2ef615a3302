package validation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
)

func createSubmission() Submission {
	return Submission{
		"email":                "john.doe@example.com",
		"password":             "SecurePassword123!",
		"role":                 "AUTHENTICATED",
		"nickname":             "john_doe_123",
		"first_name":           "John",
		"last_name":            "Doe",
		"bio":                  "I am a software engineer with over 5 years of experience.",
		"profile_picture_url":  "https://example.com/profile_pictures/john_doe.jpg",
		"linkedin_profile_url": "https://linkedin.com/in/johndoe",
		"github_profile_url":   "https://github.com/johndoe",
	}
}

func TestValidateCreateFullSubmission(t *testing.T) {
	in, err := ValidateCreate(createSubmission())
	require.NoError(t, err)
	require.Equal(t, "john.doe@example.com", in.Email)
	require.Equal(t, entity.RoleAuthenticated, in.Role)
	require.Equal(t, "john_doe_123", *in.Profile.Nickname)
	require.Equal(t, "https://github.com/johndoe", *in.Profile.GithubURL)
}

func TestValidateCreateNormalizesEmail(t *testing.T) {
	in, err := ValidateCreate(Submission{
		"email":    "JOHN.DOE@EXAMPLE.COM",
		"password": "Secure*1234",
		"role":     "AUTHENTICATED",
	})
	require.NoError(t, err)
	require.Equal(t, "john.doe@example.com", in.Email)
	require.Nil(t, in.Profile.Nickname)
}

func TestValidateCreateAggregatesAllFields(t *testing.T) {
	sub := createSubmission()
	sub["email"] = "john@example.io"
	sub["password"] = "nouppercase123!"
	sub["nickname"] = "Admin"
	sub["role"] = "ROOT"

	_, err := ValidateCreate(sub)
	require.ErrorIs(t, err, apperror.ErrDomainNotAccepted)
	require.ErrorIs(t, err, apperror.ErrReservedNickname)

	for field, want := range map[string]apperror.Code{
		FieldEmail:    apperror.CodeDomainNotAccepted,
		FieldPassword: apperror.CodePasswordUppercase,
		FieldNickname: apperror.CodeReservedNickname,
		FieldRole:     apperror.CodeInvalidRole,
	} {
		rule, ok := apperror.FieldRule(err, field)
		require.True(t, ok, field)
		require.Equal(t, want, rule, field)
	}
}

func TestValidateCreateRequiredFields(t *testing.T) {
	_, err := ValidateCreate(Submission{"nickname": "someone"})
	require.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
	for _, f := range []string{FieldEmail, FieldPassword, FieldRole} {
		rule, ok := apperror.FieldRule(err, f)
		require.True(t, ok, f)
		require.Equal(t, apperror.CodeRequired, rule)
	}
}

func TestValidateCreateRejectsWrongTypes(t *testing.T) {
	sub := createSubmission()
	sub["bio"] = 42.0
	_, err := ValidateCreate(sub)
	rule, ok := apperror.FieldRule(err, FieldBio)
	require.True(t, ok)
	require.Equal(t, apperror.CodeInvalidType, rule)
}

func TestValidateUpdate(t *testing.T) {
	in, err := ValidateUpdate(Submission{
		"email":               "john.doe.new@example.com",
		"nickname":            "j_doe",
		"first_name":          "John",
		"profile_picture_url": "https://example.com/profile_pictures/john_doe_updated.jpg",
		"role":                "manager",
	})
	require.NoError(t, err)
	require.Equal(t, "john.doe.new@example.com", *in.Email)
	require.Equal(t, entity.RoleManager, *in.Role)

	u := &entity.User{Email: "old@example.com", Role: entity.RoleAuthenticated}
	in.Apply(u)
	require.Equal(t, "john.doe.new@example.com", u.Email)
	require.Equal(t, entity.RoleManager, u.Role)
	require.Equal(t, "j_doe", *u.Nickname)
	require.Nil(t, u.Bio)
}

func TestValidateUpdateRejectsPassword(t *testing.T) {
	_, err := ValidateUpdate(Submission{"password": "Secure*1234"})
	rule, ok := apperror.FieldRule(err, FieldPassword)
	require.True(t, ok)
	require.Equal(t, apperror.CodeFieldNotAllowed, rule)
}

func TestEmptySubmissionFailsFast(t *testing.T) {
	cases := []Submission{
		{},
		{"nickname": nil, "first_name": nil, "last_name": nil, "bio": nil},
		{"first_name": "", "last_name": ""},
		{"nickname": "  "},
	}
	for _, sub := range cases {
		_, err := ValidateProfileUpdate(sub)
		require.ErrorIs(t, err, apperror.ErrEmptySubmission)

		_, err = ValidateUpdate(sub)
		require.ErrorIs(t, err, apperror.ErrEmptySubmission)
	}
}

func TestEmptyCheckRunsBeforeFieldValidators(t *testing.T) {
	called := false
	rules := []FieldRule{{Name: "x", Check: func(s string) (string, error) {
		called = true
		return s, nil
	}}}
	_, err := Compose(Submission{"x": ""}, rules, true)
	require.ErrorIs(t, err, apperror.ErrEmptySubmission)
	require.False(t, called)
}

func TestValidateProfileUpdate(t *testing.T) {
	p, err := ValidateProfileUpdate(Submission{"nickname": "new_nickname"})
	require.NoError(t, err)
	require.Equal(t, "new_nickname", *p.Nickname)

	_, err = ValidateProfileUpdate(Submission{"first_name": "John@Doe", "last_name": "JohnDoe"})
	rule, ok := apperror.FieldRule(err, FieldFirstName)
	require.True(t, ok)
	require.Equal(t, apperror.CodeInvalidNameFormat, rule)
	_, ok = apperror.FieldRule(err, FieldLastName)
	require.False(t, ok)

	_, err = ValidateProfileUpdate(Submission{"nickname": "Moderator"})
	require.ErrorIs(t, err, apperror.ErrReservedNickname)
}

func TestValidateProfileUpdateRejectsPrivilegedFields(t *testing.T) {
	_, err := ValidateProfileUpdate(Submission{"first_name": "John", "role": "ADMIN"})
	rule, ok := apperror.FieldRule(err, FieldRole)
	require.True(t, ok)
	require.Equal(t, apperror.CodeFieldNotAllowed, rule)
}

func TestValidateLogin(t *testing.T) {
	in, err := ValidateLogin(Submission{"email": "john_doe_123@emai.com", "password": "whatever"})
	require.NoError(t, err)
	require.Equal(t, "john_doe_123@emai.com", in.Identifier)
	require.Equal(t, "whatever", in.Password)

	in, err = ValidateLogin(Submission{"nickname": "john_doe", "password": "x"})
	require.NoError(t, err)
	require.Equal(t, "john_doe", in.Identifier)

	_, err = ValidateLogin(Submission{"email": "", "password": ""})
	rule, ok := apperror.FieldRule(err, FieldEmail)
	require.True(t, ok)
	require.Equal(t, apperror.CodeRequired, rule)
	rule, ok = apperror.FieldRule(err, FieldPassword)
	require.True(t, ok)
	require.Equal(t, apperror.CodeRequired, rule)
}
