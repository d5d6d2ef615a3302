package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("login: %w", Wrap(CodeAccountLocked, "locked", errors.New("db detail")))
	require.ErrorIs(t, err, ErrAccountLocked)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
	require.Equal(t, CodeAccountLocked, CodeOf(err))
}

func TestValidationMatchesFieldRules(t *testing.T) {
	err := Validation([]FieldError{
		*Field("nickname", CodeReservedNickname, "reserved"),
		*Field("email", CodeDomainNotAccepted, "domain"),
	})
	require.ErrorIs(t, err, ErrReservedNickname)
	require.ErrorIs(t, err, ErrDomainNotAccepted)
	require.NotErrorIs(t, err, ErrEmptySubmission)

	rule, ok := FieldRule(err, "email")
	require.True(t, ok)
	require.Equal(t, CodeDomainNotAccepted, rule)

	_, ok = FieldRule(err, "bio")
	require.False(t, ok)
}

func TestMessageDoesNotLeakCause(t *testing.T) {
	err := Wrap(CodeNotFound, "user not found", errors.New("pq: relation users"))
	require.Equal(t, "user not found", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := map[Code]int{
		CodeValidation:         http.StatusUnprocessableEntity,
		CodeEmptySubmission:    http.StatusUnprocessableEntity,
		CodeInvalidCredentials: http.StatusUnauthorized,
		CodeEmailNotVerified:   http.StatusForbidden,
		CodeAccountLocked:      http.StatusLocked,
		CodeForbidden:          http.StatusForbidden,
		CodeNotFound:           http.StatusNotFound,
		CodeDuplicateNickname:  http.StatusConflict,
		CodeTokenExpired:       http.StatusUnauthorized,
		CodeInternal:           http.StatusInternalServerError,
	}
	for code, want := range tests {
		require.Equal(t, want, code.HTTPStatus(), code)
	}
}
