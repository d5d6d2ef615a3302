package security

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
)

func TestNextTransitions(t *testing.T) {
	s := Status{}
	var err error
	for i := 0; i < 4; i++ {
		s, err = Next(s, OutcomeFailure, DefaultThreshold)
		require.NoError(t, err)
		require.Equal(t, StateActive, s.State())
	}
	require.Equal(t, 4, s.FailedAttempts)

	s, err = Next(s, OutcomeSuccess, DefaultThreshold)
	require.NoError(t, err)
	require.Equal(t, Status{}, s)
}

func TestNextLocksAtThreshold(t *testing.T) {
	s := Status{FailedAttempts: 4}
	s, err := Next(s, OutcomeFailure, DefaultThreshold)
	require.NoError(t, err)
	require.Equal(t, StateLocked, s.State())
	require.Equal(t, 5, s.FailedAttempts)

	for _, o := range []Outcome{OutcomeFailure, OutcomeSuccess} {
		after, err := Next(s, o, DefaultThreshold)
		require.ErrorIs(t, err, apperror.ErrAccountLocked)
		require.Equal(t, s, after)
	}
}
