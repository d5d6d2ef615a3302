package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
	"github.com/oksasatya/go-identity-directory/internal/domain/validation"
)

func login(id, pw string) validation.LoginInput {
	return validation.LoginInput{Identifier: id, Password: pw}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	f := newFixture()
	u := f.register("jane@example.com", "Secure*1234")

	res, err := f.svc.Login(context.Background(), login("  JANE@Example.com ", "Secure*1234"))
	require.NoError(t, err)
	require.Equal(t, u.ID, res.User.ID)
	require.Equal(t, f.clock.Add(15*time.Minute), res.Token.ExpiresAt)

	p, err := f.svc.VerifyToken(res.Token.Token)
	require.NoError(t, err)
	require.Equal(t, Principal{UserID: u.ID, Role: entity.RoleAuthenticated}, p)

	f.clock = f.clock.Add(15*time.Minute + time.Second)
	_, err = f.svc.VerifyToken(res.Token.Token)
	require.ErrorIs(t, err, apperror.ErrTokenExpired)
}

func TestLoginByNickname(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u, err := f.svc.Create(ctx, Anonymous(), map[string]any{
		"email": "nick@example.com", "password": "Secure*1234", "role": "AUTHENTICATED", "nickname": "nick_01",
	})
	require.NoError(t, err)
	require.NoError(t, f.repo.SetEmailVerified(ctx, u.ID, true))

	res, err := f.svc.Login(ctx, login("nick_01", "Secure*1234"))
	require.NoError(t, err)
	require.Equal(t, u.ID, res.User.ID)
}

func TestLoginUnknownAccountAndUnverified(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Login(ctx, login("ghost@example.com", "Secure*1234"))
	require.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = f.svc.Create(ctx, Anonymous(), map[string]any{
		"email": "new@example.com", "password": "Secure*1234", "role": "AUTHENTICATED",
	})
	require.NoError(t, err)
	_, err = f.svc.Login(ctx, login("new@example.com", "Secure*1234"))
	require.ErrorIs(t, err, apperror.ErrEmailNotVerified)
	require.Equal(t, apperror.ErrInvalidCredentials.Message, apperror.ErrEmailNotVerified.Message)
}

func TestFiveFailuresLockAccount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.register("john@example.com", "Secure*1234")

	for i := 0; i < 5; i++ {
		_, err := f.svc.Login(ctx, login("john@example.com", "Wrong*1234"))
		require.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	}
	stored := f.stored(u.ID)
	require.True(t, stored.IsLocked)
	require.Equal(t, 5, stored.FailedLoginAttempts)

	_, err := f.svc.Login(ctx, login("john@example.com", "Secure*1234"))
	require.ErrorIs(t, err, apperror.ErrAccountLocked)
	require.Equal(t, 5, f.stored(u.ID).FailedLoginAttempts)

	require.NotEmpty(t, f.logs.AllEntries())
}

func TestSuccessResetsCounter(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.register("reset@example.com", "Secure*1234")

	for i := 0; i < 4; i++ {
		_, err := f.svc.Login(ctx, login("reset@example.com", "nope"))
		require.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	}
	require.Equal(t, 4, f.stored(u.ID).FailedLoginAttempts)

	_, err := f.svc.Login(ctx, login("reset@example.com", "Secure*1234"))
	require.NoError(t, err)
	stored := f.stored(u.ID)
	require.Equal(t, 0, stored.FailedLoginAttempts)
	require.False(t, stored.IsLocked)
}

func TestConcurrentFailuresStillLock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.register("race@example.com", "Secure*1234")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.Login(ctx, login("race@example.com", "bad"))
		}()
	}
	wg.Wait()

	stored := f.stored(u.ID)
	require.True(t, stored.IsLocked)
	require.Equal(t, 5, stored.FailedLoginAttempts)
}

func TestUnlockRestoresLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.register("locked@example.com", "Secure*1234")
	for i := 0; i < 5; i++ {
		_, _ = f.svc.Login(ctx, login("locked@example.com", "bad"))
	}

	_, err := f.svc.Unlock(ctx, Principal{UserID: u.ID, Role: entity.RoleAuthenticated}, u.ID)
	require.ErrorIs(t, err, apperror.ErrForbidden)

	got, err := f.svc.Unlock(ctx, admin, u.ID)
	require.NoError(t, err)
	require.False(t, got.IsLocked)
	require.Zero(t, got.FailedLoginAttempts)

	_, err = f.svc.Login(ctx, login("locked@example.com", "Secure*1234"))
	require.NoError(t, err)
}
