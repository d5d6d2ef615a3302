package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
)

func strp(s string) *string { return &s }

func TestUserRepositoryUniqueness(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, &entity.User{ID: "1", Email: "a@example.com", Nickname: strp("alpha")}))

	require.ErrorIs(t, r.Create(ctx, &entity.User{ID: "2", Email: "A@example.com"}), apperror.ErrDuplicateEmail)
	require.ErrorIs(t, r.Create(ctx, &entity.User{ID: "2", Email: "b@example.com", Nickname: strp("ALPHA")}), apperror.ErrDuplicateNickname)
	require.NoError(t, r.Create(ctx, &entity.User{ID: "2", Email: "b@example.com"}))

	u, err := r.FindByID(ctx, "2")
	require.NoError(t, err)
	u.Email = "a@example.com"
	require.ErrorIs(t, r.Update(ctx, u), apperror.ErrDuplicateEmail)
}

func TestUserRepositoryReturnsCopies(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	orig := &entity.User{ID: "1", Email: "a@example.com", Bio: strp("hello")}
	require.NoError(t, r.Create(ctx, orig))
	*orig.Bio = "changed"

	got, err := r.FindByID(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "hello", *got.Bio)
}

func TestUpdateKeepsSecurityState(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, &entity.User{ID: "1", Email: "a@example.com", HashedPassword: "h"}))
	require.NoError(t, r.SetEmailVerified(ctx, "1", true))
	_, err := r.IncrementFailedAttempts(ctx, "1")
	require.NoError(t, err)

	stale := &entity.User{ID: "1", Email: "a@example.com"}
	require.NoError(t, r.Update(ctx, stale))
	got, _ := r.FindByID(ctx, "1")
	require.Equal(t, "h", got.HashedPassword)
	require.True(t, got.EmailVerified)
	require.Equal(t, 1, got.FailedLoginAttempts)

	require.ErrorIs(t, r.Update(ctx, &entity.User{ID: "nope"}), apperror.ErrNotFound)
	_, err = r.IncrementFailedAttempts(ctx, "nope")
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestIncrementIsAtomic(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, &entity.User{ID: "1", Email: "a@example.com"}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.IncrementFailedAttempts(ctx, "1")
		}()
	}
	wg.Wait()
	got, _ := r.FindByID(ctx, "1")
	require.Equal(t, 50, got.FailedLoginAttempts)
}

func TestVerificationStoreExpiry(t *testing.T) {
	s := NewVerificationStore()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "t1", "u1", time.Hour))
	require.NoError(t, s.Put(ctx, "t2", "u2", time.Hour))

	id, ok, err := s.Take(ctx, "t1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "u1", id)
	_, ok, _ = s.Take(ctx, "t1")
	require.False(t, ok)

	now = now.Add(time.Hour)
	_, ok, _ = s.Take(ctx, "t2")
	require.False(t, ok)
}
