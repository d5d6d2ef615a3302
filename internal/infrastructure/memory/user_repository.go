// Package memory holds process-local implementations of the repository
// contracts, used for local development and tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
	"github.com/oksasatya/go-identity-directory/internal/domain/repository"
)

// UserRepository stores copies of records so callers never share memory with
// the store. Uniqueness of email and nickname is case-insensitive.
type UserRepository struct {
	mu    sync.Mutex
	users map[string]entity.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: map[string]entity.User{}}
}

func clone(u entity.User) *entity.User {
	cp := u
	for _, p := range []**string{&cp.Nickname, &cp.FirstName, &cp.LastName, &cp.Bio,
		&cp.ProfilePictureURL, &cp.LinkedInURL, &cp.GithubURL} {
		if *p != nil {
			s := **p
			*p = &s
		}
	}
	return &cp
}

func (r *UserRepository) find(match func(entity.User) bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			return clone(u), nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id })
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *UserRepository) FindByNickname(_ context.Context, nickname string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Nickname != nil && strings.EqualFold(*u.Nickname, nickname) })
}

func (r *UserRepository) checkUnique(u *entity.User) error {
	for id, other := range r.users {
		if id == u.ID {
			continue
		}
		if strings.EqualFold(other.Email, u.Email) {
			return apperror.ErrDuplicateEmail
		}
		if u.Nickname != nil && other.Nickname != nil && strings.EqualFold(*u.Nickname, *other.Nickname) {
			return apperror.ErrDuplicateNickname
		}
	}
	return nil
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkUnique(u); err != nil {
		return err
	}
	r.users[u.ID] = *clone(*u)
	return nil
}

// Update leaves the password hash, verification flag and security counters
// untouched, like the SQL implementation.
func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.users[u.ID]
	if !ok {
		return apperror.ErrNotFound
	}
	if err := r.checkUnique(u); err != nil {
		return err
	}
	next := *clone(*u)
	next.HashedPassword = cur.HashedPassword
	next.EmailVerified = cur.EmailVerified
	next.FailedLoginAttempts = cur.FailedLoginAttempts
	next.IsLocked = cur.IsLocked
	next.CreatedAt = cur.CreatedAt
	r.users[u.ID] = next
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return apperror.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *UserRepository) mutate(id string, fn func(*entity.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperror.ErrNotFound
	}
	fn(&u)
	r.users[id] = u
	return nil
}

func (r *UserRepository) IncrementFailedAttempts(_ context.Context, id string) (int, error) {
	var n int
	err := r.mutate(id, func(u *entity.User) {
		u.FailedLoginAttempts++
		n = u.FailedLoginAttempts
	})
	return n, err
}

func (r *UserRepository) ResetFailedAttempts(_ context.Context, id string) error {
	return r.mutate(id, func(u *entity.User) { u.FailedLoginAttempts = 0 })
}

func (r *UserRepository) SetLocked(_ context.Context, id string, locked bool) error {
	return r.mutate(id, func(u *entity.User) { u.IsLocked = locked })
}

func (r *UserRepository) SetEmailVerified(_ context.Context, id string, verified bool) error {
	return r.mutate(id, func(u *entity.User) { u.EmailVerified = verified })
}

var _ repository.UserRepository = (*UserRepository)(nil)
