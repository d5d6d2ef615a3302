package repository

import (
	"context"
	"io"
	"time"

	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
)

// UserRepository defines the persistence contract of the identity core.
//
// Lookups return apperror.ErrNotFound for missing records. Create and Update
// report storage-level uniqueness violations as apperror.ErrDuplicateEmail or
// apperror.ErrDuplicateNickname. Counter operations must be atomic.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByNickname(ctx context.Context, nickname string) (*entity.User, error)
	Create(ctx context.Context, u *entity.User) error
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error

	IncrementFailedAttempts(ctx context.Context, id string) (int, error)
	ResetFailedAttempts(ctx context.Context, id string) error
	SetLocked(ctx context.Context, id string, locked bool) error
	SetEmailVerified(ctx context.Context, id string, verified bool) error
}

// Notifier delivers fire-and-forget user notifications.
type Notifier interface {
	AccountCreated(ctx context.Context, u *entity.User, verifyURL string) error
	ProfessionalStatusChanged(ctx context.Context, u *entity.User) error
}

// Indexer mirrors directory records into a search backend.
type Indexer interface {
	Index(ctx context.Context, u *entity.User) error
	Remove(ctx context.Context, id string) error
}

// VerificationStore keeps single-use email verification tokens.
type VerificationStore interface {
	Put(ctx context.Context, token, userID string, ttl time.Duration) error
	// Take returns and deletes the user id bound to token; ok is false when the
	// token is unknown or expired.
	Take(ctx context.Context, token string) (userID string, ok bool, err error)
}

// ObjectStore stores uploaded binary objects and returns their public URL.
type ObjectStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// Searcher queries the directory index.
type Searcher interface {
	Search(ctx context.Context, query string, size int) ([]map[string]any, error)
}
