package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
	"github.com/oksasatya/go-identity-directory/internal/domain/repository"
)

const (
	uniqueViolation = "23505"
	// invalidText is raised when an id is not a well-formed uuid.
	invalidText = "22P02"
)

const userColumns = `id::text, email, nickname, first_name, last_name, bio,
	profile_picture_url, linkedin_profile_url, github_profile_url,
	role, is_professional, password_hash, email_verified, is_locked,
	failed_login_attempts, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.Nickname, &u.FirstName, &u.LastName, &u.Bio,
		&u.ProfilePictureURL, &u.LinkedInURL, &u.GithubURL,
		&role, &u.IsProfessional, &u.HashedPassword, &u.EmailVerified, &u.IsLocked,
		&u.FailedLoginAttempts, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	u.Role = entity.Role(role)
	return u, nil
}

// translateError maps driver errors onto the domain taxonomy.
func translateError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidText {
		return apperror.ErrNotFound
	}
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch {
		case strings.Contains(pgErr.ConstraintName, "nickname"):
			return apperror.ErrDuplicateNickname
		case strings.Contains(pgErr.ConstraintName, "email"):
			return apperror.ErrDuplicateEmail
		}
	}
	return err
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	return scanUser(row)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, `id = $1::uuid`, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `lower(email) = lower($1)`, email)
}

func (r *UserRepository) FindByNickname(ctx context.Context, nickname string) (*entity.User, error) {
	return r.findOne(ctx, `nickname IS NOT NULL AND lower(nickname) = lower($1)`, nickname)
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, nickname, first_name, last_name, bio,
			profile_picture_url, linkedin_profile_url, github_profile_url,
			role, is_professional, password_hash, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`, u.ID, u.Email, u.Nickname, u.FirstName, u.LastName, u.Bio,
		u.ProfilePictureURL, u.LinkedInURL, u.GithubURL,
		string(u.Role), u.IsProfessional, u.HashedPassword, u.EmailVerified, u.CreatedAt, u.UpdatedAt)

	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		return translateError(err)
	}
	return nil
}

// Update writes profile, role and flag columns. Security counters, the
// verification flag and the password hash have dedicated operations.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, nickname = $2, first_name = $3, last_name = $4, bio = $5,
			profile_picture_url = $6, linkedin_profile_url = $7, github_profile_url = $8,
			role = $9, is_professional = $10, updated_at = $11
		WHERE id = $12::uuid
	`, u.Email, u.Nickname, u.FirstName, u.LastName, u.Bio,
		u.ProfilePictureURL, u.LinkedInURL, u.GithubURL,
		string(u.Role), u.IsProfessional, u.UpdatedAt, u.ID)
	if err != nil {
		return translateError(err)
	}
	if res.RowsAffected() == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM users WHERE id = $1::uuid`, id)
}

// IncrementFailedAttempts is a single atomic UPDATE ... RETURNING.
func (r *UserRepository) IncrementFailedAttempts(ctx context.Context, id string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1, updated_at = now()
		WHERE id = $1::uuid
		RETURNING failed_login_attempts
	`, id).Scan(&n)
	if err != nil {
		return 0, translateError(err)
	}
	return n, nil
}

func (r *UserRepository) ResetFailedAttempts(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE users SET failed_login_attempts = 0, updated_at = now() WHERE id = $1::uuid`, id)
}

func (r *UserRepository) SetLocked(ctx context.Context, id string, locked bool) error {
	return r.exec(ctx, `UPDATE users SET is_locked = $2, updated_at = now() WHERE id = $1::uuid`, id, locked)
}

func (r *UserRepository) SetEmailVerified(ctx context.Context, id string, verified bool) error {
	return r.exec(ctx, `UPDATE users SET email_verified = $2, updated_at = now() WHERE id = $1::uuid`, id, verified)
}

func (r *UserRepository) exec(ctx context.Context, sql string, args ...any) error {
	res, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("exec: %w", translateError(err))
	}
	if res.RowsAffected() == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
