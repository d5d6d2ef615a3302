package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
	"github.com/oksasatya/go-identity-directory/internal/domain/credential"
	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
	"github.com/oksasatya/go-identity-directory/internal/domain/security"
	"github.com/oksasatya/go-identity-directory/internal/domain/validation"
	"github.com/oksasatya/go-identity-directory/pkg/helpers"
)

type LoginResult struct {
	User  *entity.User
	Token helpers.SessionToken
}

// Authenticate verifies credentials under the account's single-writer lock.
//
// Missing accounts and wrong passwords fail with InvalidCredentials, unverified
// accounts with EmailNotVerified. A locked account is rejected before the
// password is compared and its counter is left untouched.
func (s *Service) Authenticate(ctx context.Context, in validation.LoginInput) (*entity.User, error) {
	found, err := s.lookup(ctx, in.Identifier)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			failuresTotal.Add(1)
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	var out *entity.User
	err = s.Guard.Exclusive(ctx, found.ID, func(ctx context.Context) error {
		u, err := s.Repo.FindByID(ctx, found.ID)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return apperror.ErrInvalidCredentials
			}
			return fmt.Errorf("reload account: %w", err)
		}
		if !u.EmailVerified {
			return apperror.ErrEmailNotVerified
		}
		if err := s.Guard.Check(u); err != nil {
			return err
		}
		if !credential.Matches(s.Hasher, in.Password, u.HashedPassword) {
			state, err := s.Guard.RecordFailure(ctx, u)
			if err != nil {
				return err
			}
			failuresTotal.Add(1)
			if state == security.StateLocked {
				lockoutsTotal.Add(1)
				s.Logger.WithField("user_id", u.ID).Warn("account locked after repeated failed logins")
			}
			return apperror.ErrInvalidCredentials
		}
		if err := s.Guard.RecordSuccess(ctx, u); err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Login authenticates and issues a session token.
func (s *Service) Login(ctx context.Context, in validation.LoginInput) (*LoginResult, error) {
	u, err := s.Authenticate(ctx, in)
	if err != nil {
		return nil, err
	}
	tok, err := s.JWT.IssueToken(u.ID, u.Role)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue token failed")
		return nil, fmt.Errorf("issue token: %w", err)
	}
	loginsTotal.Add(1)
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("login succeeded")
	return &LoginResult{User: u, Token: tok}, nil
}

// VerifyToken resolves a presented session token to its principal.
func (s *Service) VerifyToken(token string) (Principal, error) {
	claims, err := s.JWT.VerifyToken(token)
	if err != nil {
		return Principal{}, err
	}
	return Principal{UserID: claims.UserID, Role: claims.Role}, nil
}

// lookup treats identifiers containing "@" as emails.
func (s *Service) lookup(ctx context.Context, identifier string) (*entity.User, error) {
	id := strings.TrimSpace(identifier)
	if strings.Contains(id, "@") {
		return s.Repo.FindByEmail(ctx, strings.ToLower(id))
	}
	return s.Repo.FindByNickname(ctx, id)
}
