package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
)

// issueVerification stores a single-use token for u and returns the link to
// send. It returns "" when no store is configured or the store fails.
func (s *Service) issueVerification(ctx context.Context, u *entity.User) string {
	if s.Verifications == nil {
		return ""
	}
	token := s.NewID()
	if err := s.Verifications.Put(ctx, token, u.ID, s.VerifyTTL); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("store verification token failed")
		return ""
	}
	return verifyLink(s.VerifyEmailURL, token)
}

// ConfirmEmail consumes a verification token and marks the account verified.
func (s *Service) ConfirmEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" || s.Verifications == nil {
		return apperror.ErrTokenInvalid
	}
	userID, ok, err := s.Verifications.Take(ctx, token)
	if err != nil {
		return fmt.Errorf("take verification token: %w", err)
	}
	if !ok {
		return apperror.ErrTokenInvalid
	}
	if err := s.Repo.SetEmailVerified(ctx, userID, true); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.ErrTokenInvalid
		}
		return fmt.Errorf("mark email verified: %w", err)
	}
	s.Logger.WithField("user_id", userID).Info("email verified")
	return nil
}

func verifyLink(base, token string) string {
	if base == "" {
		return ""
	}
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
