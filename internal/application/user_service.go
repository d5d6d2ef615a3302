package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
	"github.com/oksasatya/go-identity-directory/internal/domain/policy"
	"github.com/oksasatya/go-identity-directory/internal/domain/validation"
)

var errObjectStoreDisabled = errors.New("object storage not configured")

var avatarExts = map[string]struct{}{".jpg": {}, ".jpeg": {}, ".png": {}}

func authorize(caller Principal, targetID string, ops ...policy.Operation) error {
	for _, op := range ops {
		if err := policy.Authorize(caller.Role, caller.UserID, targetID, op); err != nil {
			return err
		}
	}
	return nil
}

// Create registers a new account. Anonymous callers may only create
// AUTHENTICATED (or ANONYMOUS) accounts; elevated roles need ASSIGN_ROLE and,
// for ADMIN, PROMOTE_ADMIN.
func (s *Service) Create(ctx context.Context, caller Principal, sub validation.Submission) (*entity.User, error) {
	if err := authorize(caller, "", policy.OpCreate); err != nil {
		return nil, err
	}
	in, err := validation.ValidateCreate(sub)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, "", policy.RoleChangeOps(in.Role)...); err != nil {
		return nil, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := s.now()
	u := &entity.User{
		ID:             s.NewID(),
		Email:          in.Email,
		Role:           in.Role,
		HashedPassword: hash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	in.Profile.Apply(u)
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).WithField("role", u.Role).Info("user created")

	verifyURL := s.issueVerification(ctx, u)
	if s.Notifier != nil {
		if err := s.Notifier.AccountCreated(ctx, u, verifyURL); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("account created notification failed")
		}
	}
	s.index(ctx, u)
	return u, nil
}

func (s *Service) Get(ctx context.Context, caller Principal, id string) (*entity.User, error) {
	if err := authorize(caller, id, policy.OpRead); err != nil {
		return nil, err
	}
	return s.Repo.FindByID(ctx, id)
}

// Update applies an administrative update field by field.
func (s *Service) Update(ctx context.Context, caller Principal, id string, sub validation.Submission) (*entity.User, error) {
	if err := authorize(caller, id, policy.OpUpdate); err != nil {
		return nil, err
	}
	in, err := validation.ValidateUpdate(sub)
	if err != nil {
		return nil, err
	}
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Role != nil && *in.Role != u.Role {
		ops := policy.RoleChangeOps(*in.Role)
		if u.Role == entity.RoleAdmin {
			// demoting an admin is as privileged as promoting one
			ops = append(ops, policy.OpPromoteAdmin)
		}
		if err := authorize(caller, id, ops...); err != nil {
			return nil, err
		}
	}
	in.Apply(u)
	return s.save(ctx, u)
}

// UpdateProfile is the self-service profile update of the caller's own record.
func (s *Service) UpdateProfile(ctx context.Context, caller Principal, sub validation.Submission) (*entity.User, error) {
	if err := authorize(caller, caller.UserID, policy.OpUpdateProfile); err != nil {
		return nil, err
	}
	fields, err := validation.ValidateProfileUpdate(sub)
	if err != nil {
		return nil, err
	}
	u, err := s.Repo.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	fields.Apply(u)
	return s.save(ctx, u)
}

func (s *Service) Delete(ctx context.Context, caller Principal, id string) error {
	if err := authorize(caller, id, policy.OpDelete); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.WithField("user_id", id).Info("user deleted")
	if s.Indexer != nil {
		if err := s.Indexer.Remove(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("search index removal failed")
		}
	}
	return nil
}

// SetProfessionalStatus notifies the user only when the flag actually changes.
func (s *Service) SetProfessionalStatus(ctx context.Context, caller Principal, id string, professional bool) (*entity.User, error) {
	if err := authorize(caller, id, policy.OpSetProfessional); err != nil {
		return nil, err
	}
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.IsProfessional == professional {
		return u, nil
	}
	u.IsProfessional = professional
	if u, err = s.save(ctx, u); err != nil {
		return nil, err
	}
	if s.Notifier != nil {
		if err := s.Notifier.ProfessionalStatusChanged(ctx, u); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("professional status notification failed")
		}
	}
	return u, nil
}

// Unlock is the administrative reset of a locked account.
func (s *Service) Unlock(ctx context.Context, caller Principal, id string) (*entity.User, error) {
	if err := authorize(caller, id, policy.OpUnlock); err != nil {
		return nil, err
	}
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Guard.Unlock(ctx, u); err != nil {
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).WithField("by", caller.UserID).Info("account unlocked")
	return u, nil
}

// UploadAvatar stores the image and sets it as the caller's profile picture.
func (s *Service) UploadAvatar(ctx context.Context, caller Principal, r io.Reader, filename, contentType string) (*entity.User, error) {
	if err := authorize(caller, caller.UserID, policy.OpUpdateProfile); err != nil {
		return nil, err
	}
	ext := strings.ToLower(path.Ext(filename))
	if _, ok := avatarExts[ext]; !ok {
		return nil, apperror.Validation([]apperror.FieldError{
			*apperror.Field(validation.FieldProfilePictureURL, apperror.CodeInvalidImageType, "image must be a .jpg, .jpeg or .png file"),
		})
	}
	if s.Objects == nil {
		return nil, errObjectStoreDisabled
	}
	u, err := s.Repo.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	objectPath := path.Join("avatars", u.ID, s.NewID()+ext)
	url, err := s.Objects.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	if _, err := validation.ValidateProfilePictureURL(url); err != nil {
		return nil, fmt.Errorf("uploaded avatar url %q rejected: %w", url, err)
	}
	u.ProfilePictureURL = &url
	return s.save(ctx, u)
}

// Search queries the directory index. Listing is reserved to managers and admins.
func (s *Service) Search(ctx context.Context, caller Principal, query string, size int) ([]map[string]any, error) {
	if err := authorize(caller, "", policy.OpList); err != nil {
		return nil, err
	}
	if s.Searcher == nil {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return s.Searcher.Search(ctx, query, size)
}

func (s *Service) save(ctx context.Context, u *entity.User) (*entity.User, error) {
	u.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	// Update leaves security counters alone, so pick up their current values.
	fresh, err := s.Repo.FindByID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	s.index(ctx, fresh)
	return fresh, nil
}

func (s *Service) index(ctx context.Context, u *entity.User) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.Index(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("search index failed")
	}
}
