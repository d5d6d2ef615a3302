package handlers

import (
	"time"

	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
)

// userResponse is the outward shape of a user record. The password hash and
// the failed-attempt counter are never serialized.
type userResponse struct {
	ID                 string      `json:"id"`
	Email              string      `json:"email"`
	Nickname           *string     `json:"nickname"`
	FirstName          *string     `json:"first_name"`
	LastName           *string     `json:"last_name"`
	Bio                *string     `json:"bio"`
	ProfilePictureURL  *string     `json:"profile_picture_url"`
	LinkedInProfileURL *string     `json:"linkedin_profile_url"`
	GithubProfileURL   *string     `json:"github_profile_url"`
	Role               entity.Role `json:"role"`
	IsProfessional     bool        `json:"is_professional"`
	EmailVerified      bool        `json:"email_verified"`
	IsLocked           bool        `json:"is_locked"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{
		ID:                 u.ID,
		Email:              u.Email,
		Nickname:           u.Nickname,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Bio:                u.Bio,
		ProfilePictureURL:  u.ProfilePictureURL,
		LinkedInProfileURL: u.LinkedInURL,
		GithubProfileURL:   u.GithubURL,
		Role:               u.Role,
		IsProfessional:     u.IsProfessional,
		EmailVerified:      u.EmailVerified,
		IsLocked:           u.IsLocked,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}
