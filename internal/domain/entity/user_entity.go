package entity

import (
	"time"
)

// User is the aggregate root of the identity directory.
// HashedPassword holds a bcrypt hash and is never serialized outward.
//
// Security counters (FailedLoginAttempts, IsLocked) are only written through
// the account security guard; everything else is mutated field by field by
// accepted submissions.
type User struct {
	ID                  string
	Email               string
	Nickname            *string
	FirstName           *string
	LastName            *string
	Bio                 *string
	ProfilePictureURL   *string
	LinkedInURL         *string
	GithubURL           *string
	Role                Role
	IsProfessional      bool
	HashedPassword      string `json:"-"`
	EmailVerified       bool
	IsLocked            bool
	FailedLoginAttempts int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// DisplayName returns the best human-facing name available.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != nil && *u.FirstName != "":
		return *u.FirstName
	case u.Nickname != nil && *u.Nickname != "":
		return *u.Nickname
	default:
		return u.Email
	}
}
