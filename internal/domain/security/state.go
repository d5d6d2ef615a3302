// Package security implements the account lockout state machine.
//
// An account is ACTIVE until its failed-attempt counter reaches the threshold,
// then LOCKED. Nothing in this package moves an account back to ACTIVE except
// Unlock, which is reserved for administrative callers.
package security

import (
	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
)

// DefaultThreshold is the failed-attempt count that locks an account.
const DefaultThreshold = 5

type State string

const (
	StateActive State = "ACTIVE"
	StateLocked State = "LOCKED"
)

type Outcome int

const (
	OutcomeFailure Outcome = iota
	OutcomeSuccess
)

// Status is the security slice of a user record.
type Status struct {
	FailedAttempts int
	Locked         bool
}

func (s Status) State() State {
	if s.Locked {
		return StateLocked
	}
	return StateActive
}

// StatusOf reads the security counters of u.
func StatusOf(u *entity.User) Status {
	return Status{FailedAttempts: u.FailedLoginAttempts, Locked: u.IsLocked}
}

// Next computes the transition for one authentication outcome.
// A locked account rejects every outcome and keeps its counter.
func Next(s Status, o Outcome, threshold int) (Status, error) {
	if s.Locked {
		return s, apperror.ErrAccountLocked
	}
	switch o {
	case OutcomeSuccess:
		return Status{}, nil
	default:
		s.FailedAttempts++
		if s.FailedAttempts >= threshold {
			s.Locked = true
		}
		return s, nil
	}
}
