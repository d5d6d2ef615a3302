package security

import (
	"context"
	"fmt"

	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
)

// CounterStore is the slice of the user repository the guard writes through.
// Each call must be atomic at the storage layer.
type CounterStore interface {
	IncrementFailedAttempts(ctx context.Context, id string) (int, error)
	ResetFailedAttempts(ctx context.Context, id string) error
	SetLocked(ctx context.Context, id string, locked bool) error
}

// Guard drives the lockout state machine against persistent counters.
// RecordFailure, RecordSuccess and Unlock must run inside Exclusive for the
// same account so that a success reset is never overtaken by a stale write.
type Guard struct {
	store     CounterStore
	locker    Locker
	threshold int
}

func NewGuard(store CounterStore, locker Locker, threshold int) *Guard {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if locker == nil {
		locker = NewKeyedMutex()
	}
	return &Guard{store: store, locker: locker, threshold: threshold}
}

func (g *Guard) Threshold() int { return g.threshold }

// Exclusive runs fn while holding the per-account lock.
func (g *Guard) Exclusive(ctx context.Context, accountID string, fn func(ctx context.Context) error) error {
	unlock, err := g.locker.Lock(ctx, "account:"+accountID)
	if err != nil {
		return fmt.Errorf("acquire account lock: %w", err)
	}
	defer unlock()
	return fn(ctx)
}

// Check is the pre-authentication gate.
func (g *Guard) Check(u *entity.User) error {
	if StatusOf(u).State() == StateLocked {
		return apperror.ErrAccountLocked
	}
	return nil
}

// RecordFailure increments the counter and locks the account once the
// threshold is reached. u is updated to the persisted state.
func (g *Guard) RecordFailure(ctx context.Context, u *entity.User) (State, error) {
	if err := g.Check(u); err != nil {
		return StateLocked, err
	}
	n, err := g.store.IncrementFailedAttempts(ctx, u.ID)
	if err != nil {
		return StateActive, fmt.Errorf("increment failed attempts: %w", err)
	}
	next, _ := Next(Status{FailedAttempts: n - 1}, OutcomeFailure, g.threshold)
	u.FailedLoginAttempts = next.FailedAttempts
	if next.Locked {
		if err := g.store.SetLocked(ctx, u.ID, true); err != nil {
			return StateActive, fmt.Errorf("lock account: %w", err)
		}
		u.IsLocked = true
	}
	return next.State(), nil
}

// RecordSuccess resets the counter after a verified password.
func (g *Guard) RecordSuccess(ctx context.Context, u *entity.User) error {
	next, err := Next(StatusOf(u), OutcomeSuccess, g.threshold)
	if err != nil {
		return err
	}
	if err := g.store.ResetFailedAttempts(ctx, u.ID); err != nil {
		return fmt.Errorf("reset failed attempts: %w", err)
	}
	u.FailedLoginAttempts = next.FailedAttempts
	return nil
}

// Unlock is the administrative LOCKED -> ACTIVE action.
func (g *Guard) Unlock(ctx context.Context, u *entity.User) error {
	return g.Exclusive(ctx, u.ID, func(ctx context.Context) error {
		if err := g.store.ResetFailedAttempts(ctx, u.ID); err != nil {
			return fmt.Errorf("reset failed attempts: %w", err)
		}
		if err := g.store.SetLocked(ctx, u.ID, false); err != nil {
			return fmt.Errorf("unlock account: %w", err)
		}
		u.FailedLoginAttempts = 0
		u.IsLocked = false
		return nil
	})
}
