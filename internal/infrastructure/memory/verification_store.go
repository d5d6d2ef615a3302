package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/go-identity-directory/internal/domain/repository"
)

type pending struct {
	userID  string
	expires time.Time
}

// VerificationStore keeps verification tokens in a map with lazy expiry.
type VerificationStore struct {
	mu     sync.Mutex
	tokens map[string]pending
	Now    func() time.Time
}

func NewVerificationStore() *VerificationStore {
	return &VerificationStore{tokens: map[string]pending{}, Now: time.Now}
}

func (s *VerificationStore) Put(_ context.Context, token, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = pending{userID: userID, expires: s.Now().Add(ttl)}
	return nil
}

func (s *VerificationStore) Take(_ context.Context, token string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.tokens[token]
	delete(s.tokens, token)
	if !ok || !s.Now().Before(p.expires) {
		return "", false, nil
	}
	return p.userID, true, nil
}

var _ repository.VerificationStore = (*VerificationStore)(nil)
