package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-identity-directory/internal/domain/repository"
	"github.com/oksasatya/go-identity-directory/pkg/helpers"
)

type verification struct {
	UserID   string    `json:"user_id"`
	IssuedAt time.Time `json:"issued_at"`
}

// VerificationStore keeps email verification tokens as expiring keys.
type VerificationStore struct {
	rdb *redis.Client
}

func NewVerificationStore(rdb *redis.Client) *VerificationStore {
	return &VerificationStore{rdb: rdb}
}

func verifyKey(token string) string { return "verify:email:" + token }

func (s *VerificationStore) Put(ctx context.Context, token, userID string, ttl time.Duration) error {
	return helpers.RedisSetJSON(ctx, s.rdb, verifyKey(token), verification{UserID: userID, IssuedAt: time.Now().UTC()}, ttl)
}

func (s *VerificationStore) Take(ctx context.Context, token string) (string, bool, error) {
	var v verification
	ok, err := helpers.RedisTakeJSON(ctx, s.rdb, verifyKey(token), &v)
	if err != nil || !ok {
		return "", false, err
	}
	return v.UserID, v.UserID != "", nil
}

var _ repository.VerificationStore = (*VerificationStore)(nil)
