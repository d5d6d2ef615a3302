package application

import (
	"expvar"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-directory/internal/domain/credential"
	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
	repo "github.com/oksasatya/go-identity-directory/internal/domain/repository"
	"github.com/oksasatya/go-identity-directory/internal/domain/security"
	"github.com/oksasatya/go-identity-directory/pkg/helpers"
)

// Counters exported on /api/debug/vars.
var (
	loginsTotal   = expvar.NewInt("auth_logins_total")
	failuresTotal = expvar.NewInt("auth_failures_total")
	lockoutsTotal = expvar.NewInt("auth_lockouts_total")
)

// Principal is the caller an operation runs on behalf of.
type Principal struct {
	UserID string
	Role   entity.Role
}

// Anonymous is the principal of an unauthenticated request.
func Anonymous() Principal { return Principal{Role: entity.RoleAnonymous} }

// Service composes the identity core with its collaborators.
// Notifier, Indexer, Searcher, Verifications and Objects are optional.
type Service struct {
	Repo   repo.UserRepository
	Hasher credential.Hasher
	JWT    *helpers.JWTManager
	Guard  *security.Guard
	Logger *logrus.Logger

	Notifier      repo.Notifier
	Indexer       repo.Indexer
	Searcher      repo.Searcher
	Verifications repo.VerificationStore
	Objects       repo.ObjectStore

	VerifyEmailURL string
	VerifyTTL      time.Duration

	Now   func() time.Time
	NewID func() string
}

func NewService(r repo.UserRepository, hasher credential.Hasher, jwt *helpers.JWTManager, guard *security.Guard, logger *logrus.Logger) *Service {
	if guard == nil {
		guard = security.NewGuard(r, nil, security.DefaultThreshold)
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		Repo:      r,
		Hasher:    hasher,
		JWT:       jwt,
		Guard:     guard,
		Logger:    logger,
		VerifyTTL: 24 * time.Hour,
		Now:       time.Now,
		NewID:     uuid.NewString,
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
