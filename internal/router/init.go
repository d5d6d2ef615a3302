package router

import (
	"github.com/oksasatya/go-identity-directory/config"
	"github.com/oksasatya/go-identity-directory/internal/application"
	"github.com/oksasatya/go-identity-directory/internal/container"
	repouser "github.com/oksasatya/go-identity-directory/internal/domain/repository"
	"github.com/oksasatya/go-identity-directory/internal/domain/security"
	"github.com/oksasatya/go-identity-directory/internal/infrastructure/memory"
	"github.com/oksasatya/go-identity-directory/internal/infrastructure/notify"
	pginfra "github.com/oksasatya/go-identity-directory/internal/infrastructure/postgres"
	"github.com/oksasatya/go-identity-directory/internal/infrastructure/redisstore"
	"github.com/oksasatya/go-identity-directory/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-identity-directory/internal/interface/http"
	"github.com/oksasatya/go-identity-directory/internal/interface/middleware"
	"github.com/oksasatya/go-identity-directory/internal/router/modules"
	"github.com/oksasatya/go-identity-directory/pkg/helpers"
	bindval "github.com/oksasatya/go-identity-directory/pkg/validation"
)

type UserModuleDeps struct {
	Repo        repouser.UserRepository
	Service     *application.Service
	UserHandler *handlers.UserHandler
	AuthHandler *handlers.AuthHandler
}

// BuildService assembles the identity service from whatever infrastructure
// the container holds. Missing clients degrade to in-process or disabled
// collaborators.
func BuildService(cfg *config.Config) *application.Service {
	logger := container.GetLogger()

	var repo repouser.UserRepository
	if pool := container.GetPGPool(); pool != nil && cfg.StorageDriver == config.StoragePostgres {
		repo = pginfra.NewUserRepository(pool)
	} else {
		repo = memory.NewUserRepository()
	}

	var locker security.Locker = security.NewKeyedMutex()
	var verifications repouser.VerificationStore = memory.NewVerificationStore()
	if rdb := container.GetRedis(); rdb != nil {
		locker = redisstore.NewLocker(rdb, cfg.AccountLockTTL, logger)
		verifications = redisstore.NewVerificationStore(rdb)
	}
	guard := security.NewGuard(repo, locker, cfg.LockoutThreshold)

	svc := application.NewService(repo, helpers.BcryptHasher{}, container.GetJWT(), guard, logger)
	svc.Verifications = verifications
	svc.VerifyEmailURL = cfg.VerifyEmailURL
	svc.VerifyTTL = cfg.VerifyTokenTTL

	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled {
		svc.Notifier = notify.NewEmailNotifier(pub, cfg.Brand(), cfg.VerifyTokenTTL)
	} else {
		svc.Notifier = notify.Disabled{}
	}

	if es := container.GetES(); es != nil && cfg.SearchIndexEnabled {
		idx := search.NewUserIndex(es, cfg.ESUsersIndex)
		svc.Indexer, svc.Searcher = idx, idx
	} else {
		svc.Indexer, svc.Searcher = search.Disabled{}, search.Disabled{}
	}

	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		svc.Objects = &helpers.GCSStore{Client: gcs, Bucket: cfg.GCSBucket}
	}
	return svc
}

func buildUserDeps(cfg *config.Config) UserModuleDeps {
	svc := BuildService(cfg)
	return UserModuleDeps{
		Repo:        svc.Repo,
		Service:     svc,
		UserHandler: handlers.NewUserHandler(svc, container.GetLogger()),
		AuthHandler: handlers.NewAuthHandler(svc, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) *application.Service {
	cfg := container.GetConfig()
	bindval.Init()
	deps := buildUserDeps(cfg)

	r.Use(middleware.Identify(deps.Service))
	r.Add(modules.NewAuthModule(deps.AuthHandler))
	r.Add(modules.NewUserModule(deps.UserHandler))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
	return deps.Service
}
