package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
	"github.com/oksasatya/go-identity-directory/internal/domain/security"
	"github.com/oksasatya/go-identity-directory/internal/infrastructure/memory"
	"github.com/oksasatya/go-identity-directory/pkg/helpers"
)

// plainHasher keeps tests fast; bcrypt is covered in pkg/helpers.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Verify(p, h string) bool       { return h == "hashed:"+p }

type recordingNotifier struct {
	mu           sync.Mutex
	created      []string
	verifyURLs   []string
	professional []string
	err          error
}

func (n *recordingNotifier) AccountCreated(_ context.Context, u *entity.User, verifyURL string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, u.Email)
	n.verifyURLs = append(n.verifyURLs, verifyURL)
	return n.err
}

func (n *recordingNotifier) ProfessionalStatusChanged(_ context.Context, u *entity.User) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.professional = append(n.professional, u.ID)
	return n.err
}

type recordingIndexer struct {
	indexed []string
	removed []string
	err     error
}

func (i *recordingIndexer) Index(_ context.Context, u *entity.User) error {
	i.indexed = append(i.indexed, u.ID)
	return i.err
}

func (i *recordingIndexer) Remove(_ context.Context, id string) error {
	i.removed = append(i.removed, id)
	return i.err
}

type memoryObjects struct {
	objects map[string][]byte
}

func (m *memoryObjects) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[objectPath] = buf.Bytes()
	return "https://storage.googleapis.com/avatars-bucket/" + objectPath, nil
}

var errNotifierDown = errors.New("notifier down")

type fixture struct {
	svc      *Service
	repo     *memory.UserRepository
	notifier *recordingNotifier
	indexer  *recordingIndexer
	verify   *memory.VerificationStore
	objects  *memoryObjects
	logs     *test.Hook
	clock    time.Time
}

func newFixture() *fixture {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	f := &fixture{
		repo:     memory.NewUserRepository(),
		notifier: &recordingNotifier{},
		indexer:  &recordingIndexer{},
		verify:   memory.NewVerificationStore(),
		objects:  &memoryObjects{},
		logs:     hook,
		clock:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	jwt := helpers.NewJWTManager("test-secret", "identity-test", 15*time.Minute)
	jwt.Now = func() time.Time { return f.clock }

	guard := security.NewGuard(f.repo, security.NewKeyedMutex(), security.DefaultThreshold)
	svc := NewService(f.repo, plainHasher{}, jwt, guard, logger)
	svc.Notifier = f.notifier
	svc.Indexer = f.indexer
	svc.Verifications = f.verify
	svc.Objects = f.objects
	svc.VerifyEmailURL = "https://id.example.com/verify-email"
	svc.Now = func() time.Time { return f.clock }

	seq := 0
	svc.NewID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	f.svc = svc
	return f
}

var admin = Principal{UserID: "admin-1", Role: entity.RoleAdmin}

// stored returns the persisted record, bypassing the service.
func (f *fixture) stored(id string) entity.User {
	u, err := f.repo.FindByID(context.Background(), id)
	if err != nil {
		panic(err)
	}
	return *u
}

// register creates an account and marks it verified.
func (f *fixture) register(email, password string) *entity.User {
	u, err := f.svc.Create(context.Background(), Anonymous(), map[string]any{
		"email": email, "password": password, "role": "AUTHENTICATED",
	})
	if err != nil {
		panic(err)
	}
	_ = f.repo.SetEmailVerified(context.Background(), u.ID, true)
	return u
}
