package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
)

func TestUserDocumentOmitsSecrets(t *testing.T) {
	nick := "jane_d"
	u := &entity.User{
		ID: "u1", Email: "jane@example.com", Nickname: &nick, Role: entity.RoleManager,
		HashedPassword: "secret-hash", FailedLoginAttempts: 3, IsLocked: true,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	doc := userDocument(u)
	require.Equal(t, "jane_d", doc["nickname"])
	require.Equal(t, "MANAGER", doc["role"])
	require.Equal(t, "jane_d", doc["display_name"])
	require.NotContains(t, doc, "first_name")

	b, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NotContains(t, string(b), "secret-hash")
	require.NotContains(t, string(b), "locked")
}

// fakeES answers like an Elasticsearch node and records requests.
type fakeES struct {
	mu          sync.Mutex
	paths       []string
	body        string
	indexExists bool
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.paths = append(f.paths, r.Method+" "+r.URL.Path)
	f.body = string(b)
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodHead:
		if !f.indexExists {
			w.WriteHeader(http.StatusNotFound)
		}
	case r.Method == http.MethodPut && r.URL.Path == "/users":
		_, _ = io.WriteString(w, `{"acknowledged":true,"index":"users"}`)
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = io.WriteString(w, `{"hits":{"hits":[{"_id":"u1","_source":{"id":"u1","email":"jane@example.com"}}]}}`)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	default:
		_, _ = io.WriteString(w, `{"result":"created"}`)
	}
}

func newTestIndex(t *testing.T) (*UserIndex, *fakeES) {
	t.Helper()
	fake := &fakeES{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewUserIndex(es, "users"), fake
}

func TestIndexSearchRemove(t *testing.T) {
	idx, fake := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Index(ctx, &entity.User{ID: "u1", Email: "jane@example.com", Role: entity.RoleAuthenticated}))
	require.Contains(t, fake.body, `"email":"jane@example.com"`)

	hits, err := idx.Search(ctx, "jane", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "jane@example.com", hits[0]["email"])
	require.Contains(t, fake.body, `"multi_match"`)

	// a missing document is not an error
	require.NoError(t, idx.Remove(ctx, "u1"))
	require.Equal(t, []string{"PUT /users/_doc/u1", "POST /users/_search", "DELETE /users/_doc/u1"}, fake.paths)
}

func TestEnsureIndexCreatesMissingIndex(t *testing.T) {
	idx, fake := newTestIndex(t)

	require.NoError(t, idx.EnsureIndex(context.Background()))
	require.Equal(t, []string{"HEAD /users", "PUT /users"}, fake.paths)
	require.Contains(t, fake.body, `"role":`)

	var mapping map[string]any
	require.NoError(t, json.Unmarshal([]byte(fake.body), &mapping))
}

func TestEnsureIndexKeepsExistingIndex(t *testing.T) {
	idx, fake := newTestIndex(t)
	fake.indexExists = true

	require.NoError(t, idx.EnsureIndex(context.Background()))
	require.Equal(t, []string{"HEAD /users"}, fake.paths)
}
