package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
	"github.com/oksasatya/go-identity-directory/internal/domain/repository"
)

// UserIndex mirrors public directory fields into Elasticsearch. Credentials
// and security counters are never indexed.
type UserIndex struct {
	es      *elasticsearch.Client
	index   string
	timeout time.Duration
}

func NewUserIndex(es *elasticsearch.Client, index string) *UserIndex {
	return &UserIndex{es: es, index: index, timeout: 3 * time.Second}
}

func userDocument(u *entity.User) map[string]any {
	doc := map[string]any{
		"id":              u.ID,
		"email":           u.Email,
		"role":            u.Role.String(),
		"is_professional": u.IsProfessional,
		"display_name":    u.DisplayName(),
		"created_at":      u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":      u.UpdatedAt.Format(time.RFC3339Nano),
	}
	opt := map[string]*string{
		"nickname":             u.Nickname,
		"first_name":           u.FirstName,
		"last_name":            u.LastName,
		"bio":                  u.Bio,
		"profile_picture_url":  u.ProfilePictureURL,
		"linkedin_profile_url": u.LinkedInURL,
		"github_profile_url":   u.GithubURL,
	}
	for k, v := range opt {
		if v != nil {
			doc[k] = *v
		}
	}
	return doc
}

// userMapping keeps role and urls exact-match and the name fields analyzed.
const userMapping = `{
  "mappings": {
    "properties": {
      "id":                   {"type": "keyword"},
      "email":                {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "nickname":             {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "first_name":           {"type": "text"},
      "last_name":            {"type": "text"},
      "display_name":         {"type": "text"},
      "bio":                  {"type": "text"},
      "role":                 {"type": "keyword"},
      "is_professional":      {"type": "boolean"},
      "profile_picture_url":  {"type": "keyword", "index": false},
      "linkedin_profile_url": {"type": "keyword", "index": false},
      "github_profile_url":   {"type": "keyword", "index": false},
      "created_at":           {"type": "date"},
      "updated_at":           {"type": "date"}
    }
  }
}`

// EnsureIndex creates the directory index with its mapping when missing.
func (x *UserIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	res, err := esapi.IndicesExistsRequest{Index: []string{x.index}}.Do(c, x.es)
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("elasticsearch: index check: %s", res.Status())
	}

	res, err = esapi.IndicesCreateRequest{Index: x.index, Body: strings.NewReader(userMapping)}.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("elasticsearch: create index: %s", res.Status())
	}
	return nil
}

func (x *UserIndex) Index(ctx context.Context, u *entity.User) error {
	b, err := json.Marshal(userDocument(u))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: u.ID, Body: bytes.NewReader(b), Refresh: "false"}
	return x.do(ctx, req)
}

func (x *UserIndex) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.index, DocumentID: id}
	return x.do(ctx, req)
}

func (x *UserIndex) do(ctx context.Context, req esapi.Request) error {
	c, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("elasticsearch: %s", res.Status())
	}
	return nil
}

func searchQuery(q string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "nickname^2", "first_name", "last_name", "bio"},
			},
		},
		"size": size,
	}
}

// Search performs a multi_match query over the directory fields.
func (x *UserIndex) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	b, err := json.Marshal(searchQuery(q, size))
	if err != nil {
		return nil, err
	}
	c, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	res, err := x.es.Search(x.es.Search.WithContext(c), x.es.Search.WithIndex(x.index), x.es.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// Disabled is used when SEARCH_INDEX_ENABLED=false.
type Disabled struct{}

func (Disabled) Index(context.Context, *entity.User) error { return nil }
func (Disabled) Remove(context.Context, string) error       { return nil }
func (Disabled) Search(context.Context, string, int) ([]map[string]any, error) {
	return []map[string]any{}, nil
}

var (
	_ repository.Indexer  = (*UserIndex)(nil)
	_ repository.Searcher = (*UserIndex)(nil)
	_ repository.Indexer  = Disabled{}
	_ repository.Searcher = Disabled{}
)
