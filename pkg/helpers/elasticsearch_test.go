package helpers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPingES(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(int(status.Load()))
	}))
	t.Cleanup(srv.Close)

	es, err := NewESClient([]string{srv.URL}, "", "")
	require.NoError(t, err)
	require.NoError(t, PingES(context.Background(), es))

	status.Store(http.StatusServiceUnavailable)
	require.Error(t, PingES(context.Background(), es))
}
