package opensearch

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mstgnz/gosquare/infra/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCluster is a minimal OpenSearch stand-in that records what it receives
type fakeCluster struct {
	mu       sync.Mutex
	indices  map[string]bool
	requests []recordedRequest
	search   string
}

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

func newFakeCluster(t *testing.T, existing ...string) (*fakeCluster, *httptest.Server) {
	t.Helper()
	fc := &fakeCluster{indices: map[string]bool{}}
	for _, idx := range existing {
		fc.indices[idx] = true
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fc.mu.Lock()
		defer fc.mu.Unlock()
		fc.requests = append(fc.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})

		w.Header().Set("Content-Type", "application/json")
		index := strings.Split(strings.TrimPrefix(r.URL.Path, "/"), "/")[0]

		switch {
		case r.Method == http.MethodHead:
			if fc.indices[index] {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut && !strings.Contains(r.URL.Path, "/_doc"):
			fc.indices[index] = true
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		case strings.HasSuffix(r.URL.Path, "/_search"):
			_, _ = w.Write([]byte(fc.search))
		default:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"result":"created"}`))
		}
	}))
	t.Cleanup(srv.Close)

	return fc, srv
}

func (fc *fakeCluster) requestsTo(method, prefix string) []recordedRequest {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	var out []recordedRequest
	for _, r := range fc.requests {
		if (method == "" || r.Method == method) && strings.HasPrefix(r.Path, prefix) {
			out = append(out, r)
		}
	}
	return out
}

func TestNewClient_CreatesMissingIndices(t *testing.T) {
	fc, srv := newFakeCluster(t, "gosquare-system-logs")

	client, err := NewClient(&config.AppConfig{OpenSearchURL: srv.URL, EnableLogging: true})
	require.NoError(t, err)
	require.NotNil(t, client)

	assert.True(t, fc.indices["gosquare-operations"])
	assert.True(t, fc.indices["gosquare-transcripts"])
	assert.Empty(t, fc.requestsTo(http.MethodPut, "/gosquare-system-logs"))
}

func TestNewClient_DisabledSkipsSetup(t *testing.T) {
	fc, srv := newFakeCluster(t)

	client, err := NewClient(&config.AppConfig{OpenSearchURL: srv.URL, EnableLogging: false})
	require.NoError(t, err)
	assert.False(t, client.IsEnabled())
	assert.Empty(t, fc.requests)
}

func TestClient_IndexName(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		kind   string
		want   string
	}{
		{"default prefix", "", IndexOperations, "gosquare-operations"},
		{"custom prefix", "payments", IndexTranscripts, "payments-transcripts"},
		{"system logs", "", IndexSystemLogs, "gosquare-system-logs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{config: &config.AppConfig{OpenSearchIndexPrefix: tt.prefix}}
			assert.Equal(t, tt.want, c.IndexName(tt.kind))
		})
	}
}
