package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mstgnz/gosquare/infra/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	mu    sync.Mutex
	saved []transcript.Transcript
	err   error
}

func (m *memorySink) SaveTranscript(_ context.Context, t transcript.Transcript) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, t)
	return m.err
}

func redactSecret(s string) string {
	return strings.ReplaceAll(s, "s3cr3t", "[FILTERED]")
}

func TestTranscriptRecorder_RecordsScrubbedExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"echo":"s3cr3t"}`))
	}))
	defer srv.Close()

	sink := &memorySink{}
	config := CreateHTTPClientConfig(srv.URL, 0)
	config.Recorder = NewTranscriptRecorder("square", redactSecret, sink)
	client := NewProviderHTTPClient(config)

	resp, err := client.SendJSON(context.Background(), &HTTPRequest{
		Method:   http.MethodPost,
		Endpoint: "/s3cr3t/path",
		Headers:  map[string]string{"Authorization": "Bearer s3cr3t"},
		Body:     map[string]string{"card_nonce": "s3cr3t"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"echo":"s3cr3t"}`, resp.RawBody, "the caller still sees the raw response")

	require.Len(t, sink.saved, 1)
	got := sink.saved[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "square", got.Provider)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, http.StatusOK, got.StatusCode)
	assert.Contains(t, got.URL, "/[FILTERED]/path")
	assert.Contains(t, got.Text, "<- POST /[FILTERED]/path HTTP/1.1")
	assert.Contains(t, got.Text, "-> HTTP/1.1 200 OK")
	assert.Contains(t, got.Text, "Authorization: Bearer [FILTERED]")
	assert.NotContains(t, got.Text, "s3cr3t")
	assert.Empty(t, got.Error)
}

func TestTranscriptRecorder_RecordsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	sink := &memorySink{}
	config := CreateHTTPClientConfig(url, 0)
	config.Recorder = NewTranscriptRecorder("square", redactSecret, sink)
	client := NewProviderHTTPClient(config)

	_, err := client.SendJSON(context.Background(), &HTTPRequest{Method: http.MethodPost, Endpoint: "x"})
	require.Error(t, err)

	require.Len(t, sink.saved, 1)
	assert.NotEmpty(t, sink.saved[0].Error)
	assert.Zero(t, sink.saved[0].StatusCode)
}

func TestTranscriptRecorder_SinkErrorDoesNotFailRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	sink := &memorySink{err: errors.New("disk full")}
	config := CreateHTTPClientConfig(srv.URL, 0)
	config.Recorder = NewTranscriptRecorder("square", redactSecret, sink)

	_, err := NewProviderHTTPClient(config).SendJSON(context.Background(), &HTTPRequest{Method: http.MethodPost, Endpoint: "x"})
	assert.NoError(t, err)
	assert.Len(t, sink.saved, 1)
}

func TestTranscriptSinkGlobal(t *testing.T) {
	t.Cleanup(func() { SetTranscriptSink(nil) })

	assert.Nil(t, GetTranscriptSink())
	sink := &memorySink{}
	SetTranscriptSink(sink)
	assert.Same(t, sink, GetTranscriptSink())
}
