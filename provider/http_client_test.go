package provider

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderHTTPClient_SendJSON(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotQuery  string
		gotBody   string
		gotHeader http.Header
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotMethod, gotPath, gotQuery, gotBody, gotHeader = r.Method, r.URL.Path, r.URL.RawQuery, string(body), r.Header
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewProviderHTTPClient(CreateHTTPClientConfig(srv.URL+"/v2/", 5*time.Second))

	resp, err := client.SendJSON(context.Background(), &HTTPRequest{
		Method:      http.MethodPost,
		Endpoint:    "/locations/L1/transactions",
		Headers:     map[string]string{"Authorization": "Bearer token"},
		Body:        map[string]any{"amount": 100},
		QueryParams: map[string]string{"a": "b"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"ok":true}`, resp.RawBody)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/v2/locations/L1/transactions", gotPath)
	assert.Equal(t, "a=b", gotQuery)
	assert.JSONEq(t, `{"amount":100}`, gotBody)
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "application/json", gotHeader.Get("Accept"))
	assert.Equal(t, "GoSquare/1.0", gotHeader.Get("User-Agent"))
	assert.Equal(t, "Bearer token", gotHeader.Get("Authorization"))
}

func TestProviderHTTPClient_NilBody(t *testing.T) {
	var gotLength int64 = -2
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLength = r.ContentLength
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewProviderHTTPClient(CreateHTTPClientConfig(srv.URL, 0))
	_, err := client.SendJSON(context.Background(), &HTTPRequest{Method: http.MethodPost, Endpoint: "capture"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), gotLength)
}

func TestProviderHTTPClient_ErrorStatusKeepsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"errors":[]}`))
	}))
	defer srv.Close()

	client := NewProviderHTTPClient(CreateHTTPClientConfig(srv.URL, 0))
	resp, err := client.SendJSON(context.Background(), &HTTPRequest{Method: http.MethodPost, Endpoint: "x"})
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusPaymentRequired, httpErr.StatusCode)
	assert.Same(t, resp, httpErr.Response)
	assert.Equal(t, `{"errors":[]}`, resp.RawBody)
}

func TestProviderHTTPClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewProviderHTTPClient(CreateHTTPClientConfig(url, time.Second))
	resp, err := client.SendJSON(context.Background(), &HTTPRequest{Method: http.MethodPost, Endpoint: "x"})
	require.Error(t, err)
	assert.Nil(t, resp)

	var httpErr *HTTPError
	assert.False(t, errors.As(err, &httpErr))
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base, endpoint, want string
	}{
		{"https://connect.squareup.com/v2", "locations", "https://connect.squareup.com/v2/locations"},
		{"https://connect.squareup.com/v2/", "/locations", "https://connect.squareup.com/v2/locations"},
		{"https://connect.squareup.com/v2/", "locations", "https://connect.squareup.com/v2/locations"},
		{"https://connect.squareup.com/v2", "/locations", "https://connect.squareup.com/v2/locations"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, joinURL(tt.base, tt.endpoint))
	}
}
