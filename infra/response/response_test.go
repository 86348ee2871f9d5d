package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSuccessResponse(t *testing.T) {
	w := httptest.NewRecorder()

	Success(w, http.StatusOK, "Test successful", map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	resp := decode(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Test successful", resp.Message)
	assert.Equal(t, map[string]any{"key": "value"}, resp.Data)
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantError string
	}{
		{name: "without cause", err: nil, wantError: ""},
		{name: "with cause", err: errors.New("idempotency key is required"), wantError: "idempotency key is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Error(w, http.StatusBadRequest, "Test error", tt.err)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			resp := decode(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, "Test error", resp.Message)
			assert.Equal(t, tt.wantError, resp.Error)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteJSON(w, http.StatusAccepted, map[string]int{"n": 1}))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"n":1}`, w.Body.String())
}

func BenchmarkSuccessResponse(b *testing.B) {
	data := map[string]string{"test": "data"}

	for b.Loop() {
		w := httptest.NewRecorder()
		Success(w, http.StatusOK, "Benchmark test", data)
	}
}
