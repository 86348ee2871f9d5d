package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/gosquare/infra/opensearch"
	"github.com/mstgnz/gosquare/infra/response"
	"github.com/mstgnz/gosquare/infra/transcript"
)

const maxListSize = 500

// TranscriptReader reads stored, already scrubbed transcripts
type TranscriptReader interface {
	ListRecent(ctx context.Context, provider string, limit int) ([]transcript.Transcript, error)
	GetTranscript(ctx context.Context, id string) (*transcript.Transcript, error)
}

// OperationSearcher queries recorded gateway operations
type OperationSearcher interface {
	SearchOperations(ctx context.Context, provider string, size int) ([]opensearch.OperationLog, error)
}

// LogsHandler exposes transcripts and operation records. Either source may be
// nil when its backend is disabled.
type LogsHandler struct {
	transcripts TranscriptReader
	operations  OperationSearcher
}

// NewLogsHandler creates a new logs handler
func NewLogsHandler(transcripts TranscriptReader, operations OperationSearcher) *LogsHandler {
	return &LogsHandler{
		transcripts: transcripts,
		operations:  operations,
	}
}

// ListTranscripts handles GET /v1/{provider}/transcripts?limit=N
func (h *LogsHandler) ListTranscripts(w http.ResponseWriter, r *http.Request) {
	if h.transcripts == nil {
		response.Error(w, http.StatusNotImplemented, "Transcript capture is disabled", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	providerName := chi.URLParam(r, "provider")
	list, err := h.transcripts.ListRecent(ctx, providerName, sizeParam(r, "limit", 50))
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to list transcripts", err)
		return
	}
	if list == nil {
		list = []transcript.Transcript{}
	}

	response.Success(w, http.StatusOK, "Transcripts retrieved", map[string]any{
		"provider":    providerName,
		"count":       len(list),
		"transcripts": list,
	})
}

// GetTranscript handles GET /v1/{provider}/transcripts/{id}
func (h *LogsHandler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	if h.transcripts == nil {
		response.Error(w, http.StatusNotImplemented, "Transcript capture is disabled", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	t, err := h.transcripts.GetTranscript(ctx, chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, transcript.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Transcript not found", err)
		return
	case err != nil:
		response.Error(w, http.StatusInternalServerError, "Failed to load transcript", err)
		return
	}

	if t.Provider != chi.URLParam(r, "provider") {
		response.Error(w, http.StatusNotFound, "Transcript not found", transcript.ErrNotFound)
		return
	}

	response.Success(w, http.StatusOK, "Transcript retrieved", t)
}

// ListOperations handles GET /v1/{provider}/operations?size=N
func (h *LogsHandler) ListOperations(w http.ResponseWriter, r *http.Request) {
	if h.operations == nil {
		response.Error(w, http.StatusNotImplemented, "Operation logging is disabled", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	providerName := chi.URLParam(r, "provider")
	ops, err := h.operations.SearchOperations(ctx, providerName, sizeParam(r, "size", 100))
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to search operations", err)
		return
	}

	response.Success(w, http.StatusOK, "Operations retrieved", map[string]any{
		"provider":   providerName,
		"count":      len(ops),
		"operations": ops,
	})
}

func sizeParam(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n <= 0 {
		return def
	}
	if n > maxListSize {
		return maxListSize
	}
	return n
}
