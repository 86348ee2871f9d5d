package provider

import (
	"context"
	"net/http"
	"net/http/httputil"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mstgnz/gosquare/infra/logger"
	"github.com/mstgnz/gosquare/infra/transcript"
)

var (
	transcriptSink transcript.Sink
	sinkMu         sync.RWMutex
)

// SetTranscriptSink installs the sink used by gateways initialized afterwards.
// Passing nil disables transcript capture.
func SetTranscriptSink(sink transcript.Sink) {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	transcriptSink = sink
}

// GetTranscriptSink returns the installed sink, or nil
func GetTranscriptSink() transcript.Sink {
	sinkMu.RLock()
	defer sinkMu.RUnlock()
	return transcriptSink
}

// TranscriptRecorder captures outbound exchanges, scrubs them and forwards the
// scrubbed text to a sink. Raw text never leaves the recorder.
type TranscriptRecorder struct {
	provider string
	scrub    func(string) string
	sink     transcript.Sink
}

// NewTranscriptRecorder creates a recorder for one gateway
func NewTranscriptRecorder(providerName string, scrub func(string) string, sink transcript.Sink) *TranscriptRecorder {
	return &TranscriptRecorder{
		provider: providerName,
		scrub:    scrub,
		sink:     sink,
	}
}

// Wrap returns a round tripper that records through r before delegating to next
func (r *TranscriptRecorder) Wrap(next http.RoundTripper) http.RoundTripper {
	return &recordingTransport{recorder: r, next: next}
}

type recordingTransport struct {
	recorder *TranscriptRecorder
	next     http.RoundTripper
}

func (t *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var b strings.Builder

	if dump, err := httputil.DumpRequestOut(req, true); err == nil {
		writeDump(&b, "<- ", dump)
	}

	start := time.Now()
	resp, rtErr := t.next.RoundTrip(req)
	duration := time.Since(start)

	entry := transcript.Transcript{
		ID:         uuid.New().String(),
		Provider:   t.recorder.provider,
		Method:     req.Method,
		DurationMs: duration.Milliseconds(),
		CreatedAt:  start.UTC(),
	}

	if rtErr != nil {
		entry.Error = rtErr.Error()
	} else {
		entry.StatusCode = resp.StatusCode
		if dump, err := httputil.DumpResponse(resp, true); err == nil {
			writeDump(&b, "-> ", dump)
		}
	}

	entry.URL = t.recorder.scrub(req.URL.String())
	entry.Text = t.recorder.scrub(b.String())
	if entry.Error != "" {
		entry.Error = t.recorder.scrub(entry.Error)
	}

	t.recorder.save(req.Context(), entry)

	return resp, rtErr
}

// save runs detached from the caller's cancellation so a finished request
// still gets recorded.
func (r *TranscriptRecorder) save(ctx context.Context, entry transcript.Transcript) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := r.sink.SaveTranscript(ctx, entry); err != nil {
		logger.Warn("Failed to save transcript", logger.LogContext{
			Provider: r.provider,
			Fields: map[string]any{
				"transcript_id": entry.ID,
				"error":         err.Error(),
			},
		})
	}
}

func writeDump(b *strings.Builder, prefix string, dump []byte) {
	for _, line := range strings.SplitAfter(string(dump), "\n") {
		if line == "" {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(line)
	}
	if !strings.HasSuffix(b.String(), "\n") {
		b.WriteString("\n")
	}
}
