// Package transcript defines captured outbound HTTP exchanges and the sinks
// that persist them. Transcripts reaching a sink are already scrubbed.
package transcript

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a transcript ID is unknown to a store.
var ErrNotFound = errors.New("transcript not found")

// Transcript is one scrubbed request/response exchange with an upstream gateway.
type Transcript struct {
	ID         string    `json:"id"`
	Provider   string    `json:"provider"`
	Method     string    `json:"method"`
	URL        string    `json:"url"`
	StatusCode int       `json:"status_code"`
	DurationMs int64     `json:"duration_ms"`
	Text       string    `json:"text"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Sink receives scrubbed transcripts.
type Sink interface {
	SaveTranscript(ctx context.Context, t Transcript) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, t Transcript) error

// SaveTranscript calls f(ctx, t).
func (f SinkFunc) SaveTranscript(ctx context.Context, t Transcript) error {
	return f(ctx, t)
}

type multiSink []Sink

// MultiSink fans a transcript out to every non-nil sink. All sinks are tried;
// their errors are joined.
func MultiSink(sinks ...Sink) Sink {
	var out multiSink
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m multiSink) SaveTranscript(ctx context.Context, t Transcript) error {
	var errs []error
	for _, s := range m {
		if err := s.SaveTranscript(ctx, t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
