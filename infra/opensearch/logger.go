package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mstgnz/gosquare/infra/transcript"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// OperationLog is one gateway operation as recorded by the payment service
type OperationLog struct {
	Timestamp     time.Time `json:"timestamp"`
	Provider      string    `json:"provider"`
	Operation     string    `json:"operation"`
	RequestID     string    `json:"request_id"`
	Success       bool      `json:"success"`
	Message       string    `json:"message,omitempty"`
	ErrorCode     string    `json:"error_code,omitempty"`
	Authorization string    `json:"authorization,omitempty"`
	Amount        int64     `json:"amount,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	Test          bool      `json:"test"`
	DurationMs    int64     `json:"duration_ms"`
}

// SystemLog represents a structured system log entry
type SystemLog struct {
	Timestamp   time.Time      `json:"timestamp"`
	Level       string         `json:"level"`
	Message     string         `json:"message"`
	Component   string         `json:"component"`
	Function    string         `json:"function"`
	File        string         `json:"file"`
	Line        int            `json:"line"`
	Provider    string         `json:"provider,omitempty"`
	RequestID   string         `json:"request_id,omitempty"`
	Error       string         `json:"error,omitempty"`
	Fields      map[string]any `json:"fields,omitempty"`
	Environment string         `json:"environment"`
	Service     string         `json:"service"`
	Version     string         `json:"version"`
}

// Logger handles OpenSearch logging operations
type Logger struct {
	client *Client
}

// NewLogger creates a new OpenSearch logger
func NewLogger(client *Client) *Logger {
	return &Logger{
		client: client,
	}
}

// LogOperation indexes one gateway operation
func (l *Logger) LogOperation(ctx context.Context, log OperationLog) error {
	if !l.client.IsEnabled() {
		return nil
	}

	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	if log.RequestID == "" {
		log.RequestID = uuid.New().String()
	}

	return l.index(ctx, IndexOperations, "", log)
}

// SaveTranscript indexes a scrubbed transcript. It satisfies transcript.Sink.
func (l *Logger) SaveTranscript(ctx context.Context, t transcript.Transcript) error {
	if !l.client.IsEnabled() {
		return nil
	}

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	return l.index(ctx, IndexTranscripts, t.ID, t)
}

// LogSystemEvent logs a system event to OpenSearch
func (l *Logger) LogSystemEvent(ctx context.Context, log SystemLog) error {
	if !l.client.IsEnabled() {
		return nil
	}

	return l.index(ctx, IndexSystemLogs, "", log)
}

// SearchOperations returns the latest operations of a provider, newest first
func (l *Logger) SearchOperations(ctx context.Context, provider string, size int) ([]OperationLog, error) {
	if !l.client.IsEnabled() {
		return nil, fmt.Errorf("logging is disabled")
	}
	if size <= 0 {
		size = 100
	}

	query := map[string]any{
		"query": map[string]any{
			"term": map[string]any{"provider": provider},
		},
		"sort": []map[string]any{
			{"timestamp": map[string]string{"order": "desc"}},
		},
		"size": size,
	}

	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req := opensearchapi.SearchRequest{
		Index: []string{l.client.IndexName(IndexOperations)},
		Body:  bytes.NewReader(queryJSON),
	}

	res, err := req.Do(ctx, l.client.GetClient())
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("opensearch search error: %s", res.String())
	}

	var searchResult struct {
		Hits struct {
			Hits []struct {
				Source OperationLog `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&searchResult); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	logs := make([]OperationLog, len(searchResult.Hits.Hits))
	for i, hit := range searchResult.Hits.Hits {
		logs[i] = hit.Source
	}

	return logs, nil
}

func (l *Logger) index(ctx context.Context, kind, documentID string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal %s document: %w", kind, err)
	}

	req := opensearchapi.IndexRequest{
		Index:      l.client.IndexName(kind),
		DocumentID: documentID,
		Body:       bytes.NewReader(body),
	}

	res, err := req.Do(ctx, l.client.GetClient())
	if err != nil {
		return fmt.Errorf("failed to index %s document: %w", kind, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("opensearch error: %s", res.String())
	}

	return nil
}
