package opensearch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mstgnz/gosquare/infra/config"
	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// Index kinds managed by the client
const (
	IndexOperations  = "operations"
	IndexTranscripts = "transcripts"
	IndexSystemLogs  = "system-logs"
)

// Client wraps the OpenSearch client
type Client struct {
	client *opensearch.Client
	config *config.AppConfig
}

// NewClient creates a new OpenSearch client and makes sure the indices exist.
// An index setup failure is returned alongside a usable client.
func NewClient(cfg *config.AppConfig) (*Client, error) {
	opensearchConfig := opensearch.Config{
		Addresses:     []string{cfg.OpenSearchURL},
		Transport:     http.DefaultTransport,
		MaxRetries:    3,
		RetryOnStatus: []int{502, 503, 504, 429},
		RetryBackoff: func(i int) time.Duration {
			return time.Duration(i) * 100 * time.Millisecond
		},
	}

	if cfg.OpenSearchUser != "" && cfg.OpenSearchPass != "" {
		opensearchConfig.Username = cfg.OpenSearchUser
		opensearchConfig.Password = cfg.OpenSearchPass
	}

	client, err := opensearch.NewClient(opensearchConfig)
	if err != nil {
		return nil, err
	}

	osClient := &Client{
		client: client,
		config: cfg,
	}

	if !cfg.EnableLogging {
		return osClient, nil
	}

	if err := osClient.setupIndices(context.Background()); err != nil {
		return osClient, fmt.Errorf("failed to setup OpenSearch indices: %w", err)
	}

	return osClient, nil
}

// GetClient returns the underlying OpenSearch client
func (c *Client) GetClient() *opensearch.Client {
	return c.client
}

// IndexName returns the full index name for one of the Index* kinds
func (c *Client) IndexName(kind string) string {
	prefix := c.config.OpenSearchIndexPrefix
	if prefix == "" {
		prefix = "gosquare"
	}
	return prefix + "-" + kind
}

// IsEnabled returns whether OpenSearch logging is enabled
func (c *Client) IsEnabled() bool {
	return c.config.EnableLogging
}

func (c *Client) setupIndices(ctx context.Context) error {
	for kind, mapping := range indexMappings {
		indexName := c.IndexName(kind)

		exists, err := c.indexExists(ctx, indexName)
		if err != nil {
			return fmt.Errorf("check index %s: %w", indexName, err)
		}
		if exists {
			continue
		}

		if err := c.createIndex(ctx, indexName, mapping); err != nil {
			return fmt.Errorf("create index %s: %w", indexName, err)
		}
	}

	return nil
}

func (c *Client) indexExists(ctx context.Context, indexName string) (bool, error) {
	req := opensearchapi.IndicesExistsRequest{
		Index: []string{indexName},
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	return res.StatusCode == http.StatusOK, nil
}

func (c *Client) createIndex(ctx context.Context, indexName, mapping string) error {
	req := opensearchapi.IndicesCreateRequest{
		Index: indexName,
		Body:  strings.NewReader(mapping),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index creation error: %s", res.String())
	}

	return nil
}

var indexMappings = map[string]string{
	IndexOperations: `{
		"mappings": {
			"properties": {
				"timestamp": {"type": "date"},
				"provider": {"type": "keyword"},
				"operation": {"type": "keyword"},
				"request_id": {"type": "keyword"},
				"success": {"type": "boolean"},
				"message": {"type": "text"},
				"error_code": {"type": "keyword"},
				"authorization": {"type": "keyword"},
				"amount": {"type": "long"},
				"currency": {"type": "keyword"},
				"test": {"type": "boolean"},
				"duration_ms": {"type": "long"}
			}
		},
		"settings": {"number_of_shards": 1, "number_of_replicas": 0}
	}`,
	IndexTranscripts: `{
		"mappings": {
			"properties": {
				"created_at": {"type": "date"},
				"id": {"type": "keyword"},
				"provider": {"type": "keyword"},
				"method": {"type": "keyword"},
				"url": {"type": "keyword"},
				"status_code": {"type": "integer"},
				"duration_ms": {"type": "long"},
				"text": {"type": "text"},
				"error": {"type": "text"}
			}
		},
		"settings": {"number_of_shards": 1, "number_of_replicas": 0}
	}`,
	IndexSystemLogs: `{
		"mappings": {
			"properties": {
				"timestamp": {"type": "date"},
				"level": {"type": "keyword"},
				"message": {"type": "text"},
				"component": {"type": "keyword"},
				"provider": {"type": "keyword"},
				"request_id": {"type": "keyword"},
				"error": {"type": "text"}
			}
		},
		"settings": {"number_of_shards": 1, "number_of_replicas": 0}
	}`,
}
