// Package extraction defines the document extraction collaborator: the
// external vision service that turns an uploaded document image into a
// field map. The engine consumes it through the Extractor interface only.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"attest/internal/platform/config"
)

// Request identifies the document to extract. DocumentRef is an opaque
// reference to an already-uploaded image; pixels never pass through attest.
type Request struct {
	DocumentRef  string   `json:"document_ref"`
	DocumentType string   `json:"document_type"`
	Fields       []string `json:"fields"`
}

// Result is the extraction outcome. A false Success means the service could
// not read the document; callers treat that as "all fields absent".
type Result struct {
	Success    bool              `json:"success"`
	Confidence float64           `json:"confidence"`
	Fields     map[string]string `json:"fields"`
}

// Extractor is implemented by extraction backends and decorators.
type Extractor interface {
	Extract(ctx context.Context, req Request) (*Result, error)
}

// Client calls the extraction service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds an HTTP extraction client from service configuration.
func NewClient(cfg config.ServiceConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) Extract(ctx context.Context, req Request) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode extraction request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/extract", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build extraction request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call extraction service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction service returned %d", resp.StatusCode)
	}

	var out Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}
	return &out, nil
}
