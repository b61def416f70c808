// Package facematch defines the face similarity collaborator. The biometric
// comparison runs in an external service; attest only consumes its verdict
// and combines it with the field verification result at submission level.
package facematch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"attest/internal/platform/config"
)

// Result is the face comparison outcome.
type Result struct {
	Match      bool    `json:"match"`
	Similarity float64 `json:"similarity"`
}

// Matcher is implemented by face comparison backends.
type Matcher interface {
	// Match compares the portrait on the identity document against the
	// submitted selfie, both passed as opaque upload references.
	Match(ctx context.Context, documentRef, selfieRef string) (*Result, error)
}

// Client calls the face similarity service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg config.ServiceConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

type matchRequest struct {
	DocumentRef string `json:"document_ref"`
	SelfieRef   string `json:"selfie_ref"`
}

func (c *Client) Match(ctx context.Context, documentRef, selfieRef string) (*Result, error) {
	body, err := json.Marshal(matchRequest{DocumentRef: documentRef, SelfieRef: selfieRef})
	if err != nil {
		return nil, fmt.Errorf("encode face match request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/match", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build face match request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call face match service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("face match service returned %d", resp.StatusCode)
	}

	var out Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode face match response: %w", err)
	}
	return &out, nil
}
