// Package client is an HTTP client for the formflow API. Read calls retry
// transient failures with exponential backoff; writes are attempted once.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/mkravets/formflow/internal/engine"
	"github.com/mkravets/formflow/internal/forms"
	"github.com/mkravets/formflow/internal/snapshot"
	"github.com/mkravets/formflow/internal/store"
)

const maxRetries = 4

// Client is an HTTP client for the formflow API
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateForm creates or updates a form definition
func (c *Client) CreateForm(ctx context.Context, params store.UpsertParams) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/v1/forms", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

// DeleteForm removes a form by key
func (c *Client) DeleteForm(ctx context.Context, key string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/v1/forms/"+key, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

// GetForm retrieves a single form by key
func (c *Client) GetForm(ctx context.Context, key string) (*forms.Form, error) {
	var form forms.Form
	if err := c.getJSON(ctx, "/v1/forms/"+key, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

// FetchSnapshot retrieves the published snapshot
func (c *Client) FetchSnapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	var snap snapshot.Snapshot
	if err := c.getJSON(ctx, "/v1/forms/snapshot", &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ListForms retrieves all published forms, sorted by nothing in particular
// (snapshot map order).
func (c *Client) ListForms(ctx context.Context) ([]forms.Form, error) {
	snap, err := c.FetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]forms.Form, 0, len(snap.Forms))
	for _, f := range snap.Forms {
		out = append(out, f)
	}
	return out, nil
}

type nextRequest struct {
	CurrentFieldID string         `json:"currentFieldId"`
	Value          any            `json:"value"`
	Answers        map[string]any `json:"answers,omitempty"`
}

type nextResponse struct {
	NextFieldID   *string `json:"nextFieldId"`
	AppliedRuleID string  `json:"appliedRuleId,omitempty"`
	Reason        string  `json:"reason"`
	EndOfForm     bool    `json:"endOfForm"`
}

// ResolveNext asks the server which field follows currentFieldID given the
// answer value. The call is read-only on the server, so it retries like a GET.
func (c *Client) ResolveNext(ctx context.Context, formKey, currentFieldID string, value any, answers map[string]any) (engine.Resolution, error) {
	body, err := json.Marshal(nextRequest{
		CurrentFieldID: currentFieldID,
		Value:          value,
		Answers:        answers,
	})
	if err != nil {
		return engine.Resolution{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	operation := func() (nextResponse, error) {
		resp, err := c.do(ctx, http.MethodPost, "/v1/forms/"+formKey+"/next", body)
		if err != nil {
			return nextResponse{}, err
		}
		defer resp.Body.Close()
		if err := checkStatus(resp); err != nil {
			return nextResponse{}, err
		}
		var out nextResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nextResponse{}, fmt.Errorf("failed to decode response: %w", err)
		}
		return out, nil
	}

	out, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxRetries))
	if err != nil {
		return engine.Resolution{}, err
	}
	return engine.Resolution{
		NextFieldID:   out.NextFieldID,
		AppliedRuleID: out.AppliedRuleID,
		Reason:        engine.Reason(out.Reason),
	}, nil
}

// SubmitResponse submits a completed answer set and returns the response id.
func (c *Client) SubmitResponse(ctx context.Context, formKey string, answers map[string]any) (string, error) {
	body, err := json.Marshal(map[string]any{"answers": answers})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/v1/forms/"+formKey+"/responses", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return out.ID, nil
}

// ---- transport helpers ----

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// getJSON runs a retried GET and decodes the body into v.
func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	operation := func() (struct{}, error) {
		resp, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			return struct{}{}, err
		}
		defer resp.Body.Close()
		if err := checkStatus(resp); err != nil {
			return struct{}{}, err
		}
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return struct{}{}, fmt.Errorf("failed to decode response: %w", err)
		}
		return struct{}{}, nil
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxRetries))
	return err
}

// checkStatus converts non-2xx responses into errors. Client errors are
// permanent: retrying a 4xx will never succeed.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 300 {
		return nil
	}
	bodyBytes, _ := io.ReadAll(resp.Body)
	err := fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return backoff.Permanent(err)
	}
	return err
}
