package nakama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPModelAdapter implements ports.ModelPort against a simple HTTP
// completion endpoint.
type HTTPModelAdapter struct {
	url    string
	apiKey string
	client *http.Client
}

// NewHTTPModelAdapter creates a model adapter for the given endpoint.
func NewHTTPModelAdapter(url, apiKey string) *HTTPModelAdapter {
	return &HTTPModelAdapter{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type modelRequest struct {
	Prompt string `json:"prompt"`
}

type modelResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

// Complete sends the prompt and returns the reply text.
func (a *HTTPModelAdapter) Complete(ctx context.Context, prompt string) (string, error) {
	if a.url == "" {
		return "", fmt.Errorf("model endpoint is not configured")
	}

	body, err := json.Marshal(modelRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal model request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build model request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("model request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read model response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model endpoint returned status %d", resp.StatusCode)
	}

	var mr modelResponse
	if err := json.Unmarshal(data, &mr); err != nil {
		return "", fmt.Errorf("failed to unmarshal model response: %w", err)
	}
	if mr.Error != "" {
		return "", fmt.Errorf("model error: %s", mr.Error)
	}
	return mr.Text, nil
}
