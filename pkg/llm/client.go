package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxErrorBody caps how much of a failed response body ends up in an error.
const maxErrorBody = 4096

type ClientConfig struct {
	URL        string
	APIKey     string
	APIVersion string
	Family     Family
	Timeout    time.Duration
}

// Client posts request bodies to the configured provider endpoint.
type Client struct {
	url     string
	headers map[string]string
	http    *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		url:     cfg.URL,
		headers: authHeaders(cfg),
		http:    &http.Client{Timeout: timeout},
	}
}

// authHeaders are decided once, from the family, when the client is built.
func authHeaders(cfg ClientConfig) map[string]string {
	headers := map[string]string{"Content-Type": "application/json"}
	if cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + cfg.APIKey
	}
	if cfg.Family == FamilySystemField {
		if cfg.APIKey != "" {
			headers["x-api-key"] = cfg.APIKey
		}
		if cfg.APIVersion != "" {
			headers["anthropic-version"] = cfg.APIVersion
		}
	}
	return headers
}

// Send marshals body, posts it, and returns the raw response body on 2xx.
// Any other status comes back as *UpstreamError.
func (c *Client) Send(ctx context.Context, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("AI API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(respBody) > maxErrorBody {
			respBody = respBody[:maxErrorBody]
		}
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}
