// internal/client/client.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"assessment-recommender/internal/common/config"
	"assessment-recommender/internal/common/logger"
)

// Client calls the recommender API. Responses are validated against an
// explicit schema per variant and rejected loudly on mismatch instead of
// degrading to an empty list.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

func New(cfg config.ClientConfig, log logger.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Millisecond,
		},
		logger: log,
	}
}

// Fetch issues exactly one POST per call. The returned error, when non-nil,
// is either a *SchemaError or a *TransportError; callers distinguish them
// with errors.As.
func (c *Client) Fetch(ctx context.Context, query string) (*Result, error) {
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recommend", bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("recommend request failed", map[string]interface{}{"error": err.Error()})
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("recommend request rejected", map[string]interface{}{
			"status": resp.StatusCode,
			"body":   string(body),
		})
		return nil, &TransportError{Status: resp.StatusCode}
	}

	result, err := ParseResponse(body)
	if err != nil {
		c.logger.Error("recommend response unusable", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	return result, nil
}

// Health reports the service status and loaded-assessment count.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Status: resp.StatusCode}
	}

	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, &SchemaError{Detail: fmt.Sprintf("health response: %v", err)}
	}
	return &status, nil
}
