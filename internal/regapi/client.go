package regapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nfrund/signup/internal/registration"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 64 << 10

// Client calls a remote registration endpoint. It satisfies
// registration.RegistrationAPI.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a Client posting to endpoint. timeout bounds each call.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// Register posts the request as JSON and decodes the JSON answer. The status
// code is not interpreted; the body decides the outcome. Network failures
// wrap registration.ErrTransport and undecodable bodies wrap
// registration.ErrMalformedResponse.
func (c *Client) Register(ctx context.Context, req registration.RegisterRequest) (registration.RegisterResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return registration.RegisterResponse{}, fmt.Errorf("failed to marshal registration request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return registration.RegisterResponse{}, fmt.Errorf("failed to create registration request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return registration.RegisterResponse{}, fmt.Errorf("%w: %w", registration.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return registration.RegisterResponse{}, fmt.Errorf("%w: reading body: %w", registration.ErrTransport, err)
	}

	var out registration.RegisterResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return registration.RegisterResponse{}, fmt.Errorf("%w: status %d: %w", registration.ErrMalformedResponse, resp.StatusCode, err)
	}
	return out, nil
}
