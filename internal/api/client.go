// Package api is a typed client for the MarketXI HTTP API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"marketxi/internal/common/logger"
)

// TokenSource yields the bearer token attached to authenticated requests.
// The second return is false when no token is stored.
type TokenSource interface {
	Token() (string, bool)
}

// RequestError is returned for any non-2xx response. Message carries the
// server-provided detail field when present, otherwise "HTTP <status>".
type RequestError struct {
	Status  int
	Message string
	Raw     string
}

func (e *RequestError) Error() string {
	return e.Message
}

type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// NewClient builds a client against baseURL. Requests are attempted exactly
// once, with no retry and no client-side timeout; callers bound calls with
// the context they pass in.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, auth bool, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if auth {
		if token, ok := c.tokens.Token(); ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logger.Debug().Str("method", method).Str("path", path).Msg("api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newRequestError(resp.StatusCode, text)
	}

	// An empty success body decodes to no value.
	if out == nil || len(text) == 0 {
		return nil
	}
	if err := json.Unmarshal(text, out); err != nil {
		return fmt.Errorf("%s %s: malformed response body %q: %w", method, path, text, err)
	}
	return nil
}

func newRequestError(status int, body []byte) *RequestError {
	msg := fmt.Sprintf("HTTP %d", status)
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		msg = payload.Detail
	}
	return &RequestError{Status: status, Message: msg, Raw: string(body)}
}
