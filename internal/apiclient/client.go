// Package apiclient talks to the portfolio REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/imroc/req/v3"
)

const (
	defaultTimeout  = 15 * time.Second
	requestIDHeader = "X-Request-ID"
)

// TokenSource supplies the bearer token sent with every request. An empty
// token sends no Authorization header.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a fixed bearer token.
type StaticToken string

func (t StaticToken) Token() (string, error) { return string(t), nil }

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource
	Logger  *slog.Logger
}

// Client is a portfolio API client. It implements project.Backend,
// skill.Backend and inbox.Backend.
type Client struct {
	http   *req.Client
	tokens TokenSource
	logger *slog.Logger
}

// New creates a Client for the API at cfg.BaseURL.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Client{tokens: cfg.Tokens, logger: logger}
	c.http = req.C().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetUserAgent("folio").
		SetCommonHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *req.Client, r *req.Request) error {
			r.SetHeader(requestIDHeader, uuid.NewString())
			if c.tokens == nil {
				return nil
			}
			token, err := c.tokens.Token()
			if err != nil {
				return fmt.Errorf("loading token: %w", err)
			}
			if token != "" {
				r.SetBearerAuthToken(token)
			}
			return nil
		})
	return c
}

// do sends a JSON request and returns the raw response body of a 2xx reply.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	r := c.http.R().SetContext(ctx)
	if body != nil {
		r.SetBodyJsonMarshal(body)
	}
	return c.send(r, method, path)
}

func (c *Client) send(r *req.Request, method, path string) ([]byte, error) {
	start := time.Now()
	resp, err := r.Send(method, path)
	if err != nil {
		c.logger.Debug("api request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	requestID := resp.Request.Headers.Get(requestIDHeader)
	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed", time.Since(start),
	)

	data := resp.Bytes()
	if !resp.IsSuccessState() {
		return nil, newAPIError(resp.StatusCode, data, requestID)
	}
	return data, nil
}

// unwrap strips a {"data": ...} envelope, or the first of keys present.
func unwrap(data []byte, keys ...string) []byte {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return data
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(data, &env); err != nil {
		return data
	}
	for _, key := range append([]string{"data"}, keys...) {
		raw, ok := env[key]
		if !ok {
			continue
		}
		return bytes.TrimSpace(raw)
	}
	return data
}

// decodeList decodes a bare or enveloped JSON array.
func decodeList[T any](data []byte, keys ...string) ([]T, error) {
	data = unwrap(data, keys...)
	if len(data) == 0 {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding list: %w", err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// decodeOne decodes a bare, enveloped or one-element-array JSON object.
func decodeOne[T any](data []byte, keys ...string) (*T, error) {
	data = unwrap(data, keys...)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, ErrEmptyResponse
	}
	if data[0] == '[' {
		list, err := decodeList[T](data)
		if err != nil {
			return nil, err
		}
		if len(list) == 0 {
			return nil, ErrEmptyResponse
		}
		return &list[0], nil
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &out, nil
}
