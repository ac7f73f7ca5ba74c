// Package emsapi is the typed client for the remote Employee Management API.
// Every call carries the caller's bearer token on the request message itself;
// the shared http.Client holds no per-request state, so concurrent requests
// can never observe each other's credentials.
package emsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"ems-web/internal/config"
)

var (
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("resource conflict")
)

// RemoteError is an application-level rejection from the remote API: a
// non-2xx status other than 404/409, or a 2xx body with isSuccess=false.
type RemoteError struct {
	StatusCode int
	Message    string
	Errors     []string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote api: %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote api: status %d", e.StatusCode)
}

// Envelope is the uniform response wrapper used by every remote endpoint.
// Field matching is case-insensitive by encoding/json's rules and tolerates
// unknown fields.
type Envelope[T any] struct {
	IsSuccess bool     `json:"isSuccess"`
	Message   string   `json:"message"`
	Data      T        `json:"data"`
	Errors    []string `json:"errors"`
}

func (e *Envelope[T]) succeeded() bool             { return e.IsSuccess }
func (e *Envelope[T]) failure() (string, []string) { return e.Message, e.Errors }

// envelope lets call inspect the decoded wrapper without knowing its payload type.
type envelope interface {
	succeeded() bool
	failure() (string, []string)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(cfg config.APIConfig) *Client {
	base := cfg.BaseURL
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.RequestTimeout()},
	}
}

// call issues one request and decodes the response envelope into out.
// A nil out skips body decoding; only the status code is checked then,
// which is what the permission endpoints expect.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body any, token string, out envelope) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return ErrConflict
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &RemoteError{StatusCode: resp.StatusCode, Message: remoteMessage(raw)}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if !out.succeeded() {
		msg, errs := out.failure()
		return &RemoteError{StatusCode: resp.StatusCode, Message: msg, Errors: errs}
	}

	return nil
}

// remoteMessage pulls the envelope message out of an error body, if any.
func remoteMessage(raw []byte) string {
	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}
	return env.Message
}
