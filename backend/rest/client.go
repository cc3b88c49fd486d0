// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/poiesic/notecall/backend"
	"github.com/poiesic/notecall/core"
)

// ErrBaseURLRequired is returned when no API base URL is provided.
var ErrBaseURLRequired = errors.New("backend base URL required")

// Client implements backend.Transport over net/http.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a REST transport for the backend at baseURL.
// baseURL should point at the API root, e.g. "http://localhost:5055/api";
// a trailing slash is stripped. timeout bounds each individual request.
//
// Returns backend.Transport (not *Client) to enforce abstraction.
func New(baseURL string, timeout time.Duration) (backend.Transport, error) {
	return newClient(baseURL, timeout)
}

func newClient(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  slog.Default().With("component", "rest-transport"),
	}, nil
}

// GetJSON implements backend.Transport.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.url(path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	return c.do(req, "GET "+path, out)
}

// PostJSON implements backend.Transport.
func (c *Client) PostJSON(ctx context.Context, path string, body any, out any) error {
	req, err := c.jsonRequest(ctx, path, body)
	if err != nil {
		return err
	}

	return c.do(req, "POST "+path, out)
}

// PostMultipart implements backend.Transport.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string,
	fileField, fileName string, file io.Reader, out any) error {

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("write form field %q: %w", k, err)
		}
	}
	part, err := w.CreateFormFile(fileField, fileName)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy file contents: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.do(req, "POST "+path, out)
}

// PostStream implements backend.Transport.
// The response body is returned unread; non-2xx responses are drained and
// converted to *core.BackendError before returning.
func (c *Client) PostStream(ctx context.Context, path string, body any) (io.ReadCloser, error) {
	req, err := c.jsonRequest(ctx, path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	op := "POST " + path
	c.logger.Debug("sending streaming request", "op", op)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &core.TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		c.logger.Error("streaming request failed", "op", op, "status", resp.StatusCode)
		return nil, &core.BackendError{StatusCode: resp.StatusCode, Message: backendMessage(raw)}
	}

	return resp.Body, nil
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func (c *Client) jsonRequest(ctx context.Context, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do sends the request and decodes a success body into out.
func (c *Client) do(req *http.Request, op string, out any) error {
	c.logger.Debug("sending request", "op", op)

	resp, err := c.http.Do(req)
	if err != nil {
		return &core.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &core.TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("request failed", "op", op, "status", resp.StatusCode)
		return &core.BackendError{StatusCode: resp.StatusCode, Message: backendMessage(raw)}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response for %s: %w", op, err)
	}
	return nil
}

// backendMessage extracts the backend's error text from an error body.
// The backend reports errors as {"error": ...} or {"detail": ...}; anything
// else is preserved as-is so the message is never lost.
func backendMessage(raw []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err == nil {
		for _, key := range []string{"error", "detail", "message"} {
			if msg, ok := payload[key].(string); ok && msg != "" {
				return msg
			}
		}
	}
	return strings.TrimSpace(string(raw))
}
