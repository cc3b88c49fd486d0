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


package query

import (
	"context"
	"log/slog"

	"github.com/poiesic/notecall/backend"
	"github.com/poiesic/notecall/core"
)

// Client queries the backend's search and ask APIs using embedded documents.
type Client struct {
	transport    backend.Transport
	defaultModel string
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithDefaultModel sets a model ID used when a call has no explicit override
// and the backend reports no default.
func WithDefaultModel(model string) Option {
	return func(c *Client) error {
		c.defaultModel = model
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewClient creates a new query client over the given transport.
func NewClient(transport backend.Transport, opts ...Option) (*Client, error) {
	if transport == nil {
		return nil, ErrTransportRequired
	}

	c := &Client{
		transport: transport,
		logger:    slog.Default().With("component", "query-client"),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// DefaultModels fetches the backend's configured default model IDs.
func (c *Client) DefaultModels(ctx context.Context) (*core.DefaultModels, error) {
	var models core.DefaultModels
	if err := c.transport.GetJSON(ctx, "/models/defaults", nil, &models); err != nil {
		return nil, err
	}
	return &models, nil
}

// fetchDefaults is the best-effort variant used inside ask flows: a backend
// without configured defaults should not fail the question.
func (c *Client) fetchDefaults(ctx context.Context) *core.DefaultModels {
	models, err := c.DefaultModels(ctx)
	if err != nil {
		c.logger.Warn("unable to fetch default models, proceeding without", "err", err)
		return &core.DefaultModels{}
	}
	return models
}
