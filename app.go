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

// Package notecall is a thin client for a note-embedding backend. It
// registers documents with the backend, waits for them to be processed
// and embedded, and asks questions against the embedded content.
//
// The Application type wires the lower-level packages (upload, poll,
// query) behind one constructor; callers who need finer control can use
// those packages directly with a backend.Transport.
package notecall

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/notecall/backend"
	"github.com/poiesic/notecall/backend/rest"
	"github.com/poiesic/notecall/core"
	"github.com/poiesic/notecall/poll"
	"github.com/poiesic/notecall/query"
	"github.com/poiesic/notecall/upload"
)

// EmbedMode selects how TriggerEmbedding asks the backend to embed a
// source.
type EmbedMode string

const (
	// EmbedModeVectorize re-runs the full vectorization pipeline for a
	// source.
	EmbedModeVectorize EmbedMode = "vectorize_source"

	// EmbedModeSingleItem embeds one source as a single item without
	// re-chunking.
	EmbedModeSingleItem EmbedMode = "embed_single_item"
)

// backendApp is the application identifier the backend's job runner
// expects on command submissions.
const backendApp = "open_notebook"

// Application bundles an uploader, a status poller and a query client
// sharing one transport and one configuration.
type Application struct {
	config    *Config
	transport backend.Transport
	uploader  *upload.Uploader
	poller    *poll.Poller
	query     *query.Client
	logger    *slog.Logger
}

// ApplicationOption configures an Application.
type ApplicationOption func(*applicationOptions)

type applicationOptions struct {
	transport backend.Transport
	logger    *slog.Logger
}

// WithTransport replaces the HTTP transport built from the config.
// Intended for tests and for callers with custom transport needs.
func WithTransport(t backend.Transport) ApplicationOption {
	return func(o *applicationOptions) {
		o.transport = t
	}
}

// WithAppLogger sets the logger used by the Application and its
// components.
func WithAppLogger(logger *slog.Logger) ApplicationOption {
	return func(o *applicationOptions) {
		o.logger = logger
	}
}

// NewApplication builds an Application from cfg. A nil cfg gets the
// defaults. The config is normalized and validated before any component
// is constructed.
func NewApplication(cfg *Config, opts ...ApplicationOption) (*Application, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &applicationOptions{}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	transport := options.transport
	if transport == nil {
		var err error
		transport, err = rest.New(cfg.BaseURL, cfg.Timeout)
		if err != nil {
			return nil, err
		}
	}

	uploader, err := upload.NewUploader(transport, upload.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	poller, err := poll.NewPoller(transport,
		poll.WithInterval(cfg.PollInterval),
		poll.WithTimeout(cfg.PollTimeout),
		poll.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	queryClient, err := query.NewClient(transport,
		query.WithDefaultModel(cfg.ChatModel),
		query.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return &Application{
		config:    cfg,
		transport: transport,
		uploader:  uploader,
		poller:    poller,
		query:     queryClient,
		logger:    logger.With("component", "application"),
	}, nil
}

// Config returns the configuration the Application was built with.
func (a *Application) Config() *Config {
	return a.config
}

// Uploader returns the source registration client.
func (a *Application) Uploader() *upload.Uploader {
	return a.uploader
}

// Poller returns the status poller.
func (a *Application) Poller() *poll.Poller {
	return a.poller
}

// Query returns the question-answering client.
func (a *Application) Query() *query.Client {
	return a.query
}

// RegisterAndProcess submits a document to the backend. Exactly one of
// localPath and serverPath must be set: localPath uploads the file's
// bytes, serverPath registers a file already present on the backend
// host.
func (a *Application) RegisterAndProcess(ctx context.Context, localPath, serverPath string, opts ...upload.RequestOption) ([]*core.Source, error) {
	if err := core.ValidateRegisterPaths(localPath, serverPath); err != nil {
		return nil, err
	}
	if localPath != "" {
		return a.uploader.Upload(ctx, localPath, opts...)
	}
	return a.uploader.Reference(ctx, serverPath, opts...)
}

type commandJobRequest struct {
	Command string         `json:"command"`
	App     string         `json:"app"`
	Input   map[string]any `json:"input"`
}

// TriggerEmbedding submits an embedding job for an already-registered
// source and returns the backend's job acknowledgement.
func (a *Application) TriggerEmbedding(ctx context.Context, sourceID string, mode EmbedMode) (map[string]any, error) {
	if err := core.ValidateSourceID(sourceID); err != nil {
		return nil, err
	}

	req := commandJobRequest{Command: string(mode), App: backendApp}
	switch mode {
	case EmbedModeVectorize:
		req.Input = map[string]any{"source_id": sourceID}
	case EmbedModeSingleItem:
		req.Input = map[string]any{"item_id": sourceID, "item_type": "source"}
	default:
		return nil, fmt.Errorf("unknown embed mode %q", mode)
	}

	var out map[string]any
	if err := a.transport.PostJSON(ctx, "/commands/jobs", req, &out); err != nil {
		return nil, err
	}
	a.logger.Info("embedding job submitted", "source_id", sourceID, "mode", mode)
	return out, nil
}

// WaitForSource polls the backend until sourceID reaches a terminal
// state or the configured poll timeout expires.
func (a *Application) WaitForSource(ctx context.Context, sourceID string) (*core.StatusReport, error) {
	return a.poller.Wait(ctx, sourceID)
}

// AskWithSources asks a question scoped to the given sources. With no
// sources it falls back to a corpus-wide simple ask.
func (a *Application) AskWithSources(ctx context.Context, question string, sourceIDs []string, opts ...query.AskOption) (*core.Answer, error) {
	return a.query.Ask(ctx, question, sourceIDs, opts...)
}

// NotebookAsk asks a question through the notebook chat pipeline, which
// gives the model the source's full content as context.
func (a *Application) NotebookAsk(ctx context.Context, sourceID, message string, opts ...query.NotebookOption) (*core.NotebookResult, error) {
	return a.query.NotebookAsk(ctx, sourceID, message, opts...)
}

// Run executes the end-to-end flow for one document: make sure filePath
// is registered and fully processed, then ask question against it.
// Already-registered and already-embedded documents skip straight to
// the question.
func (a *Application) Run(ctx context.Context, filePath, question string) (*core.Answer, error) {
	if err := core.ValidateQuestion(question); err != nil {
		return nil, err
	}

	source, err := a.ensureSource(ctx, filePath)
	if err != nil {
		return nil, err
	}

	answer, err := a.query.Ask(ctx, question, []string{source.ID})
	if err != nil {
		return nil, fmt.Errorf("query stage: %w", err)
	}
	return answer, nil
}

// ensureSource returns a processed source for filePath, uploading and
// polling as needed.
func (a *Application) ensureSource(ctx context.Context, filePath string) (*core.Source, error) {
	existing, err := a.uploader.Find(ctx, filePath)
	if err == nil && existing.Embedded {
		a.logger.Info("source already embedded", "source_id", existing.ID)
		return existing, nil
	}

	var sourceID string
	if err == nil {
		// Registered but not embedded yet; just wait for it.
		sourceID = existing.ID
	} else {
		sources, err := a.uploader.Upload(ctx, filePath)
		if err != nil {
			return nil, fmt.Errorf("upload stage: %w", err)
		}
		if len(sources) == 0 {
			return nil, fmt.Errorf("upload stage: %w", upload.ErrSourceNotFound)
		}
		sourceID = sources[0].ID
	}

	report, err := a.poller.Wait(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("poll stage: %w", err)
	}
	if report.Status == core.StatusFailed {
		return nil, fmt.Errorf("poll stage: source %s failed processing", sourceID)
	}
	return &core.Source{ID: sourceID, Status: string(report.Status)}, nil
}
