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


package upload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/poiesic/notecall/backend"
	"github.com/poiesic/notecall/core"
)

// Uploader registers PDF documents with the backend, either by uploading a
// local file or by referencing a file already present on the server.
type Uploader struct {
	transport backend.Transport
	logger    *slog.Logger
}

// Option configures an Uploader.
type Option func(*Uploader) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(u *Uploader) error {
		if logger == nil {
			logger = slog.Default()
		}
		u.logger = logger
		return nil
	}
}

// NewUploader creates a new uploader over the given transport.
func NewUploader(transport backend.Transport, opts ...Option) (*Uploader, error) {
	if transport == nil {
		return nil, ErrTransportRequired
	}

	u := &Uploader{
		transport: transport,
		logger:    slog.Default().With("component", "uploader"),
	}

	for _, opt := range opts {
		if err := opt(u); err != nil {
			return nil, err
		}
	}

	return u, nil
}

// requestOptions carries the per-request upload settings.
// Embedding and asynchronous processing default to on, matching the backend.
type requestOptions struct {
	title     string
	notebooks []string
	embed     bool
	async     bool
}

// RequestOption configures a single upload or reference request.
type RequestOption func(*requestOptions)

// WithTitle overrides the source title (default: the file's basename).
func WithTitle(title string) RequestOption {
	return func(o *requestOptions) { o.title = title }
}

// WithNotebooks attaches the new source to the given notebook IDs.
func WithNotebooks(ids ...string) RequestOption {
	return func(o *requestOptions) { o.notebooks = ids }
}

// WithoutEmbedding registers the source without triggering the embedding job.
func WithoutEmbedding() RequestOption {
	return func(o *requestOptions) { o.embed = false }
}

// WithSyncProcessing asks the backend to process the source synchronously
// instead of scheduling a background job.
func WithSyncProcessing() RequestOption {
	return func(o *requestOptions) { o.async = false }
}

func buildRequestOptions(opts []RequestOption) requestOptions {
	o := requestOptions{embed: true, async: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// referenceRequest is the JSON payload for registering a server-side file.
type referenceRequest struct {
	Type            string   `json:"type"`
	Title           string   `json:"title"`
	FilePath        string   `json:"file_path"`
	Embed           bool     `json:"embed"`
	AsyncProcessing bool     `json:"async_processing"`
	Notebooks       []string `json:"notebooks,omitempty"`
}

// Upload submits a local file to POST /sources as a multipart request and
// returns the created source records.
//
// If a source already exists for the file (matched by title, including
// server-added duplicate suffixes), the upload is skipped and the existing
// source is returned.
func (u *Uploader) Upload(ctx context.Context, filePath string, opts ...RequestOption) ([]*core.Source, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, core.ErrEmptyFilePath
	}

	o := buildRequestOptions(opts)
	title := o.title
	if title == "" {
		title = filepath.Base(filePath)
	}

	existing, err := u.Find(ctx, title)
	if err == nil {
		u.logger.Info("source already exists, skipping upload", "title", title, "id", existing.ID)
		return []*core.Source{existing}, nil
	}
	if !errors.Is(err, ErrSourceNotFound) {
		return nil, fmt.Errorf("check for existing source: %w", err)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filePath, err)
	}
	defer file.Close()

	fields := map[string]string{
		"type":             "upload",
		"title":            title,
		"embed":            strconv.FormatBool(o.embed),
		"async_processing": strconv.FormatBool(o.async),
	}
	if len(o.notebooks) > 0 {
		notebooks, err := json.Marshal(o.notebooks)
		if err != nil {
			return nil, fmt.Errorf("encode notebooks: %w", err)
		}
		fields["notebooks"] = string(notebooks)
	}

	u.logger.Info("uploading file", "path", filePath, "title", title, "async", o.async)

	var payload any
	if err := u.transport.PostMultipart(ctx, "/sources", fields, "file", title, file, &payload); err != nil {
		return nil, err
	}

	return normalizeSources(payload), nil
}

// Reference creates a source record pointing at a file already present in the
// server's uploads folder, avoiding a re-upload.
func (u *Uploader) Reference(ctx context.Context, serverPath string, opts ...RequestOption) ([]*core.Source, error) {
	if strings.TrimSpace(serverPath) == "" {
		return nil, core.ErrEmptyFilePath
	}

	o := buildRequestOptions(opts)
	title := o.title
	if title == "" {
		title = filepath.Base(serverPath)
	}

	req := referenceRequest{
		Type:            "upload",
		Title:           title,
		FilePath:        serverPath,
		Embed:           o.embed,
		AsyncProcessing: o.async,
		Notebooks:       o.notebooks,
	}

	u.logger.Info("registering server file", "path", serverPath, "async", o.async)

	var payload any
	if err := u.transport.PostJSON(ctx, "/sources", req, &payload); err != nil {
		return nil, err
	}

	return normalizeSources(payload), nil
}

// List returns all source records known to the backend.
func (u *Uploader) List(ctx context.Context) ([]*core.Source, error) {
	return u.list(ctx, "")
}

// ListNotebook returns the source records linked to one notebook.
func (u *Uploader) ListNotebook(ctx context.Context, notebookID string) ([]*core.Source, error) {
	return u.list(ctx, notebookID)
}

func (u *Uploader) list(ctx context.Context, notebookID string) ([]*core.Source, error) {
	var query url.Values
	if notebookID != "" {
		query = url.Values{"notebook_id": []string{notebookID}}
	}

	var payload any
	if err := u.transport.GetJSON(ctx, "/sources", query, &payload); err != nil {
		return nil, err
	}
	return normalizeSources(payload), nil
}

// Find returns the best-matching source for a filename or path, or
// ErrSourceNotFound when nothing matches.
//
// Match preference, strongest first:
//  1. exact asset file path
//  2. basename of the asset file path (case-insensitive)
//  3. exact title (case-insensitive)
//  4. title with server duplicate suffix stripped, e.g. "report (5).pdf"
//
// Among equal matches the most recently updated source wins.
func (u *Uploader) Find(ctx context.Context, filenameOrPath string) (*core.Source, error) {
	candidates, err := u.List(ctx)
	if err != nil {
		return nil, err
	}

	target := filenameOrPath
	targetBase := strings.ToLower(filepath.Base(strings.ReplaceAll(target, `\`, `/`)))
	targetNormalized := normalizeFilename(target)

	u.logger.Debug("looking for source", "target", target, "normalized", targetNormalized)

	var exact, basename, normalized []*core.Source
	for _, s := range candidates {
		switch {
		case s.AssetFilePath != "" && s.AssetFilePath == target:
			exact = append(exact, s)
		case s.AssetFilePath != "" && strings.ToLower(filepath.Base(s.AssetFilePath)) == targetBase:
			basename = append(basename, s)
		case s.Title != "" && strings.ToLower(s.Title) == targetBase:
			basename = append(basename, s)
		case s.Title != "" && normalizeFilename(s.Title) == targetNormalized:
			normalized = append(normalized, s)
		}
	}

	matches := exact
	if len(matches) == 0 {
		matches = basename
	}
	if len(matches) == 0 {
		matches = normalized
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, target)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return recency(matches[i]) > recency(matches[j])
	})

	u.logger.Debug("selected source", "title", matches[0].Title, "id", matches[0].ID)
	return matches[0], nil
}

// Exists reports whether a source already exists for the given filename.
func (u *Uploader) Exists(ctx context.Context, filename string) (bool, error) {
	_, err := u.Find(ctx, filename)
	if errors.Is(err, ErrSourceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SourceID returns the ID of the best-matching source for a filename.
func (u *Uploader) SourceID(ctx context.Context, filename string) (string, error) {
	src, err := u.Find(ctx, filename)
	if err != nil {
		return "", err
	}
	return src.ID, nil
}

func recency(s *core.Source) string {
	if s.Updated != "" {
		return s.Updated
	}
	return s.Created
}
