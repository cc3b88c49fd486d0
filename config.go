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

package notecall

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config validation errors.
var (
	ErrBaseURLRequired     = errors.New("base URL is required")
	ErrInvalidTimeout      = errors.New("request timeout must be greater than zero")
	ErrInvalidPollInterval = errors.New("poll interval must be greater than zero")
	ErrNegativePollTimeout = errors.New("poll timeout must not be negative")
)

const (
	// DefaultBaseURL points at a backend running on the same machine.
	DefaultBaseURL = "http://localhost:5055/api"

	// DefaultTimeout bounds each individual HTTP request.
	DefaultTimeout = 60 * time.Second

	// DefaultPollInterval is the delay between status checks while a
	// source is being processed.
	DefaultPollInterval = 2 * time.Second

	// DefaultPollTimeout bounds a whole status-polling loop.
	DefaultPollTimeout = 10 * time.Minute
)

// Config holds connection settings for the backend plus optional model
// overrides. Model fields left empty fall back to whatever the backend
// reports as its defaults.
type Config struct {
	// BaseURL is the backend API root, including the /api prefix.
	BaseURL string

	// Timeout bounds each individual HTTP request.
	Timeout time.Duration

	// PollInterval is the fixed delay between status checks.
	PollInterval time.Duration

	// PollTimeout bounds a status-polling loop end to end. Zero
	// disables the deadline; the caller's context still applies.
	PollTimeout time.Duration

	// EmbeddingModel overrides the backend's default embedding model.
	EmbeddingModel string

	// ChatModel overrides the backend's default chat model.
	ChatModel string

	// TransformationModel overrides the model used for query
	// transformation strategies.
	TransformationModel string

	// LargeContextModel overrides the model used for large-context
	// summarization jobs.
	LargeContextModel string

	// TextToSpeechModel overrides the backend's default TTS model.
	TextToSpeechModel string

	// SpeechToTextModel overrides the backend's default STT model.
	SpeechToTextModel string

	// ToolsModel overrides the model used for tool-calling flows.
	ToolsModel string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the backend API root.
func WithBaseURL(baseURL string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = baseURL
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithPollInterval sets the delay between status checks.
func WithPollInterval(interval time.Duration) ConfigOption {
	return func(c *Config) {
		c.PollInterval = interval
	}
}

// WithPollTimeout sets the overall polling deadline. Zero disables it.
func WithPollTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.PollTimeout = timeout
	}
}

// WithEmbeddingModel overrides the backend's default embedding model.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithChatModel overrides the backend's default chat model.
func WithChatModel(model string) ConfigOption {
	return func(c *Config) {
		c.ChatModel = model
	}
}

// WithTransformationModel overrides the query-transformation model.
func WithTransformationModel(model string) ConfigOption {
	return func(c *Config) {
		c.TransformationModel = model
	}
}

// WithLargeContextModel overrides the large-context model.
func WithLargeContextModel(model string) ConfigOption {
	return func(c *Config) {
		c.LargeContextModel = model
	}
}

// WithTextToSpeechModel overrides the text-to-speech model.
func WithTextToSpeechModel(model string) ConfigOption {
	return func(c *Config) {
		c.TextToSpeechModel = model
	}
}

// WithSpeechToTextModel overrides the speech-to-text model.
func WithSpeechToTextModel(model string) ConfigOption {
	return func(c *Config) {
		c.SpeechToTextModel = model
	}
}

// WithToolsModel overrides the tool-calling model.
func WithToolsModel(model string) ConfigOption {
	return func(c *Config) {
		c.ToolsModel = model
	}
}

// DefaultConfig returns a Config pointed at a local backend with the
// standard timeouts.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      DefaultBaseURL,
		Timeout:      DefaultTimeout,
		PollInterval: DefaultPollInterval,
		PollTimeout:  DefaultPollTimeout,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// ConfigFromEnv builds a Config from NOTECALL_* environment variables,
// loading a .env file from the working directory first when present.
//
// Recognized variables:
//
//	NOTECALL_BASE_URL
//	NOTECALL_TIMEOUT         (Go duration, e.g. "90s")
//	NOTECALL_POLL_INTERVAL   (Go duration)
//	NOTECALL_POLL_TIMEOUT    (Go duration, "0" disables)
//	NOTECALL_EMBEDDING_MODEL
//	NOTECALL_CHAT_MODEL
//	NOTECALL_TRANSFORMATION_MODEL
//	NOTECALL_LARGE_CONTEXT_MODEL
//	NOTECALL_TTS_MODEL
//	NOTECALL_STT_MODEL
//	NOTECALL_TOOLS_MODEL
func ConfigFromEnv() (*Config, error) {
	// Missing .env files are fine; explicit env vars still apply.
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if v := os.Getenv("NOTECALL_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("NOTECALL_EMBEDDING_MODEL"); v != "" {
		cfg.EmbeddingModel = v
	}
	if v := os.Getenv("NOTECALL_CHAT_MODEL"); v != "" {
		cfg.ChatModel = v
	}
	if v := os.Getenv("NOTECALL_TRANSFORMATION_MODEL"); v != "" {
		cfg.TransformationModel = v
	}
	if v := os.Getenv("NOTECALL_LARGE_CONTEXT_MODEL"); v != "" {
		cfg.LargeContextModel = v
	}
	if v := os.Getenv("NOTECALL_TTS_MODEL"); v != "" {
		cfg.TextToSpeechModel = v
	}
	if v := os.Getenv("NOTECALL_STT_MODEL"); v != "" {
		cfg.SpeechToTextModel = v
	}
	if v := os.Getenv("NOTECALL_TOOLS_MODEL"); v != "" {
		cfg.ToolsModel = v
	}

	durations := []struct {
		name   string
		target *time.Duration
	}{
		{"NOTECALL_TIMEOUT", &cfg.Timeout},
		{"NOTECALL_POLL_INTERVAL", &cfg.PollInterval},
		{"NOTECALL_POLL_TIMEOUT", &cfg.PollTimeout},
	}
	for _, d := range durations {
		v := os.Getenv(d.name)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", d.name, err)
		}
		*d.target = parsed
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize ensures the configuration is in a canonical form: the base
// URL loses any trailing slash so paths can be joined predictably.
func (c *Config) Normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
}

// Validate reports the first configuration problem found, or nil.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrBaseURLRequired
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.PollInterval <= 0 {
		return ErrInvalidPollInterval
	}
	if c.PollTimeout < 0 {
		return ErrNegativePollTimeout
	}
	return nil
}
