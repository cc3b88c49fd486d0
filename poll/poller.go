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


package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/notecall/backend"
	"github.com/poiesic/notecall/core"
)

const (
	// DefaultInterval is the fixed delay between status checks.
	DefaultInterval = 2 * time.Second
	// DefaultTimeout bounds a whole Wait call. Zero disables the deadline.
	DefaultTimeout = 10 * time.Minute
)

// ErrTransportRequired is returned when a backend transport is not provided.
var ErrTransportRequired = errors.New("backend transport required")

// Poller watches a source's processing status until it reaches a terminal
// state. The interval is fixed; there is no backoff.
type Poller struct {
	transport backend.Transport
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Poller.
type Option func(*Poller) error

// WithInterval sets the delay between status checks.
// Default is DefaultInterval.
func WithInterval(interval time.Duration) Option {
	return func(p *Poller) error {
		if interval <= 0 {
			return fmt.Errorf("poll interval must be positive, got %s", interval)
		}
		p.interval = interval
		return nil
	}
}

// WithTimeout bounds the total time Wait may spend on one source.
// A zero timeout disables the deadline; the context is then the only way
// to stop a source that never terminates.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Poller) error {
		if timeout < 0 {
			return fmt.Errorf("poll timeout cannot be negative, got %s", timeout)
		}
		p.timeout = timeout
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Poller) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPoller creates a new status poller over the given transport.
func NewPoller(transport backend.Transport, opts ...Option) (*Poller, error) {
	if transport == nil {
		return nil, ErrTransportRequired
	}

	p := &Poller{
		transport: transport,
		interval:  DefaultInterval,
		timeout:   DefaultTimeout,
		logger:    slog.Default().With("component", "poller"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Check fetches the current processing status of a source once.
func (p *Poller) Check(ctx context.Context, sourceID string) (*core.StatusReport, error) {
	if err := core.ValidateSourceID(sourceID); err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := p.transport.GetJSON(ctx, "/sources/"+sourceID+"/status", nil, &payload); err != nil {
		return nil, err
	}

	rawStatus, _ := payload["status"].(string)
	status, err := core.ParseSourceStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: backend reported %q for source %s", err, rawStatus, sourceID)
	}

	report := &core.StatusReport{
		SourceID: sourceID,
		Status:   status,
		Raw:      payload,
	}
	if info, ok := payload["processing_info"].(map[string]any); ok {
		report.ProcessingInfo = info
	}
	return report, nil
}

// Wait polls the source's status at the configured fixed interval until the
// backend reports a terminal state (complete or failed), then returns the
// final report.
//
// A backend error response ends the wait immediately with *core.BackendError.
// Transport errors are treated as transient and retried on the next tick.
// If the configured timeout elapses first, Wait fails with *core.TimeoutError
// carrying the last observed status; it never returns silently.
func (p *Poller) Wait(ctx context.Context, sourceID string) (*core.StatusReport, error) {
	if err := core.ValidateSourceID(sourceID); err != nil {
		return nil, err
	}

	start := time.Now()
	var lastStatus core.SourceStatus

	p.logger.Info("polling source status", "source", sourceID,
		"interval", p.interval, "timeout", p.timeout)

	for {
		report, err := p.Check(ctx, sourceID)
		switch {
		case err == nil:
			lastStatus = report.Status
			p.logger.Info("source status", "source", sourceID, "status", report.Status)
			if report.Status.IsTerminal() {
				return report, nil
			}
		case isBackendError(err):
			return nil, err
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			// Transient transport failure; keep polling until the deadline.
			p.logger.Warn("status check failed, will retry", "source", sourceID, "err", err)
		}

		if p.timeout > 0 && time.Since(start)+p.interval > p.timeout {
			return nil, &core.TimeoutError{
				SourceID:   sourceID,
				Elapsed:    time.Since(start),
				LastStatus: lastStatus,
			}
		}

		// Sleep with context awareness
		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func isBackendError(err error) bool {
	var backendErr *core.BackendError
	return errors.As(err, &backendErr)
}
