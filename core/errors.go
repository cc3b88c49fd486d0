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


package core

import (
	"errors"
	"fmt"
	"time"
)

// Domain validation errors
var (
	// ErrInvalidStatus indicates a status value the backend vocabulary does not define.
	ErrInvalidStatus = errors.New("invalid source status")

	// ErrEmptySourceID indicates a source ID was required but empty.
	ErrEmptySourceID = errors.New("source id cannot be empty")

	// ErrEmptyQuestion indicates an empty question string.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrEmptyFilePath indicates an empty file path.
	ErrEmptyFilePath = errors.New("file path cannot be empty")

	// ErrBothPathsProvided indicates both a local and a server path were given.
	ErrBothPathsProvided = errors.New("provide either a local path or a server path, not both")

	// ErrNoPathProvided indicates neither a local nor a server path was given.
	ErrNoPathProvided = errors.New("either a local path or a server path is required")
)

// TransportError indicates a network call could not complete at all.
// The backend was never reached, or the connection broke mid-request.
type TransportError struct {
	Op  string // "POST /sources", "GET /sources/{id}/status", ...
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BackendError indicates the backend answered with a non-success status.
// Message preserves the backend's own error text verbatim.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend: status %d: %s", e.StatusCode, e.Message)
}

// TimeoutError indicates the poller gave up before observing a terminal status.
type TimeoutError struct {
	SourceID   string
	Elapsed    time.Duration
	LastStatus SourceStatus // last status observed before the deadline, if any
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for source %s after %s (last status %q)",
		e.SourceID, e.Elapsed.Round(time.Millisecond), e.LastStatus)
}
