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
	"fmt"
	"strings"
)

// ValidateSourceID validates a backend source identifier.
// IDs are opaque strings assigned by the backend; the only local rule
// is that they must not be blank.
func ValidateSourceID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptySourceID
	}
	return nil
}

// ValidateQuestion validates a question string before it is sent to the backend.
func ValidateQuestion(question string) error {
	if strings.TrimSpace(question) == "" {
		return ErrEmptyQuestion
	}
	return nil
}

// ValidateRegisterPaths enforces the register contract: exactly one of
// localPath (a file to upload) or serverPath (a file already on the server)
// must be provided.
func ValidateRegisterPaths(localPath, serverPath string) error {
	local := strings.TrimSpace(localPath) != ""
	server := strings.TrimSpace(serverPath) != ""

	switch {
	case local && server:
		return ErrBothPathsProvided
	case !local && !server:
		return ErrNoPathProvided
	}
	return nil
}

// ValidateSource validates a source record returned by the backend.
//
// Validation rules:
//   - ID must not be empty
//   - Status, if present, must parse to a known value
//
// NOT validated (optional backend fields):
//   - Title, asset paths, timestamps
func ValidateSource(source *Source) error {
	if source == nil {
		return fmt.Errorf("%w: source is nil", ErrEmptySourceID)
	}

	if err := ValidateSourceID(source.ID); err != nil {
		return err
	}

	if source.Status != "" {
		if _, err := ParseSourceStatus(source.Status); err != nil {
			return fmt.Errorf("%w: %q", err, source.Status)
		}
	}

	return nil
}
